package repository

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input data")
	ErrOrderCancelled = errors.New("order already cancelled")
)
