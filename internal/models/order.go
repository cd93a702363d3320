package models

import "time"

type OrderStatus string

const (
	// OrderStatusPlaced is the initial and default status of every order.
	OrderStatusPlaced OrderStatus = "Placed"
	// OrderStatusCancelled is terminal; no transition leads out of it.
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Address is the delivery address captured at checkout.
type Address struct {
	FullName string `json:"full_name" validate:"required"`
	Mobile   string `json:"mobile" validate:"required,len=10,numeric"`
	Pincode  string `json:"pincode" validate:"required"`
	Address  string `json:"address" validate:"required"`
	Locality string `json:"locality,omitempty"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state,omitempty"`
}

// Order is an immutable snapshot of a cart at placement time. Once written
// it is append-only: cancellation updates status and reason, nothing else.
type Order struct {
	OrderID            string      `json:"order_id"`
	Email              string      `json:"email,omitempty"`
	Items              []CartItem  `json:"items"`
	Address            Address     `json:"address"`
	PaymentMethod      string      `json:"payment_method"`
	Subtotal           float64     `json:"subtotal"`
	Shipping           float64     `json:"shipping"`
	Total              float64     `json:"total"`
	Status             OrderStatus `json:"status"`
	CancellationReason string      `json:"cancellation_reason,omitempty"`
	PlacedAt           time.Time   `json:"placed_at"`
}
