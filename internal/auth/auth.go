package auth

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid auth token")

// Identity is the slice of the auth provider's user the storefront cares
// about: whether someone is signed in and what their email is.
type Identity struct {
	UID   string
	Email string
}

// Verifier resolves a bearer token to an identity. The concrete provider
// stays behind this boundary; the rest of the code never imports it.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// StaticVerifier maps fixed tokens to identities. Used in tests and when
// no provider credentials are configured.
type StaticVerifier map[string]Identity

func (v StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	ident, ok := v[token]
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	return ident, nil
}
