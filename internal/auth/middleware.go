package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

// FromContext returns the identity attached by Middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(contextKey{}).(Identity)
	return ident, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// Middleware resolves an optional bearer token into an identity on the
// request context. Requests without a token, or with one that fails
// verification, pass through unauthenticated; handlers that need an
// identity enforce it themselves.
func Middleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if ident, err := v.Verify(r.Context(), token); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), contextKey{}, ident))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards the admin panel: a verified identity whose email
// matches the shop owner's. Everything else gets 401/403.
func RequireAdmin(v Verifier, adminEmail string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			ident, err := v.Verify(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if ident.Email == "" || ident.Email != adminEmail {
				http.Error(w, "admin access required", http.StatusForbidden)
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), contextKey{}, ident))
			next.ServeHTTP(w, r)
		})
	}
}
