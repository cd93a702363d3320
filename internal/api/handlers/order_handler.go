package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"storefront/internal/auth"
	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type OrderHandler struct {
	checkout *checkout.Service
	orders   repository.OrderRepository
}

func NewOrderHandler(svc *checkout.Service, orders repository.OrderRepository) *OrderHandler {
	return &OrderHandler{checkout: svc, orders: orders}
}

type CheckoutRequest struct {
	Address       models.Address `json:"address"`
	PaymentMethod string         `json:"payment_method"`
}

// Checkout places the order for the session's cart. Requires a verified
// identity on the request; without one the transition is blocked and the
// client is told to sign in.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	ident, _ := auth.FromContext(r.Context())

	var req CheckoutRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	order, err := h.checkout.Checkout(r.Context(), id, ident.Email, req.Address, req.PaymentMethod)
	if err != nil {
		var verr validator.ValidationErrors
		switch {
		case errors.Is(err, checkout.ErrNotSignedIn):
			writeError(w, http.StatusUnauthorized, "sign_in_required", "sign in to place an order", nil)
		case errors.Is(err, checkout.ErrEmptyCart):
			writeError(w, http.StatusBadRequest, "empty_cart", "cart is empty", nil)
		case errors.Is(err, checkout.ErrInvalidPayment):
			writeError(w, http.StatusBadRequest, "invalid_payment", err.Error(), nil)
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, "invalid_address", "delivery address is incomplete", verr.Error())
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to place order", nil)
		}
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// ListOrders serves the admin order history, oldest first.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get orders", nil)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req CancelOrderRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}

	order, err := h.checkout.Cancel(r.Context(), orderID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyReason):
			writeError(w, http.StatusBadRequest, "reason_required", "cancellation reason required", nil)
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "order not found", nil)
		case errors.Is(err, repository.ErrOrderCancelled):
			writeError(w, http.StatusConflict, "already_cancelled", "order is already cancelled", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to cancel order", nil)
		}
		return
	}

	writeJSON(w, http.StatusOK, order)
}
