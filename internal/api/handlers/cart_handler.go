package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/repository"
)

const (
	sessionHeader = "X-Session-ID"
	minQuantity   = 1
	maxQuantity   = 10
)

type CartHandler struct {
	carts    *cart.Manager
	products repository.ProductRepository
}

func NewCartHandler(carts *cart.Manager, products repository.ProductRepository) *CartHandler {
	return &CartHandler{carts: carts, products: products}
}

// CartView is the cart plus its freshly computed totals. Totals are
// never stored, only derived.
type CartView struct {
	Items []models.CartItem `json:"items"`
	cart.Totals
}

func cartView(items []models.CartItem) CartView {
	return CartView{Items: items, Totals: cart.ComputeTotals(items)}
}

func sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing_session", "X-Session-ID header is required", nil)
		return "", false
	}
	return id, true
}

type AddToCartRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func validQuantity(q int) bool {
	return q >= minQuantity && q <= maxQuantity
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, cartView(h.carts.Items(id)))
}

// AddItem adds a product to the session's cart, denormalizing the
// product fields the cart needs. The requested quantity is clamped to
// [1,10] here; the cart manager trusts its callers.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}
	if !validQuantity(req.Quantity) {
		writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 10", nil)
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "not_found", "product not found", nil)
		case errors.Is(err, repository.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error(), nil)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to get product", nil)
		}
		return
	}

	items := h.carts.AddItem(id, models.CartItem{
		ProductID: product.ProductID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     product.Image,
		Quantity:  req.Quantity,
	})

	writeJSON(w, http.StatusOK, cartView(items))
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(chi.URLParam(r, "product_id"))
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id", nil)
		return
	}

	var req UpdateCartItemRequest
	if ok := decodeJSON(w, r, &req); !ok {
		return
	}
	if !validQuantity(req.Quantity) {
		writeError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 10", nil)
		return
	}

	items := h.carts.UpdateQuantity(id, productID, req.Quantity)
	writeJSON(w, http.StatusOK, cartView(items))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(chi.URLParam(r, "product_id"))
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid product id", nil)
		return
	}

	items := h.carts.RemoveItem(id, productID)
	writeJSON(w, http.StatusOK, cartView(items))
}
