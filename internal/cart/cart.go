package cart

import (
	"strconv"
	"strings"
	"sync"

	"storefront/internal/models"
)

// Manager holds one in-memory cart per shopper session. Carts are
// ephemeral: there is no persistence, a restart discards them. A single
// session mutates only its own cart, the mutex serializes concurrent
// HTTP requests over the shared map.
type Manager struct {
	mu    sync.RWMutex
	carts map[string][]models.CartItem
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string][]models.CartItem)}
}

// AddItem inserts the item into the session's cart. If a line with the
// same product id already exists its quantity is incremented by
// item.Quantity; otherwise the item is appended at the end. Existing
// line order is preserved either way.
func (m *Manager) AddItem(sessionID string, item models.CartItem) []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.carts[sessionID]
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			return snapshot(items)
		}
	}

	items = append(items, item)
	m.carts[sessionID] = items
	return snapshot(items)
}

// UpdateQuantity replaces the quantity of the matching line. The caller
// is responsible for clamping quantity to [1,10]; no re-validation here.
// Unknown product ids are ignored.
func (m *Manager) UpdateQuantity(sessionID string, productID, quantity int) []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.carts[sessionID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	return snapshot(items)
}

// RemoveItem deletes the matching line; no-op when absent.
func (m *Manager) RemoveItem(sessionID string, productID int) []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.carts[sessionID]
	for i := range items {
		if items[i].ProductID == productID {
			items = append(items[:i], items[i+1:]...)
			m.carts[sessionID] = items
			break
		}
	}
	return snapshot(items)
}

// Items returns a copy of the session's cart lines.
func (m *Manager) Items(sessionID string) []models.CartItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return snapshot(m.carts[sessionID])
}

// Clear empties the session's cart.
func (m *Manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}

func snapshot(items []models.CartItem) []models.CartItem {
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

const (
	freeShippingAbove = 499
	shippingFee       = 40
)

// Totals is the computed price summary of a cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// ComputeTotals recomputes the summary from scratch on every call; items
// mutate between calls, so nothing is cached. Shipping is free strictly
// above ₹499, else a flat ₹40.
func ComputeTotals(items []models.CartItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += parseAmount(item.Price) * float64(item.Quantity)
	}

	t := Totals{Subtotal: subtotal}
	if subtotal <= freeShippingAbove {
		t.Shipping = shippingFee
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}

// parseAmount strips the currency symbol and thousands separators from a
// display price. An unparsable price contributes nothing to the subtotal.
func parseAmount(price string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, price)

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
