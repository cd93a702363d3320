package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

const session = "session-1"

func TestAddItemIncrementsExistingLine(t *testing.T) {
	m := NewManager()

	m.AddItem(session, models.CartItem{ProductID: 1, Name: "Pencil Pack", Price: "₹50", Quantity: 1})
	items := m.AddItem(session, models.CartItem{ProductID: 1, Name: "Pencil Pack", Price: "₹50", Quantity: 2})

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddItemAppendsNewLinesInOrder(t *testing.T) {
	m := NewManager()

	m.AddItem(session, models.CartItem{ProductID: 1, Quantity: 1})
	m.AddItem(session, models.CartItem{ProductID: 2, Quantity: 1})
	items := m.AddItem(session, models.CartItem{ProductID: 1, Quantity: 1})

	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].ProductID)
	assert.Equal(t, 2, items[1].ProductID)
}

func TestUpdateQuantityReplaces(t *testing.T) {
	m := NewManager()
	m.AddItem(session, models.CartItem{ProductID: 1, Quantity: 2})

	items := m.UpdateQuantity(session, 1, 7)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	m := NewManager()
	m.AddItem(session, models.CartItem{ProductID: 1, Quantity: 2})

	items := m.UpdateQuantity(session, 99, 5)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	m := NewManager()
	m.AddItem(session, models.CartItem{ProductID: 1, Quantity: 1})
	m.AddItem(session, models.CartItem{ProductID: 2, Quantity: 1})

	items := m.RemoveItem(session, 1)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].ProductID)

	// Removing an absent id is a no-op.
	items = m.RemoveItem(session, 42)
	assert.Len(t, items, 1)
}

func TestSessionsAreIsolated(t *testing.T) {
	m := NewManager()
	m.AddItem("a", models.CartItem{ProductID: 1, Quantity: 1})

	assert.Empty(t, m.Items("b"))
	assert.Len(t, m.Items("a"), 1)
}

func TestClear(t *testing.T) {
	m := NewManager()
	m.AddItem(session, models.CartItem{ProductID: 1, Quantity: 1})

	m.Clear(session)
	assert.Empty(t, m.Items(session))
}

func TestComputeTotalsShippingBoundary(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.CartItem
		wantSubtotal float64
		wantShipping float64
		wantTotal    float64
	}{
		{
			name:         "subtotal 499 pays shipping",
			items:        []models.CartItem{{ProductID: 1, Price: "₹499", Quantity: 1}},
			wantSubtotal: 499,
			wantShipping: 40,
			wantTotal:    539,
		},
		{
			name:         "subtotal 500 ships free",
			items:        []models.CartItem{{ProductID: 1, Price: "₹500", Quantity: 1}},
			wantSubtotal: 500,
			wantShipping: 0,
			wantTotal:    500,
		},
		{
			name:         "two pencil packs at 250",
			items:        []models.CartItem{{ProductID: 1, Price: "₹250", Quantity: 2}},
			wantSubtotal: 500,
			wantShipping: 0,
			wantTotal:    500,
		},
		{
			name: "thousands separator parsed",
			items: []models.CartItem{
				{ProductID: 1, Price: "₹1,299", Quantity: 1},
				{ProductID: 2, Price: "₹50", Quantity: 2},
			},
			wantSubtotal: 1399,
			wantShipping: 0,
			wantTotal:    1399,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTotals(tt.items)
			assert.Equal(t, tt.wantSubtotal, got.Subtotal)
			assert.Equal(t, tt.wantShipping, got.Shipping)
			assert.Equal(t, tt.wantTotal, got.Total)
		})
	}
}

func TestComputeTotalsUnparsablePriceContributesNothing(t *testing.T) {
	got := ComputeTotals([]models.CartItem{
		{ProductID: 1, Price: "free", Quantity: 3},
		{ProductID: 2, Price: "₹600", Quantity: 1},
	})
	assert.Equal(t, 600.0, got.Subtotal)
	assert.Equal(t, 0.0, got.Shipping)
}
