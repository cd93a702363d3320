package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/models"
)

// The repositories are shared by concurrent handlers, so they are built
// on a pgxpool.Pool rather than a single serialized connection. The nil
// pool below also pins that input validation runs before any database
// access.
func newNilPoolRepos() (ProductRepository, OrderRepository) {
	var pool *pgxpool.Pool
	return NewProductRepository(pool), NewOrderRepository(pool)
}

func TestProductValidationRejectsBeforeDBAccess(t *testing.T) {
	products, _ := newNilPoolRepos()
	ctx := context.Background()

	_, err := products.GetByID(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = products.GetByCategory(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = products.Delete(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	tests := []struct {
		name    string
		product models.Product
	}{
		{"missing name", models.Product{Price: "₹50", Category: "Toys"}},
		{"unparsable price", models.Product{Name: "Pencil Pack", Price: "free", Category: "Stationary"}},
		{"missing category", models.Product{Name: "Pencil Pack", Price: "₹50"}},
		{"rating out of range", models.Product{Name: "Pencil Pack", Price: "₹50", Category: "Stationary", Rating: 5.5}},
		{"negative reviews", models.Product{Name: "Pencil Pack", Price: "₹50", Category: "Stationary", Reviews: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.product
			assert.ErrorIs(t, products.Create(ctx, &p), ErrInvalidInput)

			p.ProductID = 1
			assert.ErrorIs(t, products.Update(ctx, &p), ErrInvalidInput)
		})
	}
}

func TestOrderValidationRejectsBeforeDBAccess(t *testing.T) {
	_, orders := newNilPoolRepos()
	ctx := context.Background()

	require.ErrorIs(t, orders.Create(ctx, nil), ErrInvalidInput)

	err := orders.Create(ctx, &models.Order{OrderID: "ord-1"})
	assert.ErrorIs(t, err, ErrInvalidInput, "order without items")

	err = orders.Create(ctx, &models.Order{
		OrderID: "ord-1",
		Items:   []models.CartItem{{ProductID: 1, Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "non-positive quantity")

	_, err = orders.GetByID(ctx, "  ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, orders.Cancel(ctx, "", "reason"), ErrInvalidInput)
	assert.ErrorIs(t, orders.Cancel(ctx, "ord-1", "   "), ErrInvalidInput)
}
