package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/models"
)

type orderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepository {
	return &orderRepo{db: db}
}

// Create appends the order and its item snapshot in one transaction.
// Orders are append-only; nothing here ever deletes them.
func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("%w: order cannot be nil", ErrInvalidInput)
	}
	if order.OrderID == "" {
		return fmt.Errorf("%w: order id required", ErrInvalidInput)
	}
	if len(order.Items) == 0 {
		return fmt.Errorf("%w: order must have items", ErrInvalidInput)
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: product id cannot be empty", ErrInvalidInput)
		}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insert := `INSERT INTO orders (
		order_id,
		email,
		full_name,
		mobile,
		pincode,
		address,
		locality,
		city,
		state,
		payment_method,
		subtotal,
		shipping,
		total,
		status,
		cancellation_reason,
		placed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = tx.Exec(ctx, insert,
		order.OrderID,
		order.Email,
		order.Address.FullName,
		order.Address.Mobile,
		order.Address.Pincode,
		order.Address.Address,
		order.Address.Locality,
		order.Address.City,
		order.Address.State,
		order.PaymentMethod,
		order.Subtotal,
		order.Shipping,
		order.Total,
		string(order.Status),
		order.CancellationReason,
		order.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range order.Items {
		insertItemSQL := `INSERT INTO order_items (order_id, product_id, name, price, image, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = tx.Exec(ctx, insertItemSQL,
			order.OrderID,
			item.ProductID,
			item.Name,
			item.Price,
			item.Image,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

const orderColumns = `
	order_id,
	email,
	full_name,
	mobile,
	pincode,
	address,
	locality,
	city,
	state,
	payment_method,
	subtotal,
	shipping,
	total,
	status,
	cancellation_reason,
	placed_at`

func scanOrder(row pgx.Row, o *models.Order) error {
	var status string
	err := row.Scan(
		&o.OrderID,
		&o.Email,
		&o.Address.FullName,
		&o.Address.Mobile,
		&o.Address.Pincode,
		&o.Address.Address,
		&o.Address.Locality,
		&o.Address.City,
		&o.Address.State,
		&o.PaymentMethod,
		&o.Subtotal,
		&o.Shipping,
		&o.Total,
		&status,
		&o.CancellationReason,
		&o.PlacedAt,
	)
	if err != nil {
		return err
	}
	o.Status = models.OrderStatus(status)
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	var order models.Order
	err := scanOrder(r.db.QueryRow(ctx, sql, id), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get order by id %s: %w", id, err)
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepo) GetAll(ctx context.Context) ([]models.Order, error) {
	sql := `SELECT ` + orderColumns + ` FROM orders ORDER BY placed_at`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan orders: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

func (r *orderRepo) loadItems(ctx context.Context, order *models.Order) error {
	sql := `
		SELECT
			product_id,
			name,
			price,
			image,
			quantity
		FROM order_items WHERE order_id = $1
		ORDER BY order_item_id
	`

	rows, err := r.db.Query(ctx, sql, order.OrderID)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Image,
			&item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to scan order items: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return nil
}

// Cancel moves a placed order to Cancelled with the given reason. The
// transition is one-way: a cancelled order stays cancelled.
func (r *orderRepo) Cancel(ctx context.Context, id, reason string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: cancellation reason required", ErrInvalidInput)
	}

	sql := `
	UPDATE orders
	SET status = $1, cancellation_reason = $2
	WHERE order_id = $3 AND status <> $1
	`

	result, err := r.db.Exec(ctx, sql, string(models.OrderStatusCancelled), reason, id)
	if err != nil {
		return fmt.Errorf("failed to cancel order %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrOrderCancelled
	}

	return nil
}
