package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

type productRepo struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) ProductRepository {
	return &productRepo{db: db}
}

func validateProduct(p *models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: product name required", ErrInvalidInput)
	}
	if _, err := catalog.ParsePrice(p.Price); err != nil {
		return fmt.Errorf("%w: price %q has no numeric value", ErrInvalidInput, p.Price)
	}
	if p.Category == "" {
		return fmt.Errorf("%w: product category required", ErrInvalidInput)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("%w: rating must be within [0,5]", ErrInvalidInput)
	}
	if p.Reviews < 0 {
		return fmt.Errorf("%w: reviews cannot be negative", ErrInvalidInput)
	}
	return nil
}

const productColumns = `
	product_id,
	name,
	price,
	original_price,
	image,
	category,
	rating,
	reviews,
	discount,
	prime,
	free_delivery,
	description,
	created_at,
	updated_at`

func scanProduct(row pgx.Row, p *models.Product) error {
	return row.Scan(
		&p.ProductID,
		&p.Name,
		&p.Price,
		&p.OriginalPrice,
		&p.Image,
		&p.Category,
		&p.Rating,
		&p.Reviews,
		&p.Discount,
		&p.Prime,
		&p.FreeDelivery,
		&p.Description,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}

	sql := `
		INSERT INTO products (
			name,
			price,
			original_price,
			image,
			category,
			rating,
			reviews,
			discount,
			prime,
			free_delivery,
			description,
			created_at,
			updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING product_id
	`

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Price,
		p.OriginalPrice,
		p.Image,
		p.Category,
		p.Rating,
		p.Reviews,
		p.Discount,
		p.Prime,
		p.FreeDelivery,
		p.Description,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&p.ProductID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

	var product models.Product
	err := scanProduct(r.db.QueryRow(ctx, sql, id), &product)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %d: %w", id, err)
	}

	return &product, nil
}

func (r *productRepo) GetAll(ctx context.Context) ([]models.Product, error) {
	sql := `SELECT ` + productColumns + ` FROM products ORDER BY product_id`

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *productRepo) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category cannot be empty", ErrInvalidInput)
	}

	sql := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY product_id`

	rows, err := r.db.Query(ctx, sql, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get products with category: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func collectProducts(rows pgx.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan products: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to complete row iteration: %w", err)
	}

	return products, nil
}

// Update replaces the whole record under the given id; the admin panel
// edits products as complete documents.
func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	if p.ProductID <= 0 {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `
	UPDATE products
	SET
		name = $1,
		price = $2,
		original_price = $3,
		image = $4,
		category = $5,
		rating = $6,
		reviews = $7,
		discount = $8,
		prime = $9,
		free_delivery = $10,
		description = $11,
		updated_at = $12
	WHERE product_id = $13
	RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, sql,
		p.Name,
		p.Price,
		p.OriginalPrice,
		p.Image,
		p.Category,
		p.Rating,
		p.Reviews,
		p.Discount,
		p.Prime,
		p.FreeDelivery,
		p.Description,
		time.Now(),
		p.ProductID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update product %d: %w", p.ProductID, err)
	}

	return nil
}

func (r *productRepo) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: ID cannot be empty", ErrInvalidInput)
	}

	sql := `DELETE FROM products WHERE product_id = $1`

	result, err := r.db.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
