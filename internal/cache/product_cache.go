package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/models"
	"storefront/internal/repository"
)

const (
	productKeyPrefix = "product:"
	catalogKey       = "products:all"
	notFoundMarker   = "notfound"
)

// CachedProductRepository is a cache-aside wrapper: reads go through
// Redis, writes go to the real repository and invalidate. Any Redis
// failure degrades to the database.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

func NewCachedProductRepository(realRepo repository.ProductRepository, redis *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    redis,
		ttl:      5 * time.Minute,
	}
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	key := fmt.Sprintf("%s%d", productKeyPrefix, id)

	data, err := c.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, repository.ErrNotFound
		}

		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			log.Printf("Failed to unmarshal cached product (continuing with DB): %v", err)
			break
		}
		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		log.Printf("Redis error (continuing with DB): %v", err)
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, notFoundMarker, 1*time.Minute).Err(); setErr != nil {
				log.Printf("Failed to cache notfound: %v", setErr)
			}
		}
		return nil, err
	}

	c.store(ctx, key, product)
	return product, nil
}

func (c *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	data, err := c.redis.Get(ctx, catalogKey).Bytes()
	switch {
	case err == nil:
		var products []models.Product
		if err := json.Unmarshal(data, &products); err != nil {
			log.Printf("Failed to unmarshal cached catalog (continuing with DB): %v", err)
			break
		}
		return products, nil

	case errors.Is(err, redis.Nil):

	default:
		log.Printf("Redis error (continuing with DB): %v", err)
	}

	products, err := c.realRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	c.store(ctx, catalogKey, products)
	return products, nil
}

// GetByCategory is served from the database; the storefront filters the
// cached full catalog in memory, so this path is admin-only and rare.
func (c *CachedProductRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return c.realRepo.GetByCategory(ctx, category)
}

func (c *CachedProductRepository) Create(ctx context.Context, p *models.Product) error {
	if err := c.realRepo.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ProductID)
	return nil
}

func (c *CachedProductRepository) Update(ctx context.Context, p *models.Product) error {
	if err := c.realRepo.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx, p.ProductID)
	return nil
}

func (c *CachedProductRepository) Delete(ctx context.Context, id int) error {
	if err := c.realRepo.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedProductRepository) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal for cache: %v", err)
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache %s: %v", key, err)
	}
}

func (c *CachedProductRepository) invalidate(ctx context.Context, id int) {
	keys := []string{fmt.Sprintf("%s%d", productKeyPrefix, id), catalogKey}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		log.Printf("Failed to invalidate cache: %v", err)
	}
}
