package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
)

const defaultTTL = 5 * time.Minute

type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// Cache holds the full catalog the suggestion matcher and the product
// screens read from, refreshed from the backend when stale.
type Cache struct {
	mu        sync.RWMutex
	source    Source
	ttl       time.Duration
	products  []models.Product
	fetchedAt time.Time
	now       func() time.Time
}

func NewCache(source Source) *Cache {
	return &Cache{source: source, ttl: defaultTTL, now: time.Now}
}

func (c *Cache) Refresh(ctx context.Context) error {
	products, err := c.source.Products(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.products = products
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return nil
}

// Ensure refreshes only when the cache is empty or past its TTL. A
// refresh failure with a previous snapshot present is not an error, the
// stale list keeps serving.
func (c *Cache) Ensure(ctx context.Context) error {
	c.mu.RLock()
	fresh := c.products != nil && c.now().Sub(c.fetchedAt) < c.ttl
	have := c.products != nil
	c.mu.RUnlock()

	if fresh {
		return nil
	}
	if err := c.Refresh(ctx); err != nil {
		if have {
			return nil
		}
		return err
	}
	return nil
}

// Products returns the cached snapshot in catalog order.
func (c *Cache) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Cache) Product(id int) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}
