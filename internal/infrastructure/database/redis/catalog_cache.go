// internal/infrastructure/database/redis/catalog_cache.go
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
)

const catalogKeyPrefix = "catalog:product:"

// CachedCatalog reads products through Redis. Cache failures fall back to
// the wrapped catalog.
type CachedCatalog struct {
	next   productlist.Catalog
	rdb    commands
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewCachedCatalog wraps next with a read-through cache
func NewCachedCatalog(next productlist.Catalog, rdb *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *CachedCatalog {
	return newCachedCatalog(next, rdb, ttl, logger)
}

func newCachedCatalog(next productlist.Catalog, rdb commands, ttl time.Duration, logger logrus.FieldLogger) *CachedCatalog {
	return &CachedCatalog{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.WithField("component", "catalog_cache"),
	}
}

// GetProduct returns the cached product or loads and caches it
func (c *CachedCatalog) GetProduct(ctx context.Context, productID string) (*productlist.Product, error) {
	key := catalogKeyPrefix + productID

	var product productlist.Product
	err := getJSON(ctx, c.rdb, key, &product)
	if err == nil {
		return &product, nil
	}
	if !errors.Is(err, redis.Nil) {
		c.logger.WithError(err).WithField("product_id", productID).Warn("catalog cache read failed")
	}

	loaded, err := c.next.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := setJSON(ctx, c.rdb, key, loaded, c.ttl); err != nil {
		c.logger.WithError(err).WithField("product_id", productID).Warn("catalog cache write failed")
	}
	return loaded, nil
}

// Invalidate removes cached products
func (c *CachedCatalog) Invalidate(ctx context.Context, productIDs ...string) error {
	if len(productIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, catalogKeyPrefix+id)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
