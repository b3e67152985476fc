// internal/infrastructure/database/redis/privacy_cache.go
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
)

const privacyKeyPrefix = "privacy:wishlist:"

// PrivacyCache keeps the product ids of every personal list keyed by owner.
// It is refreshed on each list change and read by the storefront to mark
// wishlisted products without loading the list.
type PrivacyCache struct {
	rdb commands
	ttl time.Duration
}

// NewPrivacyCache creates a cache entry writer with the given ttl
func NewPrivacyCache(rdb *redis.Client, ttl time.Duration) *PrivacyCache {
	return newPrivacyCache(rdb, ttl)
}

func newPrivacyCache(rdb commands, ttl time.Duration) *PrivacyCache {
	return &PrivacyCache{rdb: rdb, ttl: ttl}
}

func privacyKey(ownerRef string) string {
	return privacyKeyPrefix + ownerRef
}

// ListChanged rewrites the entry of a personal list owner. Event lists are
// not cached.
func (c *PrivacyCache) ListChanged(ctx context.Context, list *productlist.List) error {
	if list == nil || list.Kind != productlist.KindPersonal || list.OwnerRef == "" {
		return nil
	}
	return setJSON(ctx, c.rdb, privacyKey(list.OwnerRef), list.ProductIDs(), c.ttl)
}

// VisibleProductIDs serves a cached entry. A miss is ErrStoreNotFound.
func (c *PrivacyCache) VisibleProductIDs(ctx context.Context, ownerRef string) ([]string, error) {
	var ids []string
	err := getJSON(ctx, c.rdb, privacyKey(ownerRef), &ids)
	if errors.Is(err, redis.Nil) {
		return nil, productlist.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListDeleted drops the entry of a deleted personal list
func (c *PrivacyCache) ListDeleted(ctx context.Context, list *productlist.List) error {
	if list == nil || list.Kind != productlist.KindPersonal || list.OwnerRef == "" {
		return nil
	}
	return c.Forget(ctx, list.OwnerRef)
}

// Forget drops an owner's entry
func (c *PrivacyCache) Forget(ctx context.Context, ownerRef string) error {
	return c.rdb.Del(ctx, privacyKey(ownerRef)).Err()
}
