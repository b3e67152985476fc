package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/domain/productlist/productlisttest"
)

type fakeRedis struct {
	mu      sync.Mutex
	values  map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return redis.NewStringResult("", f.readErr)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestPrivacyCache(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	cache := newPrivacyCache(rdb, time.Hour)

	_, err := cache.VisibleProductIDs(ctx, "account:1")
	assert.ErrorIs(t, err, productlist.ErrStoreNotFound)

	list := &productlist.List{
		Kind:     productlist.KindPersonal,
		OwnerRef: "account:1",
		Items:    []productlist.Item{{ProductID: "P1"}, {ProductID: "P2"}},
	}
	require.NoError(t, cache.ListChanged(ctx, list))

	ids, err := cache.VisibleProductIDs(ctx, "account:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, ids)
	assert.Equal(t, time.Hour, rdb.ttls["privacy:wishlist:account:1"])

	require.NoError(t, cache.Forget(ctx, "account:1"))
	_, err = cache.VisibleProductIDs(ctx, "account:1")
	assert.ErrorIs(t, err, productlist.ErrStoreNotFound)
}

func TestPrivacyCache_IgnoresEventLists(t *testing.T) {
	rdb := newFakeRedis()
	cache := newPrivacyCache(rdb, time.Hour)

	err := cache.ListChanged(context.Background(), &productlist.List{Kind: productlist.KindEvent, OwnerRef: "account:1"})

	require.NoError(t, err)
	assert.Empty(t, rdb.values)
}

func TestPrivacyCache_FeedsTheListService(t *testing.T) {
	ctx := context.Background()
	f := productlisttest.New(t)
	cache := newPrivacyCache(newFakeRedis(), time.Hour)
	f.Service.Observe(cache)
	f.Service.UseCache(cache)
	owner := productlist.AccountOwner(7)

	list, err := f.Service.Resolve(ctx, owner, productlist.KindPersonal, "")
	require.NoError(t, err)
	f.Catalog.Add(productlisttest.Simple("P1"))
	_, err = f.Service.AddItem(ctx, list, productlist.AddItemInput{ProductID: "P1", Quantity: 1})
	require.NoError(t, err)

	f.Store.FailOp("ListsByOwner", -1)
	ids, err := f.Service.VisibleProductIDs(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, ids)
}

func TestPrivacyCache_DroppedWithTheList(t *testing.T) {
	ctx := context.Background()
	f := productlisttest.New(t)
	rdb := newFakeRedis()
	cache := newPrivacyCache(rdb, time.Hour)
	f.Service.Observe(cache)
	f.Service.UseCache(cache)
	f.Catalog.Add(productlisttest.Simple("P1"), productlisttest.Simple("P2"))
	owner := productlist.AccountOwner(7)
	guest := productlist.GuestOwner("1f0c9d2e-7a44-4b8e-8c1d-2f6a9b3e5d70")

	add := func(o productlist.Owner, ids ...string) *productlist.List {
		list, err := f.Service.Resolve(ctx, o, productlist.KindPersonal, "")
		require.NoError(t, err)
		for _, id := range ids {
			_, err = f.Service.AddItem(ctx, list, productlist.AddItemInput{ProductID: id, Quantity: 1})
			require.NoError(t, err)
		}
		return list
	}

	list := add(owner, "P1", "P2")
	require.Contains(t, rdb.values, "privacy:wishlist:account:7")

	_, err := f.Service.DeleteList(ctx, owner, list)
	require.NoError(t, err)
	assert.NotContains(t, rdb.values, "privacy:wishlist:account:7")

	ids, err := f.Service.VisibleProductIDs(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, ids)

	add(guest, "P1")
	require.Contains(t, rdb.values, privacyKey(guest.Ref()))

	_, err = f.Service.MergeGuestList(ctx, guest, owner)
	require.NoError(t, err)
	assert.NotContains(t, rdb.values, privacyKey(guest.Ref()), "the merged away guest list is forgotten")

	ids, err = f.Service.VisibleProductIDs(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []string{"P1"}, ids)
}

type countingCatalog struct {
	products map[string]*productlist.Product
	calls    int
}

func (c *countingCatalog) GetProduct(_ context.Context, id string) (*productlist.Product, error) {
	c.calls++
	p, ok := c.products[id]
	if !ok {
		return nil, productlist.ErrStoreNotFound
	}
	return p, nil
}

func TestCachedCatalog(t *testing.T) {
	ctx := context.Background()
	logger, hook := test.NewNullLogger()
	next := &countingCatalog{products: map[string]*productlist.Product{
		"P1": {ID: "P1", Name: "Mug", AvailableToSell: 3, MinOrderQuantity: 1},
	}}
	rdb := newFakeRedis()
	catalog := newCachedCatalog(next, rdb, time.Minute, logger)

	for i := 0; i < 3; i++ {
		p, err := catalog.GetProduct(ctx, "P1")
		require.NoError(t, err)
		assert.Equal(t, "Mug", p.Name)
	}
	assert.Equal(t, 1, next.calls)

	_, err := catalog.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, productlist.ErrStoreNotFound)

	require.NoError(t, catalog.Invalidate(ctx, "P1"))
	rdb.readErr = errors.New("connection refused")
	_, err = catalog.GetProduct(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "catalog cache read failed", hook.LastEntry().Message)
}
