package productlisttest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
)

// Catalog is an in-memory productlist.Catalog
type Catalog struct {
	mu       sync.Mutex
	products map[string]productlist.Product
	failing  map[string]error
	Lookups  int
}

// NewCatalog creates a catalog holding products
func NewCatalog(products ...productlist.Product) *Catalog {
	c := &Catalog{products: make(map[string]productlist.Product), failing: make(map[string]error)}
	c.Add(products...)
	return c
}

// Add registers or replaces products
func (c *Catalog) Add(products ...productlist.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		c.products[p.ID] = p
	}
}

// Fail makes lookups of productID return err
func (c *Catalog) Fail(productID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failing[productID] = err
}

// GetProduct implements productlist.Catalog
func (c *Catalog) GetProduct(_ context.Context, productID string) (*productlist.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Lookups++
	if err, ok := c.failing[productID]; ok {
		return nil, err
	}
	p, ok := c.products[productID]
	if !ok {
		return nil, productlist.ErrStoreNotFound
	}
	p.Options = slices.Clone(p.Options)
	return &p, nil
}

// Directory is an in-memory productlist.Directory
type Directory struct {
	mu       sync.Mutex
	profiles []productlist.Profile
}

// NewDirectory creates a directory holding profiles
func NewDirectory(profiles ...productlist.Profile) *Directory {
	d := &Directory{}
	d.Add(profiles...)
	return d
}

// Add registers profiles
func (d *Directory) Add(profiles ...productlist.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.profiles = append(d.profiles, profiles...)
	slices.SortFunc(d.profiles, func(a, b productlist.Profile) int {
		return int(a.AccountID) - int(b.AccountID)
	})
}

// GetProfile implements productlist.Directory
func (d *Directory) GetProfile(_ context.Context, accountID uint) (*productlist.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.profiles {
		if p.AccountID == accountID {
			return &p, nil
		}
	}
	return nil, productlist.ErrStoreNotFound
}

// FindByEmail implements productlist.Directory
func (d *Directory) FindByEmail(_ context.Context, email string) (*productlist.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.profiles {
		if strings.EqualFold(p.Email, email) {
			return &p, nil
		}
	}
	return nil, productlist.ErrStoreNotFound
}

// FindByName implements productlist.Directory
func (d *Directory) FindByName(_ context.Context, firstName, lastName string) ([]productlist.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	found := []productlist.Profile{}
	if firstName == "" && lastName == "" {
		return found, nil
	}
	for _, p := range d.profiles {
		if firstName != "" && !strings.EqualFold(p.FirstName, firstName) {
			continue
		}
		if lastName != "" && !strings.EqualFold(p.LastName, lastName) {
			continue
		}
		found = append(found, p)
	}
	return found, nil
}

// Observer records list change notifications
type Observer struct {
	mu      sync.Mutex
	calls   []string
	deleted []string
	Err     error
}

// ListChanged implements productlist.ChangeObserver
func (o *Observer) ListChanged(_ context.Context, list *productlist.List) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, list.ID)
	return o.Err
}

// ListDeleted implements productlist.ChangeObserver
func (o *Observer) ListDeleted(_ context.Context, list *productlist.List) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted = append(o.deleted, list.ID)
	return o.Err
}

// Deleted returns the ids of the lists reported deleted so far
func (o *Observer) Deleted() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.deleted)
}

// Calls returns the ids of the lists notified so far
func (o *Observer) Calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.calls)
}

// Fixture wires a service to in-memory collaborators
type Fixture struct {
	Store     *Store
	Catalog   *Catalog
	Directory *Directory
	Observer  *Observer
	Logs      *test.Hook
	Service   *productlist.Service
}

// DefaultConfig returns the production list defaults
func DefaultConfig() config.ProductListConfig {
	return config.ProductListConfig{
		WishlistPageSize:   15,
		SearchPageSize:     8,
		MaxOrderQuantity:   10,
		AccountPreviewSize: 2,
		PublicListPath:     "/api/v1/wishlists/%s",
	}
}

// New builds a fixture with an empty store and catalog
func New(t testing.TB) *Fixture {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &Fixture{
		Store:     NewStore(),
		Catalog:   NewCatalog(),
		Directory: NewDirectory(),
		Observer:  &Observer{},
		Logs:      hook,
	}
	f.Service = productlist.NewService(f.Store, f.Catalog, f.Directory, DefaultConfig(), logger)
	f.Service.Observe(f.Observer)
	return f
}

// Simple returns a plain purchasable product
func Simple(id string) productlist.Product {
	return productlist.Product{ID: id, Name: "Product " + id, MinOrderQuantity: 1, AvailableToSell: 100}
}

// Master returns a master product
func Master(id string) productlist.Product {
	p := Simple(id)
	p.IsMaster = true
	return p
}

// VariationGroup returns a variation group product
func VariationGroup(id string) productlist.Product {
	p := Simple(id)
	p.IsVariationGroup = true
	return p
}

// Configurable returns a product with one option and its values
func Configurable(id, optionID string, values ...string) productlist.Product {
	p := Simple(id)
	p.IsConfigurable = true
	p.Options = []productlist.ProductOption{{ID: optionID, Values: values, Default: values[0]}}
	return p
}
