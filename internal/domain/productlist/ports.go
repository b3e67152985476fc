package productlist

import (
	"context"
	"errors"
)

// ErrStoreNotFound is returned by stores and catalogs when a record is absent
var ErrStoreNotFound = errors.New("record not found")

// Store reads lists and applies changes to them atomically.
//
// Readers return lists with Items in insertion order and the owned
// registrants and addresses loaded. Mutual exclusion between concurrent
// writers of the same list is the store's job.
type Store interface {
	// ListsByOwner returns the owner's lists of kind, oldest first
	ListsByOwner(ctx context.Context, ownerRef string, kind Kind) ([]*List, error)
	// GetList returns ErrStoreNotFound when no list has the id
	GetList(ctx context.Context, id string) (*List, error)
	// Atomically runs fn in one all-or-nothing unit
	Atomically(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the write side handed to Store.Atomically
type Tx interface {
	CreateList(list *List) error
	UpdateListVisibility(listID string, isPublic bool) error
	DeleteList(listID string) error
	CreateItem(item *Item) error
	UpdateItemQuantity(itemID string, quantity int) error
	UpdateItemVisibility(itemID string, isPublic bool) error
	DeleteItem(itemID string) error
}

// ProductOption is one configurable option of a catalog product
type ProductOption struct {
	ID      string   `json:"id"`
	Values  []string `json:"values"`
	Default string   `json:"default"`
}

// Product is the catalog view the list engine needs
type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	IsVariationGroup bool            `json:"is_variation_group"`
	IsMaster         bool            `json:"is_master"`
	IsConfigurable   bool            `json:"is_configurable"`
	MinOrderQuantity int             `json:"min_order_quantity"`
	AvailableToSell  int             `json:"available_to_sell"`
	Options          []ProductOption `json:"options,omitempty"`
}

// DefaultSelection returns the default value of every option
func (p *Product) DefaultSelection() []SelectedOption {
	if !p.IsConfigurable {
		return nil
	}
	selected := make([]SelectedOption, 0, len(p.Options))
	for _, opt := range p.Options {
		value := opt.Default
		if value == "" && len(opt.Values) > 0 {
			value = opt.Values[0]
		}
		selected = append(selected, SelectedOption{OptionID: opt.ID, ValueID: value})
	}
	return selected
}

// Catalog looks products up by id
type Catalog interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
}

// Profile is the public part of an account
type Profile struct {
	AccountID uint   `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Directory resolves account profiles. Finders return profiles ordered by
// account id so that repeated searches walk them in the same order; single
// lookups return ErrStoreNotFound when there is no such account.
type Directory interface {
	GetProfile(ctx context.Context, accountID uint) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindByName(ctx context.Context, firstName, lastName string) ([]Profile, error)
}

// ChangeObserver is told about every successful change to a personal list,
// including its deletion
type ChangeObserver interface {
	ListChanged(ctx context.Context, list *List) error
	ListDeleted(ctx context.Context, list *List) error
}

// VisibleIDCache serves the product ids of a personal list by owner reference.
// A miss is reported as an error.
type VisibleIDCache interface {
	VisibleProductIDs(ctx context.Context, ownerRef string) ([]string, error)
}
