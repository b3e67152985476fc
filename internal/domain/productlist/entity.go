// internal/domain/productlist/entity.go
package productlist

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Kind identifies what a list is used for
type Kind string

const (
	// KindPersonal is a per-owner wishlist; at most one per owner
	KindPersonal Kind = "wishlist"
	// KindEvent is a gift-registry style list addressed by its own id
	KindEvent Kind = "registry"
)

// Valid reports whether k is a known list kind
func (k Kind) Valid() bool {
	return k == KindPersonal || k == KindEvent
}

// Owner references whoever holds a list: an account or a guest session
type Owner struct {
	AccountID  uint   `json:"account_id,omitempty"`
	GuestToken string `json:"guest_token,omitempty"`
}

// AccountOwner returns the owner reference for an authenticated account
func AccountOwner(accountID uint) Owner {
	return Owner{AccountID: accountID}
}

// GuestOwner returns the owner reference for a guest session token
func GuestOwner(token string) Owner {
	return Owner{GuestToken: token}
}

// IsZero reports whether no owner is referenced
func (o Owner) IsZero() bool {
	return o.AccountID == 0 && o.GuestToken == ""
}

// IsGuest reports whether the owner is an anonymous session
func (o Owner) IsGuest() bool {
	return o.AccountID == 0 && o.GuestToken != ""
}

// Ref returns the stable storage key for the owner
func (o Owner) Ref() string {
	switch {
	case o.AccountID != 0:
		return fmt.Sprintf("account:%d", o.AccountID)
	case o.GuestToken != "":
		return "guest:" + o.GuestToken
	default:
		return ""
	}
}

// ParseOwnerRef is the inverse of Owner.Ref
func ParseOwnerRef(ref string) Owner {
	switch {
	case strings.HasPrefix(ref, "account:"):
		var id uint
		if _, err := fmt.Sscanf(ref, "account:%d", &id); err == nil {
			return AccountOwner(id)
		}
	case strings.HasPrefix(ref, "guest:"):
		return GuestOwner(strings.TrimPrefix(ref, "guest:"))
	}
	return Owner{}
}

// SelectedOption is one (option, chosen value) pair of a configurable product
type SelectedOption struct {
	OptionID string `json:"option_id"`
	ValueID  string `json:"value_id"`
}

// List represents a product list (wishlist or registry)
type List struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	Kind      Kind              `gorm:"size:20;not null;index:idx_product_lists_owner_kind,priority:2" json:"kind"`
	OwnerRef  string            `gorm:"size:80;index:idx_product_lists_owner_kind,priority:1" json:"-"`
	AccountID *uint             `gorm:"index" json:"account_id,omitempty"`
	IsPublic  bool              `gorm:"default:false" json:"is_public"`
	Name      string            `gorm:"size:255" json:"name,omitempty"`
	Event     Event             `gorm:"embedded;embeddedPrefix:event_" json:"event"`
	Items     []Item            `gorm:"foreignKey:ListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	People    []Registrant      `gorm:"foreignKey:ListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"registrants,omitempty"`
	Addresses []ShippingAddress `gorm:"foreignKey:ListID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"shipping_addresses,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// TableName overrides the table name
func (List) TableName() string {
	return "product_lists"
}

// Owner returns the owner reference of the list
func (l *List) Owner() Owner {
	return ParseOwnerRef(l.OwnerRef)
}

// OwnedBy reports whether the given owner holds this list
func (l *List) OwnedBy(o Owner) bool {
	return !o.IsZero() && l.OwnerRef == o.Ref()
}

// Item returns the item with the given id
func (l *List) Item(id string) *Item {
	for i := range l.Items {
		if l.Items[i].ID == id {
			return &l.Items[i]
		}
	}
	return nil
}

// FirstByProduct returns the first item holding productID
func (l *List) FirstByProduct(productID string) *Item {
	for i := range l.Items {
		if l.Items[i].ProductID == productID {
			return &l.Items[i]
		}
	}
	return nil
}

// ProductIDs returns the product ids of all items in list order
func (l *List) ProductIDs() []string {
	ids := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Registrant returns the registrant with the given role, if any
func (l *List) Registrant(role RegistrantRole) *Registrant {
	for i := range l.People {
		if l.People[i].Role == role {
			return &l.People[i]
		}
	}
	return nil
}

// ShippingAddress returns the address for the given phase, if any
func (l *List) ShippingAddress(phase AddressPhase) *ShippingAddress {
	for i := range l.Addresses {
		if l.Addresses[i].Phase == phase {
			return &l.Addresses[i]
		}
	}
	return nil
}

func (l *List) appendItem(item Item) {
	l.Items = append(l.Items, item)
}

func (l *List) dropItem(id string) {
	for i := range l.Items {
		if l.Items[i].ID == id {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			return
		}
	}
}

// Event holds the metadata of a registry
type Event struct {
	Name    string     `gorm:"size:255" json:"name"`
	Date    *time.Time `json:"date"`
	City    string     `gorm:"size:100" json:"city"`
	State   string     `gorm:"size:100" json:"state"`
	Country string     `gorm:"size:2" json:"country"`
}

// Item represents one entry of a list
type Item struct {
	ID        string                              `gorm:"primaryKey;size:36" json:"id"`
	ListID    string                              `gorm:"size:36;not null;index" json:"list_id"`
	ProductID string                              `gorm:"size:100;not null;index" json:"product_id"`
	Options   datatypes.JSONSlice[SelectedOption] `gorm:"type:jsonb" json:"selected_options"`
	Quantity  int                                 `gorm:"not null;default:1" json:"quantity"`
	IsPublic  bool                                `gorm:"not null" json:"is_public"`
	Position  int                                 `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time                           `json:"created_at"`
	UpdatedAt time.Time                           `json:"modified_at"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "product_list_items"
}

// OptionValue returns the stored value for optionID
func (i *Item) OptionValue(optionID string) (string, bool) {
	for _, o := range i.Options {
		if o.OptionID == optionID {
			return o.ValueID, true
		}
	}
	return "", false
}

// RepresentativeOption returns the last selected option, used as the item's
// option identity when it is copied into another list
func (i *Item) RepresentativeOption() *SelectedOption {
	if len(i.Options) == 0 {
		return nil
	}
	o := i.Options[len(i.Options)-1]
	return &o
}

// RegistrantRole distinguishes the two people of a registry
type RegistrantRole string

const (
	RoleRegistrant   RegistrantRole = "registrant"
	RoleCoRegistrant RegistrantRole = "co_registrant"
)

// Registrant represents a person a registry is kept for
type Registrant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ListID    string         `gorm:"size:36;not null;index" json:"-"`
	Role      RegistrantRole `gorm:"size:20;not null" json:"role"`
	EventRole string         `gorm:"size:50" json:"event_role"`
	FirstName string         `gorm:"size:100" json:"first_name"`
	LastName  string         `gorm:"size:100" json:"last_name"`
	Email     string         `gorm:"size:255" json:"email"`
}

// TableName overrides the table name
func (Registrant) TableName() string {
	return "product_list_registrants"
}

// AddressPhase says whether an address is used before or after the event
type AddressPhase string

const (
	PhasePreEvent  AddressPhase = "pre_event"
	PhasePostEvent AddressPhase = "post_event"
)

// ShippingAddress is where registry gifts ship to
type ShippingAddress struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ListID      string       `gorm:"size:36;not null;index" json:"-"`
	Phase       AddressPhase `gorm:"size:20;not null" json:"phase"`
	FirstName   string       `gorm:"size:100" json:"first_name"`
	LastName    string       `gorm:"size:100" json:"last_name"`
	Address1    string       `gorm:"size:255;not null" json:"address1"`
	Address2    string       `gorm:"size:255" json:"address2"`
	City        string       `gorm:"size:100;not null" json:"city"`
	StateCode   string       `gorm:"size:100" json:"state_code"`
	PostalCode  string       `gorm:"size:20" json:"postal_code"`
	CountryCode string       `gorm:"size:2;not null;default:'US'" json:"country_code"` // ISO 2-letter code
	Phone       string       `gorm:"size:20" json:"phone"`
}

// TableName overrides the table name
func (ShippingAddress) TableName() string {
	return "product_list_addresses"
}
