// internal/infrastructure/database/postgres/list_store.go
package postgres

import (
	"context"
	"errors"

	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListStore persists product lists in PostgreSQL
type ListStore struct {
	db *gorm.DB
}

// NewListStore creates a list store over db
func NewListStore(db *gorm.DB) *ListStore {
	return &ListStore{db: db}
}

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		Preload("People", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// ListsByOwner returns the owner's lists of kind, oldest first
func (s *ListStore) ListsByOwner(ctx context.Context, ownerRef string, kind productlist.Kind) ([]*productlist.List, error) {
	var lists []*productlist.List
	err := withChildren(s.db.WithContext(ctx)).
		Where("owner_ref = ? AND kind = ?", ownerRef, kind).
		Order("created_at ASC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// GetList loads one list with its children
func (s *ListStore) GetList(ctx context.Context, id string) (*productlist.List, error) {
	var list productlist.List
	err := withChildren(s.db.WithContext(ctx)).First(&list, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, productlist.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Atomically runs fn inside a database transaction
func (s *ListStore) Atomically(ctx context.Context, fn func(tx productlist.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&listTx{db: tx})
	})
}

type listTx struct {
	db *gorm.DB
}

func affected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return productlist.ErrStoreNotFound
	}
	return nil
}

// lock serializes writers of one list
func (t *listTx) lock(listID string) error {
	var list productlist.List
	err := t.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&list, "id = ?", listID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return productlist.ErrStoreNotFound
	}
	return err
}

func (t *listTx) CreateList(list *productlist.List) error {
	return t.db.Create(list).Error
}

func (t *listTx) UpdateListVisibility(listID string, isPublic bool) error {
	return affected(t.db.Model(&productlist.List{}).Where("id = ?", listID).Update("is_public", isPublic))
}

func (t *listTx) DeleteList(listID string) error {
	if err := t.lock(listID); err != nil {
		return err
	}
	for _, child := range []any{&productlist.Item{}, &productlist.Registrant{}, &productlist.ShippingAddress{}} {
		if err := t.db.Where("list_id = ?", listID).Delete(child).Error; err != nil {
			return err
		}
	}
	return affected(t.db.Where("id = ?", listID).Delete(&productlist.List{}))
}

func (t *listTx) CreateItem(item *productlist.Item) error {
	if err := t.lock(item.ListID); err != nil {
		return err
	}
	return t.db.Create(item).Error
}

func (t *listTx) UpdateItemQuantity(itemID string, quantity int) error {
	return affected(t.db.Model(&productlist.Item{}).Where("id = ?", itemID).Update("quantity", quantity))
}

func (t *listTx) UpdateItemVisibility(itemID string, isPublic bool) error {
	return affected(t.db.Model(&productlist.Item{}).Where("id = ?", itemID).Update("is_public", isPublic))
}

func (t *listTx) DeleteItem(itemID string) error {
	return affected(t.db.Where("id = ?", itemID).Delete(&productlist.Item{}))
}
