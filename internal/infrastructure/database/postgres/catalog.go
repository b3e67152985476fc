// internal/infrastructure/database/postgres/catalog.go
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogProduct is the product row lists are resolved against
type CatalogProduct struct {
	ID               string                                         `gorm:"primaryKey;size:100" json:"id"`
	Name             string                                         `gorm:"size:255;not null" json:"name"`
	IsVariationGroup bool                                           `gorm:"default:false" json:"is_variation_group"`
	IsMaster         bool                                           `gorm:"default:false" json:"is_master"`
	IsConfigurable   bool                                           `gorm:"default:false" json:"is_configurable"`
	MinOrderQuantity int                                            `gorm:"default:1" json:"min_order_quantity"`
	AvailableToSell  int                                            `gorm:"default:0" json:"available_to_sell"`
	Options          datatypes.JSONSlice[productlist.ProductOption] `gorm:"type:jsonb" json:"options"`
	IsActive         bool                                           `gorm:"not null;index" json:"is_active"`
	CreatedAt        time.Time                                      `json:"created_at"`
	UpdatedAt        time.Time                                      `json:"updated_at"`
}

// TableName overrides the table name
func (CatalogProduct) TableName() string {
	return "catalog_products"
}

// Product converts the row to the list engine's view
func (p *CatalogProduct) Product() *productlist.Product {
	return &productlist.Product{
		ID:               p.ID,
		Name:             p.Name,
		IsVariationGroup: p.IsVariationGroup,
		IsMaster:         p.IsMaster,
		IsConfigurable:   p.IsConfigurable,
		MinOrderQuantity: p.MinOrderQuantity,
		AvailableToSell:  p.AvailableToSell,
		Options:          p.Options,
	}
}

// Catalog reads active products
type Catalog struct {
	db *gorm.DB
}

// NewCatalog creates a catalog over db
func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// GetProduct returns ErrStoreNotFound for unknown or inactive products
func (c *Catalog) GetProduct(ctx context.Context, productID string) (*productlist.Product, error) {
	var row CatalogProduct
	err := c.db.WithContext(ctx).Where("id = ? AND is_active = ?", productID, true).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, productlist.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Product(), nil
}
