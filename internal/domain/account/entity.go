// internal/domain/account/entity.go
package account

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Account represents a registered storefront customer
type Account struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	FirstName   string         `gorm:"size:100;index:idx_accounts_name,priority:1" json:"first_name"`
	LastName    string         `gorm:"size:100;index:idx_accounts_name,priority:2" json:"last_name"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate hook to handle business logic before account creation
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	// Email should be lowercase
	a.Email = NormalizeEmail(a.Email)
	return nil
}

// FullName returns the account holder's full name
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
