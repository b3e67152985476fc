// internal/infrastructure/database/postgres/directory.go
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/your-org/productlist-backend/internal/domain/account"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"gorm.io/gorm"
)

// AccountRepository stores accounts and serves their public profiles
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository over db
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) active(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&account.Account{}).Where("is_active = ?", true)
}

func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return account.ErrEmailTaken
	}
	return err
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*account.Account, error) {
	var a account.Account
	err := r.active(ctx).Where("LOWER(email) = ?", account.NormalizeEmail(email)).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uint) (*account.Account, error) {
	var a account.Account
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, account.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&account.Account{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
}

// Directory adapts the repository to the list engine's profile lookups
func (r *AccountRepository) Directory() productlist.Directory {
	return directory{r}
}

type directory struct {
	repo *AccountRepository
}

func profileOf(a *account.Account) *productlist.Profile {
	return &productlist.Profile{
		AccountID: a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
	}
}

func (d directory) GetProfile(ctx context.Context, accountID uint) (*productlist.Profile, error) {
	var a account.Account
	err := d.repo.active(ctx).Where("id = ?", accountID).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, productlist.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return profileOf(&a), nil
}

func (d directory) FindByEmail(ctx context.Context, email string) (*productlist.Profile, error) {
	a, err := d.repo.FindByEmail(ctx, email)
	if errors.Is(err, account.ErrNotFound) {
		return nil, productlist.ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return profileOf(a), nil
}

func (d directory) FindByName(ctx context.Context, firstName, lastName string) ([]productlist.Profile, error) {
	profiles := []productlist.Profile{}
	if firstName == "" && lastName == "" {
		return profiles, nil
	}

	query := d.repo.active(ctx)
	if firstName != "" {
		query = query.Where("LOWER(first_name) = LOWER(?)", firstName)
	}
	if lastName != "" {
		query = query.Where("LOWER(last_name) = LOWER(?)", lastName)
	}

	var accounts []account.Account
	if err := query.Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	for i := range accounts {
		profiles = append(profiles, *profileOf(&accounts[i]))
	}
	return profiles, nil
}
