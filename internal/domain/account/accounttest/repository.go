// Package accounttest provides an in-memory account repository for tests.
package accounttest

import (
	"context"
	"sync"
	"time"

	"github.com/your-org/productlist-backend/internal/domain/account"
)

// Repository keeps accounts in memory
type Repository struct {
	mu       sync.Mutex
	accounts map[uint]*account.Account
	nextID   uint
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{accounts: map[uint]*account.Account{}}
}

func (r *Repository) Create(_ context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == account.NormalizeEmail(a.Email) {
			return account.ErrEmailTaken
		}
	}
	r.nextID++
	a.ID = r.nextID
	a.Email = account.NormalizeEmail(a.Email)
	stored := *a
	r.accounts[a.ID] = &stored
	return nil
}

func (r *Repository) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if a.Email == account.NormalizeEmail(email) && a.IsActive {
			found := *a
			return &found, nil
		}
	}
	return nil, account.ErrNotFound
}

func (r *Repository) FindByID(_ context.Context, id uint) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	found := *a
	return &found, nil
}

func (r *Repository) TouchLastLogin(_ context.Context, id uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		a.LastLoginAt = &at
	}
	return nil
}
