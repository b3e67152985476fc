// internal/domain/account/service.go
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/pkg/auth"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)

// Repository persists accounts
type Repository interface {
	Create(ctx context.Context, account *Account) error
	// FindByEmail returns ErrNotFound when no active account has the email
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uint) (*Account, error)
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

// Service handles account business logic
type Service struct {
	repo            Repository
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
	logger          logrus.FieldLogger
}

// NewService creates a new account service
func NewService(repo Repository, cfg *config.Config, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		repo:            repo,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
		logger:          logger.WithField("component", "account"),
	}
}

// RegisterRequest represents account registration data
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
}

// LoginRequest represents account login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Account      *Account `json:"account"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

// Register creates a new account and signs it in
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	// Validate password confirmation
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if err := s.passwordManager.ValidatePassword(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWeakPassword, err)
	}

	// Check if account already exists
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	// Hash password
	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	account := Account{
		Email:     NormalizeEmail(req.Email),
		Password:  hashedPassword,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, &account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.WithField("account_id", account.ID).Info("account registered")
	return s.signIn(ctx, &account)
}

// Login authenticates an account
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	account, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	// Verify password
	if err := s.passwordManager.VerifyPassword(req.Password, account.Password); err != nil {
		s.logger.WithField("account_id", account.ID).Warn("failed login attempt")
		return nil, ErrInvalidCredentials
	}

	return s.signIn(ctx, account)
}

// RefreshToken issues a new token pair from a refresh token
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	account, err := s.repo.FindByID(ctx, claims.AccountID)
	if err != nil || !account.IsActive {
		return nil, ErrInvalidToken
	}

	pair, err := s.jwtManager.GenerateTokenPair(account.ID, account.Email)
	if err != nil {
		return nil, err
	}
	response := &AuthResponse{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}
	if !s.config.JWT.RefreshTokenRotation {
		response.RefreshToken = refreshToken
	}
	return response, nil
}

// GetAccount returns the account with id
func (s *Service) GetAccount(ctx context.Context, id uint) (*Account, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) signIn(ctx context.Context, account *Account) (*AuthResponse, error) {
	pair, err := s.jwtManager.GenerateTokenPair(account.ID, account.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.TouchLastLogin(ctx, account.ID, now); err != nil {
		s.logger.WithError(err).WithField("account_id", account.ID).Warn("failed to update last login")
	} else {
		account.LastLoginAt = &now
	}

	// Clear password from response
	account.Password = ""

	return &AuthResponse{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}
