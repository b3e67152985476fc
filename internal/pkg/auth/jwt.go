// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/productlist-backend/internal/config"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for every token that cannot be trusted
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT claims
type Claims struct {
	AccountID uint   `json:"account_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// TokenPair is what a successful login hands back
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// JWTManager handles JWT operations
type JWTManager struct {
	config *config.Config
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		config: cfg,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GenerateTokenPair issues an access and a refresh token for an account
func (j *JWTManager) GenerateTokenPair(accountID uint, email string) (*TokenPair, error) {
	access, err := j.sign(accountID, email, TokenTypeAccess, j.config.JWT.AccessTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := j.sign(accountID, email, TokenTypeRefresh, j.config.JWT.RefreshTokenExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    j.now().Add(j.config.JWT.AccessTokenExpiry),
	}, nil
}

// GenerateAccessToken generates a new access token
func (j *JWTManager) GenerateAccessToken(accountID uint, email string) (string, error) {
	return j.sign(accountID, email, TokenTypeAccess, j.config.JWT.AccessTokenExpiry)
}

// GenerateRefreshToken generates a new refresh token
func (j *JWTManager) GenerateRefreshToken(accountID uint, email string) (string, error) {
	return j.sign(accountID, email, TokenTypeRefresh, j.config.JWT.RefreshTokenExpiry)
}

func (j *JWTManager) sign(accountID uint, email, tokenType string, ttl time.Duration) (string, error) {
	now := j.now()

	claims := &Claims{
		AccountID: accountID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.config.App.Name,
			Subject:   fmt.Sprintf("account:%d", accountID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.JWT.Secret))
}

// ValidateToken validates and parses a JWT token
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.config.JWT.Secret), nil
	}, jwt.WithIssuer(j.config.App.Name))

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", ErrInvalidToken)
	}

	// Additional validation
	if claims.TokenType == "" {
		return nil, fmt.Errorf("%w: token type not specified", ErrInvalidToken)
	}
	if claims.AccountID == 0 {
		return nil, fmt.Errorf("%w: missing account", ErrInvalidToken)
	}

	return claims, nil
}

// ValidateAccessToken validates an access token specifically
func (j *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validateType(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token specifically
func (j *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validateType(tokenString, TokenTypeRefresh)
}

func (j *JWTManager) validateType(tokenString, want string) (*Claims, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrInvalidToken, want, claims.TokenType)
	}

	return claims, nil
}

// ExtractTokenFromHeader extracts JWT token from Authorization header
func ExtractTokenFromHeader(authHeader string) string {
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
