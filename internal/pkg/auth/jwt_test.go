package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/productlist-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Product List Service"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestGenerateTokenPair(t *testing.T) {
	m := NewJWTManager(testConfig())

	pair, err := m.GenerateTokenPair(7, "ada@example.com")
	require.NoError(t, err)

	access, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(7), access.AccountID)
	assert.Equal(t, "ada@example.com", access.Email)
	assert.Equal(t, "account:7", access.Subject)

	refresh, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
}

func TestValidateToken_RejectsWrongType(t *testing.T) {
	m := NewJWTManager(testConfig())
	pair, err := m.GenerateTokenPair(7, "ada@example.com")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsForeignSecretAndExpiry(t *testing.T) {
	m := NewJWTManager(testConfig())

	other := testConfig()
	other.JWT.Secret = "another-secret-that-is-long-enough!!"
	forged, err := NewJWTManager(other).GenerateAccessToken(7, "ada@example.com")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := m.GenerateAccessToken(7, "ada@example.com")
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Empty(t, ExtractTokenFromHeader("Basic abc"))
	assert.Empty(t, ExtractTokenFromHeader(""))
}
