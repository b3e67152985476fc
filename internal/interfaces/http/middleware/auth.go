// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/pkg/auth"
)

const (
	accountIDKey    = "account_id"
	accountEmailKey = "account_email"
	claimsKey       = "token_claims"
)

// AuthMiddleware creates JWT authentication middleware
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       "Authorization header required",
				"message_key": "auth.required.msg",
			})
			return
		}

		// Validate access token
		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       "Invalid or expired token",
				"message_key": "auth.token.invalid.msg",
			})
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware provides optional authentication. Anything but a
// valid access token leaves the request anonymous.
func OptionalAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}

		if claims, err := jwtManager.ValidateAccessToken(tokenString); err == nil {
			setClaims(c, claims)
		}

		c.Next()
	}
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(accountIDKey, claims.AccountID)
	c.Set(accountEmailKey, claims.Email)
	c.Set(claimsKey, claims)
}

// GetAccountIDFromContext extracts the account ID from gin context
func GetAccountIDFromContext(c *gin.Context) (uint, bool) {
	accountID, exists := c.Get(accountIDKey)
	if !exists {
		return 0, false
	}
	id, ok := accountID.(uint)
	return id, ok && id != 0
}

// GetAccountEmailFromContext extracts the account email from gin context
func GetAccountEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(accountEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}
