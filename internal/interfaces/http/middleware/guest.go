// internal/interfaces/http/middleware/guest.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
)

const (
	GuestCookieName = "guest_token"
	GuestHeaderName = "X-Guest-Token"

	guestTokenKey = "guest_token"
)

// GuestSession gives every caller a guest token. Anonymous visitors own
// their personal list through it until they sign in.
func GuestSession(cfg *config.Config) gin.HandlerFunc {
	maxAge := int(cfg.ProductList.GuestSessionTTL.Seconds())

	return func(c *gin.Context) {
		token := c.GetHeader(GuestHeaderName)
		if token == "" {
			token, _ = c.Cookie(GuestCookieName)
		}
		if _, err := uuid.Parse(token); err != nil {
			token = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(GuestCookieName, token, maxAge, "/", "", cfg.Security.SecureCookies, true)
		}

		c.Set(guestTokenKey, token)
		c.Header(GuestHeaderName, token)
		c.Next()
	}
}

// GetGuestTokenFromContext returns the caller's guest token
func GetGuestTokenFromContext(c *gin.Context) (string, bool) {
	token, exists := c.Get(guestTokenKey)
	if !exists {
		return "", false
	}
	s, ok := token.(string)
	return s, ok && s != ""
}

// ActingOwner is the authenticated account, else the guest
func ActingOwner(c *gin.Context) productlist.Owner {
	if accountID, ok := GetAccountIDFromContext(c); ok {
		return productlist.AccountOwner(accountID)
	}
	if token, ok := GetGuestTokenFromContext(c); ok {
		return productlist.GuestOwner(token)
	}
	return productlist.Owner{}
}
