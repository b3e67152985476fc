package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "Product List Service"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  time.Hour,
			RefreshTokenExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: []string{"https://shop.example.com", "*.example.org"},
			CORSAllowedMethods: []string{"GET", "POST"},
			CORSAllowedHeaders: []string{"Authorization", "Content-Type"},
		},
		ProductList: config.ProductListConfig{GuestSessionTTL: time.Hour},
	}
}

func ownerEcho(c *gin.Context) {
	owner := ActingOwner(c)
	c.JSON(http.StatusOK, gin.H{"ref": owner.Ref()})
}

func TestActingOwner(t *testing.T) {
	cfg := testConfig()
	r := gin.New()
	r.Use(GuestSession(cfg), OptionalAuthMiddleware(cfg))
	r.GET("/", ownerEcho)

	t.Run("new visitors get a guest token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		token := w.Header().Get(GuestHeaderName)
		_, err := uuid.Parse(token)
		require.NoError(t, err)
		assert.Contains(t, w.Header().Get("Set-Cookie"), GuestCookieName+"="+token)
		assert.JSONEq(t, `{"ref":"guest:`+token+`"}`, w.Body.String())
	})

	t.Run("guest token header is honoured", func(t *testing.T) {
		token := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(GuestHeaderName, token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Set-Cookie"))
		assert.JSONEq(t, `{"ref":"guest:`+token+`"}`, w.Body.String())
	})

	t.Run("account wins over guest", func(t *testing.T) {
		access, err := auth.NewJWTManager(cfg).GenerateAccessToken(42, "ada@example.com")
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.JSONEq(t, `{"ref":"account:42"}`, w.Body.String())
	})

	t.Run("bad tokens stay anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "account:")
	})
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	r := gin.New()
	r.Use(AuthMiddleware(cfg))
	r.GET("/", ownerEcho)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "auth.required.msg")

	refresh, err := auth.NewJWTManager(cfg).GenerateRefreshToken(42, "ada@example.com")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh tokens are not access tokens")
}

func TestActingOwner_NoSession(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, productlist.Owner{}, ActingOwner(c))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS(testConfig()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := map[string]bool{
		"https://shop.example.com": true,
		"https://a.example.org":    true,
		"https://evilexample.org":  false,
		"https://other.com":        false,
	}
	for origin, allowed := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if allowed {
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"), origin)
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	}

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusRequestTimeout, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())
}

func TestRateLimit_PassesWithoutRedis(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(testConfig(), nil, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusOK, w.Code)
}
