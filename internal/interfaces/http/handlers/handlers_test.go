package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/account"
	"github.com/your-org/productlist-backend/internal/domain/account/accounttest"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/domain/productlist/productlisttest"
	"github.com/your-org/productlist-backend/internal/interfaces/http/handlers"
	"github.com/your-org/productlist-backend/internal/interfaces/http/middleware"
	"github.com/your-org/productlist-backend/internal/interfaces/http/routes"
	"github.com/your-org/productlist-backend/internal/pkg/messages"
)

const password = "Lovelace#1815"

type fakeSheets struct {
	err      error
	rendered []string
}

func (f *fakeSheets) GenerateRegistrySheet(list *productlist.List, view *productlist.ViewModel) (*bytes.Buffer, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.rendered = append(f.rendered, list.ID)
	return bytes.NewBufferString("%PDF-1.4 " + view.ID), nil
}

type harness struct {
	t      *testing.T
	router *gin.Engine
	lists  *productlisttest.Fixture
	sheets *fakeSheets
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	MessageKey string          `json:"message_key"`
	Error      string          `json:"error"`
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Name: "Product List Service"},
		JWT: config.JWTConfig{
			Secret:             "0123456789abcdef0123456789abcdef",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: time.Hour,
		},
		Security:    config.SecurityConfig{BcryptCost: 4},
		ProductList: productlisttest.DefaultConfig(),
	}
	cfg.ProductList.GuestSessionTTL = time.Hour

	logger, _ := test.NewNullLogger()
	f := productlisttest.New(t)
	f.Catalog.Add(
		productlisttest.Simple("P1"),
		productlisttest.Simple("P2"),
		productlisttest.VariationGroup("VG"),
	)
	bundle := messages.Default()
	sheets := &fakeSheets{}
	accounts := account.NewService(accounttest.NewRepository(), cfg, logger)

	r := gin.New()
	routes.SetupRoutes(r.Group("/api/v1"), routes.Handlers{
		Auth:        handlers.NewAuthHandler(accounts, f.Service, bundle, logger),
		Wishlist:    handlers.NewWishlistHandler(f.Service, bundle, cfg),
		Registry:    handlers.NewRegistryHandler(f.Service, sheets, bundle, cfg, logger),
		ProductList: handlers.NewProductListHandler(f.Service, bundle),
	}, cfg)

	return &harness{t: t, router: r, lists: f, sheets: sheets}
}

// do sends a request; headers come in name, value pairs
func (h *harness) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func asGuest(token string) []string {
	return []string{middleware.GuestHeaderName, token}
}

func bearer(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}

// register signs up an account, optionally carrying a guest token
func (h *harness) register(email string, headers ...string) handlers.AuthData {
	h.t.Helper()
	w := h.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":            email,
		"password":         password,
		"confirm_password": password,
		"first_name":       "Ada",
		"last_name":        "Lovelace",
	}, headers...)
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())

	var data handlers.AuthData
	decode(h.t, w, &data)
	return data
}

func registryRequest() gin.H {
	return gin.H{
		"event_name": "Wedding",
		"event_date": "06/20/2026",
		"event_city": "Boston",
		"registrant": gin.H{"role": "bride", "first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"},
		"pre_event_address": gin.H{
			"address1": "1 Main St", "city": "Boston", "postal_code": "02110", "country_code": "us",
		},
	}
}

func TestWishlist_GuestAddAndView(t *testing.T) {
	h := newHarness(t)
	guest := asGuest(uuid.NewString())

	w := h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"product_id": "P1", "quantity": 2}, guest...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, productlist.MsgAddSuccess, decode(t, w, nil).MessageKey)

	w = h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"product_id": "P1", "quantity": 1}, guest...)
	assert.Equal(t, http.StatusConflict, w.Code)
	env := decode(t, w, nil)
	assert.Equal(t, productlist.MsgAddExists, env.MessageKey)
	assert.Equal(t, "This product is already in your wishlist.", env.Error)

	w = h.do(http.MethodGet, "/api/v1/wishlist", nil, guest...)
	require.Equal(t, http.StatusOK, w.Code)
	var view productlist.ViewModel
	decode(t, w, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "P1", view.Items[0].ProductID)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.Equal(t, 1, view.TotalNumber)
}

func TestWishlist_AddRejections(t *testing.T) {
	h := newHarness(t)
	guest := asGuest(uuid.NewString())

	w := h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"product_id": "VG", "quantity": 1}, guest...)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, productlist.MsgAddNotListable, decode(t, w, nil).MessageKey)

	w = h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"product_id": "P1", "quantity": 0}, guest...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, productlist.MsgQuantityInvalid, decode(t, w, nil).MessageKey)

	w = h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"quantity": 1}, guest...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "request.invalid.msg", decode(t, w, nil).MessageKey)
}

func TestWishlist_PageNumberIsCapped(t *testing.T) {
	h := newHarness(t)
	guest := asGuest(uuid.NewString())
	w := h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"product_id": "P1", "quantity": 1}, guest...)
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.do(http.MethodGet, "/api/v1/wishlist?page=9223372036854775807", nil, guest...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var view productlist.ViewModel
	decode(t, w, &view)
	assert.Equal(t, 10000, view.PageNumber)
	assert.Len(t, view.Items, 1)

	w = h.do(http.MethodGet, "/api/v1/wishlists/search?last_name=Doe&page=9223372036854775807", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWishlist_EmptyWhenNoList(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/v1/wishlist", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.GuestHeaderName), "a guest token is issued")

	var view productlist.ViewModel
	env := decode(t, w, &view)
	assert.Equal(t, "wishlist.empty.text", env.MessageKey)
	assert.Empty(t, view.Items)
	assert.Zero(t, h.lists.Store.Len())
}

func TestWishlist_RemoveAndProductIDs(t *testing.T) {
	h := newHarness(t)
	guest := asGuest(uuid.NewString())
	for _, pid := range []string{"P1", "P2"} {
		w := h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"product_id": pid, "quantity": 1}, guest...)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := h.do(http.MethodDelete, "/api/v1/wishlist/items/P1", nil, guest...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, productlist.MsgRemoveSuccess, decode(t, w, nil).MessageKey)

	w = h.do(http.MethodGet, "/api/v1/wishlist/product-ids", nil, guest...)
	require.Equal(t, http.StatusOK, w.Code)
	var ids struct {
		ProductIDs []string `json:"product_ids"`
	}
	decode(t, w, &ids)
	if diff := cmp.Diff([]string{"P2"}, ids.ProductIDs); diff != "" {
		t.Errorf("product ids mismatch (-want +got):\n%s", diff)
	}
}

func TestAuth_RegisterMergesGuestWishlist(t *testing.T) {
	h := newHarness(t)
	token := uuid.NewString()
	for _, pid := range []string{"P1", "P2"} {
		w := h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"product_id": pid, "quantity": 1}, asGuest(token)...)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	data := h.register("ada@example.com", asGuest(token)...)
	assert.NotEmpty(t, data.AccessToken)
	if diff := cmp.Diff([]string{"P1", "P2"}, data.Merged); diff != "" {
		t.Errorf("merged products mismatch (-want +got):\n%s", diff)
	}

	w := h.do(http.MethodGet, "/api/v1/wishlist", nil, bearer(data.AccessToken)...)
	require.Equal(t, http.StatusOK, w.Code)
	var view productlist.ViewModel
	decode(t, w, &view)
	assert.Len(t, view.Items, 2)

	// the guest list is gone
	w = h.do(http.MethodGet, "/api/v1/wishlist", nil, asGuest(token)...)
	assert.Equal(t, "wishlist.empty.text", decode(t, w, nil).MessageKey)
}

func TestAuth_LoginAndProfile(t *testing.T) {
	h := newHarness(t)
	h.register("ada@example.com")

	w := h.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth.invalid.credentials.msg", decode(t, w, nil).MessageKey)

	w = h.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ADA@example.com", "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data handlers.AuthData
	decode(t, w, &data)

	w = h.do(http.MethodGet, "/api/v1/auth/profile", nil, bearer(data.AccessToken)...)
	require.Equal(t, http.StatusOK, w.Code)
	var profile account.Account
	decode(t, w, &profile)
	assert.Equal(t, "ada@example.com", profile.Email)

	w = h.do(http.MethodGet, "/api/v1/auth/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_RegisterConflicts(t *testing.T) {
	h := newHarness(t)
	h.register("ada@example.com")

	w := h.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"email": "ada@example.com", "password": password, "confirm_password": password,
		"first_name": "Ada", "last_name": "Lovelace",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"email": "charles@example.com", "password": password, "confirm_password": "Different#1815",
		"first_name": "Charles", "last_name": "Babbage",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "auth.password.mismatch.msg", decode(t, w, nil).MessageKey)
}

func TestProductLists_ToggleAndShare(t *testing.T) {
	h := newHarness(t)
	owner := h.register("ada@example.com")
	other := h.register("charles@example.com")

	w := h.do(http.MethodPost, "/api/v1/wishlist/items", gin.H{"product_id": "P1", "quantity": 1}, bearer(owner.AccessToken)...)
	require.Equal(t, http.StatusCreated, w.Code)
	w = h.do(http.MethodGet, "/api/v1/wishlist", nil, bearer(owner.AccessToken)...)
	var view productlist.ViewModel
	decode(t, w, &view)
	listPath := "/api/v1/wishlists/" + view.ID

	w = h.do(http.MethodGet, listPath, nil, bearer(other.AccessToken)...)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, productlist.MsgNotViewable, decode(t, w, nil).MessageKey)

	w = h.do(http.MethodPost, "/api/v1/productlists/"+view.ID+"/toggle-public", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "guests cannot toggle")

	w = h.do(http.MethodPost, "/api/v1/productlists/"+view.ID+"/toggle-public", nil, bearer(other.AccessToken)...)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "only the owner toggles")

	w = h.do(http.MethodPost, "/api/v1/productlists/"+view.ID+"/toggle-public", nil, bearer(owner.AccessToken)...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var toggled struct {
		ListID     string `json:"list_id"`
		PublicList bool   `json:"public_list"`
	}
	env := decode(t, w, &toggled)
	assert.Equal(t, productlist.MsgToggleListSuccess, env.MessageKey)
	assert.Equal(t, view.ID, toggled.ListID)
	assert.True(t, toggled.PublicList)

	w = h.do(http.MethodGet, listPath, nil, bearer(other.AccessToken)...)
	require.Equal(t, http.StatusOK, w.Code)
	var shared productlist.ViewModel
	decode(t, w, &shared)
	assert.True(t, shared.PublicView)
	assert.Len(t, shared.Items, 1)
}

func TestWishlist_SearchNeedsCriteria(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/v1/wishlists/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, productlist.MsgSearchCriteria, decode(t, w, nil).MessageKey)

	w = h.do(http.MethodGet, "/api/v1/wishlists/search?email=nobody@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Heading string `json:"heading"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Wishlist search results (0)", body.Heading)
}

func TestRegistry_Lifecycle(t *testing.T) {
	h := newHarness(t)
	owner := h.register("ada@example.com")
	other := h.register("charles@example.com")

	bad := registryRequest()
	bad["event_date"] = "2026-06-20"
	w := h.do(http.MethodPost, "/api/v1/registries", bad, bearer(owner.AccessToken)...)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, productlist.MsgRegistryFieldsError, decode(t, w, nil).MessageKey)

	w = h.do(http.MethodPost, "/api/v1/registries", registryRequest())
	assert.Equal(t, http.StatusUnauthorized, w.Code, "guests cannot create registries")

	w = h.do(http.MethodPost, "/api/v1/registries", registryRequest(), bearer(owner.AccessToken)...)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created productlist.List
	decode(t, w, &created)
	assert.Equal(t, productlist.KindEvent, created.Kind)
	base := "/api/v1/registries/" + created.ID

	w = h.do(http.MethodPost, base+"/items", gin.H{"product_id": "P1", "quantity": 2}, bearer(other.AccessToken)...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	for range 2 {
		w = h.do(http.MethodPost, base+"/items", gin.H{"product_id": "P1", "quantity": 2}, bearer(owner.AccessToken)...)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = h.do(http.MethodGet, base, nil, bearer(owner.AccessToken)...)
	require.Equal(t, http.StatusOK, w.Code)
	var view productlist.ViewModel
	decode(t, w, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 4, view.Items[0].Quantity, "re-adding raises the quantity")

	w = h.do(http.MethodGet, base+"/print", nil, bearer(other.AccessToken)...)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, h.sheets.rendered)

	w = h.do(http.MethodGet, base+"/print", nil, bearer(owner.AccessToken)...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "registry-"+created.ID+".pdf")
	assert.Equal(t, []string{created.ID}, h.sheets.rendered)

	w = h.do(http.MethodDelete, base+"/items/P1", nil, bearer(owner.AccessToken)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodDelete, base, nil, bearer(owner.AccessToken)...)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, productlist.MsgListRemoved, decode(t, w, nil).MessageKey)
	assert.Nil(t, h.lists.Store.Snapshot(created.ID))
}

func TestRegistry_PrintFailure(t *testing.T) {
	h := newHarness(t)
	owner := h.register("ada@example.com")
	h.sheets.err = errors.New("wkhtmltopdf missing")

	w := h.do(http.MethodPost, "/api/v1/registries", registryRequest(), bearer(owner.AccessToken)...)
	require.Equal(t, http.StatusCreated, w.Code)
	var created productlist.List
	decode(t, w, &created)

	w = h.do(http.MethodGet, "/api/v1/registries/"+created.ID+"/print", nil, bearer(owner.AccessToken)...)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "registry.print.failure.msg", decode(t, w, nil).MessageKey)
}
