// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/domain/account"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/interfaces/http/middleware"
	"github.com/your-org/productlist-backend/internal/pkg/messages"
)

const (
	msgRegisterSuccess    = "auth.register.success.msg"
	msgLoginSuccess       = "auth.login.success.msg"
	msgInvalidCredentials = "auth.invalid.credentials.msg"
	msgEmailExists        = "auth.email.exists.msg"
	msgTokenInvalid       = "auth.token.invalid.msg"
	msgPasswordMismatch   = "auth.password.mismatch.msg"
	msgPasswordWeak       = "auth.password.weak.msg"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	accounts *account.Service
	lists    *productlist.Service
	logger   logrus.FieldLogger
	responder
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(accounts *account.Service, lists *productlist.Service, bundle *messages.Bundle, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		accounts:  accounts,
		lists:     lists,
		logger:    logger,
		responder: responder{messages: bundle},
	}
}

// AuthData is returned by register and login
type AuthData struct {
	*account.AuthResponse
	// Merged lists the products moved over from the guest wishlist
	Merged []string `json:"merged_product_ids,omitempty"`
}

// Register handles account registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req account.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	response, err := h.accounts.Register(c.Request.Context(), &req)
	switch {
	case errors.Is(err, account.ErrPasswordMismatch):
		h.fail(c, http.StatusBadRequest, msgPasswordMismatch)
		return
	case errors.Is(err, account.ErrWeakPassword):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":       h.messages.Lookup(msgPasswordWeak),
			"message_key": msgPasswordWeak,
			"details":     err.Error(),
		})
		return
	case errors.Is(err, account.ErrEmailTaken):
		h.fail(c, http.StatusConflict, msgEmailExists)
		return
	case err != nil:
		_ = c.Error(err)
		h.fail(c, http.StatusInternalServerError, msgServerError)
		return
	}

	h.ok(c, http.StatusCreated, msgRegisterSuccess, AuthData{
		AuthResponse: response,
		Merged:       h.mergeGuest(c, response.Account.ID),
	})
}

// Login handles account login
func (h *AuthHandler) Login(c *gin.Context) {
	var req account.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	response, err := h.accounts.Login(c.Request.Context(), &req)
	if errors.Is(err, account.ErrInvalidCredentials) {
		h.fail(c, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		_ = c.Error(err)
		h.fail(c, http.StatusInternalServerError, msgServerError)
		return
	}

	h.ok(c, http.StatusOK, msgLoginSuccess, AuthData{
		AuthResponse: response,
		Merged:       h.mergeGuest(c, response.Account.ID),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	response, err := h.accounts.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		_ = c.Error(err)
		h.fail(c, http.StatusUnauthorized, msgTokenInvalid)
		return
	}
	h.ok(c, http.StatusOK, "", response)
}

// GetProfile handles GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	accountID, _ := middleware.GetAccountIDFromContext(c)
	a, err := h.accounts.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		_ = c.Error(err)
		h.fail(c, http.StatusNotFound, msgTokenInvalid)
		return
	}
	h.ok(c, http.StatusOK, "", a)
}

// mergeGuest moves the caller's guest wishlist into the account. Failures
// never fail the sign-in.
func (h *AuthHandler) mergeGuest(c *gin.Context, accountID uint) []string {
	token, ok := middleware.GetGuestTokenFromContext(c)
	if !ok {
		return nil
	}

	res, err := h.lists.MergeGuestList(c.Request.Context(), productlist.GuestOwner(token), productlist.AccountOwner(accountID))
	if err != nil {
		h.logger.WithError(err).WithField("account_id", accountID).Warn("failed to merge guest wishlist")
		return nil
	}
	if res.Changed {
		h.logger.WithFields(logrus.Fields{"account_id": accountID, "added": len(res.Added)}).Info("guest wishlist merged")
	}
	return res.Added
}
