// internal/interfaces/http/handlers/registry.go
package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/interfaces/http/middleware"
	"github.com/your-org/productlist-backend/internal/pkg/messages"
)

const (
	eventDateLayout     = "01/02/2006"
	msgRegistryPrintErr = "registry.print.failure.msg"
)

// SheetRenderer renders the printable registry
type SheetRenderer interface {
	GenerateRegistrySheet(list *productlist.List, view *productlist.ViewModel) (*bytes.Buffer, error)
}

// RegistryHandler handles event list endpoints
type RegistryHandler struct {
	lists  *productlist.Service
	sheets SheetRenderer
	config *config.Config
	logger logrus.FieldLogger
	responder
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(lists *productlist.Service, sheets SheetRenderer, bundle *messages.Bundle, cfg *config.Config, logger logrus.FieldLogger) *RegistryHandler {
	return &RegistryHandler{
		lists:     lists,
		sheets:    sheets,
		config:    cfg,
		logger:    logger,
		responder: responder{messages: bundle},
	}
}

type createRegistryRequest struct {
	EventName    string                       `json:"event_name" binding:"required"`
	EventDate    string                       `json:"event_date" binding:"required"`
	EventCity    string                       `json:"event_city"`
	EventState   string                       `json:"event_state"`
	EventCountry string                       `json:"event_country"`
	IsPublic     bool                         `json:"is_public"`
	Registrant   productlist.RegistrantInput  `json:"registrant"`
	CoRegistrant *productlist.RegistrantInput `json:"co_registrant"`
	PreEvent     productlist.AddressInput     `json:"pre_event_address"`
	PostEvent    *productlist.AddressInput    `json:"post_event_address"`
}

// CreateRegistry handles POST /registries
func (h *RegistryHandler) CreateRegistry(c *gin.Context) {
	var req createRegistryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	date, err := time.Parse(eventDateLayout, strings.TrimSpace(req.EventDate))
	if err != nil {
		_ = c.Error(err)
		h.fail(c, http.StatusBadRequest, productlist.MsgRegistryFieldsError)
		return
	}

	res, err := h.lists.CreateEventCollection(c.Request.Context(), middleware.ActingOwner(c), productlist.CreateEventInput{
		EventName:    req.EventName,
		EventDate:    date,
		EventCity:    req.EventCity,
		EventState:   req.EventState,
		EventCountry: req.EventCountry,
		IsPublic:     req.IsPublic,
		Registrant:   req.Registrant,
		CoRegistrant: req.CoRegistrant,
		PreEvent:     req.PreEvent,
		PostEvent:    req.PostEvent,
	})
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.result(c, http.StatusCreated, res, res.List)
}

// ListRegistries handles GET /registries
func (h *RegistryHandler) ListRegistries(c *gin.Context) {
	lists, err := h.lists.ListsOf(c.Request.Context(), middleware.ActingOwner(c), productlist.KindEvent)
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", lists)
}

// GetRegistry handles GET /registries/:id
func (h *RegistryHandler) GetRegistry(c *gin.Context) {
	view, err := h.lists.ViewShared(c.Request.Context(), middleware.ActingOwner(c), c.Param("id"), productlist.ProjectOptions{
		PageSize:   h.config.ProductList.WishlistPageSize,
		PageNumber: queryInt(c, "page", 1, maxPage),
	})
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", view)
}

// ownedRegistry loads the registry in :id and checks the caller owns it.
// It writes the error response itself and returns nil on failure.
func (h *RegistryHandler) ownedRegistry(c *gin.Context, failureKey string) *productlist.List {
	list, err := h.lists.Resolve(c.Request.Context(), middleware.ActingOwner(c), productlist.KindEvent, c.Param("id"))
	if err != nil {
		h.domainError(c, err)
		return nil
	}
	if list == nil {
		h.fail(c, http.StatusNotFound, productlist.MsgListNotFound)
		return nil
	}
	if !list.OwnedBy(middleware.ActingOwner(c)) {
		h.fail(c, http.StatusUnauthorized, failureKey)
		return nil
	}
	return list
}

// AddItem handles POST /registries/:id/items
func (h *RegistryHandler) AddItem(c *gin.Context) {
	var req productlist.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	list := h.ownedRegistry(c, productlist.MsgAddFailure)
	if list == nil {
		return
	}

	res, err := h.lists.AddItem(c.Request.Context(), list, req)
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.result(c, http.StatusCreated, res, nil)
}

// RemoveItem handles DELETE /registries/:id/items/:pid
func (h *RegistryHandler) RemoveItem(c *gin.Context) {
	res, err := h.lists.RemoveItem(c.Request.Context(), middleware.ActingOwner(c), c.Param("pid"), productlist.RemoveItemInput{
		Kind:   productlist.KindEvent,
		ListID: c.Param("id"),
		Option: optionFromQuery(c),
	})
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.result(c, http.StatusOK, res, nil)
}

// DeleteRegistry handles DELETE /registries/:id
func (h *RegistryHandler) DeleteRegistry(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.lists.Resolve(ctx, middleware.ActingOwner(c), productlist.KindEvent, c.Param("id"))
	if err != nil {
		h.domainError(c, err)
		return
	}

	res, err := h.lists.DeleteList(ctx, middleware.ActingOwner(c), list)
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.result(c, http.StatusOK, res, nil)
}

// PrintRegistry handles GET /registries/:id/print
func (h *RegistryHandler) PrintRegistry(c *gin.Context) {
	list := h.ownedRegistry(c, productlist.MsgNotViewable)
	if list == nil {
		return
	}

	view, err := h.lists.Project(c.Request.Context(), list, productlist.ProjectOptions{
		PageSize:   max(len(list.Items), 1),
		PageNumber: 1,
	})
	if err != nil {
		h.domainError(c, err)
		return
	}

	sheet, err := h.sheets.GenerateRegistrySheet(list, view)
	if err != nil {
		h.logger.WithError(err).WithField("list_id", list.ID).Error("failed to render registry sheet")
		h.fail(c, http.StatusInternalServerError, msgRegistryPrintErr)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="registry-%s.pdf"`, list.ID))
	c.Data(http.StatusOK, "application/pdf", sheet.Bytes())
}
