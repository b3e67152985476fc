// internal/interfaces/http/handlers/productlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/interfaces/http/middleware"
	"github.com/your-org/productlist-backend/internal/pkg/messages"
)

// ProductListHandler serves endpoints shared by every list kind
type ProductListHandler struct {
	lists *productlist.Service
	responder
}

// NewProductListHandler creates a new product list handler
func NewProductListHandler(lists *productlist.Service, bundle *messages.Bundle) *ProductListHandler {
	return &ProductListHandler{lists: lists, responder: responder{messages: bundle}}
}

// ToggleVisibility handles POST /productlists/:id/toggle-public. With an
// item_id it flips the item, otherwise the whole list.
func (h *ProductListHandler) ToggleVisibility(c *gin.Context) {
	itemID := c.Query("item_id")
	if itemID == "" {
		itemID = c.PostForm("item_id")
	}

	res, err := h.lists.ToggleVisibility(c.Request.Context(), middleware.ActingOwner(c), c.Param("id"), itemID)
	if err != nil {
		h.domainError(c, err)
		return
	}

	data := gin.H{"list_id": res.List.ID, "public_list": res.List.IsPublic}
	if res.Item != nil {
		data["item_id"] = res.Item.ID
		data["public_item"] = res.Item.IsPublic
	}
	h.result(c, http.StatusOK, res, data)
}
