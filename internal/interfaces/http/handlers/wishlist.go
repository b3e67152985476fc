// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/interfaces/http/middleware"
	"github.com/your-org/productlist-backend/internal/pkg/messages"
)

const (
	msgWishlistEmpty = "wishlist.empty.text"
	msgSearchHeading = "txt.heading.wl.search.results.count"
)

// WishlistHandler handles personal list endpoints
type WishlistHandler struct {
	lists  *productlist.Service
	config *config.Config
	responder
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(lists *productlist.Service, bundle *messages.Bundle, cfg *config.Config) *WishlistHandler {
	return &WishlistHandler{
		lists:     lists,
		config:    cfg,
		responder: responder{messages: bundle},
	}
}

func (h *WishlistHandler) projectOptions(c *gin.Context) productlist.ProjectOptions {
	return productlist.ProjectOptions{
		PageSize:   h.config.ProductList.WishlistPageSize,
		PageNumber: queryInt(c, "page", 1, maxPage),
		PublicView: queryBool(c, "public_view"),
	}
}

// GetWishlist handles GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.ActingOwner(c)

	list, err := h.lists.FindPersonal(ctx, owner)
	if err != nil {
		h.domainError(c, err)
		return
	}
	if list == nil {
		h.ok(c, http.StatusOK, msgWishlistEmpty, &productlist.ViewModel{
			Kind:       productlist.KindPersonal,
			Items:      []productlist.ItemView{},
			PageNumber: 1,
			PageSize:   h.config.ProductList.WishlistPageSize,
		})
		return
	}

	view, err := h.lists.Project(ctx, list, h.projectOptions(c))
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", view)
}

// GetMore handles GET /wishlist/more, the next window of the caller's list
// or of a shared one
func (h *WishlistHandler) GetMore(c *gin.Context) {
	listID := c.Query("id")
	if listID == "" {
		h.GetWishlist(c)
		return
	}

	view, err := h.lists.ViewShared(c.Request.Context(), middleware.ActingOwner(c), listID, h.projectOptions(c))
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", view)
}

// AddItem handles POST /wishlist/items
func (h *WishlistHandler) AddItem(c *gin.Context) {
	var req productlist.AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	list, err := h.lists.Resolve(ctx, middleware.ActingOwner(c), productlist.KindPersonal, "")
	if err != nil {
		h.domainError(c, err)
		return
	}
	if list == nil {
		_ = c.Error(errNoOwner)
		h.fail(c, http.StatusUnauthorized, "auth.required.msg")
		return
	}

	res, err := h.lists.AddItem(ctx, list, req)
	if err != nil {
		h.domainError(c, err)
		return
	}

	status := http.StatusOK
	if res.Changed {
		status = http.StatusCreated
	}
	h.result(c, status, res, nil)
}

// RemoveItem handles DELETE /wishlist/items/:pid
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	res, err := h.lists.RemoveItem(c.Request.Context(), middleware.ActingOwner(c), c.Param("pid"), productlist.RemoveItemInput{
		Kind:   productlist.KindPersonal,
		Option: optionFromQuery(c),
	})
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.result(c, http.StatusOK, res, nil)
}

type editItemRequest struct {
	ProductID string `json:"pid" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// EditItem handles PUT /wishlist/items/:itemId
func (h *WishlistHandler) EditItem(c *gin.Context) {
	var req editItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	list, err := h.lists.FindPersonal(ctx, middleware.ActingOwner(c))
	if err != nil {
		h.domainError(c, err)
		return
	}

	res, err := h.lists.EditItem(ctx, list, productlist.EditItemInput{
		ItemID:    c.Param("itemId"),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.result(c, http.StatusOK, res, nil)
}

// DeleteWishlist handles DELETE /wishlist
func (h *WishlistHandler) DeleteWishlist(c *gin.Context) {
	ctx := c.Request.Context()
	owner := middleware.ActingOwner(c)

	list, err := h.lists.FindPersonal(ctx, owner)
	if err != nil {
		h.domainError(c, err)
		return
	}

	res, err := h.lists.DeleteList(ctx, owner, list)
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.result(c, http.StatusOK, res, nil)
}

// GetProductIDs handles GET /wishlist/product-ids
func (h *WishlistHandler) GetProductIDs(c *gin.Context) {
	ids, err := h.lists.VisibleProductIDs(c.Request.Context(), middleware.ActingOwner(c))
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", gin.H{"product_ids": ids})
}

// GetPreview handles GET /wishlist/preview
func (h *WishlistHandler) GetPreview(c *gin.Context) {
	ctx := c.Request.Context()
	list, err := h.lists.FindPersonal(ctx, middleware.ActingOwner(c))
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", gin.H{
		"items": h.lists.AccountPreview(ctx, list, h.config.ProductList.AccountPreviewSize),
	})
}

type purchasedRequest struct {
	ProductIDs []string `json:"product_ids" binding:"required"`
}

// RemovePurchased handles POST /wishlist/purchased
func (h *WishlistHandler) RemovePurchased(c *gin.Context) {
	var req purchasedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.lists.RemovePurchased(c.Request.Context(), middleware.ActingOwner(c), req.ProductIDs)
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.result(c, http.StatusOK, res, nil)
}

// Search handles GET /wishlists/search
func (h *WishlistHandler) Search(c *gin.Context) {
	var query productlist.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.badRequest(c, err)
		return
	}

	res, err := h.lists.Search(c.Request.Context(), query, productlist.SearchPage{
		PageSize:   h.config.ProductList.SearchPageSize,
		PageNumber: queryInt(c, "page", 1, maxPage),
		UUIDs:      c.QueryArray("uuids"),
	})
	if err != nil {
		h.domainError(c, err)
		return
	}
	if res == nil {
		h.fail(c, http.StatusBadRequest, productlist.MsgSearchCriteria)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"heading": h.messages.Lookup(msgSearchHeading, res.Total),
		"data":    res,
	})
}

// GetShared handles GET /wishlists/:id
func (h *WishlistHandler) GetShared(c *gin.Context) {
	view, err := h.lists.ViewShared(c.Request.Context(), middleware.ActingOwner(c), c.Param("id"), h.projectOptions(c))
	if err != nil {
		h.domainError(c, err)
		return
	}
	h.ok(c, http.StatusOK, "", view)
}
