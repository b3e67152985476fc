// internal/domain/productlist/projector.go
package productlist

import (
	"context"
	"math"
	"time"
)

// ProjectOptions controls the window produced by Project
type ProjectOptions struct {
	PageSize   int
	PageNumber int
	// PublicView hides master products from the window and the total
	PublicView bool
}

// OwnerView is what a viewer may learn about the list owner
type OwnerView struct {
	Exists    bool   `json:"exists"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// ItemView is the presentation form of one item
type ItemView struct {
	ID               string           `json:"uuid"`
	ProductID        string           `json:"pid"`
	Name             string           `json:"name"`
	Quantity         int              `json:"qty"`
	MinOrderQuantity int              `json:"min_order_quantity"`
	MaxOrderQuantity int              `json:"max_order_quantity"`
	IsPublic         bool             `json:"public_item"`
	IsMaster         bool             `json:"master"`
	Available        bool             `json:"available"`
	Options          []SelectedOption `json:"selected_options,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	ModifiedAt       time.Time        `json:"modified_at"`
}

// ViewModel is a paginated, view-ready projection of a list
type ViewModel struct {
	ID          string     `json:"uuid"`
	Kind        Kind       `json:"type"`
	Owner       OwnerView  `json:"owner"`
	IsPublic    bool       `json:"public_list"`
	PublicView  bool       `json:"public_view"`
	Event       *Event     `json:"event,omitempty"`
	Items       []ItemView `json:"items"`
	TotalNumber int        `json:"length"`
	PageNumber  int        `json:"page_number"`
	PageSize    int        `json:"page_size"`
	ShowMore    bool       `json:"show_more"`
}

// Project builds the view of list for pages 1..opts.PageNumber.
//
// The window is cumulative: page n carries the first PageSize*n eligible
// items. Items whose product cannot be loaded are neither emitted nor taken
// off the total.
func (s *Service) Project(ctx context.Context, list *List, opts ProjectOptions) (*ViewModel, error) {
	if list == nil {
		return nil, newError("project", ErrNotFound, MsgListNotFound, nil)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = s.config.WishlistPageSize
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 15
	}
	opts.PageNumber = clampPage(opts.PageSize, opts.PageNumber)
	limit := opts.PageSize * opts.PageNumber

	view := &ViewModel{
		ID:         list.ID,
		Kind:       list.Kind,
		Owner:      s.ownerView(ctx, list),
		IsPublic:   list.IsPublic,
		PublicView: opts.PublicView,
		Items:      make([]ItemView, 0, min(len(list.Items), limit)),
		PageNumber: opts.PageNumber,
		PageSize:   opts.PageSize,
	}
	if list.Kind == KindEvent {
		event := list.Event
		view.Event = &event
	}

	count := len(list.Items)
	considered := 0
	for _, item := range list.Items {
		product, err := s.product(ctx, item.ProductID)
		if err != nil {
			s.logger.WithError(err).WithField("item_id", item.ID).Debug("skipping item without product")
			continue
		}
		if opts.PublicView && product.IsMaster {
			count--
			continue
		}
		if considered < limit {
			view.Items = append(view.Items, s.itemView(item, product))
		}
		considered++
	}

	view.TotalNumber = count
	view.ShowMore = considered > limit
	return view, nil
}

// clampPage returns a page number of at least 1 whose window end,
// pageSize*pageNumber, still fits in an int
func clampPage(pageSize, pageNumber int) int {
	return max(1, min(pageNumber, math.MaxInt/pageSize))
}

func (s *Service) ownerView(ctx context.Context, list *List) OwnerView {
	owner := list.Owner()
	if owner.AccountID == 0 || s.directory == nil {
		return OwnerView{}
	}
	profile, err := s.directory.GetProfile(ctx, owner.AccountID)
	if err != nil || profile == nil {
		return OwnerView{}
	}
	return OwnerView{Exists: true, FirstName: profile.FirstName, LastName: profile.LastName}
}

func (s *Service) itemView(item Item, product *Product) ItemView {
	minQty := product.MinOrderQuantity
	if minQty <= 0 {
		minQty = 1
	}
	maxQty := s.config.MaxOrderQuantity
	if maxQty <= 0 {
		maxQty = 10
	}
	maxQty = min(max(product.AvailableToSell, 0), maxQty)

	return ItemView{
		ID:               item.ID,
		ProductID:        item.ProductID,
		Name:             product.Name,
		Quantity:         item.Quantity,
		MinOrderQuantity: minQty,
		MaxOrderQuantity: maxQty,
		IsPublic:         item.IsPublic,
		IsMaster:         product.IsMaster,
		Available:        product.AvailableToSell >= item.Quantity,
		Options:          item.Options,
		CreatedAt:        item.CreatedAt,
		ModifiedAt:       item.UpdatedAt,
	}
}

// AccountPreview returns the n most recently added items, newest first
func (s *Service) AccountPreview(ctx context.Context, list *List, n int) []ItemView {
	if list == nil {
		return []ItemView{}
	}
	if n <= 0 {
		n = s.config.AccountPreviewSize
	}
	preview := make([]ItemView, 0, n)
	for i := len(list.Items) - 1; i >= 0 && len(preview) < n; i-- {
		product, err := s.product(ctx, list.Items[i].ProductID)
		if err != nil {
			continue
		}
		preview = append(preview, s.itemView(list.Items[i], product))
	}
	return preview
}

// VisibleProductIDs returns the product ids in the owner's personal list,
// served from the cache when one is attached
func (s *Service) VisibleProductIDs(ctx context.Context, owner Owner) ([]string, error) {
	if owner.IsZero() {
		return []string{}, nil
	}
	if s.cache != nil {
		ids, err := s.cache.VisibleProductIDs(ctx, owner.Ref())
		if err == nil {
			return ids, nil
		}
		s.logger.WithError(err).Debug("visible product id cache miss")
	}

	list, err := s.FindPersonal(ctx, owner)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return []string{}, nil
	}
	s.notify(ctx, list)
	return list.ProductIDs(), nil
}

// ViewShared projects a list someone else shared.
//
// Unknown lists and private lists are both reported with the not viewable
// message; the owner always gets the full owner view.
func (s *Service) ViewShared(ctx context.Context, viewer Owner, listID string, opts ProjectOptions) (*ViewModel, error) {
	const op = "view list"

	list, err := s.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, newError(op, ErrNotFound, MsgNotViewable, nil)
	}
	if list.OwnedBy(viewer) {
		opts.PublicView = false
		return s.Project(ctx, list, opts)
	}
	if !list.IsPublic {
		return nil, newError(op, ErrForbidden, MsgNotViewable, nil)
	}
	opts.PublicView = true
	return s.Project(ctx, list, opts)
}
