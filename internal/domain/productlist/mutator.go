// internal/domain/productlist/mutator.go
package productlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AddItemInput represents add to list request
type AddItemInput struct {
	ProductID string          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity"`
	Option    *SelectedOption `json:"option,omitempty"`
	// Public is the caller's wish; master products are always private
	Public *bool `json:"public,omitempty"`
}

// RemoveItemInput says which list a removal targets
type RemoveItemInput struct {
	Kind   Kind
	ListID string
	Option *SelectedOption
}

// EditItemInput represents a request to swap a list item for another product
type EditItemInput struct {
	ItemID    string `json:"uuid" binding:"required"`
	ProductID string `json:"pid" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddItem adds a product to list.
//
// Re-adding a product already in an event list raises its quantity by the
// requested amount; on a personal list it fails with ErrDuplicate.
func (s *Service) AddItem(ctx context.Context, list *List, in AddItemInput) (*Result, error) {
	const op = "add item"

	if list == nil {
		return nil, newError(op, ErrNotFound, MsgListNotFound, nil)
	}
	if in.Quantity <= 0 {
		return nil, newError(op, ErrValidation, MsgQuantityInvalid, nil)
	}

	existing := s.FindExisting(ctx, list, in.ProductID, in.Option)
	if existing == nil {
		product, err := s.listableProduct(ctx, op, in.ProductID)
		if err != nil {
			return nil, err
		}
		item, err := s.createItem(ctx, list, product, in.Quantity, selectOptions(product, in.Option), in.Public)
		if err != nil {
			return nil, err
		}
		s.notify(ctx, list)
		return &Result{List: list, Item: item, Changed: true, MessageKey: MsgAddSuccess}, nil
	}

	if list.Kind != KindEvent {
		return nil, newError(op, ErrDuplicate, MsgAddExists, nil)
	}

	quantity := existing.Quantity + in.Quantity
	itemID := existing.ID
	err := s.store.Atomically(ctx, func(tx Tx) error {
		return tx.UpdateItemQuantity(itemID, quantity)
	})
	if err != nil {
		return nil, newError(op, ErrOperationFailed, MsgAddFailure, err)
	}
	existing.Quantity = quantity
	existing.UpdatedAt = s.now()
	item := *existing
	return &Result{List: list, Item: &item, Changed: true, MessageKey: MsgAddSuccess}, nil
}

// listableProduct loads a product and rejects variation groups
func (s *Service) listableProduct(ctx context.Context, op, productID string) (*Product, error) {
	product, err := s.product(ctx, productID)
	if errors.Is(err, ErrStoreNotFound) {
		return nil, newError(op, ErrNotFound, MsgAddFailure, err)
	}
	if err != nil {
		return nil, newError(op, ErrOperationFailed, MsgAddFailure, err)
	}
	if product.IsVariationGroup {
		return nil, newError(op, ErrForbidden, MsgAddNotListable, nil)
	}
	return product, nil
}

// createItem persists a new item at the end of list
func (s *Service) createItem(ctx context.Context, list *List, product *Product, quantity int, options []SelectedOption, public *bool) (*Item, error) {
	now := s.now()
	item := Item{
		ID:        uuid.NewString(),
		ListID:    list.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		IsPublic:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(list.Items) > 0 {
		item.Position = list.Items[len(list.Items)-1].Position + 1
	}
	if product.IsConfigurable {
		item.Options = options
	}
	if public != nil {
		item.IsPublic = *public
	}
	if product.IsMaster {
		item.IsPublic = false
	}

	err := s.store.Atomically(ctx, func(tx Tx) error {
		return tx.CreateItem(&item)
	})
	if err != nil {
		return nil, newError("create item", ErrOperationFailed, MsgAddFailure, err)
	}
	list.appendItem(item)
	return &item, nil
}

// selectOptions starts from the product defaults and applies the requested value
func selectOptions(product *Product, requested *SelectedOption) []SelectedOption {
	selected := product.DefaultSelection()
	if !product.IsConfigurable || requested == nil || requested.OptionID == "" || requested.ValueID == "" {
		return selected
	}
	for i := range selected {
		if selected[i].OptionID == requested.OptionID {
			selected[i].ValueID = requested.ValueID
			return selected
		}
	}
	return append(selected, *requested)
}

// RemoveItem removes productID from the owner's list of in.Kind.
//
// Removing a product that is not in the list succeeds without change.
func (s *Service) RemoveItem(ctx context.Context, owner Owner, productID string, in RemoveItemInput) (*Result, error) {
	const op = "remove item"

	kind := in.Kind
	if kind == "" {
		kind = KindPersonal
	}
	list, err := s.Resolve(ctx, owner, kind, in.ListID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return &Result{MessageKey: MsgRemoveSuccess}, nil
	}
	if kind == KindEvent && !list.OwnedBy(owner) {
		return nil, newError(op, ErrUnauthorized, MsgRemoveFailure, nil)
	}

	item := s.FindExisting(ctx, list, productID, in.Option)
	if item == nil {
		return &Result{List: list, MessageKey: MsgRemoveSuccess}, nil
	}

	itemID := item.ID
	err = s.store.Atomically(ctx, func(tx Tx) error {
		return tx.DeleteItem(itemID)
	})
	if err != nil {
		return nil, newError(op, ErrOperationFailed, MsgRemoveFailure, err)
	}
	list.dropItem(itemID)
	s.notify(ctx, list)

	return &Result{List: list, Changed: true, MessageKey: MsgRemoveSuccess}, nil
}

// RemovePurchased drops purchased products from the owner's wishlist.
// Every product is attempted; failures are returned together.
func (s *Service) RemovePurchased(ctx context.Context, owner Owner, productIDs []string) (*Result, error) {
	result := &Result{MessageKey: MsgRemoveSuccess}
	var errs []error
	for _, productID := range productIDs {
		removed, err := s.RemoveItem(ctx, owner, productID, RemoveItemInput{Kind: KindPersonal})
		if err != nil {
			s.logger.WithError(err).WithField("product_id", productID).Warn("failed to remove purchased product")
			errs = append(errs, err)
			continue
		}
		result.List = removed.List
		result.Changed = result.Changed || removed.Changed
	}
	return result, errors.Join(errs...)
}

// EditItem swaps the item in.ItemID for in.ProductID.
//
// If another item already holds the new product, the edited item is simply
// removed. Otherwise the old item is deleted and a new one created in a
// second step; a variation-group target leaves the list without either, and
// a failure in the second step leaves the old item deleted.
func (s *Service) EditItem(ctx context.Context, list *List, in EditItemInput) (*Result, error) {
	const op = "edit item"

	if list == nil {
		return nil, newError(op, ErrNotFound, MsgListNotFound, nil)
	}
	if in.Quantity <= 0 {
		return nil, newError(op, ErrValidation, MsgQuantityInvalid, nil)
	}
	current := list.Item(in.ItemID)
	if current == nil {
		return nil, newError(op, ErrNotFound, MsgItemNotFound, nil)
	}
	currentID := current.ID
	log := s.logger.WithFields(logrus.Fields{"list_id": list.ID, "item_id": currentID, "product_id": in.ProductID})

	if target := list.FirstByProduct(in.ProductID); target != nil {
		targetID := target.ID
		if targetID == currentID {
			return s.setQuantity(ctx, list, current, in.Quantity)
		}
		if err := s.deleteItem(ctx, list, currentID); err != nil {
			return nil, newError(op, ErrOperationFailed, MsgEditFailure, err)
		}
		s.notify(ctx, list)
		item := *list.Item(targetID)
		return &Result{List: list, Item: &item, Changed: true, MessageKey: MsgEditSuccess}, nil
	}

	if err := s.deleteItem(ctx, list, currentID); err != nil {
		return nil, newError(op, ErrOperationFailed, MsgEditFailure, err)
	}
	defer s.notify(ctx, list)

	product, err := s.product(ctx, in.ProductID)
	if err != nil {
		log.WithError(err).Warn("edited item removed but replacement product could not be loaded")
		return nil, newError(op, ErrOperationFailed, MsgEditFailure, err)
	}
	if product.IsVariationGroup {
		log.Info("edited item removed; replacement is a variation group")
		return &Result{List: list, Changed: true, MessageKey: MsgEditSuccess}, nil
	}
	item, err := s.createItem(ctx, list, product, in.Quantity, product.DefaultSelection(), nil)
	if err != nil {
		log.WithError(err).Warn("edited item removed but replacement could not be created")
		return nil, newError(op, ErrOperationFailed, MsgEditFailure, err)
	}
	return &Result{List: list, Item: item, Changed: true, MessageKey: MsgEditSuccess}, nil
}

func (s *Service) setQuantity(ctx context.Context, list *List, item *Item, quantity int) (*Result, error) {
	if item.Quantity != quantity {
		itemID := item.ID
		err := s.store.Atomically(ctx, func(tx Tx) error {
			return tx.UpdateItemQuantity(itemID, quantity)
		})
		if err != nil {
			return nil, newError("edit item", ErrOperationFailed, MsgEditFailure, err)
		}
		item.Quantity = quantity
		item.UpdatedAt = s.now()
	}
	updated := *item
	return &Result{List: list, Item: &updated, Changed: true, MessageKey: MsgEditSuccess}, nil
}

func (s *Service) deleteItem(ctx context.Context, list *List, itemID string) error {
	err := s.store.Atomically(ctx, func(tx Tx) error {
		return tx.DeleteItem(itemID)
	})
	if err != nil {
		return err
	}
	list.dropItem(itemID)
	return nil
}
