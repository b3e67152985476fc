package productlist

import (
	"context"

	"github.com/sirupsen/logrus"
)

// ToggleVisibility flips the public flag of a list, or of one of its items
// when itemID is set. Only the owner may toggle, and items holding a master
// product can never be made public.
func (s *Service) ToggleVisibility(ctx context.Context, actor Owner, listID, itemID string) (*Result, error) {
	const op = "toggle visibility"

	if actor.IsZero() || listID == "" {
		return nil, newError(op, ErrUnauthorized, MsgToggleError, nil)
	}
	list, err := s.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, newError(op, ErrNotFound, MsgListNotFound, nil)
	}
	if !list.OwnedBy(actor) {
		return nil, newError(op, ErrUnauthorized, MsgToggleError, nil)
	}

	log := s.logger.WithFields(logrus.Fields{"list_id": list.ID, "item_id": itemID})

	if itemID == "" {
		public := !list.IsPublic
		err := s.store.Atomically(ctx, func(tx Tx) error {
			return tx.UpdateListVisibility(list.ID, public)
		})
		if err != nil {
			log.WithError(err).Warn("failed to toggle list visibility")
			return nil, newError(op, ErrOperationFailed, MsgToggleError, err)
		}
		list.IsPublic = public
		s.notify(ctx, list)
		return &Result{List: list, Changed: true, MessageKey: MsgToggleListSuccess}, nil
	}

	item := list.Item(itemID)
	if item == nil {
		return nil, newError(op, ErrNotFound, MsgItemNotFound, nil)
	}
	product, err := s.product(ctx, item.ProductID)
	if err != nil {
		return nil, newError(op, ErrOperationFailed, MsgToggleError, err)
	}
	if product.IsMaster {
		return nil, newError(op, ErrForbidden, MsgToggleMasterError, nil)
	}

	public := !item.IsPublic
	err = s.store.Atomically(ctx, func(tx Tx) error {
		return tx.UpdateItemVisibility(item.ID, public)
	})
	if err != nil {
		log.WithError(err).Warn("failed to toggle item visibility")
		return nil, newError(op, ErrOperationFailed, MsgToggleError, err)
	}
	item.IsPublic = public
	item.UpdatedAt = s.now()
	s.notify(ctx, list)

	toggled := *item
	return &Result{List: list, Item: &toggled, Changed: true, MessageKey: MsgToggleItemSuccess}, nil
}
