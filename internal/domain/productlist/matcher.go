package productlist

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FindExisting returns the item of list holding productID, or nil.
//
// When the found item carries options and expected names an option whose
// stored value differs, the item is stale: it is removed through
// ReconcileStaleOption and nil is returned so the caller re-adds it with
// the new value. If that removal fails the stale item is returned instead,
// which keeps the caller from adding a duplicate.
func (s *Service) FindExisting(ctx context.Context, list *List, productID string, expected *SelectedOption) *Item {
	if list == nil {
		return nil
	}

	var found *Item
	for i := range list.Items {
		if list.Items[i].ProductID == productID {
			found = &list.Items[i]
		}
	}
	if found == nil || len(found.Options) == 0 || expected == nil {
		return found
	}
	if expected.OptionID == "" || expected.ValueID == "" {
		return found
	}

	if stored, _ := found.OptionValue(expected.OptionID); stored == expected.ValueID {
		return found
	}
	if err := s.ReconcileStaleOption(ctx, list, found); err != nil {
		return found
	}
	return nil
}

// ReconcileStaleOption deletes an item whose option selection drifted
func (s *Service) ReconcileStaleOption(ctx context.Context, list *List, stale *Item) error {
	itemID := stale.ID
	err := s.store.Atomically(ctx, func(tx Tx) error {
		return tx.DeleteItem(itemID)
	})
	log := s.logger.WithFields(logrus.Fields{
		"list_id":    list.ID,
		"item_id":    itemID,
		"product_id": stale.ProductID,
	})
	if err != nil {
		log.WithError(err).Warn("failed to remove item with stale option")
		return newError("reconcile option", ErrOperationFailed, MsgRemoveFailure, err)
	}
	list.dropItem(itemID)
	log.Debug("removed item with stale option")
	return nil
}
