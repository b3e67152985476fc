package productlist

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Merge copies the items of source into dest and deletes source.
//
// Items whose identity is already in dest are skipped without touching
// quantities. Each copy is its own atomic step, so a failure part way leaves
// dest partially updated. Source is deleted even when nothing was copied.
// The returned ids are the products actually added to dest.
func (s *Service) Merge(ctx context.Context, dest, source *List) ([]string, error) {
	const op = "merge"

	if dest == nil || source == nil || dest.ID == source.ID {
		return nil, nil
	}
	log := s.logger.WithFields(logrus.Fields{"dest_id": dest.ID, "source_id": source.ID})

	added := make([]string, 0, len(source.Items))
	for _, item := range source.Items {
		option := item.RepresentativeOption()
		if s.FindExisting(ctx, dest, item.ProductID, option) != nil {
			continue
		}
		if err := s.copyItem(ctx, dest, item); err != nil {
			log.WithError(err).WithField("product_id", item.ProductID).Warn("failed to merge item")
			continue
		}
		added = append(added, item.ProductID)
	}

	if err := s.deleteList(ctx, source); err != nil {
		s.notify(ctx, dest)
		return added, newError(op, ErrOperationFailed, MsgMergeFailure, err)
	}
	s.notifyDeleted(ctx, source)
	s.notify(ctx, dest)

	log.WithField("added", len(added)).Info("product lists merged")
	return added, nil
}

// copyItem adds a source item to dest keeping its quantity and options
func (s *Service) copyItem(ctx context.Context, dest *List, item Item) error {
	product, err := s.listableProduct(ctx, "merge", item.ProductID)
	if err != nil {
		return err
	}
	options := []SelectedOption(item.Options)
	if len(options) == 0 {
		options = product.DefaultSelection()
	}
	public := item.IsPublic
	_, err = s.createItem(ctx, dest, product, item.Quantity, options, &public)
	return err
}

// MergeGuestList moves the guest's personal list into the account's one.
// Nothing happens when the guest has no list.
func (s *Service) MergeGuestList(ctx context.Context, guest, account Owner) (*Result, error) {
	if !guest.IsGuest() || account.AccountID == 0 {
		return &Result{MessageKey: MsgMergeSuccess}, nil
	}
	source, err := s.FindPersonal(ctx, guest)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return &Result{MessageKey: MsgMergeSuccess}, nil
	}
	dest, err := s.Resolve(ctx, account, KindPersonal, "")
	if err != nil {
		return nil, err
	}
	added, err := s.Merge(ctx, dest, source)
	if err != nil {
		return nil, err
	}
	return &Result{List: dest, Changed: len(added) > 0, MessageKey: MsgMergeSuccess, Added: added}, nil
}
