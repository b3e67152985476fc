// internal/domain/productlist/service.go
package productlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/productlist-backend/internal/config"
)

// Service handles product list business logic
type Service struct {
	store     Store
	catalog   Catalog
	directory Directory
	config    config.ProductListConfig
	logger    logrus.FieldLogger
	observers []ChangeObserver
	cache     VisibleIDCache
	now       func() time.Time
}

// NewService creates a new product list service
func NewService(store Store, catalog Catalog, directory Directory, cfg config.ProductListConfig, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		store:     store,
		catalog:   catalog,
		directory: directory,
		config:    cfg,
		logger:    logger.WithField("component", "productlist"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Observe registers an observer for personal list changes
func (s *Service) Observe(observer ChangeObserver) {
	s.observers = append(s.observers, observer)
}

// UseCache attaches the read side of the visible product id cache
func (s *Service) UseCache(cache VisibleIDCache) {
	s.cache = cache
}

// Result is the outcome of a successful list operation
type Result struct {
	List       *List    `json:"-"`
	Item       *Item    `json:"item,omitempty"`
	Changed    bool     `json:"changed"`
	MessageKey string   `json:"message_key"`
	Added      []string `json:"added,omitempty"`
}

// notify tells observers about a personal list change. Observer failures
// are logged; the list itself is already consistent at this point.
func (s *Service) notify(ctx context.Context, list *List) {
	s.tell(ctx, list, ChangeObserver.ListChanged)
}

// notifyDeleted tells observers a personal list is gone
func (s *Service) notifyDeleted(ctx context.Context, list *List) {
	s.tell(ctx, list, ChangeObserver.ListDeleted)
}

func (s *Service) tell(ctx context.Context, list *List, event func(ChangeObserver, context.Context, *List) error) {
	if list == nil || list.Kind != KindPersonal {
		return
	}
	for _, observer := range s.observers {
		if err := event(observer, ctx, list); err != nil {
			s.logger.WithError(err).WithField("list_id", list.ID).Warn("list observer failed")
		}
	}
}

// Resolve returns the canonical list for owner and kind.
//
// Personal lists are created on first access; a nil list is returned for a
// zero owner. Event lists are looked up by explicitID only.
func (s *Service) Resolve(ctx context.Context, owner Owner, kind Kind, explicitID string) (*List, error) {
	switch kind {
	case KindPersonal:
		if owner.IsZero() {
			return nil, nil
		}
		list, err := s.FindPersonal(ctx, owner)
		if err != nil || list != nil {
			return list, err
		}
		return s.createPersonal(ctx, owner)
	case KindEvent:
		if explicitID == "" {
			return nil, nil
		}
		list, err := s.GetList(ctx, explicitID)
		if err != nil || list == nil || list.Kind != KindEvent {
			return nil, err
		}
		return list, nil
	default:
		return nil, nil
	}
}

// FindPersonal returns the owner's personal list without creating one
func (s *Service) FindPersonal(ctx context.Context, owner Owner) (*List, error) {
	if owner.IsZero() {
		return nil, nil
	}
	lists, err := s.store.ListsByOwner(ctx, owner.Ref(), KindPersonal)
	if err != nil {
		return nil, newError("resolve", ErrOperationFailed, MsgListNotFound, err)
	}
	if len(lists) == 0 {
		return nil, nil
	}
	return lists[0], nil
}

// GetList returns the list with id, or nil when there is none
func (s *Service) GetList(ctx context.Context, id string) (*List, error) {
	list, err := s.store.GetList(ctx, id)
	if errors.Is(err, ErrStoreNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, newError("get list", ErrOperationFailed, MsgListNotFound, err)
	}
	return list, nil
}

func (s *Service) createPersonal(ctx context.Context, owner Owner) (*List, error) {
	list := s.newList(owner, KindPersonal)
	err := s.store.Atomically(ctx, func(tx Tx) error {
		return tx.CreateList(list)
	})
	if err != nil {
		// A concurrent request may have created it first; the store keeps
		// personal lists unique per owner.
		existing, findErr := s.FindPersonal(ctx, owner)
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, newError("resolve", ErrOperationFailed, MsgListNotFound, err)
	}
	return list, nil
}

func (s *Service) newList(owner Owner, kind Kind) *List {
	now := s.now()
	list := &List{
		ID:        uuid.NewString(),
		Kind:      kind,
		OwnerRef:  owner.Ref(),
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if owner.AccountID != 0 {
		id := owner.AccountID
		list.AccountID = &id
	}
	return list
}

// DeleteList removes a whole list. Only its owner may do so.
func (s *Service) DeleteList(ctx context.Context, actor Owner, list *List) (*Result, error) {
	if list == nil {
		return nil, newError("delete list", ErrNotFound, MsgListNotFound, nil)
	}
	if !list.OwnedBy(actor) {
		return nil, newError("delete list", ErrUnauthorized, MsgListRemoveFailure, nil)
	}
	if err := s.deleteList(ctx, list); err != nil {
		return nil, newError("delete list", ErrOperationFailed, MsgListRemoveFailure, err)
	}
	s.notifyDeleted(ctx, list)
	s.logger.WithFields(logrus.Fields{"list_id": list.ID, "kind": list.Kind}).Info("product list removed")
	return &Result{Changed: true, MessageKey: MsgListRemoved}, nil
}

func (s *Service) deleteList(ctx context.Context, list *List) error {
	return s.store.Atomically(ctx, func(tx Tx) error {
		return tx.DeleteList(list.ID)
	})
}

func (s *Service) product(ctx context.Context, productID string) (*Product, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %s: %w", productID, err)
	}
	return p, nil
}
