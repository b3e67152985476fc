// Package productlisttest provides in-memory collaborators for exercising
// the product list service without a database.
package productlisttest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/your-org/productlist-backend/internal/domain/productlist"
)

// ErrInjected is returned by operations set up to fail
var ErrInjected = errors.New("injected failure")

// Store is an in-memory productlist.Store. Every Atomically call works on a
// staged copy that is committed only when the callback succeeds.
type Store struct {
	mu      sync.Mutex
	lists   map[string]*productlist.List
	order   []string
	failOps map[string]int
	nextID  uint

	// Applies counts committed atomic units
	Applies int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		lists:   make(map[string]*productlist.List),
		failOps: make(map[string]int),
	}
}

// FailOp makes the next n calls of the named Tx method fail, e.g. "CreateItem".
// A negative n fails every call until Reset.
func (s *Store) FailOp(op string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOps[op] = n
}

// Reset clears injected failures
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOps = make(map[string]int)
}

// Put stores list as is, bypassing the unit of work
func (s *Store) Put(list *productlist.List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lists[list.ID]; !ok {
		s.order = append(s.order, list.ID)
	}
	s.lists[list.ID] = cloneList(list)
}

// Len returns the number of stored lists
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lists)
}

// Snapshot returns a copy of the stored list, or nil
func (s *Store) Snapshot(id string) *productlist.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lists[id]; ok {
		return cloneList(l)
	}
	return nil
}

// ListsByOwner implements productlist.Store
func (s *Store) ListsByOwner(_ context.Context, ownerRef string, kind productlist.Kind) ([]*productlist.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.take("ListsByOwner"); err != nil {
		return nil, err
	}
	lists := []*productlist.List{}
	for _, id := range s.order {
		l, ok := s.lists[id]
		if ok && l.OwnerRef == ownerRef && l.Kind == kind {
			lists = append(lists, cloneList(l))
		}
	}
	return lists, nil
}

// GetList implements productlist.Store
func (s *Store) GetList(_ context.Context, id string) (*productlist.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.take("GetList"); err != nil {
		return nil, err
	}
	l, ok := s.lists[id]
	if !ok {
		return nil, productlist.ErrStoreNotFound
	}
	return cloneList(l), nil
}

// Atomically implements productlist.Store
func (s *Store) Atomically(_ context.Context, fn func(tx productlist.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.take("Atomically"); err != nil {
		return err
	}

	tx := &memTx{store: s, lists: make(map[string]*productlist.List, len(s.lists)), order: slices.Clone(s.order)}
	for id, l := range s.lists {
		tx.lists[id] = cloneList(l)
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.lists = tx.lists
	s.order = tx.order
	s.Applies++
	return nil
}

// take consumes one injected failure for op. Callers hold s.mu.
func (s *Store) take(op string) error {
	n, ok := s.failOps[op]
	if !ok || n == 0 {
		return nil
	}
	if n > 0 {
		s.failOps[op] = n - 1
	}
	return fmt.Errorf("%s: %w", op, ErrInjected)
}

type memTx struct {
	store *Store
	lists map[string]*productlist.List
	order []string
}

func (tx *memTx) CreateList(list *productlist.List) error {
	if err := tx.store.take("CreateList"); err != nil {
		return err
	}
	if _, ok := tx.lists[list.ID]; ok {
		return fmt.Errorf("list %s already exists", list.ID)
	}
	if list.Kind == productlist.KindPersonal {
		for _, l := range tx.lists {
			if l.Kind == productlist.KindPersonal && l.OwnerRef == list.OwnerRef {
				return fmt.Errorf("owner %s already has a personal list", list.OwnerRef)
			}
		}
	}
	for i := range list.People {
		tx.store.nextID++
		list.People[i].ID = tx.store.nextID
	}
	for i := range list.Addresses {
		tx.store.nextID++
		list.Addresses[i].ID = tx.store.nextID
	}
	tx.lists[list.ID] = cloneList(list)
	tx.order = append(tx.order, list.ID)
	return nil
}

func (tx *memTx) UpdateListVisibility(listID string, isPublic bool) error {
	if err := tx.store.take("UpdateListVisibility"); err != nil {
		return err
	}
	l, ok := tx.lists[listID]
	if !ok {
		return productlist.ErrStoreNotFound
	}
	l.IsPublic = isPublic
	return nil
}

func (tx *memTx) DeleteList(listID string) error {
	if err := tx.store.take("DeleteList"); err != nil {
		return err
	}
	if _, ok := tx.lists[listID]; !ok {
		return productlist.ErrStoreNotFound
	}
	delete(tx.lists, listID)
	tx.order = slices.DeleteFunc(tx.order, func(id string) bool { return id == listID })
	return nil
}

func (tx *memTx) CreateItem(item *productlist.Item) error {
	if err := tx.store.take("CreateItem"); err != nil {
		return err
	}
	l, ok := tx.lists[item.ListID]
	if !ok {
		return productlist.ErrStoreNotFound
	}
	copied := *item
	copied.Options = slices.Clone(item.Options)
	l.Items = append(l.Items, copied)
	return nil
}

func (tx *memTx) UpdateItemQuantity(itemID string, quantity int) error {
	if err := tx.store.take("UpdateItemQuantity"); err != nil {
		return err
	}
	item := tx.item(itemID)
	if item == nil {
		return productlist.ErrStoreNotFound
	}
	item.Quantity = quantity
	return nil
}

func (tx *memTx) UpdateItemVisibility(itemID string, isPublic bool) error {
	if err := tx.store.take("UpdateItemVisibility"); err != nil {
		return err
	}
	item := tx.item(itemID)
	if item == nil {
		return productlist.ErrStoreNotFound
	}
	item.IsPublic = isPublic
	return nil
}

func (tx *memTx) DeleteItem(itemID string) error {
	if err := tx.store.take("DeleteItem"); err != nil {
		return err
	}
	for _, l := range tx.lists {
		n := len(l.Items)
		l.Items = slices.DeleteFunc(l.Items, func(i productlist.Item) bool { return i.ID == itemID })
		if len(l.Items) != n {
			return nil
		}
	}
	return productlist.ErrStoreNotFound
}

func (tx *memTx) item(itemID string) *productlist.Item {
	for _, l := range tx.lists {
		if item := l.Item(itemID); item != nil {
			return item
		}
	}
	return nil
}

func cloneList(l *productlist.List) *productlist.List {
	c := *l
	c.Items = make([]productlist.Item, len(l.Items))
	for i, item := range l.Items {
		item.Options = slices.Clone(item.Options)
		c.Items[i] = item
	}
	c.People = slices.Clone(l.People)
	c.Addresses = slices.Clone(l.Addresses)
	return &c
}
