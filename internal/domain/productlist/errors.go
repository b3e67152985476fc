package productlist

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed list operation
type ErrorKind string

func (k ErrorKind) Error() string {
	return string(k)
}

const (
	ErrNotFound        ErrorKind = "not_found"
	ErrUnauthorized    ErrorKind = "unauthorized"
	ErrForbidden       ErrorKind = "forbidden_operation"
	ErrValidation      ErrorKind = "validation_failed"
	ErrDuplicate       ErrorKind = "duplicate"
	ErrOperationFailed ErrorKind = "operation_failed"
)

// Message keys returned to the presentation layer
const (
	MsgAddSuccess          = "wishlist.addtowishlist.success.msg"
	MsgAddExists           = "wishlist.addtowishlist.exist.msg"
	MsgAddFailure          = "wishlist.addtowishlist.failure.msg"
	MsgAddNotListable      = "wishlist.addtowishlist.notlistable.msg"
	MsgQuantityInvalid     = "productlist.quantity.invalid.msg"
	MsgRemoveSuccess       = "remove.item.success.msg"
	MsgRemoveFailure       = "remove.item.failure.msg"
	MsgEditSuccess         = "wishlist.edit.success.msg"
	MsgEditFailure         = "wishlist.edit.failure.msg"
	MsgItemNotFound        = "productlist.item.notfound.msg"
	MsgListNotFound        = "productlist.list.notfound.msg"
	MsgListRemoved         = "productlist.list.removed.msg"
	MsgListRemoveFailure   = "productlist.list.remove.failure.msg"
	MsgMergeSuccess        = "wishlist.merge.success.msg"
	MsgMergeFailure        = "wishlist.merge.failure.msg"
	MsgToggleError         = "list.togglepublic.error.msg"
	MsgToggleListSuccess   = "list.togglepublic.success.msg"
	MsgToggleItemSuccess   = "listitem.togglepublic.success.msg"
	MsgToggleMasterError   = "list.togglepublic.master.error.msg"
	MsgNotViewable         = "wishlist.not.viewable.text"
	MsgRegistryCreated     = "registry.create.success.msg"
	MsgRegistryFailure     = "registry.create.failure.msg"
	MsgRegistryFieldsError = "registry.create.fields.error.msg"
	MsgSearchCriteria      = "wishlist.search.criteria.error.msg"
)

// Error is returned by every list operation that fails
type Error struct {
	Op         string
	Kind       ErrorKind
	MessageKey string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind ErrorKind, key string, cause error) *Error {
	return &Error{Op: op, Kind: kind, MessageKey: key, Err: cause}
}

// KindOf returns the kind of err, or ErrOperationFailed for foreign errors
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrOperationFailed
}

// MessageKeyOf returns the message key carried by err
func MessageKeyOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.MessageKey
	}
	return ""
}
