package productlist

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// RegistrantInput represents one person of a new registry
type RegistrantInput struct {
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (r *RegistrantInput) complete() bool {
	return r != nil &&
		strings.TrimSpace(r.FirstName) != "" &&
		strings.TrimSpace(r.LastName) != "" &&
		strings.TrimSpace(r.Email) != ""
}

// AddressInput represents a shipping address of a new registry
type AddressInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	StateCode   string `json:"state_code"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone       string `json:"phone"`
}

func (a *AddressInput) complete() bool {
	return a != nil && strings.TrimSpace(a.Address1) != "" && strings.TrimSpace(a.City) != ""
}

// CreateEventInput represents a new registry request
type CreateEventInput struct {
	EventName    string           `json:"event_name"`
	EventDate    time.Time        `json:"event_date"`
	EventCity    string           `json:"event_city"`
	EventState   string           `json:"event_state"`
	EventCountry string           `json:"event_country"`
	IsPublic     bool             `json:"is_public"`
	Registrant   RegistrantInput  `json:"registrant"`
	CoRegistrant *RegistrantInput `json:"co_registrant,omitempty"`
	PreEvent     AddressInput     `json:"pre_event_address"`
	PostEvent    *AddressInput    `json:"post_event_address,omitempty"`
}

// CreateEventCollection provisions a registry with its registrants and
// shipping addresses in one atomic step
func (s *Service) CreateEventCollection(ctx context.Context, owner Owner, in CreateEventInput) (*Result, error) {
	const op = "create registry"

	if owner.AccountID == 0 {
		return nil, newError(op, ErrUnauthorized, MsgRegistryFailure, nil)
	}
	if strings.TrimSpace(in.EventName) == "" || in.EventDate.IsZero() ||
		!in.Registrant.complete() || !in.PreEvent.complete() {
		return nil, newError(op, ErrValidation, MsgRegistryFieldsError, nil)
	}
	if in.CoRegistrant != nil && !in.CoRegistrant.complete() {
		return nil, newError(op, ErrValidation, MsgRegistryFieldsError, nil)
	}
	if in.PostEvent != nil && !in.PostEvent.complete() {
		return nil, newError(op, ErrValidation, MsgRegistryFieldsError, nil)
	}

	list := s.newList(owner, KindEvent)
	date := in.EventDate.UTC()
	list.Name = strings.TrimSpace(in.EventName)
	list.IsPublic = in.IsPublic
	list.Event = Event{
		Name:    list.Name,
		Date:    &date,
		City:    in.EventCity,
		State:   in.EventState,
		Country: in.EventCountry,
	}
	list.People = append(list.People, registrant(list.ID, RoleRegistrant, in.Registrant))
	if in.CoRegistrant != nil {
		list.People = append(list.People, registrant(list.ID, RoleCoRegistrant, *in.CoRegistrant))
	}
	list.Addresses = append(list.Addresses, shippingAddress(list.ID, PhasePreEvent, in.PreEvent))
	if in.PostEvent != nil {
		list.Addresses = append(list.Addresses, shippingAddress(list.ID, PhasePostEvent, *in.PostEvent))
	}

	err := s.store.Atomically(ctx, func(tx Tx) error {
		return tx.CreateList(list)
	})
	if err != nil {
		return nil, newError(op, ErrOperationFailed, MsgRegistryFailure, err)
	}

	s.logger.WithFields(logrus.Fields{"list_id": list.ID, "owner": list.OwnerRef}).Info("registry created")
	return &Result{List: list, Changed: true, MessageKey: MsgRegistryCreated}, nil
}

func registrant(listID string, role RegistrantRole, in RegistrantInput) Registrant {
	return Registrant{
		ListID:    listID,
		Role:      role,
		EventRole: in.Role,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     strings.TrimSpace(in.Email),
	}
}

func shippingAddress(listID string, phase AddressPhase, in AddressInput) ShippingAddress {
	country := strings.ToUpper(strings.TrimSpace(in.CountryCode))
	if country == "" {
		country = "US"
	}
	return ShippingAddress{
		ListID:      listID,
		Phase:       phase,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Address1:    in.Address1,
		Address2:    in.Address2,
		City:        in.City,
		StateCode:   in.StateCode,
		PostalCode:  in.PostalCode,
		CountryCode: country,
		Phone:       in.Phone,
	}
}

// ListsOf returns the owner's lists of kind, oldest first
func (s *Service) ListsOf(ctx context.Context, owner Owner, kind Kind) ([]*List, error) {
	if owner.IsZero() {
		return []*List{}, nil
	}
	lists, err := s.store.ListsByOwner(ctx, owner.Ref(), kind)
	if err != nil {
		return nil, newError("list lists", ErrOperationFailed, MsgListNotFound, err)
	}
	return lists, nil
}
