package productlist_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/domain/productlist/productlisttest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	alice = productlist.AccountOwner(1)
	bob   = productlist.AccountOwner(2)
	guest = productlist.GuestOwner("9b2f4c1e-5d1a-4a8e-9a53-0c2a7f3e6b11")
)

func ptr[T any](v T) *T {
	return &v
}

func personalList(t *testing.T, f *productlisttest.Fixture, owner productlist.Owner) *productlist.List {
	t.Helper()
	list, err := f.Service.Resolve(context.Background(), owner, productlist.KindPersonal, "")
	require.NoError(t, err)
	require.NotNil(t, list)
	return list
}

func validEvent() productlist.CreateEventInput {
	return productlist.CreateEventInput{
		EventName:    "Wedding",
		EventDate:    time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC),
		EventCity:    "Boston",
		EventState:   "MA",
		EventCountry: "US",
		Registrant:   productlist.RegistrantInput{Role: "bride", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		PreEvent:     productlist.AddressInput{Address1: "1 Main St", City: "Boston", PostalCode: "02110", CountryCode: "us"},
	}
}

func eventList(t *testing.T, f *productlisttest.Fixture, owner productlist.Owner) *productlist.List {
	t.Helper()
	res, err := f.Service.CreateEventCollection(context.Background(), owner, validEvent())
	require.NoError(t, err)
	return res.List
}

// addProducts registers simple products and adds each with quantity 1
func addProducts(t *testing.T, f *productlisttest.Fixture, list *productlist.List, ids ...string) {
	t.Helper()
	for _, id := range ids {
		f.Catalog.Add(productlisttest.Simple(id))
		_, err := f.Service.AddItem(context.Background(), list, productlist.AddItemInput{ProductID: id, Quantity: 1})
		require.NoError(t, err, "adding %s", id)
	}
}
