package productlist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/productlist-backend/internal/domain/productlist"
	"github.com/your-org/productlist-backend/internal/domain/productlist/productlisttest"
)

// seedSearch creates n accounts named Jane Doe, each with a public wishlist,
// and returns the list ids in account order
func seedSearch(t *testing.T, f *productlisttest.Fixture, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		owner := productlist.AccountOwner(uint(100 + i))
		f.Directory.Add(productlist.Profile{
			AccountID: owner.AccountID,
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane" + string(rune('a'+i)) + "@example.com",
		})
		list := personalList(t, f, owner)
		_, err := f.Service.ToggleVisibility(context.Background(), owner, list.ID, "")
		require.NoError(t, err)
		ids = append(ids, list.ID)
	}
	return ids
}

func hitIDs(hits []productlist.SearchHit) []string {
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestSearch_EmptyQueryReturnsNil(t *testing.T) {
	f := productlisttest.New(t)
	res, err := f.Service.Search(context.Background(), productlist.SearchQuery{}, productlist.SearchPage{})
	assert.NoError(t, err)
	assert.Nil(t, res)

	res, err = f.Service.Search(context.Background(), productlist.SearchQuery{FirstName: "  "}, productlist.SearchPage{})
	assert.NoError(t, err)
	assert.Nil(t, res)
}

func TestSearch_StablePaging(t *testing.T) {
	ctx := context.Background()
	f := productlisttest.New(t)
	ids := seedSearch(t, f, 10)
	query := productlist.SearchQuery{FirstName: "Jane", LastName: "Doe"}

	first, err := f.Service.Search(ctx, query, productlist.SearchPage{PageSize: 4, PageNumber: 1})
	require.NoError(t, err)
	assert.False(t, first.ChangedList)
	assert.Equal(t, ids[:4], hitIDs(first.Hits))
	assert.Equal(t, 10, first.Total)
	assert.True(t, first.ShowMore)
	assert.Empty(t, first.Redirect)

	second, err := f.Service.Search(ctx, query, productlist.SearchPage{PageSize: 4, PageNumber: 2, UUIDs: hitIDs(first.Hits)})
	require.NoError(t, err)
	assert.False(t, second.ChangedList)
	assert.Equal(t, ids[4:8], hitIDs(second.Hits))
	assert.Equal(t, 4, second.TotalNumber)
	assert.True(t, second.ShowMore)

	third, err := f.Service.Search(ctx, query, productlist.SearchPage{PageSize: 4, PageNumber: 3, UUIDs: ids[:8]})
	require.NoError(t, err)
	assert.False(t, third.ChangedList)
	assert.Equal(t, ids[8:], hitIDs(third.Hits))
	assert.False(t, third.ShowMore)
}

func TestSearch_HugePageNumberIsPastTheEnd(t *testing.T) {
	f := productlisttest.New(t)
	seedSearch(t, f, 3)

	res, err := f.Service.Search(context.Background(), productlist.SearchQuery{LastName: "Doe"}, productlist.SearchPage{PageSize: 8, PageNumber: 1 << 62})
	require.NoError(t, err)

	assert.Empty(t, res.Hits)
	assert.False(t, res.ChangedList)
	assert.Equal(t, 3, res.Total)
	assert.False(t, res.ShowMore)
}

func TestSearch_ChangedListReturnsAccumulatedHits(t *testing.T) {
	ctx := context.Background()
	f := productlisttest.New(t)
	ids := seedSearch(t, f, 10)
	query := productlist.SearchQuery{LastName: "Doe"}

	first, err := f.Service.Search(ctx, query, productlist.SearchPage{PageSize: 4, PageNumber: 1})
	require.NoError(t, err)

	// the second profile makes its list private
	_, err = f.Service.ToggleVisibility(ctx, productlist.AccountOwner(102), ids[1], "")
	require.NoError(t, err)

	second, err := f.Service.Search(ctx, query, productlist.SearchPage{PageSize: 4, PageNumber: 2, UUIDs: hitIDs(first.Hits)})
	require.NoError(t, err)

	assert.True(t, second.ChangedList)
	want := append([]string{ids[0]}, ids[2:9]...)
	assert.Equal(t, want, hitIDs(second.Hits), "all accumulated hits up to the page boundary")
	assert.Equal(t, 9, second.Total)
	assert.Equal(t, 8, second.TotalNumber)
}

func TestSearch_ChangedWhenTrailingHitDisappears(t *testing.T) {
	ctx := context.Background()
	f := productlisttest.New(t)
	ids := seedSearch(t, f, 3)
	query := productlist.SearchQuery{FirstName: "Jane"}

	_, err := f.Service.ToggleVisibility(ctx, productlist.AccountOwner(103), ids[2], "")
	require.NoError(t, err)

	res, err := f.Service.Search(ctx, query, productlist.SearchPage{PageSize: 3, PageNumber: 2, UUIDs: ids})
	require.NoError(t, err)

	assert.True(t, res.ChangedList)
	assert.Equal(t, ids[:2], hitIDs(res.Hits))
}

func TestSearch_PrivateListsAreNotHits(t *testing.T) {
	ctx := context.Background()
	f := productlisttest.New(t)
	seedSearch(t, f, 2)
	f.Directory.Add(productlist.Profile{AccountID: 900, FirstName: "Jane", LastName: "Doe", Email: "private@example.com"})
	personalList(t, f, productlist.AccountOwner(900))
	f.Directory.Add(productlist.Profile{AccountID: 901, FirstName: "Jane", LastName: "Doe", Email: "nolist@example.com"})

	res, err := f.Service.Search(ctx, productlist.SearchQuery{FirstName: "jane", LastName: "doe"}, productlist.SearchPage{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 8, res.PageSize)
}

func TestSearch_ByEmail(t *testing.T) {
	ctx := context.Background()
	f := productlisttest.New(t)
	ids := seedSearch(t, f, 3)

	res, err := f.Service.Search(ctx, productlist.SearchQuery{FirstName: "Ignored", Email: "janec@example.com"}, productlist.SearchPage{})
	require.NoError(t, err)

	require.Len(t, res.Hits, 1)
	assert.Equal(t, ids[1], res.Hits[0].ID)
	assert.Equal(t, "/api/v1/wishlists/"+ids[1], res.Hits[0].URL)
	assert.Equal(t, res.Hits[0].URL, res.Redirect, "single hit redirects")

	res, err = f.Service.Search(ctx, productlist.SearchQuery{Email: "nobody@example.com"}, productlist.SearchPage{})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
	assert.Zero(t, res.Total)
}
