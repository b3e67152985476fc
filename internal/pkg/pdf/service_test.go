package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/productlist-backend/internal/config"
	"github.com/your-org/productlist-backend/internal/domain/productlist"
)

func TestGenerateHTML(t *testing.T) {
	s := NewService(&config.Config{App: config.AppConfig{StoreName: "Acme <Home>"}})
	s.now = func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) }

	date := time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC)
	list := &productlist.List{
		Kind: productlist.KindEvent,
		Event: productlist.Event{
			Name:    "Ada & Charles",
			Date:    &date,
			City:    "London",
			Country: "GB",
		},
		People: []productlist.Registrant{
			{Role: productlist.RoleRegistrant, FirstName: "Ada", LastName: "Lovelace", EventRole: "bride"},
		},
	}
	view := &productlist.ViewModel{
		TotalNumber: 2,
		Items: []productlist.ItemView{
			{Name: "Classic Mug", Quantity: 4},
			{Name: "Basic Tee", Quantity: 1, Options: []productlist.SelectedOption{{OptionID: "size", ValueID: "m"}}},
		},
	}

	data := s.NewSheetData(list, view)
	assert.Equal(t, "June 20, 2026", data.EventDate)
	assert.Equal(t, "London, GB", data.Location)
	assert.Equal(t, "March 1, 2026", data.GeneratedAt)

	html, err := s.generateHTML(data)
	require.NoError(t, err)

	assert.Contains(t, html, "Ada &amp; Charles")
	assert.Contains(t, html, "Acme &lt;Home&gt;")
	assert.Contains(t, html, "Ada Lovelace (bride)")
	assert.Contains(t, html, "size: m")
	assert.Contains(t, html, "2 items")
}
