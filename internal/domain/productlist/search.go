package productlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery holds the identity filters of a public list search
type SearchQuery struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Email     string `form:"email" json:"email"`
}

// IsEmpty reports whether no filter is set
func (q SearchQuery) IsEmpty() bool {
	return strings.TrimSpace(q.FirstName) == "" &&
		strings.TrimSpace(q.LastName) == "" &&
		strings.TrimSpace(q.Email) == ""
}

// SearchPage describes the requested page and what the caller saw before.
// UUIDs are the hit ids of the previously rendered pages, in order.
type SearchPage struct {
	PageSize   int
	PageNumber int
	UUIDs      []string
}

// SearchHit is one public list found by a search
type SearchHit struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	ID        string `json:"id"`
	URL       string `json:"url"`
}

// SearchResult is the outcome of a public list search
type SearchResult struct {
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Hits        []SearchHit `json:"hits"`
	Total       int         `json:"total"`
	TotalNumber int         `json:"total_number"`
	PageNumber  int         `json:"page_number"`
	PageSize    int         `json:"page_size"`
	ShowMore    bool        `json:"show_more"`
	ChangedList bool        `json:"changed_list"`
	// Redirect is set when page one holds exactly one hit
	Redirect string `json:"redirect,omitempty"`
}

// Search finds public personal lists by owner identity.
//
// Hits are accumulated up to PageSize*PageNumber. When the ids the caller
// saw on earlier pages no longer match the accumulated hits, ChangedList is
// set and every accumulated hit is returned so the caller can re-render.
// Otherwise only the requested page is returned. A nil result means no
// filter was given.
func (s *Service) Search(ctx context.Context, q SearchQuery, page SearchPage) (*SearchResult, error) {
	if q.IsEmpty() {
		return nil, nil
	}
	if page.PageSize <= 0 {
		page.PageSize = s.config.SearchPageSize
	}
	if page.PageSize <= 0 {
		page.PageSize = 8
	}
	page.PageNumber = clampPage(page.PageSize, page.PageNumber)

	profiles, err := s.candidates(ctx, q)
	if err != nil {
		return nil, newError("search", ErrOperationFailed, MsgSearchCriteria, err)
	}

	limit := page.PageSize * page.PageNumber
	seen := page.PageSize * (page.PageNumber - 1)
	result := &SearchResult{
		FirstName:  q.FirstName,
		LastName:   q.LastName,
		Hits:       []SearchHit{},
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}

	total := 0
	for _, profile := range profiles {
		list, err := s.FindPersonal(ctx, AccountOwner(profile.AccountID))
		if err != nil {
			return nil, err
		}
		if list == nil || !list.IsPublic {
			continue
		}
		if total < limit {
			if total < len(page.UUIDs) && total < seen && page.UUIDs[total] != list.ID {
				result.ChangedList = true
			}
			result.Hits = append(result.Hits, SearchHit{
				FirstName: profile.FirstName,
				LastName:  profile.LastName,
				ID:        list.ID,
				URL:       s.publicURL(list.ID),
			})
		}
		total++
	}
	if len(result.Hits) < min(len(page.UUIDs), seen) {
		result.ChangedList = true
	}

	if !result.ChangedList {
		start := min(seen, len(result.Hits))
		result.Hits = result.Hits[start:]
	}
	result.TotalNumber = len(result.Hits)
	result.Total = total
	result.ShowMore = total > limit
	if page.PageNumber == 1 && total == 1 {
		result.Redirect = result.Hits[0].URL
	}
	return result, nil
}

// candidates picks the most specific filter: email alone wins, otherwise
// whichever name fields are set are combined
func (s *Service) candidates(ctx context.Context, q SearchQuery) ([]Profile, error) {
	if email := strings.TrimSpace(q.Email); email != "" {
		profile, err := s.directory.FindByEmail(ctx, email)
		if errors.Is(err, ErrStoreNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []Profile{*profile}, nil
	}
	return s.directory.FindByName(ctx, strings.TrimSpace(q.FirstName), strings.TrimSpace(q.LastName))
}

func (s *Service) publicURL(listID string) string {
	path := s.config.PublicListPath
	if path == "" {
		path = "/api/v1/wishlists/%s"
	}
	return fmt.Sprintf(path, listID)
}
