package result

import "github.com/intavia/visualquery/internal/domain/search/params"

// Entity is one hit of the entity search endpoint.
type Entity struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// Page is a paginated entity search response.
type Page struct {
	Count   int      `json:"count"`
	Page    int      `json:"page"`
	Pages   int      `json:"pages"`
	Results []Entity `json:"results"`
}

// HasMore reports whether pages remain after this one.
func (p Page) HasMore() bool { return p.Page < p.Pages }

// IsEmpty reports a response with no hits.
func (p Page) IsEmpty() bool { return p.Count == 0 || len(p.Results) == 0 }

// Navigation is what the front end needs to show a compiled query: the search
// URL and, when the search was executed, its first page.
type Navigation struct {
	URL    string        `json:"url"`
	Params params.Params `json:"params"`
	Page   *Page         `json:"page,omitempty"`
}
