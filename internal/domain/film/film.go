// Package film holds the film search document and its list projection.
package film

import (
	"fmt"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/genre"
	"github.com/kailas-cloud/cinedex/internal/domain/page"
	"github.com/kailas-cloud/cinedex/internal/domain/person"
)

// Film is the denormalized film search document.
type Film struct {
	ID          string
	Title       string
	Description string
	Rating      *float64
	Genres      []genre.Genre
	Directors   []person.Ref
	Actors      []person.Ref
	Writers     []person.Ref
}

// Summary is the projection returned by list and search endpoints.
type Summary struct {
	ID     string
	Title  string
	Rating *float64
}

// Summary projects a film to its list form.
func (f *Film) Summary() Summary {
	return Summary{ID: f.ID, Title: f.Title, Rating: f.Rating}
}

// Names returns the full names of refs in order.
func Names(refs []person.Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.FullName
	}
	return out
}

// SortField is the only sortable film attribute.
const SortField = "imdb_rating"

// Sort is a parsed sort parameter.
type Sort struct {
	Desc bool
}

// DefaultSort orders by rating, highest first.
var DefaultSort = Sort{Desc: true}

// ParseSort accepts "imdb_rating" (ascending) and "-imdb_rating" (descending).
// An empty value yields DefaultSort.
func ParseSort(s string) (Sort, error) {
	switch s {
	case "":
		return DefaultSort, nil
	case SortField:
		return Sort{}, nil
	case "-" + SortField:
		return Sort{Desc: true}, nil
	default:
		return Sort{}, fmt.Errorf("unsupported sort %q: %w", s, domain.ErrInvalidRequest)
	}
}

// Direction renders the sort as the original API did: "asc" or "desc".
func (s Sort) Direction() string {
	if s.Desc {
		return "desc"
	}
	return "asc"
}

// Query selects a page of films. Text and GenreID are mutually exclusive:
// a Text match wins and is ordered by relevance, everything else by Sort.
type Query struct {
	Text    string
	GenreID string
	Sort    Sort
	Page    page.Page
}

// Relevance reports whether results are ordered by text relevance.
func (q Query) Relevance() bool {
	return q.Text != ""
}

// Normalize drops the genre filter when a text search is present.
func (q Query) Normalize() Query {
	if q.Text != "" {
		q.GenreID = ""
	}
	return q
}
