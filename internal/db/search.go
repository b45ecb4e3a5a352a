package db

import "errors"

// MatchAll is the FT.SEARCH query selecting every document in an index.
const MatchAll = "*"

// ListQuery is the input for a paginated FT.SEARCH.
type ListQuery struct {
	Index        string
	Query        string // raw RediSearch query; empty means MatchAll
	Offset       int
	Limit        int
	SortBy       string // sortable attribute; empty keeps relevance order
	SortDesc     bool
	ReturnFields []string
}

// Validate checks the query bounds.
func (q *ListQuery) Validate() error {
	if q.Index == "" {
		return errors.New("index name is required")
	}
	if q.Offset < 0 {
		return errors.New("offset must be non-negative")
	}
	if q.Limit < 0 {
		return errors.New("limit must be non-negative")
	}
	return nil
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
