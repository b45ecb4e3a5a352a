package person

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/page"
	domperson "github.com/kailas-cloud/cinedex/internal/domain/person"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

// store is the consumer interface for persons (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Search(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo implements usecase/person.Repository over the persons index.
type Repo struct {
	store store
	keys  index.Keyspace
}

// New creates a person repository.
func New(s store, keys index.Keyspace) *Repo {
	return &Repo{store: s, keys: keys}
}

// Get returns a person by ID.
func (r *Repo) Get(ctx context.Context, id string) (domperson.Person, error) {
	key := r.keys.DocKey(index.Persons, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domperson.Person{}, domain.ErrPersonNotFound
		}
		return domperson.Person{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return index.DecodePerson(raw)
}

// Search matches full names with one typo allowed per term, ordered by relevance.
func (r *Repo) Search(ctx context.Context, text string, pg page.Page) ([]domperson.Person, error) {
	result, err := r.store.Search(ctx, &db.ListQuery{
		Index:        r.keys.IndexName(index.Persons),
		Query:        db.FuzzyMatch(index.AttrFullName, text),
		Offset:       pg.Offset(),
		Limit:        pg.Size,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return []domperson.Person{}, nil
		}
		return nil, fmt.Errorf("search persons: %w", err)
	}

	out := make([]domperson.Person, 0, len(result.Entries))
	for _, entry := range result.Entries {
		p, err := index.DecodePerson([]byte(entry.Fields["$"]))
		if err != nil {
			return nil, fmt.Errorf("person %s: %w", r.keys.DocID(index.Persons, entry.Key), err)
		}
		out = append(out, p)
	}
	return out, nil
}
