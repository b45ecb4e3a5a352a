package genre

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain"
	domgenre "github.com/kailas-cloud/cinedex/internal/domain/genre"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

// store is the consumer interface for genres (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Search(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo implements usecase/genre.Repository over the genres index.
type Repo struct {
	store store
	keys  index.Keyspace
}

// New creates a genre repository.
func New(s store, keys index.Keyspace) *Repo {
	return &Repo{store: s, keys: keys}
}

// Get returns a genre by ID.
func (r *Repo) Get(ctx context.Context, id string) (domgenre.Genre, error) {
	key := r.keys.DocKey(index.Genres, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domgenre.Genre{}, domain.ErrGenreNotFound
		}
		return domgenre.Genre{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return index.DecodeGenre(raw)
}

// List returns up to limit genres ordered by name.
func (r *Repo) List(ctx context.Context, limit int) ([]domgenre.Genre, error) {
	result, err := r.store.Search(ctx, &db.ListQuery{
		Index:        r.keys.IndexName(index.Genres),
		Query:        db.MatchAll,
		Limit:        limit,
		SortBy:       index.AttrName,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return []domgenre.Genre{}, nil
		}
		return nil, fmt.Errorf("search genres: %w", err)
	}

	out := make([]domgenre.Genre, 0, len(result.Entries))
	for _, entry := range result.Entries {
		g, err := index.DecodeGenre([]byte(entry.Fields["$"]))
		if err != nil {
			return nil, fmt.Errorf("genre %s: %w", r.keys.DocID(index.Genres, entry.Key), err)
		}
		out = append(out, g)
	}
	return out, nil
}
