package film

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain"
	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

// store is the consumer interface for films (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Search(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Repo implements usecase/film.Repository over the movies index.
type Repo struct {
	store store
	keys  index.Keyspace
}

// New creates a film repository.
func New(s store, keys index.Keyspace) *Repo {
	return &Repo{store: s, keys: keys}
}

// Get returns a film by ID.
func (r *Repo) Get(ctx context.Context, id string) (domfilm.Film, error) {
	key := r.keys.DocKey(index.Movies, id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domfilm.Film{}, domain.ErrFilmNotFound
		}
		return domfilm.Film{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return index.DecodeFilm(raw)
}

// List returns one page of film summaries. A missing index yields an empty page.
func (r *Repo) List(ctx context.Context, q domfilm.Query) ([]domfilm.Summary, error) {
	lq := &db.ListQuery{
		Index:        r.keys.IndexName(index.Movies),
		Query:        buildQuery(q),
		Offset:       q.Page.Offset(),
		Limit:        q.Page.Size,
		ReturnFields: []string{"$"},
	}
	if !q.Relevance() {
		lq.SortBy = index.AttrRating
		lq.SortDesc = q.Sort.Desc
	}

	result, err := r.store.Search(ctx, lq)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return []domfilm.Summary{}, nil
		}
		return nil, fmt.Errorf("search films: %w", err)
	}

	out := make([]domfilm.Summary, 0, len(result.Entries))
	for _, entry := range result.Entries {
		f, err := index.DecodeFilm([]byte(entry.Fields["$"]))
		if err != nil {
			return nil, fmt.Errorf("film %s: %w", r.keys.DocID(index.Movies, entry.Key), err)
		}
		out = append(out, f.Summary())
	}
	return out, nil
}

func buildQuery(q domfilm.Query) string {
	switch {
	case q.Text != "":
		return db.TextMatch(index.AttrTitle, q.Text)
	case q.GenreID != "":
		return db.TagFilter(index.AttrGenreID, q.GenreID)
	default:
		return db.MatchAll
	}
}
