package cache

import (
	"context"

	"github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/genre"
	"github.com/kailas-cloud/cinedex/internal/domain/page"
	"github.com/kailas-cloud/cinedex/internal/domain/person"
)

type filmRepo interface {
	Get(ctx context.Context, id string) (film.Film, error)
	List(ctx context.Context, q film.Query) ([]film.Summary, error)
}

// Films caches film lookups.
type Films struct {
	inner filmRepo
	cache *Cache
}

// NewFilms wraps a film repository. A nil cache disables caching.
func NewFilms(inner filmRepo, c *Cache) *Films {
	return &Films{inner: inner, cache: c}
}

// Get returns a film by ID.
func (f *Films) Get(ctx context.Context, id string) (film.Film, error) {
	return readThrough(ctx, f.cache, "film", Key("film", P("uuid", id)),
		func(ctx context.Context) (film.Film, error) { return f.inner.Get(ctx, id) })
}

// List returns a page of film summaries. A text search ignores the genre
// filter and the sort, so neither takes part in its key.
func (f *Films) List(ctx context.Context, q film.Query) ([]film.Summary, error) {
	q = q.Normalize()
	reverse := q.Sort.Direction()
	if q.Relevance() {
		reverse = ""
	}
	key := Key("films",
		P("reverse", reverse),
		P("page_number", q.Page.Number),
		P("page_size", q.Page.Size),
		P("genre", q.GenreID),
		P("query", q.Text),
	)
	return readThrough(ctx, f.cache, "films", key,
		func(ctx context.Context) ([]film.Summary, error) { return f.inner.List(ctx, q) })
}

type genreRepo interface {
	Get(ctx context.Context, id string) (genre.Genre, error)
	List(ctx context.Context, limit int) ([]genre.Genre, error)
}

// Genres caches genre lookups.
type Genres struct {
	inner genreRepo
	cache *Cache
}

// NewGenres wraps a genre repository. A nil cache disables caching.
func NewGenres(inner genreRepo, c *Cache) *Genres {
	return &Genres{inner: inner, cache: c}
}

// Get returns a genre by ID.
func (g *Genres) Get(ctx context.Context, id string) (genre.Genre, error) {
	return readThrough(ctx, g.cache, "genre", Key("genre", P("uuid", id)),
		func(ctx context.Context) (genre.Genre, error) { return g.inner.Get(ctx, id) })
}

// List returns up to limit genres.
func (g *Genres) List(ctx context.Context, limit int) ([]genre.Genre, error) {
	return readThrough(ctx, g.cache, "genres", Key("genres", P("page_size", limit)),
		func(ctx context.Context) ([]genre.Genre, error) { return g.inner.List(ctx, limit) })
}

type personRepo interface {
	Get(ctx context.Context, id string) (person.Person, error)
	Search(ctx context.Context, text string, pg page.Page) ([]person.Person, error)
}

// Persons caches person lookups.
type Persons struct {
	inner personRepo
	cache *Cache
}

// NewPersons wraps a person repository. A nil cache disables caching.
func NewPersons(inner personRepo, c *Cache) *Persons {
	return &Persons{inner: inner, cache: c}
}

// Get returns a person by ID.
func (p *Persons) Get(ctx context.Context, id string) (person.Person, error) {
	return readThrough(ctx, p.cache, "person", Key("person", P("uuid", id)),
		func(ctx context.Context) (person.Person, error) { return p.inner.Get(ctx, id) })
}

// Search returns a page of persons matching text.
func (p *Persons) Search(ctx context.Context, text string, pg page.Page) ([]person.Person, error) {
	key := Key("persons",
		P("query", text),
		P("page_number", pg.Number),
		P("page_size", pg.Size),
	)
	return readThrough(ctx, p.cache, "persons", key,
		func(ctx context.Context) ([]person.Person, error) { return p.inner.Search(ctx, text, pg) })
}
