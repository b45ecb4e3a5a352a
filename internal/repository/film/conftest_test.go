package film

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/kailas-cloud/cinedex/internal/db"
	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/genre"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

var testKeys = index.NewKeyspace("cinedex:")

// memoryStore is a tiny in-memory movies index. It understands the
// queries the repository renders: match-all, a genre tag filter and a
// title term match.
type memoryStore struct {
	films     map[string]*domfilm.Film
	lastQuery *db.ListQuery
	searchErr error
	getErr    error
}

func newMemoryStore(films ...*domfilm.Film) *memoryStore {
	m := &memoryStore{films: make(map[string]*domfilm.Film)}
	for _, f := range films {
		m.films[f.ID] = f
	}
	return m
}

func (m *memoryStore) JSONGet(_ context.Context, key string, _ ...string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	f, ok := m.films[testKeys.DocID(index.Movies, key)]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	body, err := index.FilmDocument(f).Body()
	if err != nil {
		return nil, err
	}
	return []byte("[" + string(body) + "]"), nil
}

func (m *memoryStore) Search(_ context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.searchErr != nil {
		return nil, m.searchErr
	}

	var hits []*domfilm.Film
	for _, f := range m.films {
		if matches(f, q.Query) {
			hits = append(hits, f)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	if q.SortBy == index.AttrRating {
		sort.SliceStable(hits, func(i, j int) bool {
			a, b := ratingOf(hits[i]), ratingOf(hits[j])
			if q.SortDesc {
				return a > b
			}
			return a < b
		})
	}

	result := &db.SearchResult{Total: len(hits)}
	for i := q.Offset; i < len(hits) && i < q.Offset+q.Limit; i++ {
		body, err := index.FilmDocument(hits[i]).Body()
		if err != nil {
			return nil, err
		}
		result.Entries = append(result.Entries, db.SearchEntry{
			Key:    testKeys.DocKey(index.Movies, hits[i].ID),
			Fields: map[string]string{"$": string(body)},
		})
	}
	return result, nil
}

func matches(f *domfilm.Film, query string) bool {
	unescape := strings.NewReplacer(`\`, "")
	switch {
	case query == db.MatchAll:
		return true
	case strings.HasPrefix(query, "@genre_id:{"):
		id := unescape.Replace(strings.TrimSuffix(strings.TrimPrefix(query, "@genre_id:{"), "}"))
		for _, g := range f.Genres {
			if g.ID == id {
				return true
			}
		}
		return false
	case strings.HasPrefix(query, "@title:("):
		terms := strings.Fields(unescape.Replace(strings.TrimSuffix(strings.TrimPrefix(query, "@title:("), ")")))
		for _, term := range terms {
			if !strings.Contains(strings.ToLower(f.Title), strings.ToLower(term)) {
				return false
			}
		}
		return true
	default:
		panic("unsupported query " + query)
	}
}

func ratingOf(f *domfilm.Film) float64 {
	if f.Rating == nil {
		return -1
	}
	return *f.Rating
}

// elevenFilms returns films rated 1.0 .. 11.0, all in genre "drama".
func elevenFilms(t *testing.T) []*domfilm.Film {
	t.Helper()
	films := make([]*domfilm.Film, 11)
	for i := range films {
		r := float64(i + 1)
		films[i] = &domfilm.Film{
			ID:     fmt.Sprintf("00000000-0000-0000-0000-%012d", i+1),
			Title:  fmt.Sprintf("The Star %d", i+1),
			Rating: &r,
			Genres: []genre.Genre{{ID: "6c162475-c7ed-4461-9184-001ef3d9f26e", Name: "Drama"}},
		}
	}
	return films
}
