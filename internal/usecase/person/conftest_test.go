package person

import (
	"context"
	"sync"

	"github.com/kailas-cloud/cinedex/internal/domain"
	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/page"
	domperson "github.com/kailas-cloud/cinedex/internal/domain/person"
)

type mockPersons struct {
	persons  map[string]domperson.Person
	searchFn func(ctx context.Context, text string, pg page.Page) ([]domperson.Person, error)
}

func (m *mockPersons) Get(_ context.Context, id string) (domperson.Person, error) {
	p, ok := m.persons[id]
	if !ok {
		return domperson.Person{}, domain.ErrPersonNotFound
	}
	return p, nil
}

func (m *mockPersons) Search(ctx context.Context, text string, pg page.Page) ([]domperson.Person, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, text, pg)
	}
	return nil, nil
}

type mockFilms struct {
	mu    sync.Mutex
	films map[string]domfilm.Film
	err   error
	calls int
}

func (m *mockFilms) Get(_ context.Context, id string) (domfilm.Film, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return domfilm.Film{}, m.err
	}
	f, ok := m.films[id]
	if !ok {
		return domfilm.Film{}, domain.ErrFilmNotFound
	}
	return f, nil
}
