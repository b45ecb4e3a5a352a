package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	domgenre "github.com/kailas-cloud/cinedex/internal/domain/genre"
	domperson "github.com/kailas-cloud/cinedex/internal/domain/person"
	filmuc "github.com/kailas-cloud/cinedex/internal/usecase/film"
	healthuc "github.com/kailas-cloud/cinedex/internal/usecase/health"
)

const (
	filmID   = "3d825f60-9fff-4dfe-b294-1a45fa1e115d"
	genreID  = "6c162475-c7ed-4461-9184-001ef3d9f26e"
	personID = "a5a8f573-3cee-4ccc-8a2b-91cb9f55250a"
)

type mockFilms struct {
	getFn  func(ctx context.Context, id string) (domfilm.Film, error)
	listFn func(ctx context.Context, p filmuc.ListParams) ([]domfilm.Summary, error)
}

func (m *mockFilms) Get(ctx context.Context, id string) (domfilm.Film, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domfilm.Film{}, domain.ErrFilmNotFound
}

func (m *mockFilms) List(ctx context.Context, p filmuc.ListParams) ([]domfilm.Summary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, p)
	}
	return nil, nil
}

type mockGenres struct {
	genres []domgenre.Genre
	err    error
}

func (m *mockGenres) Get(_ context.Context, id string) (domgenre.Genre, error) {
	for _, g := range m.genres {
		if g.ID == id {
			return g, nil
		}
	}
	return domgenre.Genre{}, domain.ErrGenreNotFound
}

func (m *mockGenres) List(_ context.Context) ([]domgenre.Genre, error) {
	return m.genres, m.err
}

type mockPersons struct {
	persons  map[string]domperson.Person
	films    []domfilm.Summary
	searchFn func(ctx context.Context, text string, pageNumber, pageSize int) ([]domperson.Person, error)
}

func (m *mockPersons) Get(_ context.Context, id string) (domperson.Person, error) {
	p, ok := m.persons[id]
	if !ok {
		return domperson.Person{}, domain.ErrPersonNotFound
	}
	return p, nil
}

func (m *mockPersons) Search(ctx context.Context, text string, pageNumber, pageSize int) ([]domperson.Person, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, text, pageNumber, pageSize)
	}
	return nil, domain.ErrPersonNotFound
}

func (m *mockPersons) Films(ctx context.Context, id string) ([]domfilm.Summary, error) {
	if _, err := m.Get(ctx, id); err != nil {
		return nil, err
	}
	return m.films, nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type testServer struct {
	films   *mockFilms
	genres  *mockGenres
	persons *mockPersons
	health  *mockHealth
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		films:   &mockFilms{},
		genres:  &mockGenres{},
		persons: &mockPersons{},
		health:  &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
	}
	s := NewServer(ts.films, ts.genres, ts.persons, ts.health, zap.NewNop())
	ts.handler = s.Router(RouterConfig{})
	return ts
}

func (ts *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func ptr[T any](v T) *T { return &v }
