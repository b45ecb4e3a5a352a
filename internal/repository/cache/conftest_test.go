package cache

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	data  map[string][]byte
	ttls  map[string]time.Duration
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

// spyFilms counts calls reaching the index.
type spyFilms struct {
	films     map[string]film.Film
	getCalls  int
	listCalls int
}

func (s *spyFilms) Get(_ context.Context, id string) (film.Film, error) {
	s.getCalls++
	f, ok := s.films[id]
	if !ok {
		return film.Film{}, domain.ErrFilmNotFound
	}
	return f, nil
}

func (s *spyFilms) List(_ context.Context, _ film.Query) ([]film.Summary, error) {
	s.listCalls++
	out := make([]film.Summary, 0, len(s.films))
	for _, f := range s.films {
		out = append(out, f.Summary())
	}
	return out, nil
}

func newTestCache(t *testing.T) (*Cache, *mockKVStore, *prometheus.CounterVec) {
	t.Helper()
	kv := newMockKVStore()
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "test_cache_requests_total", Help: "test"},
		[]string{"resource", "result"},
	)
	return New(kv, index.NewKeyspace("cinedex:"), 5*time.Minute, counter, zap.NewNop()), kv, counter
}
