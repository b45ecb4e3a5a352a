package genre

import (
	"context"

	"github.com/kailas-cloud/cinedex/internal/db"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

var testKeys = index.NewKeyspace("cinedex:")

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonGetFn func(ctx context.Context, key string, paths ...string) ([]byte, error)
	searchFn  func(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Search(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}
