package film

import (
	"context"

	"github.com/kailas-cloud/cinedex/internal/domain"
	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
)

type mockRepo struct {
	getFn  func(ctx context.Context, id string) (domfilm.Film, error)
	listFn func(ctx context.Context, q domfilm.Query) ([]domfilm.Summary, error)
}

func (m *mockRepo) Get(ctx context.Context, id string) (domfilm.Film, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domfilm.Film{}, domain.ErrFilmNotFound
}

func (m *mockRepo) List(ctx context.Context, q domfilm.Query) ([]domfilm.Summary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return []domfilm.Summary{}, nil
}
