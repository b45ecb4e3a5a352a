package film

import (
	"context"
	"fmt"

	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/page"
)

// ListParams are the raw list and search parameters.
type ListParams struct {
	Query      string
	GenreID    string
	Sort       string
	PageNumber int
	PageSize   int
}

// Service serves film lookups.
type Service struct {
	repo            Repository
	defaultPageSize int
	maxPageSize     int
}

// New creates a film service.
func New(repo Repository) *Service {
	return &Service{
		repo:            repo,
		defaultPageSize: 10,
		maxPageSize:     100,
	}
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Get returns a film by ID.
func (s *Service) Get(ctx context.Context, id string) (domfilm.Film, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return domfilm.Film{}, fmt.Errorf("get film %s: %w", id, err)
	}
	return f, nil
}

// List returns one page of films filtered by genre or matched by title.
func (s *Service) List(ctx context.Context, p ListParams) ([]domfilm.Summary, error) {
	sort, err := domfilm.ParseSort(p.Sort)
	if err != nil {
		return nil, err
	}
	pg, err := page.New(p.PageNumber, p.PageSize, s.defaultPageSize, s.maxPageSize)
	if err != nil {
		return nil, err
	}

	films, err := s.repo.List(ctx, domfilm.Query{
		Text:    p.Query,
		GenreID: p.GenreID,
		Sort:    sort,
		Page:    pg,
	}.Normalize())
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	return films, nil
}
