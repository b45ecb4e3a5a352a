package person

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/cinedex/internal/domain"
	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/page"
	domperson "github.com/kailas-cloud/cinedex/internal/domain/person"
)

// filmLookupConcurrency bounds parallel film reads for one person.
const filmLookupConcurrency = 8

// Service serves person lookups.
type Service struct {
	persons         Repository
	films           FilmReader
	defaultPageSize int
	maxPageSize     int
	maxFilms        int
}

// New creates a person service.
func New(persons Repository, films FilmReader) *Service {
	return &Service{
		persons:         persons,
		films:           films,
		defaultPageSize: 50,
		maxPageSize:     100,
		maxFilms:        1000,
	}
}

// WithPagination configures page size limits of the search.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithMaxFilms caps the number of films returned for one person.
func (s *Service) WithMaxFilms(n int) *Service {
	if n > 0 {
		s.maxFilms = n
	}
	return s
}

// Get returns a person by ID.
func (s *Service) Get(ctx context.Context, id string) (domperson.Person, error) {
	p, err := s.persons.Get(ctx, id)
	if err != nil {
		return domperson.Person{}, fmt.Errorf("get person %s: %w", id, err)
	}
	return p, nil
}

// Search finds persons by approximate full name. No match is ErrPersonNotFound.
func (s *Service) Search(ctx context.Context, text string, pageNumber, pageSize int) ([]domperson.Person, error) {
	pg, err := page.New(pageNumber, pageSize, s.defaultPageSize, s.maxPageSize)
	if err != nil {
		return nil, err
	}

	persons, err := s.persons.Search(ctx, text, pg)
	if err != nil {
		return nil, fmt.Errorf("search persons: %w", err)
	}
	if len(persons) == 0 {
		return nil, domain.ErrPersonNotFound
	}
	return persons, nil
}

// Films returns the films a person contributed to, in the person's order.
// Films missing from the index are skipped.
func (s *Service) Films(ctx context.Context, id string) ([]domfilm.Summary, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := p.FilmIDs
	if len(ids) > s.maxFilms {
		ids = ids[:s.maxFilms]
	}

	found := make([]*domfilm.Summary, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(filmLookupConcurrency)
	for i, filmID := range ids {
		g.Go(func() error {
			f, err := s.films.Get(gctx, filmID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil
				}
				return fmt.Errorf("film %s of person %s: %w", filmID, id, err)
			}
			sum := f.Summary()
			found[i] = &sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domfilm.Summary, 0, len(found))
	for _, f := range found {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out, nil
}
