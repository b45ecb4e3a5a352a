package genre

import (
	"context"
	"fmt"

	domgenre "github.com/kailas-cloud/cinedex/internal/domain/genre"
)

// Service serves genre lookups.
type Service struct {
	repo      Repository
	listLimit int
}

// New creates a genre service. listLimit caps the genre listing.
func New(repo Repository, listLimit int) *Service {
	if listLimit <= 0 {
		listLimit = 26
	}
	return &Service{repo: repo, listLimit: listLimit}
}

// Get returns a genre by ID.
func (s *Service) Get(ctx context.Context, id string) (domgenre.Genre, error) {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return domgenre.Genre{}, fmt.Errorf("get genre %s: %w", id, err)
	}
	return g, nil
}

// List returns every genre up to the listing cap.
func (s *Service) List(ctx context.Context) ([]domgenre.Genre, error) {
	genres, err := s.repo.List(ctx, s.listLimit)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}
