package film

import (
	"context"

	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
)

// Repository defines the read contract for films.
type Repository interface {
	Get(ctx context.Context, id string) (domfilm.Film, error)
	List(ctx context.Context, q domfilm.Query) ([]domfilm.Summary, error)
}
