package genre

import (
	"context"

	domgenre "github.com/kailas-cloud/cinedex/internal/domain/genre"
)

// Repository defines the read contract for genres.
type Repository interface {
	Get(ctx context.Context, id string) (domgenre.Genre, error)
	List(ctx context.Context, limit int) ([]domgenre.Genre, error)
}
