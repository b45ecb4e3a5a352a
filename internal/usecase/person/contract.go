package person

import (
	"context"

	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/page"
	domperson "github.com/kailas-cloud/cinedex/internal/domain/person"
)

// Repository defines the read contract for persons.
type Repository interface {
	Get(ctx context.Context, id string) (domperson.Person, error)
	Search(ctx context.Context, text string, pg page.Page) ([]domperson.Person, error)
}

// FilmReader resolves the films of a person.
type FilmReader interface {
	Get(ctx context.Context, id string) (domfilm.Film, error)
}
