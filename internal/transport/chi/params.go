package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/cinedex/internal/domain"
)

// listFilmsParams are the query parameters of the film listing.
type listFilmsParams struct {
	Query      *string
	Genre      *string
	Sort       *string
	PageSize   *int
	PageNumber *int
}

func (p *listFilmsParams) bind(r *http.Request) error {
	return bindQuery(r,
		queryParam{"query", &p.Query},
		queryParam{"genre", &p.Genre},
		queryParam{"sort", &p.Sort},
		queryParam{"page_size", &p.PageSize},
		queryParam{"page_number", &p.PageNumber},
	)
}

// searchPersonsParams are the query parameters of the person search.
type searchPersonsParams struct {
	Query      *string
	PageSize   *int
	PageNumber *int
}

func (p *searchPersonsParams) bind(r *http.Request) error {
	return bindQuery(r,
		queryParam{"query", &p.Query},
		queryParam{"page_size", &p.PageSize},
		queryParam{"page_number", &p.PageNumber},
	)
}

type queryParam struct {
	name string
	dest any
}

// bindQuery binds optional form-style parameters; dest must be a pointer to a pointer.
func bindQuery(r *http.Request, params ...queryParam) error {
	values := r.URL.Query()
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, false, p.name, values, p.dest); err != nil {
			return fmt.Errorf("invalid format for parameter %s: %w", p.name, domain.ErrInvalidRequest)
		}
	}
	return nil
}

// pathUUID reads a path parameter and reports whether it is a valid UUID.
// Document IDs are UUIDs, so any other value cannot match a document.
func pathUUID(r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
