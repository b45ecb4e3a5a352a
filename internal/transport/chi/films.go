package chi

import (
	"net/http"

	"github.com/kailas-cloud/cinedex/internal/domain"
	filmuc "github.com/kailas-cloud/cinedex/internal/usecase/film"
)

// ListFilms handles GET /api/v1/films and GET /api/v1/films/search.
func (s *Server) ListFilms(w http.ResponseWriter, r *http.Request) {
	var params listFilmsParams
	if err := params.bind(r); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	films, err := s.films.List(r.Context(), filmuc.ListParams{
		Query:      deref(params.Query),
		GenreID:    deref(params.Genre),
		Sort:       deref(params.Sort),
		PageNumber: deref(params.PageNumber),
		PageSize:   deref(params.PageSize),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summariesToDTO(films))
}

// GetFilm handles GET /api/v1/films/{film_id}.
func (s *Server) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "film_id")
	if !ok {
		s.handleDomainError(w, r, domain.ErrFilmNotFound)
		return
	}

	f, err := s.films.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, filmToDTO(&f))
}
