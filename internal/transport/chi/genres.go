package chi

import (
	"net/http"

	"github.com/kailas-cloud/cinedex/internal/domain"
)

// ListGenres handles GET /api/v1/genres.
func (s *Server) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.genres.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]genreResponse, len(genres))
	for i, g := range genres {
		items[i] = genreToDTO(g)
	}
	writeJSON(w, http.StatusOK, items)
}

// GetGenre handles GET /api/v1/genres/{genre_id}.
func (s *Server) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "genre_id")
	if !ok {
		s.handleDomainError(w, r, domain.ErrGenreNotFound)
		return
	}

	g, err := s.genres.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, genreToDTO(g))
}
