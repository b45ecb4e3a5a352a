package chi

import (
	"net/http"

	"github.com/kailas-cloud/cinedex/internal/domain"
)

// SearchPersons handles GET /api/v1/persons/search.
func (s *Server) SearchPersons(w http.ResponseWriter, r *http.Request) {
	var params searchPersonsParams
	if err := params.bind(r); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	persons, err := s.persons.Search(r.Context(),
		deref(params.Query), deref(params.PageNumber), deref(params.PageSize))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]personResponse, len(persons))
	for i := range persons {
		items[i] = personToDTO(&persons[i])
	}
	writeJSON(w, http.StatusOK, items)
}

// GetPerson handles GET /api/v1/persons/{person_id}.
func (s *Server) GetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "person_id")
	if !ok {
		s.handleDomainError(w, r, domain.ErrPersonNotFound)
		return
	}

	p, err := s.persons.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, personToDTO(&p))
}

// PersonFilms handles GET /api/v1/persons/{person_id}/film.
// A person without indexed films answers 404 film not found.
func (s *Server) PersonFilms(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "person_id")
	if !ok {
		s.handleDomainError(w, r, domain.ErrPersonNotFound)
		return
	}

	films, err := s.persons.Films(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if len(films) == 0 {
		s.handleDomainError(w, r, domain.ErrFilmNotFound)
		return
	}

	writeJSON(w, http.StatusOK, summariesToDTO(films))
}
