// Package chi serves the read API over the search index.
package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	domgenre "github.com/kailas-cloud/cinedex/internal/domain/genre"
	domperson "github.com/kailas-cloud/cinedex/internal/domain/person"
	"github.com/kailas-cloud/cinedex/internal/metrics"
	filmuc "github.com/kailas-cloud/cinedex/internal/usecase/film"
	healthuc "github.com/kailas-cloud/cinedex/internal/usecase/health"
)

type filmService interface {
	Get(ctx context.Context, id string) (domfilm.Film, error)
	List(ctx context.Context, p filmuc.ListParams) ([]domfilm.Summary, error)
}

type genreService interface {
	Get(ctx context.Context, id string) (domgenre.Genre, error)
	List(ctx context.Context) ([]domgenre.Genre, error)
}

type personService interface {
	Get(ctx context.Context, id string) (domperson.Person, error)
	Search(ctx context.Context, text string, pageNumber, pageSize int) ([]domperson.Person, error)
	Films(ctx context.Context, id string) ([]domfilm.Summary, error)
}

type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers of the read API.
type Server struct {
	films         filmService
	genres        genreService
	persons       personService
	health        healthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	films filmService,
	genres genreService,
	persons personService,
	health healthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		films:   films,
		genres:  genres,
		persons: persons,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, codeBadRequest),
	}
	return s
}

// RouterConfig holds the middleware settings of the router.
type RouterConfig struct {
	APIKeys []string
	// PublicPaths bypass authentication; nil means /health and /metrics.
	PublicPaths []string
}

// Router mounts the API under /api/v1 together with /health and /metrics.
func (s *Server) Router(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	public := cfg.PublicPaths
	if public == nil {
		public = defaultPublicPaths
	}
	r.Use(BearerAuthMiddleware(cfg.APIKeys, public...))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/films", func(r chi.Router) {
			r.Get("/", s.ListFilms)
			r.Get("/search", s.ListFilms)
			r.Get("/{film_id}", s.GetFilm)
		})
		r.Route("/genres", func(r chi.Router) {
			r.Get("/", s.ListGenres)
			r.Get("/{genre_id}", s.GetGenre)
		})
		r.Route("/persons", func(r chi.Router) {
			r.Get("/search", s.SearchPersons)
			r.Get("/{person_id}", s.GetPerson)
			r.Get("/{person_id}/film", s.PersonFilms)
		})
	})

	return r
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}
