package chi

import (
	domfilm "github.com/kailas-cloud/cinedex/internal/domain/film"
	domgenre "github.com/kailas-cloud/cinedex/internal/domain/genre"
	domperson "github.com/kailas-cloud/cinedex/internal/domain/person"
)

// errorCode is the machine-readable error class of an error response.
type errorCode string

const (
	codeBadRequest    errorCode = "bad_request"
	codeNotFound      errorCode = "not_found"
	codeUnauthorized  errorCode = "unauthorized"
	codeInternalError errorCode = "internal_error"
)

type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type filmSummaryResponse struct {
	UUID       string   `json:"uuid"`
	Title      string   `json:"title"`
	IMDBRating *float64 `json:"imdb_rating"`
}

type genreResponse struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type personRefResponse struct {
	UUID     string `json:"uuid"`
	FullName string `json:"full_name"`
}

type filmResponse struct {
	UUID        string              `json:"uuid"`
	Title       string              `json:"title"`
	IMDBRating  *float64            `json:"imdb_rating"`
	Description string              `json:"description"`
	Genre       []genreResponse     `json:"genre"`
	Actors      []personRefResponse `json:"actors"`
	Writers     []personRefResponse `json:"writers"`
	Directors   []personRefResponse `json:"directors"`
}

type personResponse struct {
	UUID     string   `json:"uuid"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
	FilmIDs  []string `json:"film_ids"`
}

func summariesToDTO(films []domfilm.Summary) []filmSummaryResponse {
	items := make([]filmSummaryResponse, len(films))
	for i, f := range films {
		items[i] = filmSummaryResponse{UUID: f.ID, Title: f.Title, IMDBRating: f.Rating}
	}
	return items
}

func genreToDTO(g domgenre.Genre) genreResponse {
	return genreResponse{UUID: g.ID, Name: g.Name}
}

func refsToDTO(refs []domperson.Ref) []personRefResponse {
	out := make([]personRefResponse, len(refs))
	for i, r := range refs {
		out[i] = personRefResponse{UUID: r.ID, FullName: r.FullName}
	}
	return out
}

func filmToDTO(f *domfilm.Film) filmResponse {
	genres := make([]genreResponse, len(f.Genres))
	for i, g := range f.Genres {
		genres[i] = genreToDTO(g)
	}
	return filmResponse{
		UUID:        f.ID,
		Title:       f.Title,
		IMDBRating:  f.Rating,
		Description: f.Description,
		Genre:       genres,
		Actors:      refsToDTO(f.Actors),
		Writers:     refsToDTO(f.Writers),
		Directors:   refsToDTO(f.Directors),
	}
}

func personToDTO(p *domperson.Person) personResponse {
	roles := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		roles[i] = string(r)
	}
	filmIDs := p.FilmIDs
	if filmIDs == nil {
		filmIDs = []string{}
	}
	return personResponse{UUID: p.ID, FullName: p.FullName, Roles: roles, FilmIDs: filmIDs}
}
