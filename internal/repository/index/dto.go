package index

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/genre"
	"github.com/kailas-cloud/cinedex/internal/domain/person"
)

type genreDTO struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type refDTO struct {
	UUID     string `json:"uuid"`
	FullName string `json:"full_name"`
}

type filmDTO struct {
	UUID           string     `json:"uuid"`
	Title          string     `json:"title"`
	IMDbRating     *float64   `json:"imdb_rating"`
	Description    string     `json:"description"`
	Genre          []genreDTO `json:"genre"`
	GenreNames     []string   `json:"genre_names"`
	DirectorsNames []string   `json:"directors_names"`
	ActorsNames    []string   `json:"actors_names"`
	WritersNames   []string   `json:"writers_names"`
	Directors      []refDTO   `json:"directors"`
	Actors         []refDTO   `json:"actors"`
	Writers        []refDTO   `json:"writers"`
}

type personDTO struct {
	UUID     string   `json:"uuid"`
	FullName string   `json:"full_name"`
	Roles    []string `json:"roles"`
	FilmIDs  []string `json:"film_ids"`
}

func toFilmDTO(f *film.Film) filmDTO {
	genres := make([]genreDTO, len(f.Genres))
	names := make([]string, len(f.Genres))
	for i, g := range f.Genres {
		genres[i] = genreDTO{UUID: g.ID, Name: g.Name}
		names[i] = g.Name
	}
	return filmDTO{
		UUID:           f.ID,
		Title:          f.Title,
		IMDbRating:     f.Rating,
		Description:    f.Description,
		Genre:          genres,
		GenreNames:     names,
		DirectorsNames: film.Names(f.Directors),
		ActorsNames:    film.Names(f.Actors),
		WritersNames:   film.Names(f.Writers),
		Directors:      toRefDTOs(f.Directors),
		Actors:         toRefDTOs(f.Actors),
		Writers:        toRefDTOs(f.Writers),
	}
}

func (d *filmDTO) toDomain() film.Film {
	genres := make([]genre.Genre, len(d.Genre))
	for i, g := range d.Genre {
		genres[i] = genre.Genre{ID: g.UUID, Name: g.Name}
	}
	return film.Film{
		ID:          d.UUID,
		Title:       d.Title,
		Description: d.Description,
		Rating:      d.IMDbRating,
		Genres:      genres,
		Directors:   fromRefDTOs(d.Directors),
		Actors:      fromRefDTOs(d.Actors),
		Writers:     fromRefDTOs(d.Writers),
	}
}

func toRefDTOs(refs []person.Ref) []refDTO {
	out := make([]refDTO, len(refs))
	for i, r := range refs {
		out[i] = refDTO{UUID: r.ID, FullName: r.FullName}
	}
	return out
}

func fromRefDTOs(refs []refDTO) []person.Ref {
	out := make([]person.Ref, len(refs))
	for i, r := range refs {
		out[i] = person.Ref{ID: r.UUID, FullName: r.FullName}
	}
	return out
}

func toPersonDTO(p *person.Person) personDTO {
	roles := make([]string, len(p.Roles))
	for i, r := range p.Roles {
		roles[i] = string(r)
	}
	filmIDs := p.FilmIDs
	if filmIDs == nil {
		filmIDs = []string{}
	}
	return personDTO{UUID: p.ID, FullName: p.FullName, Roles: roles, FilmIDs: filmIDs}
}

func (d *personDTO) toDomain() person.Person {
	roles := make([]person.Role, 0, len(d.Roles))
	for _, r := range d.Roles {
		if role, err := person.ParseRole(r); err == nil {
			roles = append(roles, role)
		}
	}
	return person.Person{ID: d.UUID, FullName: d.FullName, Roles: roles, FilmIDs: d.FilmIDs}
}

// DecodeFilm parses a stored film document. Both the bare object and the
// single-element array returned by JSON.GET with path "$" are accepted.
func DecodeFilm(data []byte) (film.Film, error) {
	var d filmDTO
	if err := decode(data, &d); err != nil {
		return film.Film{}, fmt.Errorf("decode film: %w", err)
	}
	return d.toDomain(), nil
}

// DecodeGenre parses a stored genre document.
func DecodeGenre(data []byte) (genre.Genre, error) {
	var d genreDTO
	if err := decode(data, &d); err != nil {
		return genre.Genre{}, fmt.Errorf("decode genre: %w", err)
	}
	return genre.Genre{ID: d.UUID, Name: d.Name}, nil
}

// DecodePerson parses a stored person document.
func DecodePerson(data []byte) (person.Person, error) {
	var d personDTO
	if err := decode(data, &d); err != nil {
		return person.Person{}, fmt.Errorf("decode person: %w", err)
	}
	return d.toDomain(), nil
}

func decode(data []byte, v any) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var arr []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &arr); err != nil {
			return err
		}
		if len(arr) == 0 {
			return fmt.Errorf("empty result")
		}
		return json.Unmarshal(arr[0], v)
	}
	return json.Unmarshal([]byte(trimmed), v)
}
