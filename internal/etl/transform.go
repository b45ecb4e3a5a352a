package etl

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/genre"
	"github.com/kailas-cloud/cinedex/internal/domain/person"
	"github.com/kailas-cloud/cinedex/internal/domain/row"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

// Transform maps a raw row to its search document.
func Transform(r row.Row) (index.Document, error) {
	switch v := r.(type) {
	case row.FilmRow:
		f, err := TransformFilm(v)
		if err != nil {
			return index.Document{}, err
		}
		return index.FilmDocument(&f), nil
	case row.GenreRow:
		g, err := TransformGenre(v)
		if err != nil {
			return index.Document{}, err
		}
		return index.GenreDocument(g), nil
	case row.PersonRow:
		p, err := TransformPerson(v)
		if err != nil {
			return index.Document{}, err
		}
		return index.PersonDocument(&p), nil
	default:
		return index.Document{}, fmt.Errorf("unsupported row %T: %w", r, domain.ErrContractViolation)
	}
}

// TransformFilm builds the film document. Persons are partitioned by role;
// roles other than actor, director and writer are dropped.
func TransformFilm(r row.FilmRow) (film.Film, error) {
	if err := requireID("film", r.ID); err != nil {
		return film.Film{}, err
	}
	if r.Title == "" {
		return film.Film{}, violation("film %s has no title", r.ID)
	}

	f := film.Film{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Rating:      r.Rating,
		Genres:      make([]genre.Genre, 0, len(r.Genres)),
		Directors:   []person.Ref{},
		Actors:      []person.Ref{},
		Writers:     []person.Ref{},
	}

	for _, g := range r.Genres {
		if g.ID == "" || g.Name == "" {
			return film.Film{}, violation("film %s has an incomplete genre", r.ID)
		}
		f.Genres = append(f.Genres, genre.Genre{ID: g.ID, Name: g.Name})
	}

	for _, p := range r.Persons {
		if p.ID == "" || p.FullName == "" {
			return film.Film{}, violation("film %s has an incomplete person", r.ID)
		}
		ref := person.Ref{ID: p.ID, FullName: p.FullName}
		switch person.Role(p.Role) {
		case person.RoleDirector:
			f.Directors = append(f.Directors, ref)
		case person.RoleActor:
			f.Actors = append(f.Actors, ref)
		case person.RoleWriter:
			f.Writers = append(f.Writers, ref)
		}
	}
	return f, nil
}

// TransformGenre builds the genre document.
func TransformGenre(r row.GenreRow) (genre.Genre, error) {
	if err := requireID("genre", r.ID); err != nil {
		return genre.Genre{}, err
	}
	if r.Name == "" {
		return genre.Genre{}, violation("genre %s has no name", r.ID)
	}
	return genre.Genre{ID: r.ID, Name: r.Name}, nil
}

// TransformPerson builds the person document with distinct known roles.
func TransformPerson(r row.PersonRow) (person.Person, error) {
	if err := requireID("person", r.ID); err != nil {
		return person.Person{}, err
	}
	if r.FullName == "" {
		return person.Person{}, violation("person %s has no full_name", r.ID)
	}

	roles := make([]person.Role, 0, len(r.Roles))
	seen := make(map[person.Role]bool, len(r.Roles))
	for _, s := range r.Roles {
		role, err := person.ParseRole(s)
		if err != nil || seen[role] {
			continue
		}
		seen[role] = true
		roles = append(roles, role)
	}

	filmIDs := make([]string, len(r.FilmIDs))
	copy(filmIDs, r.FilmIDs)

	return person.Person{ID: r.ID, FullName: r.FullName, Roles: roles, FilmIDs: filmIDs}, nil
}

func requireID(what, id string) error {
	if id == "" {
		return violation("%s without id", what)
	}
	if _, err := uuid.Parse(id); err != nil {
		return violation("%s id %q is not a uuid", what, id)
	}
	return nil
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), domain.ErrContractViolation)
}
