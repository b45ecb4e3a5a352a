package index

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/cinedex/internal/domain/film"
	"github.com/kailas-cloud/cinedex/internal/domain/genre"
	"github.com/kailas-cloud/cinedex/internal/domain/person"
)

// Document is a search document ready for upsert. ID is the source primary
// key, so writing the same document twice leaves the index unchanged.
type Document struct {
	Index Name
	ID    string
	body  any
}

// FilmDocument wraps a film for the movies index.
func FilmDocument(f *film.Film) Document {
	return Document{Index: Movies, ID: f.ID, body: toFilmDTO(f)}
}

// GenreDocument wraps a genre for the genres index.
func GenreDocument(g genre.Genre) Document {
	return Document{Index: Genres, ID: g.ID, body: genreDTO{UUID: g.ID, Name: g.Name}}
}

// PersonDocument wraps a person for the persons index.
func PersonDocument(p *person.Person) Document {
	return Document{Index: Persons, ID: p.ID, body: toPersonDTO(p)}
}

// Body renders the stored JSON.
func (d Document) Body() ([]byte, error) {
	data, err := json.Marshal(d.body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s document %s: %w", d.Index, d.ID, err)
	}
	return data, nil
}
