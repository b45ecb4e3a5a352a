// Package row holds the raw rows read from the relational source.
// Rows are tagged by kind; the document transformer is the only place
// that turns them into search documents.
package row

import (
	"time"

	"github.com/kailas-cloud/cinedex/internal/domain/kind"
)

// Row is a raw row of any kind.
type Row interface {
	Kind() kind.Kind
	// Key is the source primary key.
	Key() string
	// Position orders rows for keyset pagination.
	Position() Cursor
}

// Cursor is a keyset pagination position: (updated_at, id).
type Cursor struct {
	UpdatedAt time.Time
	ID        string
}

// Start is the cursor preceding every row modified after since.
func Start(since time.Time) Cursor {
	return Cursor{UpdatedAt: since}
}

// GenreRef is a genre attached to a film row.
type GenreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PersonRef is a person attached to a film row with the role they played.
type PersonRef struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// FilmRow is a fully denormalized film.
type FilmRow struct {
	ID          string
	Title       string
	Description string
	Rating      *float64
	UpdatedAt   time.Time
	Genres      []GenreRef
	Persons     []PersonRef
}

// Kind implements Row.
func (FilmRow) Kind() kind.Kind { return kind.Film }

// Key implements Row.
func (r FilmRow) Key() string { return r.ID }

// Position implements Row.
func (r FilmRow) Position() Cursor { return Cursor{UpdatedAt: r.UpdatedAt, ID: r.ID} }

// GenreRow is a changed genre with the films referencing it.
type GenreRow struct {
	ID        string
	Name      string
	UpdatedAt time.Time
	FilmIDs   []string
}

// Kind implements Row.
func (GenreRow) Kind() kind.Kind { return kind.Genre }

// Key implements Row.
func (r GenreRow) Key() string { return r.ID }

// Position implements Row.
func (r GenreRow) Position() Cursor { return Cursor{UpdatedAt: r.UpdatedAt, ID: r.ID} }

// PersonRow is a changed person with the films they contributed to.
type PersonRow struct {
	ID        string
	FullName  string
	UpdatedAt time.Time
	FilmIDs   []string
	Roles     []string
}

// Kind implements Row.
func (PersonRow) Kind() kind.Kind { return kind.Person }

// Key implements Row.
func (r PersonRow) Key() string { return r.ID }

// Position implements Row.
func (r PersonRow) Position() Cursor { return Cursor{UpdatedAt: r.UpdatedAt, ID: r.ID} }
