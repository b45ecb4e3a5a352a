// Package postgres reads changed content rows from the relational store.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	"github.com/kailas-cloud/cinedex/internal/domain/row"
)

// querier is the slice of *pgxpool.Pool the source needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
}

// Source implements change detection and batch fetch over the content schema.
type Source struct {
	db querier
}

// New creates a source over a pool.
func New(db querier) *Source {
	return &Source{db: db}
}

// Ping checks connectivity.
func (s *Source) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// Now returns the database clock, the one that stamps updated_at.
func (s *Source) Now(ctx context.Context) (time.Time, error) {
	rows, err := s.db.Query(ctx, nowQuery)
	if err != nil {
		return time.Time{}, fmt.Errorf("query now: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return time.Time{}, fmt.Errorf("query now: %w", err)
		}
		return time.Time{}, fmt.Errorf("query now: no rows")
	}
	var now time.Time
	if err := rows.Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("scan now: %w", err)
	}
	return now, nil
}

// Changed returns up to limit rows of kind k positioned strictly after the
// cursor, ordered by (updated_at, id). A cursor without ID selects rows
// modified after its timestamp.
func (s *Source) Changed(ctx context.Context, k kind.Kind, after row.Cursor, limit int) ([]row.Row, error) {
	switch k {
	case kind.Film:
		films, err := s.changedFilms(ctx, after, limit)
		return asRows(films), err
	case kind.Genre:
		genres, err := s.changedGenres(ctx, after, limit)
		return asRows(genres), err
	case kind.Person:
		persons, err := s.changedPersons(ctx, after, limit)
		return asRows(persons), err
	default:
		return nil, fmt.Errorf("changed rows: unsupported kind %s", k)
	}
}

// FilmsByIDs returns denormalized films for the given keys. Unknown keys are skipped.
func (s *Source) FilmsByIDs(ctx context.Context, ids []string) ([]row.FilmRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, filmsByIDsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("query films by ids: %w", err)
	}
	return scanFilms(rows)
}

// PersonsByIDs returns persons with their current film links. Unknown keys are skipped.
func (s *Source) PersonsByIDs(ctx context.Context, ids []string) ([]row.PersonRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(ctx, personsByIDsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("query persons by ids: %w", err)
	}
	return scanPersons(rows)
}

func (s *Source) changedFilms(ctx context.Context, after row.Cursor, limit int) ([]row.FilmRow, error) {
	pred, args := keyset("fw", after, limit)
	rows, err := s.db.Query(ctx, fmt.Sprintf(changedFilmsQuery, pred), args...)
	if err != nil {
		return nil, fmt.Errorf("query changed films: %w", err)
	}
	return scanFilms(rows)
}

func (s *Source) changedGenres(ctx context.Context, after row.Cursor, limit int) ([]row.GenreRow, error) {
	pred, args := keyset("g", after, limit)
	rows, err := s.db.Query(ctx, fmt.Sprintf(changedGenresQuery, pred), args...)
	if err != nil {
		return nil, fmt.Errorf("query changed genres: %w", err)
	}
	defer rows.Close()

	var out []row.GenreRow
	for rows.Next() {
		var g row.GenreRow
		if err := rows.Scan(&g.ID, &g.Name, &g.UpdatedAt, &g.FilmIDs); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return out, nil
}

func (s *Source) changedPersons(ctx context.Context, after row.Cursor, limit int) ([]row.PersonRow, error) {
	pred, args := keyset("p", after, limit)
	rows, err := s.db.Query(ctx, fmt.Sprintf(changedPersonsQuery, pred), args...)
	if err != nil {
		return nil, fmt.Errorf("query changed persons: %w", err)
	}
	return scanPersons(rows)
}

func scanPersons(rows pgx.Rows) ([]row.PersonRow, error) {
	defer rows.Close()

	var out []row.PersonRow
	for rows.Next() {
		var p row.PersonRow
		if err := rows.Scan(&p.ID, &p.FullName, &p.UpdatedAt, &p.FilmIDs, &p.Roles); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return out, nil
}

func scanFilms(rows pgx.Rows) ([]row.FilmRow, error) {
	defer rows.Close()

	var out []row.FilmRow
	for rows.Next() {
		var (
			f       row.FilmRow
			genres  []byte
			persons []byte
		)
		if err := rows.Scan(&f.ID, &f.Title, &f.Description, &f.Rating, &f.UpdatedAt, &genres, &persons); err != nil {
			return nil, fmt.Errorf("scan film: %w", err)
		}
		if err := json.Unmarshal(genres, &f.Genres); err != nil {
			return nil, fmt.Errorf("decode genres of film %s: %w", f.ID, err)
		}
		if err := json.Unmarshal(persons, &f.Persons); err != nil {
			return nil, fmt.Errorf("decode persons of film %s: %w", f.ID, err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate films: %w", err)
	}
	return out, nil
}

// keyset renders the pagination predicate for table alias a. $1 is always the limit.
func keyset(a string, after row.Cursor, limit int) (string, []any) {
	if after.ID == "" {
		return fmt.Sprintf("%s.updated_at > $2", a), []any{limit, after.UpdatedAt}
	}
	return fmt.Sprintf("(%s.updated_at, %s.id::text) > ($2, $3)", a, a),
		[]any{limit, after.UpdatedAt, after.ID}
}

func asRows[T row.Row](in []T) []row.Row {
	if in == nil {
		return nil
	}
	out := make([]row.Row, len(in))
	for i, r := range in {
		out[i] = r
	}
	return out
}
