package index

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/db"
)

// Attribute names used in queries.
const (
	AttrTitle      = "title"
	AttrRating     = "imdb_rating"
	AttrGenreID    = "genre_id"
	AttrGenreNames = "genre_names"
	AttrName       = "name"
	AttrFullName   = "full_name"
	AttrRoles      = "roles"
)

// indexManager is the consumer interface for schema setup (ISP).
type indexManager interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Definitions returns the FT index definitions of every document kind.
func Definitions(keys Keyspace) []*db.IndexDefinition {
	return []*db.IndexDefinition{
		db.NewIndex(keys.IndexName(Movies)).OnJSON().
			Prefix(keys.DocPrefix(Movies)).
			Tag("$.uuid", "uuid").
			Text("$.title", AttrTitle).
			Text("$.description", "description").
			Numeric("$.imdb_rating", AttrRating, db.Sortable()).
			Tag("$.genre[*].uuid", AttrGenreID).
			Tag("$.genre_names[*]", AttrGenreNames).
			MustBuild(),
		db.NewIndex(keys.IndexName(Genres)).OnJSON().
			Prefix(keys.DocPrefix(Genres)).
			Tag("$.uuid", "uuid").
			Text("$.name", AttrName, db.Sortable()).
			MustBuild(),
		db.NewIndex(keys.IndexName(Persons)).OnJSON().
			Prefix(keys.DocPrefix(Persons)).
			Tag("$.uuid", "uuid").
			Text("$.full_name", AttrFullName).
			Tag("$.roles[*]", AttrRoles).
			MustBuild(),
	}
}

// EnsureIndexes creates missing FT indexes. Existing indexes are left as is.
func EnsureIndexes(ctx context.Context, s indexManager, keys Keyspace, logger *zap.Logger) error {
	for _, def := range Definitions(keys) {
		exists, err := s.IndexExists(ctx, def.Name)
		if err != nil {
			return fmt.Errorf("check index %s: %w", def.Name, err)
		}
		if exists {
			continue
		}
		if err := s.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
		logger.Info("search index created", zap.String("index", def.Name))
	}
	return nil
}
