// Package etl is the incremental synchronization pipeline: it detects rows
// changed since the last committed watermark, expands genre and person
// changes to the films that reference them, and upserts search documents.
package etl

import (
	"context"

	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	"github.com/kailas-cloud/cinedex/internal/domain/row"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
)

// source is the relational store as seen by the pipeline.
type source interface {
	Changed(ctx context.Context, k kind.Kind, after row.Cursor, limit int) ([]row.Row, error)
	FilmsByIDs(ctx context.Context, ids []string) ([]row.FilmRow, error)
	PersonsByIDs(ctx context.Context, ids []string) ([]row.PersonRow, error)
}

// indexer writes documents into the search index.
type indexer interface {
	BulkUpsert(ctx context.Context, n index.Name, docs []index.Document) error
}

// kvStore persists watermarks.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
