package index

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/cinedex/internal/db"
)

// jsonStore is the consumer interface for the bulk writer (ISP).
type jsonStore interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
}

// Writer upserts documents by identifier.
type Writer struct {
	store jsonStore
	keys  Keyspace
}

// NewWriter creates a bulk writer.
func NewWriter(s jsonStore, keys Keyspace) *Writer {
	return &Writer{store: s, keys: keys}
}

// BulkUpsert writes docs into index n in one pipelined round-trip.
// Every document must belong to n.
func (w *Writer) BulkUpsert(ctx context.Context, n Name, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	items := make([]db.JSONSetItem, len(docs))
	for i, d := range docs {
		if d.Index != n {
			return fmt.Errorf("document %s belongs to %s, not %s", d.ID, d.Index, n)
		}
		data, err := d.Body()
		if err != nil {
			return err
		}
		items[i] = db.JSONSetItem{Key: w.keys.DocKey(n, d.ID), Path: "$", Data: data}
	}

	if err := w.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("bulk upsert %d %s: %w", len(items), n, err)
	}
	return nil
}
