package etl

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/metrics"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
	"github.com/kailas-cloud/cinedex/internal/retry"
)

// Loader upserts document batches into the search index.
type Loader struct {
	idx     indexer
	retrier *retry.Retrier
	logger  *zap.Logger
}

// NewLoader creates a bulk loader.
func NewLoader(idx indexer, r *retry.Retrier, logger *zap.Logger) *Loader {
	return &Loader{idx: idx, retrier: r, logger: logger}
}

// Load submits docs as one bulk upsert into index n, retrying the whole
// batch on failure. Upserts are keyed by document id, so a retried batch
// never duplicates documents.
func (l *Loader) Load(ctx context.Context, n index.Name, docs []index.Document) error {
	if len(docs) == 0 {
		return nil
	}
	err := l.retrier.Do(ctx, "load_"+string(n), func(ctx context.Context) error {
		return l.idx.BulkUpsert(ctx, n, docs)
	})
	if err != nil {
		return err
	}

	metrics.PipelineDocumentsLoadedTotal.WithLabelValues(string(n)).Add(float64(len(docs)))
	l.logger.Debug("documents loaded", zap.String("index", string(n)), zap.Int("count", len(docs)))
	return nil
}

// LoadAll splits docs into batches of at most size and loads them in order.
func (l *Loader) LoadAll(ctx context.Context, n index.Name, docs []index.Document, size int) error {
	for _, batch := range chunks(docs, size) {
		if err := l.Load(ctx, n, batch); err != nil {
			return err
		}
	}
	return nil
}
