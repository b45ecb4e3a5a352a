package etl

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	"github.com/kailas-cloud/cinedex/internal/domain/row"
	"github.com/kailas-cloud/cinedex/internal/metrics"
	"github.com/kailas-cloud/cinedex/internal/retry"
)

// Detector pages through rows modified after a watermark.
type Detector struct {
	src      source
	pageSize int
	retrier  *retry.Retrier
	logger   *zap.Logger
}

// NewDetector creates a change detector.
func NewDetector(src source, pageSize int, r *retry.Retrier, logger *zap.Logger) *Detector {
	return &Detector{src: src, pageSize: pageSize, retrier: r, logger: logger}
}

// Detect calls visit with every page of rows of kind k modified after since,
// in (updated_at, id) order. A source failure restarts detection from the
// first page, so visit may see a page again and must be idempotent.
// Errors returned by visit abort detection without a retry.
// Returns the number of rows visited by the successful attempt.
func (d *Detector) Detect(
	ctx context.Context, k kind.Kind, since time.Time, visit func([]row.Row) error,
) (int, error) {
	return d.detect(ctx, k, since, nil, visit)
}

// detect runs the paging loop. reset, if set, is called before every attempt.
func (d *Detector) detect(
	ctx context.Context, k kind.Kind, since time.Time, reset func(), visit func([]row.Row) error,
) (int, error) {
	var total int
	err := d.retrier.Do(ctx, "detect_"+k.String(), func(ctx context.Context) error {
		total = 0
		if reset != nil {
			reset()
		}
		cursor := row.Start(since)
		for {
			page, err := d.src.Changed(ctx, k, cursor, d.pageSize)
			if err != nil {
				return err
			}
			if len(page) == 0 {
				return nil
			}
			if err := visit(page); err != nil {
				return retry.Permanent(err)
			}
			total += len(page)
			cursor = page[len(page)-1].Position()

			d.logger.Debug("detected page",
				zap.Stringer("kind", k),
				zap.Int("rows", len(page)),
				zap.Time("cursor", cursor.UpdatedAt),
			)
			if len(page) < d.pageSize {
				return nil
			}
		}
	})
	if err != nil {
		return 0, err
	}

	metrics.PipelineRowsDetectedTotal.WithLabelValues(k.String()).Add(float64(total))
	return total, nil
}
