package etl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	"github.com/kailas-cloud/cinedex/internal/domain/row"
	"github.com/kailas-cloud/cinedex/internal/metrics"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
	"github.com/kailas-cloud/cinedex/internal/retry"
)

// Config sizes the pipeline batches.
type Config struct {
	DetectPageSize int
	FetchChunkSize int
	// LoadBatchSize bounds genre and person batches; film batches follow FetchChunkSize.
	LoadBatchSize int
	Interval      time.Duration
}

// PassResult summarizes one pass over a kind.
type PassResult struct {
	Kind kind.Kind
	// Rows is the number of changed rows detected.
	Rows int
	// Films is the number of film documents written.
	Films int
	// Entities is the number of genre or person documents written.
	Entities int
	// Watermark is the watermark after the pass.
	Watermark time.Time
	// Committed reports whether the watermark moved.
	Committed bool
}

// Driver runs passes kind by kind and commits watermarks.
type Driver struct {
	detector   *Detector
	fetcher    *Fetcher
	loader     *Loader
	watermarks *WatermarkStore
	retrier    *retry.Retrier
	cfg        Config
	now        func(context.Context) (time.Time, error)
	logger     *zap.Logger

	mu    sync.Mutex
	state map[kind.Kind]State
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock replaces time.Now as the source of commit timestamps.
func WithClock(clock func() time.Time) Option {
	return func(d *Driver) {
		d.now = func(context.Context) (time.Time, error) { return clock(), nil }
	}
}

// WithSourceClock takes commit timestamps from the relational store, the
// clock that stamps updated_at.
func WithSourceClock(now func(context.Context) (time.Time, error)) Option {
	return func(d *Driver) { d.now = now }
}

// NewDriver wires the pipeline components.
func NewDriver(
	src source, idx indexer, kv kvStore, keys index.Keyspace,
	r *retry.Retrier, cfg Config, logger *zap.Logger, opts ...Option,
) *Driver {
	d := &Driver{
		detector:   NewDetector(src, cfg.DetectPageSize, r, logger),
		fetcher:    NewFetcher(src, cfg.FetchChunkSize, r),
		loader:     NewLoader(idx, r, logger),
		watermarks: NewWatermarkStore(kv, keys, r),
		retrier:    r,
		cfg:        cfg,
		now:        func(context.Context) (time.Time, error) { return time.Now(), nil },
		logger:     logger,
		state:      make(map[kind.Kind]State),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State returns the current state of the pass over k.
func (d *Driver) State(k kind.Kind) State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state[k]
}

func (d *Driver) setState(k kind.Kind, s State) {
	d.mu.Lock()
	d.state[k] = s
	d.mu.Unlock()
	metrics.PipelineState.WithLabelValues(k.String()).Set(float64(s))
}

// Run repeats RunOnce every interval until ctx is done. Pass failures are
// logged and retried on the next run.
func (d *Driver) Run(ctx context.Context) error {
	for {
		if _, err := d.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			d.logger.Error("sync run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(d.cfg.Interval):
		}
	}
}

// RunOnce runs one pass per kind in sync order. A failed kind does not stop
// the others; their errors are joined.
func (d *Driver) RunOnce(ctx context.Context) ([]PassResult, error) {
	return d.RunKinds(ctx, kind.SyncOrder())
}

// RunKinds is RunOnce restricted to kinds, which are passed in the given order.
func (d *Driver) RunKinds(ctx context.Context, kinds []kind.Kind) ([]PassResult, error) {
	var (
		results []PassResult
		errs    []error
	)
	for _, k := range kinds {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		res, err := d.Pass(ctx, k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Pass synchronizes one kind. The commit timestamp is taken before detection
// starts, so rows modified during the pass are picked up by the next one.
// The watermark moves only after every document of the pass is written.
func (d *Driver) Pass(ctx context.Context, k kind.Kind) (PassResult, error) {
	begin := time.Now()
	res := PassResult{Kind: k}

	err := d.pass(ctx, k, &res)
	d.setState(k, StateIdle)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.PipelinePassDuration.WithLabelValues(k.String(), status).Observe(time.Since(begin).Seconds())

	if err != nil {
		d.logger.Error("sync pass failed", zap.Stringer("kind", k), zap.Error(err))
		return res, fmt.Errorf("sync %s: %w", k, err)
	}

	d.logger.Info("sync pass done",
		zap.Stringer("kind", k),
		zap.Int("rows", res.Rows),
		zap.Int("films", res.Films),
		zap.Int("entities", res.Entities),
		zap.Bool("committed", res.Committed),
		zap.Time("watermark", res.Watermark),
	)
	return res, nil
}

func (d *Driver) pass(ctx context.Context, k kind.Kind, res *PassResult) error {
	d.setState(k, StateDetecting)
	var started time.Time
	err := d.retrier.Do(ctx, "clock", func(ctx context.Context) error {
		var err error
		started, err = d.now(ctx)
		return err
	})
	if err != nil {
		return err
	}

	since, err := d.watermarks.Read(ctx, k)
	if err != nil {
		return err
	}
	res.Watermark = since

	if k.Derived() {
		err = d.derivedPass(ctx, k, since, res)
	} else {
		err = d.filmPass(ctx, since, res)
	}
	if err != nil {
		return err
	}

	if res.Rows == 0 || !started.After(since) {
		return nil
	}

	d.setState(k, StateCommitting)
	if err := d.watermarks.Write(ctx, k, started); err != nil {
		return err
	}
	res.Watermark = started
	res.Committed = true
	metrics.PipelineWatermark.WithLabelValues(k.String()).Set(float64(started.Unix()))
	return nil
}

// filmPass loads changed films page by page straight from detection, then
// refreshes the person documents linked to them so their film lists follow
// film-side link changes.
func (d *Driver) filmPass(ctx context.Context, since time.Time, res *PassResult) error {
	linked := newKeySet()
	reset := func() { linked = newKeySet() }
	n, err := d.detector.detect(ctx, kind.Film, since, reset, func(page []row.Row) error {
		d.setState(kind.Film, StateTransforming)
		docs := make([]index.Document, 0, len(page))
		for _, r := range page {
			doc, err := Transform(r)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
			if f, ok := r.(row.FilmRow); ok {
				for _, p := range f.Persons {
					linked.add(p.ID)
				}
			}
		}

		d.setState(kind.Film, StateLoading)
		if err := d.loader.LoadAll(ctx, index.Movies, docs, d.cfg.FetchChunkSize); err != nil {
			return err
		}
		d.setState(kind.Film, StateDetecting)
		return nil
	})
	res.Rows = n
	res.Films = n
	if err != nil {
		return err
	}
	if len(linked.keys) == 0 {
		return nil
	}

	d.setState(kind.Film, StateFetching)
	return d.fetcher.FetchPersonsEach(ctx, linked.keys, func(persons []row.PersonRow) error {
		d.setState(kind.Film, StateTransforming)
		docs := make([]index.Document, 0, len(persons))
		for _, p := range persons {
			doc, err := Transform(p)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}

		d.setState(kind.Film, StateLoading)
		if err := d.loader.LoadAll(ctx, index.Persons, docs, d.cfg.LoadBatchSize); err != nil {
			return err
		}
		res.Entities += len(docs)
		d.setState(kind.Film, StateFetching)
		return nil
	})
}

// derivedPass writes the changed genres or persons, then re-materializes
// every film that references them.
func (d *Driver) derivedPass(ctx context.Context, k kind.Kind, since time.Time, res *PassResult) error {
	exp := NewExpander()
	n, err := d.detector.Detect(ctx, k, since, func(page []row.Row) error {
		exp.Add(page)
		return nil
	})
	if err != nil {
		return err
	}
	res.Rows = n
	if n == 0 {
		return nil
	}

	d.setState(k, StateExpanding)
	cs := exp.ChangeSet()

	d.setState(k, StateTransforming)
	entities := make([]index.Document, 0, len(cs.Entities))
	for _, r := range cs.Entities {
		doc, err := Transform(r)
		if err != nil {
			return err
		}
		entities = append(entities, doc)
	}

	d.setState(k, StateLoading)
	target := index.Genres
	if k == kind.Person {
		target = index.Persons
	}
	if err := d.loader.LoadAll(ctx, target, entities, d.cfg.LoadBatchSize); err != nil {
		return err
	}
	res.Entities = len(entities)

	d.setState(k, StateFetching)
	return d.fetcher.FetchEach(ctx, cs.FilmKeys, func(films []row.FilmRow) error {
		d.setState(k, StateTransforming)
		docs := make([]index.Document, 0, len(films))
		for _, f := range films {
			doc, err := Transform(f)
			if err != nil {
				return err
			}
			docs = append(docs, doc)
		}

		d.setState(k, StateLoading)
		if err := d.loader.Load(ctx, index.Movies, docs); err != nil {
			return err
		}
		res.Films += len(docs)
		d.setState(k, StateFetching)
		return nil
	})
}
