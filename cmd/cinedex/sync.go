package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/cinedex/internal/domain/kind"
	"github.com/kailas-cloud/cinedex/internal/etl"
	"github.com/kailas-cloud/cinedex/internal/metrics"
	"github.com/kailas-cloud/cinedex/internal/postgres"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
	healthuc "github.com/kailas-cloud/cinedex/internal/usecase/health"
	"github.com/kailas-cloud/cinedex/internal/version"
)

func newSyncCmd() *cobra.Command {
	var (
		once  bool
		kinds []string
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronise the search index with the movie database",
		Long: `Runs the incremental pipeline: genre, person and film passes detect rows
changed since the last committed watermark and upsert their search documents.
Without --once the passes repeat every etl.interval_sec until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected, err := parseKinds(kinds)
			if err != nil {
				return err
			}
			if len(kinds) > 0 && !once {
				return errors.New("--kind requires --once")
			}
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			return runSync(cmd.Context(), a, once, selected)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run a single pass over every kind and exit")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "with --once, pass only these kinds (film_work, genre, person)")
	return cmd
}

// parseKinds maps kind names to kinds in sync order. No names selects every kind.
func parseKinds(names []string) ([]kind.Kind, error) {
	if len(names) == 0 {
		return kind.SyncOrder(), nil
	}
	want := make(map[kind.Kind]bool, len(names))
	for _, name := range names {
		k, err := kind.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("--kind: %w", err)
		}
		want[k] = true
	}
	var out []kind.Kind
	for _, k := range kind.SyncOrder() {
		if want[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

func runSync(ctx context.Context, a *app, once bool, kinds []kind.Kind) error {
	cfg, logger := a.cfg, a.logger
	if err := cfg.ValidateSync(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("Starting cinedex sync",
		zap.String("version", version.Version),
		zap.String("env", a.env),
		zap.Bool("once", once),
		zap.Stringers("kinds", kinds),
		zap.Duration("interval", cfg.ETL.Interval()),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.RegisterPipelineMetrics()
	r := a.retrier()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	pool, err := postgres.Open(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()
	src := postgres.New(pool)

	if err := r.Do(ctx, "ping_postgres", src.Ping); err != nil {
		return fmt.Errorf("postgres not ready: %w", err)
	}
	logger.Info("Connected to postgres")

	keys := index.NewKeyspace(cfg.Storage.KeyPrefix)
	if err := r.Do(ctx, "ensure_indexes", func(ctx context.Context) error {
		return index.EnsureIndexes(ctx, store, keys, logger)
	}); err != nil {
		return err
	}

	driver := etl.NewDriver(src, index.NewWriter(store, keys), store, keys, r, etl.Config{
		DetectPageSize: cfg.ETL.DetectPageSize,
		FetchChunkSize: cfg.ETL.FetchChunkSize,
		LoadBatchSize:  cfg.ETL.LoadBatchSize,
		Interval:       cfg.ETL.Interval(),
	}, logger, etl.WithSourceClock(src.Now))

	if once {
		results, err := driver.RunKinds(ctx, kinds)
		for _, res := range results {
			logger.Info("pass finished",
				zap.Stringer("kind", res.Kind),
				zap.Int("rows", res.Rows),
				zap.Int("films", res.Films),
				zap.Int("entities", res.Entities),
				zap.Bool("committed", res.Committed),
			)
		}
		return err
	}

	healthSvc := healthuc.New(logger,
		healthuc.Check{Name: "postgres", Pinger: src},
		healthuc.Check{Name: "redis", Pinger: store},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return driver.Run(gctx) })

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(healthSvc),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("Starting metrics listener", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return shutdown(srv, cfg.HTTP.ShutdownSec)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Sync stopped")
	return nil
}

// metricsMux serves /metrics and a dependency /health for the sync process.
func metricsMux(health *healthuc.Service) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		report := health.Check(r.Context())
		status := http.StatusOK
		if report.Status != healthuc.Healthy {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	})
	return mux
}
