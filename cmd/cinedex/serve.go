package main

import (
	"context"
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

	"github.com/kailas-cloud/cinedex/internal/metrics"
	"github.com/kailas-cloud/cinedex/internal/repository/cache"
	filmrepo "github.com/kailas-cloud/cinedex/internal/repository/film"
	genrerepo "github.com/kailas-cloud/cinedex/internal/repository/genre"
	"github.com/kailas-cloud/cinedex/internal/repository/index"
	personrepo "github.com/kailas-cloud/cinedex/internal/repository/person"
	chiTransport "github.com/kailas-cloud/cinedex/internal/transport/chi"
	filmuc "github.com/kailas-cloud/cinedex/internal/usecase/film"
	genreuc "github.com/kailas-cloud/cinedex/internal/usecase/genre"
	healthuc "github.com/kailas-cloud/cinedex/internal/usecase/health"
	personuc "github.com/kailas-cloud/cinedex/internal/usecase/person"
	"github.com/kailas-cloud/cinedex/internal/version"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the film, genre and person read API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.logger.Sync() }()
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	cfg, logger := a.cfg, a.logger

	logger.Info("Starting cinedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	metrics.RegisterHTTPMetrics()
	metrics.RegisterCacheMetrics()

	keys := index.NewKeyspace(cfg.Storage.KeyPrefix)
	if err := index.EnsureIndexes(ctx, store, keys, logger); err != nil {
		return err
	}

	var c *cache.Cache
	if !cfg.Cache.Disabled {
		c = cache.New(store, keys, cfg.Cache.TTL(), metrics.CacheRequestsTotal, logger)
	}
	films := cache.NewFilms(filmrepo.New(store, keys), c)
	genres := cache.NewGenres(genrerepo.New(store, keys), c)
	persons := cache.NewPersons(personrepo.New(store, keys), c)

	filmSvc := filmuc.New(films).WithPagination(cfg.API.DefaultPageSize, cfg.API.MaxPageSize)
	genreSvc := genreuc.New(genres, cfg.API.GenreListPageSize)
	personSvc := personuc.New(persons, films).
		WithPagination(cfg.API.PersonSearchPageSize, cfg.API.MaxPageSize).
		WithMaxFilms(cfg.API.PersonFilmsMaxResults)
	healthSvc := healthuc.New(logger, healthuc.Check{Name: "database", Pinger: store})

	server := chiTransport.NewServer(filmSvc, genreSvc, personSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(chiTransport.RouterConfig{
			APIKeys:     cfg.Auth.APIKeys,
			PublicPaths: cfg.Auth.PublicPaths,
		}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		return shutdown(srv, cfg.HTTP.ShutdownSec)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}

func shutdown(srv *http.Server, timeoutSec int) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown %s: %w", srv.Addr, err)
	}
	return nil
}
