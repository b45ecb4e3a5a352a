package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/config"
	dbRedis "github.com/kailas-cloud/cinedex/internal/db/redis"
	"github.com/kailas-cloud/cinedex/internal/domain"
	logpkg "github.com/kailas-cloud/cinedex/internal/logger"
	"github.com/kailas-cloud/cinedex/internal/metrics"
	"github.com/kailas-cloud/cinedex/internal/retry"
	"github.com/kailas-cloud/cinedex/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cinedex",
		Short:         "Movie catalogue search: Postgres to Redis sync and a read API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newSyncCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(version.String())
		},
	}
}

// app carries what every command loads first.
type app struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

func loadApp() (*app, error) {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, logpkg.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &app{env: env, cfg: cfg, logger: logger}, nil
}

func (a *app) openStore(ctx context.Context) (*dbRedis.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    a.cfg.Database.Addrs,
		Username: a.cfg.Database.Username,
		Password: a.cfg.Database.Password,
		DB:       a.cfg.Database.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database store: %w", err)
	}

	timeout := time.Duration(a.cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, timeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	a.logger.Info("Connected to database", zap.Strings("db_addrs", a.cfg.Database.Addrs))
	return store, nil
}

func (a *app) retrier() *retry.Retrier {
	rc := a.cfg.Retry
	return retry.New(retry.Policy{
		InitialInterval: time.Duration(rc.InitialIntervalMs) * time.Millisecond,
		MaxInterval:     time.Duration(rc.MaxIntervalSec) * time.Second,
		Multiplier:      rc.Multiplier,
		MaxAttempts:     rc.MaxAttempts,
	}, a.logger,
		retry.WithCounter(metrics.PipelineRetriesTotal),
		retry.WithPermanent(func(err error) bool { return errors.Is(err, domain.ErrContractViolation) }),
	)
}
