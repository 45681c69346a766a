// Package main runs the staking lens server: wallet timeline lookups,
// cached dashboard datasets and websocket refresh notifications.
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

	"github.com/joho/godotenv"

	"staking-lens/internal/config"
	"staking-lens/internal/datasets"
	"staking-lens/internal/logger"
	"staking-lens/internal/lookup"
	"staking-lens/internal/notify"
	"staking-lens/internal/server"
	"staking-lens/internal/stakerlog"
	"staking-lens/internal/storage"
	chstore "staking-lens/internal/storage/clickhouse"
	"staking-lens/internal/storage/memory"
	"staking-lens/internal/storage/migrations"
	pgstore "staking-lens/internal/storage/postgres"
)

func main() {
	// Load .env file if exists
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lookupStore, timelineStore, cleanup, err := createStores(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create stores")
	}
	defer cleanup()

	loader := stakerlog.NewLoader(cfg.StakerLogURL,
		stakerlog.WithLogger(logger.WithComponent(log, "stakerlog")))

	lookups := lookup.NewService(lookup.Options{
		Loader:        loader,
		LookupStore:   lookupStore,
		TimelineStore: timelineStore,
		Logger:        logger.WithComponent(log, "lookup"),
	})

	ds := datasets.NewService(cfg.DataBaseURL,
		datasets.WithLogger(logger.WithComponent(log, "datasets")))

	hub := notify.NewHub(logger.WithComponent(log, "notify"))
	defer hub.Close()

	watcher := notify.NewWatcher(ds, hub, cfg.ManifestPollInterval,
		logger.WithComponent(log, "manifest-watcher"))
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("manifest watcher stopped")
		}
	}()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(lookups, ds, hub, logger.WithComponent(log, "http")).Handler(),
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// createStores wires persistence. With no DSNs configured both stores
// fall back to in-memory implementations.
func createStores(ctx context.Context, cfg config.Config) (storage.LookupRecordStore, storage.TimelinePointStore, func(), error) {
	var (
		lookupStore   storage.LookupRecordStore
		timelineStore storage.TimelinePointStore
		cleanups      []func()
	)

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		cleanups = append(cleanups, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
		}
		lookupStore = pgstore.NewLookupRecordStore(pool)
	} else {
		lookupStore = memory.NewLookupRecordStore()
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.ClickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		cleanups = append(cleanups, func() { conn.Close() })
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			cleanup()
			return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		timelineStore = chstore.NewTimelinePointStore(conn)
	} else {
		timelineStore = memory.NewTimelinePointStore()
	}

	return lookupStore, timelineStore, cleanup, nil
}
