package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "modernc.org/sqlite"

	"github.com/uridolan77/reportaing-admin/internal/config"
	"github.com/uridolan77/reportaing-admin/internal/editor/hub"
	"github.com/uridolan77/reportaing-admin/internal/eventbus"
	"github.com/uridolan77/reportaing-admin/internal/formschema"
	"github.com/uridolan77/reportaing-admin/internal/metadata"
	"github.com/uridolan77/reportaing-admin/internal/seed"
	"github.com/uridolan77/reportaing-admin/internal/server"
	"github.com/uridolan77/reportaing-admin/internal/transparency"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." && cfg.DatabasePath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("creating data directory", zap.Error(err))
		}
	}

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		logger.Fatal("opening database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	// Enable foreign keys explicitly — required for SQLite.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		logger.Fatal("enabling foreign keys", zap.Error(err))
	}

	metaStore := metadata.NewSQLiteStore(db)
	if err := metaStore.CreateTables(ctx); err != nil {
		logger.Fatal("migrating metadata tables", zap.Error(err))
	}
	traceStore := transparency.NewSQLiteStore(db)
	if err := traceStore.CreateTables(ctx); err != nil {
		logger.Fatal("migrating trace tables", zap.Error(err))
	}
	logger.Info("database migrated", zap.String("path", cfg.DatabasePath))

	if cfg.SeedDemo {
		if err := seed.Metadata(ctx, metaStore, logger); err != nil {
			logger.Fatal("seeding demo metadata", zap.Error(err))
		}
	}

	schemas, err := formschema.Load()
	if err != nil {
		logger.Fatal("loading form schemas", zap.Error(err))
	}

	bus := eventbus.New(cfg.EventBufferSize, logger)
	bus.Subscribe("log", eventbus.NewLogConsumer(logger))
	bus.Subscribe("traces", eventbus.NewTraceConsumer(
		transparency.NewIndexer(traceStore, logger)))
	bus.Start(ctx)

	svc := metadata.NewService(metaStore, bus, logger)
	sessions := hub.NewManager(cfg.SessionMaxAge, cfg.SessionIdleTimeout)

	if err := server.Run(ctx, server.Config{
		Addr:        cfg.Addr,
		MetadataSvc: svc,
		TraceStore:  traceStore,
		Bus:         bus,
		Schemas:     schemas,
		Sessions:    sessions,
		Log:         logger,
	}); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}

	// Let the bus drain queued events before exit.
	bus.Wait()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	var zc zap.Config
	if cfg.DevMode {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
