package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/HelyeFab/moshimoshi-sub017/internal/agent"
	httpapi "github.com/HelyeFab/moshimoshi-sub017/internal/client/api"
	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage"
	"github.com/HelyeFab/moshimoshi-sub017/internal/client/storage/boltdb"
	clientsync "github.com/HelyeFab/moshimoshi-sub017/internal/client/sync"
	"github.com/HelyeFab/moshimoshi-sub017/internal/config"
	"github.com/HelyeFab/moshimoshi-sub017/internal/crdt"
	"github.com/HelyeFab/moshimoshi-sub017/internal/health"
	"github.com/HelyeFab/moshimoshi-sub017/internal/review"
	"github.com/HelyeFab/moshimoshi-sub017/internal/srs"
	"github.com/HelyeFab/moshimoshi-sub017/internal/telemetry"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("review agent starting",
		"version", Version,
		"data_dir", cfg.DataDir,
		"server_url", cfg.ServerURL,
		"agent_addr", cfg.AgentAddr,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("agent exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Client, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	store, err := boltdb.NewWithOptions(ctx, filepath.Join(cfg.DataDir, "review-client.db"), boltdb.Options{
		MaxAttempts: cfg.MaxAttempts,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	clock, err := restoreClock(ctx, store)
	if err != nil {
		return err
	}
	defer func() {
		// Persist the logical clock so timestamps keep advancing across
		// restarts. Runs after the runner has stopped; losing this write
		// is tolerable because the clock also advances past any remote
		// timestamp it observes.
		if err := store.SaveClock(context.Background(), clock.Current()); err != nil {
			logger.Error("failed to persist clock", "error", err)
		}
	}()

	collector := telemetry.NewCollector(logger)
	collector.Start()
	defer collector.Stop()

	remote := httpapi.NewClient(cfg.ServerURL)

	engine := clientsync.NewEngine(store, store, remote, collector, clock, logger, clientsync.Config{
		BatchSize: cfg.BatchSize,
	})
	runner := clientsync.NewRunner(engine, store, logger, cfg.DrainInterval, cfg.DrainConcurrency)
	if err := runner.Start(); err != nil {
		return fmt.Errorf("failed to start sync runner: %w", err)
	}
	defer runner.Stop()

	reviews := review.NewService(
		store,
		store,
		srs.NewScheduler(),
		clock,
		collector,
		health.NewReporter(health.Thresholds{}),
		func() string { return string(engine.Breaker().State()) },
	)

	srv := &http.Server{
		Addr:              cfg.AgentAddr,
		Handler:           agent.NewHandler(logger, reviews),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("agent API listening", "addr", cfg.AgentAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("agent API failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down agent API", "error", err)
	}

	logger.Info("review agent stopped")
	return nil
}

// restoreClock loads the device identity and clock position, minting a
// fresh node ID on first run.
func restoreClock(ctx context.Context, store *boltdb.Storage) (*crdt.Clock, error) {
	nodeID, err := store.GetNodeID(ctx)
	switch {
	case errors.Is(err, storage.ErrMetadataNotFound):
		nodeID = uuid.New().String()
		if err := store.SaveNodeID(ctx, nodeID); err != nil {
			return nil, fmt.Errorf("failed to save node id: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load node id: %w", err)
	}

	counter, err := store.GetClock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clock: %w", err)
	}

	clock := crdt.NewClockWithNodeID(nodeID)
	clock.Restore(counter)
	return clock, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func printVersion() {
	fmt.Printf("Review Agent\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
