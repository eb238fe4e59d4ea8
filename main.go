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

	"prompt-db/api"
	"prompt-db/config"
	"prompt-db/diaglog"
	"prompt-db/feed"
	"prompt-db/logging"
	"prompt-db/promptdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	opts := []promptdb.Option{promptdb.WithLogger(log)}
	if cfg.SeedFile != "" {
		seed, err := promptdb.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			return err
		}
		opts = append(opts, promptdb.WithSeed(seed))
	}

	store := promptdb.NewStore(cfg.DocumentPath(), opts...)
	// A failed seed write is not fatal; reads degrade to an empty document.
	if err := store.EnsureInitialized(); err != nil {
		log.Warn("prompt document not initialized", "path", store.Path(), "error", err)
	}

	hub := feed.NewHub()
	sink := diaglog.New(cfg.DiagLogFile, cfg.DiagLogEnabled, log)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.RegisterRoutes(store, hub, sink, log),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("prompt-db listening", "addr", srv.Addr, "document", store.Path(), "diag_log", sink.Path())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
