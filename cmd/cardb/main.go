package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/conorfennell/cardb/internal/config"
	"github.com/conorfennell/cardb/internal/importer"
	"github.com/conorfennell/cardb/internal/storage"
	"github.com/conorfennell/cardb/internal/store"
	"github.com/conorfennell/cardb/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "cardb: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1. Load configuration
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Open the database
	db, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database opened successfully", "path", cfg.DB)

	// 3. Load the store and run startup imports
	s := store.New(ctx, db, store.WithLogger(logger))
	imp := importer.New(s, cfg.ReposDir, logger)

	if cfg.ImportDir != "" {
		if _, err := imp.ImportDir(ctx, cfg.ImportDir); err != nil {
			return err
		}
	}
	if cfg.ImportGit != "" {
		if _, err := imp.ImportGit(ctx, cfg.ImportGit); err != nil {
			return err
		}
	}
	if cfg.ImportOnly {
		return nil
	}

	// 4. Serve until interrupted
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(s, imp, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
