package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"grove/internal/config"
	"grove/internal/database"
	"grove/internal/page"
	"grove/internal/web"
	"grove/internal/web/flash"
	"grove/internal/web/renderer"
)

func main() {
	cfg, err := config.Load(os.Args[1:], ".env")
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info("database ready", "driver", cfg.Driver)

	mode, err := page.ParseConcurrencyMode(cfg.Concurrency)
	if err != nil {
		return err
	}
	markup, err := renderer.New(cfg.Markup)
	if err != nil {
		return err
	}
	templates, err := web.LoadTemplates()
	if err != nil {
		return err
	}
	if cfg.SessionKey == "" {
		log.Warn("no session key configured; flash messages will not survive a restart")
	}

	service := page.NewService(store, mode, log)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           web.NewServer(service, markup, templates, flash.NewStore(cfg.SessionKey, log), log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr, "markup", cfg.Markup, "concurrency", mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
	return nil
}

// openStore connects to the configured database, creates the schema and
// returns the store with a function that releases the connection pool.
func openStore(ctx context.Context, cfg config.Config) (page.Store, func(), error) {
	if cfg.Driver == "postgres" {
		pool, err := database.NewPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := database.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return page.NewPostgresRepository(pool), pool.Close, nil
	}

	db, err := database.New(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return page.NewRepository(db), func() { db.Close() }, nil
}
