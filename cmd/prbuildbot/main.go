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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/w3c/prbuildbot/internal/adapter/driven/github"
	sqliteadapter "github.com/w3c/prbuildbot/internal/adapter/driven/sqlite"
	travisadapter "github.com/w3c/prbuildbot/internal/adapter/driven/travis"
	httphandler "github.com/w3c/prbuildbot/internal/adapter/driving/http"
	"github.com/w3c/prbuildbot/internal/application"
	"github.com/w3c/prbuildbot/internal/config"
	"github.com/w3c/prbuildbot/internal/logging"
	"github.com/w3c/prbuildbot/internal/logparse"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	slog.Info("config loaded",
		"repo", cfg.RepoFullName(),
		"travis_url", cfg.TravisURL,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the delivery log database and run migrations.
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// 4. Wire adapters.
	deliveryStore := sqliteadapter.NewDeliveryRepo(db)
	ghClient := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubOrg, cfg.GitHubRepo)
	travisClient := travisadapter.NewClient(cfg.TravisURL)

	// 5. Resolve the bot login when not configured; the driver needs it to
	// recognize its own comment.
	botLogin := cfg.GitHubUsername
	if botLogin == "" {
		botLogin, err = ghClient.CurrentUser(ctx)
		if err != nil {
			return err
		}
	}
	slog.Info("github client created", "login", botLogin)

	// 6. Create the synchronization service.
	extractor := logparse.NewExtractor(logparse.Config{
		MarkerToken:         cfg.LogMarker,
		SuppressEmptyTitles: cfg.SuppressEmpty,
	})
	syncSvc := application.NewSyncService(
		travisClient,
		ghClient,
		deliveryStore,
		extractor,
		cfg.GitHubOrg,
		cfg.GitHubRepo,
		botLogin,
		cfg.MaxCommentLength,
	)

	// 7. Create the HTTP handler and server.
	handler := httphandler.NewHandler(travisClient, syncSvc, deliveryStore, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(handler, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Wait for shutdown signal, then drain.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
