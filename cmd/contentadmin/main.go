// Package main is the entry point for the content admin API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
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

	"github.com/joho/godotenv"

	"contentadmin/internal/auth"
	"contentadmin/internal/cache"
	"contentadmin/internal/config"
	"contentadmin/internal/database"
	"contentadmin/internal/handlers"
	"contentadmin/internal/middleware"
	"contentadmin/internal/router"
	"contentadmin/internal/service"
	"contentadmin/internal/session"
	"contentadmin/internal/storage"
	"contentadmin/internal/store"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var logHandler slog.Handler
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"allow_initial_register", cfg.AllowInitialRegister,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	rows := database.NewRowStore(db, cfg.DBRetryAttempts, cfg.DBRetryBaseDelay)

	// Initialize data stores.
	contentStore := store.NewContentStore(rows)
	translationStore := store.NewTranslationStore(rows)
	versionStore := store.NewVersionStore(rows)
	userStore := store.NewUserStore(rows)
	statsStore := store.NewStatsStore(rows)

	// Valkey backs the tree cache and token revocation. Optional: without it
	// reads go straight to PostgreSQL and logout is client-side only.
	var (
		treeCache   service.Cache
		revoker     service.TokenRevoker
		revocations middleware.RevocationChecker
	)
	if cfg.ValkeyEnabled() {
		valkeyClient, err := cache.ConnectValkey(cache.ValkeyOptions{
			Host:     cfg.ValkeyHost,
			Port:     cfg.ValkeyPort,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
			Timeout:  cfg.ValkeyTimeout,
		})
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()

		treeCache = cache.NewTreeCache(valkeyClient, cache.DefaultTreeTTL)
		sessions := session.NewStore(valkeyClient)
		revoker, revocations = sessions, sessions
	} else {
		slog.Warn("valkey not configured; caching and token revocation disabled")
	}

	// S3-compatible storage keeps export artifacts (optional).
	var artifacts service.ArtifactStore
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		artifacts = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured; exports are regenerated on download")
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// Services.
	treeSvc := service.NewTreeService(contentStore, treeCache)
	translationSvc := service.NewTranslationService(contentStore, translationStore, treeCache)
	exportSvc := service.NewExportService(contentStore, translationStore, versionStore, artifacts, treeCache)
	statsSvc := service.NewStatsService(statsStore, treeCache)
	authSvc := service.NewAuthService(userStore, tokens, revoker, cfg.AllowInitialRegister)

	limiter := middleware.NewAttemptLimiter(middleware.AttemptPolicy{
		PerClient:  cfg.AuthAttemptsPerClient,
		PerAccount: cfg.AuthAttemptsPerAccount,
		Window:     cfg.AuthAttemptWindow,
	})
	defer limiter.Stop()

	r := router.New(router.Deps{
		Tokens:       tokens,
		Revocations:  revocations,
		AuthLimiter:  limiter,
		CORSOrigins:  cfg.CORSOrigins,
		Content:      handlers.NewContent(treeSvc),
		Translations: handlers.NewTranslations(translationSvc),
		Versions:     handlers.NewVersions(exportSvc),
		Stats:        handlers.NewStats(statsSvc),
		Auth:         handlers.NewAuth(authSvc),
	})

	// Exports of large trees can take a while to render and upload.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
