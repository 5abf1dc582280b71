// Package main is the entry point for the personal hub server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"personalhub/internal/backup"
	"personalhub/internal/cache"
	"personalhub/internal/config"
	"personalhub/internal/database"
	"personalhub/internal/handlers"
	"personalhub/internal/middleware"
	"personalhub/internal/render"
	"personalhub/internal/router"
	"personalhub/internal/session"
	"personalhub/internal/storage"
	"personalhub/internal/store"
)

// Login attempts allowed per client IP per minute.
const loginAttemptsPerMinute = 10

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
		"sessions", cfg.SessionDriver,
	)
	if cfg.Password == "" && cfg.PasswordHash == "" {
		slog.Warn("no APP_PASSWORD or APP_PASSWORD_HASH set; every login will fail")
	}

	var repos handlers.Repositories
	switch cfg.StoreDriver {
	case config.DriverMemory:
		repos = handlers.Memory(store.NewMemory())
		slog.Warn("using in-memory store; data is lost on restart")
	default:
		db := mustOpenDB(cfg)
		defer db.Close()
		repos = handlers.Postgres(store.NewCategoryStore(db), store.NewTagStore(db), store.NewSiteStore(db))
	}

	// Valkey backs sessions and the list cache. Only needed for the valkey
	// session driver; the memory driver runs without list caching.
	var (
		valkeyClient *redis.Client
		sessions     session.Manager
		lists        *cache.ListCache
	)
	secureCookies := !cfg.IsDev()
	switch cfg.SessionDriver {
	case config.DriverMemory:
		sessions = session.NewMemoryStore(secureCookies)
	default:
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		sessions = session.NewStore(valkeyClient, secureCookies)
		lists = cache.NewListCache(valkeyClient, cache.DefaultListTTL)
	}

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// S3-compatible object storage for backups (optional).
	var uploader handlers.SnapshotUploader
	if cfg.HasStorage() {
		storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		uploader = backup.NewUploader(storageClient)
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
	} else {
		slog.Warn("s3 storage not configured; backups disabled")
	}

	loginLimiter := middleware.NewRateLimiter(loginAttemptsPerMinute, time.Minute)
	defer loginLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:     sessions,
		LoginLimiter: loginLimiter,
		Auth:         handlers.NewAuth(sessions, cfg.Password, cfg.PasswordHash),
		API:          handlers.NewAPI(repos, lists),
		Export:       handlers.NewExport(repos, uploader),
		Pages:        handlers.NewPages(renderer, repos),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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

// mustOpenDB connects to PostgreSQL, runs pending migrations and, in
// development, seeds sample data.
func mustOpenDB(cfg *config.Config) *sql.DB {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// No-op if data already exists.
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}
	return db
}
