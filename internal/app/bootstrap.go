package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"storyshare-api/internal/auth"
	"storyshare-api/internal/config"
	"storyshare-api/internal/db"
	"storyshare-api/internal/observability"
)

type Options struct {
	LoadDotEnv bool
}

type Runtime struct {
	Config  *config.Config
	Logger  *observability.Logger
	Handler http.Handler
	Close   func() error
}

func Build(options Options) (*Runtime, error) {
	if options.LoadDotEnv {
		_ = godotenv.Load()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger()

	if err := observability.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		logger.Error("init_sentry_failed", map[string]any{"error": err.Error()})
	}

	database, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)
	database.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(database); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	store := auth.NewPostgresStore(database)
	codec := auth.NewTokenCodec(cfg.AccessSecret, cfg.RefreshSecret)
	codec.WithTTLs(cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	service := auth.NewService(store, codec)
	authHandler := auth.NewHandler(service)
	loginLimiter := auth.NewLoginRateLimiter(cfg.LoginRatePerMinute, cfg.LoginRateBurst)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.Handle("POST /api/auth/login", loginLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/refresh", authHandler.Refresh)
	mux.Handle("GET /api/auth/protected", auth.Middleware(codec, http.HandlerFunc(authHandler.Protected)))
	mux.Handle("GET /api/auth/users", auth.Middleware(codec, http.HandlerFunc(authHandler.Users)))
	mux.HandleFunc("GET /health", healthHandler(database))

	handler := observability.Recover(logger,
		observability.RequestLogging(logger,
			observability.CORS(cfg.AllowedOrigins, mux)))

	return &Runtime{
		Config:  cfg,
		Logger:  logger,
		Handler: handler,
		Close: func() error {
			observability.FlushSentry()
			return database.Close()
		},
	}, nil
}

func healthHandler(database *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
		if err := database.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body = map[string]any{"status": "degraded", "time": time.Now().UTC().Format(time.RFC3339)}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
