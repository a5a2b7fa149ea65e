package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"english-assistant/internal/auth"
	"english-assistant/internal/config"
	"english-assistant/internal/http"
	"english-assistant/internal/llm"
	"english-assistant/internal/render"
	"english-assistant/internal/service"
	"english-assistant/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// Initialize database
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Providers are tried in a fixed order; unconfigured ones are skipped.
	var providers []llm.Provider
	if cfg.GroqAPIKey != "" {
		providers = append(providers, llm.NewGroqClient(cfg.GroqBaseURL, cfg.GroqAPIKey))
	}
	if cfg.OpenRouterAPIKey != "" {
		providers = append(providers, llm.NewOpenRouterClient(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, cfg.FrontendURL))
	}
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, llm.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey))
	}
	chain := llm.NewChain(cfg.AttemptTimeout, providers...)
	slog.Info("AI providers configured", "count", len(providers), "attempt_timeout", cfg.AttemptTimeout)

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn)
	if err != nil {
		log.Fatalf("Failed to create token manager: %v", err)
	}

	deps := &http.Deps{
		ChatService:     service.NewChatService(chain, cfg.RequestTimeout),
		QuizService:     service.NewQuizService(chain, cfg.RequestTimeout),
		ScrambleService: service.NewScrambleService(chain, cfg.RequestTimeout),
		NoteService:     service.NewNoteService(storage.NewNoteRepo(db)),
		UserService:     service.NewUserService(storage.NewUserRepo(db)),
		Tokens:          tokens,
		Renderer:        render.NewMarkdown(),
		DB:              db,
		FrontendURL:     cfg.FrontendURL,
		CORSOrigins:     cfg.CORSOrigins,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
	}
	if google := auth.NewGoogle(auth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		CallbackURL:  cfg.GoogleCallbackURL,
	}); google != nil {
		deps.Google = google
	} else {
		slog.Warn("GOOGLE_CLIENT_ID not set; Google sign-in disabled")
	}

	srv := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           http.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Long enough for a request that walks the whole provider chain.
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
