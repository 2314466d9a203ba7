// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"ai-session-gateway/internal/config"
	"ai-session-gateway/internal/domain/ports/adapter"
	aiAdapters "ai-session-gateway/internal/infra/adapters/ai"
	pg "ai-session-gateway/internal/infra/db/postgres"
	"ai-session-gateway/internal/infra/logging"
	"ai-session-gateway/internal/infra/metrics"
	red "ai-session-gateway/internal/infra/redis"
	"ai-session-gateway/internal/infra/web"
	"ai-session-gateway/internal/infra/ws"
	"ai-session-gateway/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop AI fallback, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional session record cache) ----
	var cache *red.SessionCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		cache = red.NewSessionCache(redisClient, cfg.Redis.TTL)
	}

	// ---- Repository ----
	store := pg.NewSessionRepo(pool, cache)

	// ---- Completion adapter (OpenAI -> Gemini -> Noop) ----
	var ai adapter.CompletionAdapter
	switch {
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.OpenAIBaseURL, cfg.AI.DefaultModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
		logger.Info().Str("base", cfg.AI.OpenAIBaseURL).Str("model", cfg.AI.DefaultModel).Msg("AI adapter: OpenAI")
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.DefaultModel, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
		logger.Info().Str("base", cfg.AI.GeminiURL).Str("model", cfg.AI.DefaultModel).Msg("AI adapter: Gemini")
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAdapter()
		logger.Info().Msg("AI adapter: Noop (dev)")
	default:
		logger.Fatal().Msgf("no AI provider configured: set ai.openai_key or ai.gemini_key in %s", *cfgPath)
	}
	ai = aiAdapters.NewLimitedCompletion(ai, cfg.AI.ConcurrentLimit)

	tokens := aiAdapters.NewTiktokenCounter()

	// ---- Session usecase + websocket server ----
	sessionUC := usecase.NewSessionUseCase(store, ai, tokens, cfg.AI.DefaultModel, logger)
	wsServer := ws.NewServer(sessionUC, logger)
	wsRouter := chi.NewRouter()
	wsServer.Register(wsRouter)

	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: wsRouter}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("websocket server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("websocket server error")
		}
	}()

	// ---- Admin server (read API + metrics) ----
	var auth *web.AuthManager
	if cfg.Admin.JWTSecret != "" {
		auth = web.NewAuthManager(cfg.Admin.JWTSecret, 30*time.Minute)
	}
	adminServer := web.NewServer(store, auth, logger)
	adminRouter := chi.NewRouter()
	adminServer.Register(adminRouter)

	admin := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminRouter}
	go func() {
		logger.Info().Str("addr", admin.Addr).Msg("admin server listening")
		if err := admin.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	_ = admin.Shutdown(shutdownCtx)
	cancel()
}
