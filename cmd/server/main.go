package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"interviewcoach/internal/api"
	"interviewcoach/internal/config"
	"interviewcoach/internal/evaluation"
	"interviewcoach/internal/logger"
	"interviewcoach/internal/metrics"
	"interviewcoach/internal/questions"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.New(cfg.LogLevel, cfg.DevMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.OpenAIKey == "" && (cfg.STTProvider == "openai" || cfg.ScoringProvider == "openai") {
		l.Warn("OPENAI_API_KEY not set, callers must send their own token")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	cache := evaluation.NewClientCache(cfg.ClientCacheSize, cfg.ClientCacheTTL,
		evaluation.NewClientFactory(cfg, l), evaluation.WithKey(evaluation.CredentialKey(cfg)))
	svc := evaluation.NewService(cache, evaluation.OptionsFromConfig(cfg), m, l)
	repo := questions.NewRepository(cfg.QuestionsFile, l)

	h := api.NewHandler(svc, repo, cfg, promhttp.Handler(), l)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewServer(h, m, cfg.AllowedOrigins, l),
	}

	go func() {
		l.Info("interviewcoach backend running",
			zap.String("addr", server.Addr),
			zap.String("stt_provider", cfg.STTProvider),
			zap.String("scoring_provider", cfg.ScoringProvider))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	l.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("graceful shutdown failed", zap.Error(err))
	}
}
