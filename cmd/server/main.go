package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/core"
	"github.com/agenthands/kinship/internal/core/summary"
	"github.com/agenthands/kinship/internal/llm"
	"github.com/agenthands/kinship/internal/logging"
	"github.com/agenthands/kinship/internal/server"
	"github.com/agenthands/kinship/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.toml"

func loadConfig() (*config.Config, error) {
	path := os.Getenv("KINSHIP_CONFIG")
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	llmClient, err := llm.NewClient(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Fatal("failed to initialize LLM client", zap.Error(err))
	}
	var narrator *summary.Narrator
	if llmClient != nil {
		narrator = summary.NewNarrator(llmClient, cfg.Narrative)
	} else {
		logger.Info("no LLM provider configured, narratives fall back to top insights")
	}

	network := core.NewNetwork(st, narrator, cfg.Analysis.HubLimit, cfg.Analysis.IntroductionLimit, logger)
	reports := core.NewRecomputer(network, cfg.Analysis.RecomputeInterval.Duration, logger)
	srv := server.NewServer(network, reports, cfg.Server, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr), zap.String("store", cfg.Store.Backend))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
