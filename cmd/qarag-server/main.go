package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"qarag/internal/answer"
	"qarag/internal/config"
	"qarag/internal/embedding"
	"qarag/internal/feedback"
	"qarag/internal/pipeline"
	"qarag/internal/server"
	"qarag/internal/store"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var debug bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/qarag/config.yaml if not provided)")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	st, err := store.Load(cfg.Store.RecordsPath)
	if err != nil {
		logger.Fatal("failed to load records", zap.String("path", cfg.Store.RecordsPath), zap.Error(err))
	}
	logger.Info("record store loaded", zap.Int("records", st.Size()), zap.Int("dimension", st.Dimension()))

	emb, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
	})
	if err != nil {
		logger.Fatal("embedder init failed", zap.Error(err))
	}

	ans, err := answer.NewClient(answer.Config{
		BaseURL: cfg.Answerer.BaseURL,
		APIKey:  os.Getenv(cfg.Answerer.APIKeyEnv),
		Model:   cfg.Answerer.Model,
	})
	if err != nil {
		logger.Fatal("answerer init failed", zap.Error(err))
	}

	sink := feedback.NewFileSink(cfg.Store.FeedbackPath)
	svc := pipeline.New(st, emb, ans, sink, logger)
	srv := server.NewServer(svc, &cfg.Server, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
