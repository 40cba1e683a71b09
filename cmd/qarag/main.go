package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"qarag/internal/answer"
	"qarag/internal/config"
	"qarag/internal/embedding"
	"qarag/internal/feedback"
	"qarag/internal/pipeline"
	"qarag/internal/store"
	"qarag/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var topK int
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/qarag/config.yaml if not provided)")
	flag.IntVar(&topK, "k", 0, "Number of records to retrieve per query (overrides config)")
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
	if topK <= 0 {
		topK = cfg.Query.TopK
	}

	st, err := store.Load(cfg.Store.RecordsPath)
	if err != nil {
		log.Fatalf("failed to load records from %s: %v", cfg.Store.RecordsPath, err)
	}
	if st.Size() == 0 {
		fmt.Println("Record store is empty; queries will return no supporting blocks.")
	}

	emb, err := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Dimension: cfg.Embedder.Dimension,
	})
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}

	ans, err := answer.NewClient(answer.Config{
		BaseURL: cfg.Answerer.BaseURL,
		APIKey:  os.Getenv(cfg.Answerer.APIKeyEnv),
		Model:   cfg.Answerer.Model,
	})
	if err != nil {
		log.Fatalf("answerer init failed: %v", err)
	}

	sink := feedback.NewFileSink(cfg.Store.FeedbackPath)

	// The TUI owns the terminal, so the pipeline logs nowhere in this mode.
	svc := pipeline.New(st, emb, ans, sink, zap.NewNop())

	m := tui.New(svc, topK)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
