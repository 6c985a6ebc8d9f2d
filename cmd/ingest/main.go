package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"campus-assistant/internal/app"
	"campus-assistant/internal/config"
	"campus-assistant/internal/logger"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var rebuild bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file")
	flag.BoolVar(&rebuild, "rebuild", false, "Discard the existing index and re-ingest from scratch")
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
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	zl, err := logger.New(cfg.Log.Production)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	if rebuild {
		if cfg.Store.Type != "file" && cfg.Store.Type != "" {
			log.Fatalf("-rebuild is only supported for the file store")
		}
		if err := os.RemoveAll(cfg.Store.File.Path); err != nil {
			log.Fatalf("failed to remove existing index: %v", err)
		}
	}

	emb, err := app.BuildEmbedder(cfg)
	if err != nil {
		log.Fatalf("failed to build embedder: %v", err)
	}
	store, err := app.BuildStore(cfg, emb)
	if err != nil {
		log.Fatalf("failed to open vector store: %v", err)
	}

	ingestor := app.BuildIngestor(cfg, emb, store, zl)
	stats, err := ingestor.Ingest(context.Background())
	if err != nil {
		log.Fatalf("ingest failed: %v", err)
	}
	if stats.Skipped {
		fmt.Printf("Index already populated (%d chunks); use -rebuild to re-ingest.\n", stats.Chunks)
		return
	}
	fmt.Printf("Ingested %d documents into %d chunks.\n", stats.Documents, stats.Chunks)
	if stats.Summary != "" {
		fmt.Printf("Corpus overview: %s\n", stats.Summary)
	}
}
