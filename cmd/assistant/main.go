package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"campus-assistant/internal/app"
	"campus-assistant/internal/config"
	"campus-assistant/internal/engine"
	"campus-assistant/internal/logger"
	"campus-assistant/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/campus-assistant/config.yaml if not provided)")
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

	eng, err := app.BuildEngine(cfg, zl)
	if err != nil {
		log.Fatalf("failed to assemble engine: %v", err)
	}

	// Ingestion runs once, at cold start, and blocks until persisted.
	if err := eng.Init(context.Background()); err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}

	stats := eng.Stats()
	summary := stats.Summary
	if summary == "" {
		summary = fmt.Sprintf("Index ready with %d chunks.", stats.Chunks)
	}

	m := tui.New(eng, engine.Greeting, summary)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
