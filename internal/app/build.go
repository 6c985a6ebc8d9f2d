package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-assistant/internal/chunker"
	"campus-assistant/internal/config"
	"campus-assistant/internal/domain"
	"campus-assistant/internal/embedding/hash"
	embopenai "campus-assistant/internal/embedding/openai"
	"campus-assistant/internal/engine"
	"campus-assistant/internal/ingest"
	"campus-assistant/internal/llm"
	"campus-assistant/internal/retrieval"
	"campus-assistant/internal/router"
	"campus-assistant/internal/summarizer"
	"campus-assistant/internal/vectorstore/file"
	"campus-assistant/internal/vectorstore/qdrant"
)

// BuildEmbedder assembles the embedder selected by the config.
func BuildEmbedder(cfg *config.AppConfig) (domain.Embedder, error) {
	switch cfg.Embedder.Type {
	case "hash", "":
		return hash.NewEmbedder(cfg.Embedder.Hash.Dimension), nil
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return embopenai.NewEmbedder(embopenai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			BatchSize: cfg.Embedder.OpenAI.BatchSize,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

// BuildStore opens the vector store selected by the config, bound to the
// embedder's identity so a stale index is rejected up front.
func BuildStore(cfg *config.AppConfig, emb domain.Embedder) (domain.VectorStore, error) {
	switch cfg.Store.Type {
	case "file", "":
		return file.Open(cfg.Store.File.Path, emb.ModelInfo(), emb.Dimension())
	case "qdrant":
		if cfg.Store.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.Open(qdrant.Config{
			URL:        cfg.Store.Qdrant.URL,
			APIKey:     cfg.Store.Qdrant.APIKey,
			Collection: cfg.Store.Qdrant.Collection,
			Timeout:    15 * time.Second,
		}, emb.Dimension())
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Store.Type)
	}
}

// BuildSynthesizer returns the configured language model, or nil when
// synthesis is disabled and retrieval should run in degraded mode.
func BuildSynthesizer(cfg *config.AppConfig) (domain.Synthesizer, error) {
	if !cfg.LLM.Enabled {
		return nil, nil
	}
	return llm.New(llm.Config{
		BaseURL:   cfg.LLM.BaseURL,
		APIKeyEnv: cfg.LLM.APIKeyEnv,
		Model:     cfg.LLM.Model,
	})
}

// BuildIngestor assembles the ingestion pipeline over the given store.
func BuildIngestor(cfg *config.AppConfig, emb domain.Embedder, store domain.VectorStore, log *zap.Logger) *ingest.Ingestor {
	ch := chunker.NewSentenceChunker(cfg.Chunker.MaxChunkSize, cfg.Chunker.Overlap)
	sum := summarizer.NewFrequencySummarizer()
	return ingest.New(ch, emb, store, sum, log, cfg.Ingest.DataDir, cfg.Ingest.Extensions)
}

// BuildEngine assembles the full query engine from the config.
func BuildEngine(cfg *config.AppConfig, log *zap.Logger) (*engine.Engine, error) {
	emb, err := BuildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	store, err := BuildStore(cfg, emb)
	if err != nil {
		return nil, err
	}
	synth, err := BuildSynthesizer(cfg)
	if err != nil {
		return nil, err
	}
	ingestor := BuildIngestor(cfg, emb, store, log)
	retr := retrieval.New(emb, store, synth, cfg.Retrieval.TopK, log)
	rtr := router.New(cfg.Router.MinAnswerLength)
	return engine.New(ingestor, retr, rtr, log), nil
}
