package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HashEmbedderConfig holds configuration for the local feature-hashing embedder.
type HashEmbedderConfig struct {
	Dimension int `yaml:"dimension"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
	BatchSize int    `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	Hash   *HashEmbedderConfig   `yaml:"hash,omitempty"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	MaxChunkSize int `yaml:"max_chunk_size"`
	Overlap      int `yaml:"overlap"`
}

// FileStoreConfig contains the location of the directory-backed index.
type FileStoreConfig struct {
	Path string `yaml:"path"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// StoreConfig selects and configures the vector store implementation.
type StoreConfig struct {
	Type   string           `yaml:"type"`
	File   *FileStoreConfig `yaml:"file,omitempty"`
	Qdrant *QdrantConfig    `yaml:"qdrant,omitempty"`
}

// IngestConfig configures the document ingestion pass.
type IngestConfig struct {
	DataDir    string   `yaml:"data_dir"`
	Extensions []string `yaml:"extensions"`
}

// RetrievalConfig configures similarity retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// RouterConfig configures answer-confidence assessment.
type RouterConfig struct {
	MinAnswerLength int `yaml:"min_answer_length"`
}

// LLMConfig configures the answer-synthesis model. Disabled means retrieval
// returns raw context chunks instead of a synthesized answer.
type LLMConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
	Model     string `yaml:"model"`
}

// LogConfig selects the logging encoder.
type LogConfig struct {
	Production bool `yaml:"production"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Store     StoreConfig     `yaml:"store"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Router    RouterConfig    `yaml:"router"`
	LLM       LLMConfig       `yaml:"llm"`
	Log       LogConfig       `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/campus-assistant/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks startup preconditions. A remote provider whose API key
// env var is unset is a configuration error surfaced here, before any
// query is served.
func (cfg *AppConfig) Validate() error {
	if cfg.Embedder.Type == "openai" {
		if cfg.Embedder.OpenAI == nil {
			return errors.New("openai embedder selected but not configured")
		}
		if os.Getenv(cfg.Embedder.OpenAI.APIKeyEnv) == "" {
			return fmt.Errorf("missing embedder API key in env %s", cfg.Embedder.OpenAI.APIKeyEnv)
		}
	}
	if cfg.LLM.Enabled && os.Getenv(cfg.LLM.APIKeyEnv) == "" {
		return fmt.Errorf("missing language model API key in env %s", cfg.LLM.APIKeyEnv)
	}
	if cfg.Chunker.Overlap >= cfg.Chunker.MaxChunkSize {
		return fmt.Errorf("chunk overlap %d must be smaller than max chunk size %d",
			cfg.Chunker.Overlap, cfg.Chunker.MaxChunkSize)
	}
	return nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "campus-assistant", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:  EmbedderConfig{Type: "hash", Hash: &HashEmbedderConfig{Dimension: 256}},
		Chunker:   ChunkerConfig{MaxChunkSize: 512, Overlap: 50},
		Store:     StoreConfig{Type: "file", File: &FileStoreConfig{Path: "./index"}},
		Ingest:    IngestConfig{DataDir: "./data", Extensions: []string{".txt", ".md"}},
		Retrieval: RetrievalConfig{TopK: 5},
		Router:    RouterConfig{MinAnswerLength: 15},
		LLM: LLMConfig{
			Enabled:   false,
			BaseURL:   "https://api.groq.com/openai/v1",
			APIKeyEnv: "GROQ_API_KEY",
			Model:     "llama-3.1-8b-instant",
		},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.MaxChunkSize == 0 {
		cfg.Chunker.MaxChunkSize = 512
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 50
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Router.MinAnswerLength == 0 {
		cfg.Router.MinAnswerLength = 15
	}
	if cfg.Ingest.DataDir == "" {
		cfg.Ingest.DataDir = "./data"
	}
	if len(cfg.Ingest.Extensions) == 0 {
		cfg.Ingest.Extensions = []string{".txt", ".md"}
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "hash"
	}
	if cfg.Embedder.Type == "hash" {
		if cfg.Embedder.Hash == nil {
			cfg.Embedder.Hash = &HashEmbedderConfig{}
		}
		if cfg.Embedder.Hash.Dimension == 0 {
			cfg.Embedder.Hash.Dimension = 256
		}
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "file"
	}
	if cfg.Store.Type == "file" {
		if cfg.Store.File == nil {
			cfg.Store.File = &FileStoreConfig{}
		}
		if cfg.Store.File.Path == "" {
			cfg.Store.File.Path = "./index"
		}
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.LLM.APIKeyEnv == "" {
		cfg.LLM.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "llama-3.1-8b-instant"
	}
}
