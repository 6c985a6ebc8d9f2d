package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"campus-assistant/internal/domain"
)

// Ingestor loads raw documents from a source directory, drives chunking and
// embedding, and writes the result to the vector store.
type Ingestor struct {
	chunker    domain.Chunker
	embedder   domain.Embedder
	store      domain.VectorStore
	summarizer domain.Summarizer
	log        *zap.Logger
	dataDir    string
	extensions map[string]struct{}
}

// Stats summarizes an ingestion pass.
type Stats struct {
	Documents int
	Chunks    int
	Skipped   bool
	Summary   string
}

func New(chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, summarizer domain.Summarizer, log *zap.Logger, dataDir string, extensions []string) *Ingestor {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = struct{}{}
	}
	return &Ingestor{
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		summarizer: summarizer,
		log:        log,
		dataDir:    dataDir,
		extensions: exts,
	}
}

// Ingest populates the store from the source directory. The pass is
// idempotent: a non-empty store means a previous pass already ran and the
// whole pass is skipped, so a restart never pays the embedding cost twice.
// An absent source directory yields an empty persisted store rather than an
// error; that is a recoverable state.
func (i *Ingestor) Ingest(ctx context.Context) (Stats, error) {
	if !i.store.IsEmpty() {
		i.log.Info("index already populated, skipping ingestion",
			zap.Int("chunks", i.store.Count()))
		return Stats{Chunks: i.store.Count(), Skipped: true}, nil
	}

	if _, err := os.Stat(i.dataDir); errors.Is(err, os.ErrNotExist) {
		i.log.Warn("data directory not found, persisting empty index",
			zap.String("dir", i.dataDir))
		return Stats{}, i.store.Persist()
	}

	documents, err := i.loadDocuments()
	if err != nil {
		return Stats{}, err
	}
	i.log.Info("loaded documents", zap.Int("count", len(documents)), zap.String("dir", i.dataDir))

	var allChunks []domain.Chunk
	var allTexts []string
	var corpus strings.Builder
	for _, d := range documents {
		chunks, err := i.chunker.Chunk(d)
		if err != nil {
			return Stats{}, fmt.Errorf("chunking %s: %w", d.Path, err)
		}
		for _, ch := range chunks {
			allChunks = append(allChunks, ch)
			allTexts = append(allTexts, ch.Text)
		}
		corpus.WriteString(d.Content)
		corpus.WriteString("\n")
	}

	if len(allChunks) > 0 {
		vectors, err := i.embedder.EmbedBatch(ctx, allTexts)
		if err != nil {
			return Stats{}, fmt.Errorf("embedding chunks: %w", err)
		}
		if err := i.store.Add(allChunks, vectors); err != nil {
			return Stats{}, fmt.Errorf("storing chunks: %w", err)
		}
	}
	if err := i.store.Persist(); err != nil {
		return Stats{}, fmt.Errorf("persisting index: %w", err)
	}

	var summary string
	if i.summarizer != nil && corpus.Len() > 0 {
		summary, err = i.summarizer.Summarize(corpus.String(), 3)
		if err != nil {
			i.log.Warn("corpus summary failed", zap.Error(err))
			summary = ""
		}
	}

	i.log.Info("ingestion complete",
		zap.Int("documents", len(documents)), zap.Int("chunks", len(allChunks)))
	return Stats{Documents: len(documents), Chunks: len(allChunks), Summary: summary}, nil
}

// loadDocuments walks the data directory recursively and reads every file
// with an eligible extension.
func (i *Ingestor) loadDocuments() ([]domain.Document, error) {
	var documents []domain.Document
	err := filepath.WalkDir(i.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := i.extensions[ext]; !ok {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		documents = append(documents, domain.Document{
			ID:      hashString(path),
			Path:    path,
			Content: string(data),
		})
		return nil
	})
	return documents, err
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
