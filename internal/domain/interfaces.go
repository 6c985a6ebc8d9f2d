package domain

import "context"

// Document represents a single source file loaded into the system.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Chunk is a bounded contiguous span of a document's text, the unit of
// embedding and retrieval.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
	Offset     int
}

// SearchResult represents a matching chunk with a similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float32
}

// Embedder converts free text into a fixed-dimension vector representation.
// The same embedder identity must be used for indexing and querying; a
// persisted index built with a different model is rejected at load time.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelInfo() string
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// VectorStore persists (chunk, vector) pairs and supports similarity search.
// Add is append-only; Search never mutates stored state and returns an
// empty result on an empty store.
type VectorStore interface {
	IsEmpty() bool
	Count() int
	Add(chunks []Chunk, vectors [][]float32) error
	Search(vector []float32, topK int) ([]SearchResult, error)
	Persist() error
}

// Synthesizer produces a final answer from a fully rendered prompt.
type Synthesizer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
