package file

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"campus-assistant/internal/domain"
)

const indexFileName = "index.gob"

// indexData is the durable shape of the store: chunk texts, their vectors
// and the identity of the model that produced them.
type indexData struct {
	ModelInfo string
	Dimension int
	Chunks    []domain.Chunk
	Vectors   [][]float32
}

// Store is a directory-backed vector store. The whole index lives in
// memory and is flushed to a single gob file under the store directory.
// Reads are safe to run concurrently; Search never mutates state.
type Store struct {
	mu   sync.RWMutex
	path string
	data indexData
}

// Open loads an existing index from the directory or starts an empty one
// bound to the given model identity. An existing index built with a
// different model is rejected: its similarity scores would be meaningless
// for vectors produced by the current embedder.
func Open(path, modelInfo string, dimension int) (*Store, error) {
	s := &Store{
		path: path,
		data: indexData{ModelInfo: modelInfo, Dimension: dimension},
	}
	f, err := os.Open(filepath.Join(path, indexFileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	defer f.Close()

	var loaded indexData
	if err := gob.NewDecoder(f).Decode(&loaded); err != nil {
		return nil, fmt.Errorf("decoding index at %s: %w", path, err)
	}
	if loaded.ModelInfo != modelInfo {
		return nil, fmt.Errorf("index at %s was built with model %q, current model is %q; rebuild the index",
			path, loaded.ModelInfo, modelInfo)
	}
	if loaded.Dimension != dimension {
		return nil, fmt.Errorf("index at %s has dimension %d, current model produces %d; rebuild the index",
			path, loaded.Dimension, dimension)
	}
	s.data = loaded
	return s, nil
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Chunks) == 0
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data.Chunks)
}

// Add appends chunks and their vectors. The store is append-only; existing
// entries are never rewritten.
func (s *Store) Add(chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.data.Dimension {
			return fmt.Errorf("vector dimension %d does not match index dimension %d", len(v), s.data.Dimension)
		}
	}
	s.data.Chunks = append(s.data.Chunks, chunks...)
	s.data.Vectors = append(s.data.Vectors, vectors...)
	return nil
}

// Search returns the topK nearest chunks by cosine similarity, most similar
// first. Ties keep insertion order so retrieval is deterministic for a
// fixed index. An empty store yields an empty result, not an error.
func (s *Store) Search(vector []float32, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	if len(s.data.Chunks) == 0 {
		return nil, nil
	}
	scores := make([]float32, len(s.data.Vectors))
	for i := range s.data.Vectors {
		scores[i] = cosine(s.data.Vectors[i], vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Chunk: s.data.Chunks[j], Score: scores[j]})
	}
	return results, nil
}

// Persist flushes the index to disk. The file is written to a temp path and
// renamed so a crash mid-write cannot leave a truncated index behind.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.path, indexFileName+".tmp-*")
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(tmp).Encode(&s.data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.path, indexFileName))
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
