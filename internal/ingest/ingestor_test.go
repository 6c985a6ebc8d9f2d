package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-assistant/internal/chunker"
	"campus-assistant/internal/embedding/hash"
	"campus-assistant/internal/summarizer"
	"campus-assistant/internal/vectorstore/file"
)

func newIngestor(t *testing.T, dataDir, indexDir string) *Ingestor {
	t.Helper()
	emb := hash.NewEmbedder(64)
	store, err := file.Open(indexDir, emb.ModelInfo(), emb.Dimension())
	require.NoError(t, err)
	ch := chunker.NewSentenceChunker(512, 50)
	sum := summarizer.NewFrequencySummarizer()
	return New(ch, emb, store, sum, zap.NewNop(), dataDir, []string{".txt", ".md"})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIngestBuildsAndPersistsIndex(t *testing.T) {
	dataDir := t.TempDir()
	indexDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "attendance.txt"),
		"Minimum attendance required is 75 percent. Shortfalls bar exam entry.")
	writeFile(t, filepath.Join(dataDir, "nested", "hostel.md"),
		"The hostel curfew is ten in the evening. Visitors must sign the register.")
	writeFile(t, filepath.Join(dataDir, "ignored.pdf"), "binary-ish content")

	ing := newIngestor(t, dataDir, indexDir)
	stats, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.False(t, stats.Skipped)
	assert.Equal(t, 2, stats.Documents, "only eligible extensions are ingested")
	assert.Greater(t, stats.Chunks, 0)
	assert.NotEmpty(t, stats.Summary)

	// The index must be reloadable from disk.
	emb := hash.NewEmbedder(64)
	loaded, err := file.Open(indexDir, emb.ModelInfo(), emb.Dimension())
	require.NoError(t, err)
	assert.Equal(t, stats.Chunks, loaded.Count())
}

func TestIngestIsIdempotent(t *testing.T) {
	dataDir := t.TempDir()
	indexDir := t.TempDir()
	writeFile(t, filepath.Join(dataDir, "doc.txt"), "A fact about campus. Another fact about fees.")

	ing := newIngestor(t, dataDir, indexDir)
	first, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	require.False(t, first.Skipped)

	// Second pass over the same store is a no-op.
	second, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.Chunks, second.Chunks)

	// Same when a new process reloads the persisted index.
	reloaded := newIngestor(t, dataDir, indexDir)
	third, err := reloaded.Ingest(context.Background())
	require.NoError(t, err)
	assert.True(t, third.Skipped)
	assert.Equal(t, first.Chunks, third.Chunks)
}

func TestIngestMissingDataDirYieldsEmptyIndex(t *testing.T) {
	indexDir := t.TempDir()
	ing := newIngestor(t, filepath.Join(t.TempDir(), "does-not-exist"), indexDir)

	stats, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Documents)
	assert.Equal(t, 0, stats.Chunks)

	// The empty index is still persisted and reloadable.
	emb := hash.NewEmbedder(64)
	loaded, err := file.Open(indexDir, emb.ModelInfo(), emb.Dimension())
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
	_, err = os.Stat(filepath.Join(indexDir, "index.gob"))
	assert.NoError(t, err)
}

func TestIngestEmptyDataDir(t *testing.T) {
	ing := newIngestor(t, t.TempDir(), t.TempDir())
	stats, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Documents)
	assert.Equal(t, 0, stats.Chunks)
	assert.False(t, stats.Skipped)
}
