package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"campus-assistant/internal/chunker"
	"campus-assistant/internal/embedding/hash"
	"campus-assistant/internal/ingest"
	"campus-assistant/internal/retrieval"
	"campus-assistant/internal/router"
	"campus-assistant/internal/summarizer"
	"campus-assistant/internal/vectorstore/file"
)

func newEngine(t *testing.T, docs map[string]string) *Engine {
	t.Helper()
	dataDir := t.TempDir()
	for name, content := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644))
	}

	emb := hash.NewEmbedder(64)
	store, err := file.Open(t.TempDir(), emb.ModelInfo(), emb.Dimension())
	require.NoError(t, err)

	ing := ingest.New(chunker.NewSentenceChunker(512, 50), emb, store,
		summarizer.NewFrequencySummarizer(), zap.NewNop(), dataDir, []string{".txt", ".md"})
	retr := retrieval.New(emb, store, nil, 5, zap.NewNop())
	return New(ing, retr, router.New(15), zap.NewNop())
}

func TestAnswerBlankQuery(t *testing.T) {
	e := newEngine(t, nil)
	assert.Equal(t, EmptyQueryReply, e.Answer(context.Background(), "   "))
	assert.Equal(t, EmptyQueryReply, e.Answer(context.Background(), ""))
}

func TestAnswerCasualSkipsRetrieval(t *testing.T) {
	// No documents indexed: a greeting must still get a friendly reply,
	// never the not-available sentinel.
	e := newEngine(t, nil)
	reply := e.Answer(context.Background(), "hello")
	assert.NotEmpty(t, reply)
	assert.NotContains(t, reply, retrieval.NotAvailable)
	assert.Equal(t, reply, e.Answer(context.Background(), "hello"))
}

func TestCapabilityReplyCarriesCorpusOverview(t *testing.T) {
	e := newEngine(t, map[string]string{
		"attendance.txt": "Minimum attendance required is 75 percent for every enrolled course.",
	})
	reply := e.Answer(context.Background(), "what can you do")
	assert.Contains(t, reply, "What interests you most?")
	assert.Contains(t, reply, e.Stats().Summary)
	assert.NotEmpty(t, e.Stats().Summary)
}

func TestAnswerKnowledgeQuery(t *testing.T) {
	e := newEngine(t, map[string]string{
		"attendance.txt": "Minimum attendance required is 75 percent for every enrolled course. " +
			"Students falling short are barred from the end semester examination.",
	})
	reply := e.Answer(context.Background(), "what is the attendance requirement")
	assert.Contains(t, reply, "75")
}

func TestAnswerAsyncMatchesAnswer(t *testing.T) {
	e := newEngine(t, map[string]string{
		"fees.txt": "The semester fee must be paid before the tenth of August each year. " +
			"Late payment attracts a fine of five hundred rupees.",
	})
	ctx := context.Background()
	for _, query := range []string{"hello", "when is the fee deadline", ""} {
		want := e.Answer(ctx, query)
		got, ok := <-e.AnswerAsync(ctx, query)
		require.True(t, ok)
		assert.Equal(t, want, got, "query %q", query)
	}
}

func TestConcurrentFirstUseInitializesOnce(t *testing.T) {
	e := newEngine(t, map[string]string{
		"hostel.txt": "The hostel curfew is ten in the evening. Visitors must sign the register at the gate.",
	})

	var wg sync.WaitGroup
	replies := make([]string, 8)
	for i := range replies {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			replies[i] = e.Answer(context.Background(), "what is the hostel curfew")
		}(i)
	}
	wg.Wait()

	for _, reply := range replies {
		assert.Equal(t, replies[0], reply)
	}
	assert.False(t, e.Stats().Skipped)
	assert.Greater(t, e.Stats().Chunks, 0)
}

func TestServeWorker(t *testing.T) {
	e := newEngine(t, map[string]string{
		"library.txt": "The central library stays open from eight in the morning until midnight on weekdays.",
	})

	in := make(chan string)
	out := make(chan Reply, 4)
	done := make(chan struct{})
	go func() {
		e.Serve(context.Background(), in, out)
		close(done)
	}()

	in <- "hello"
	in <- "   "
	in <- "when is the library open"
	close(in)
	<-done
	close(out)

	var replies []Reply
	for r := range out {
		replies = append(replies, r)
	}
	require.Len(t, replies, 2, "blank utterance must be skipped")
	assert.Equal(t, "hello", replies[0].Query)
	assert.Equal(t, "when is the library open", replies[1].Query)
	for _, r := range replies {
		assert.NotEmpty(t, r.Text)
	}
}

func TestServeStopsOnContextCancel(t *testing.T) {
	e := newEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan string)
	out := make(chan Reply)
	done := make(chan struct{})
	go func() {
		e.Serve(ctx, in, out)
		close(done)
	}()
	cancel()
	<-done
}
