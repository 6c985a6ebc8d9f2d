package retrieval

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"campus-assistant/internal/domain"
)

// NotAvailable is the sentinel the synthesis prompt instructs the model to
// use when the retrieved context does not contain the answer.
const NotAvailable = "This information is not available in the provided documents"

// FailureReply is returned when similarity search or synthesis fails; the
// failure is logged and never propagated to the caller.
const FailureReply = "Sorry, I could not retrieve the answer right now."

const answerPrompt = `Extract the exact answer from the context below. Follow these rules strictly:

1. ONLY use information directly stated in the context
2. Quote exact text, dates, numbers, and procedures from the context
3. If the answer is not in the context, respond: "%s"
4. Keep answers brief and factual
5. Do not interpret, assume, or add any information

Context:
%s

Question: %s

Answer (extract exact information only):`

// Engine embeds a query, retrieves the most similar chunks and synthesizes
// a raw answer from them. Without a synthesizer it degrades to returning
// the retrieved chunks verbatim.
type Engine struct {
	embedder domain.Embedder
	store    domain.VectorStore
	synth    domain.Synthesizer
	topK     int
	log      *zap.Logger
}

func New(embedder domain.Embedder, store domain.VectorStore, synth domain.Synthesizer, topK int, log *zap.Logger) *Engine {
	if topK <= 0 {
		topK = 5
	}
	return &Engine{embedder: embedder, store: store, synth: synth, topK: topK, log: log}
}

// Answer runs the retrieval-and-synthesis pipeline and returns the raw
// answer text. Every failure on this path is converted into a fixed reply;
// query-time errors never reach the caller.
func (e *Engine) Answer(ctx context.Context, query string) string {
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		e.log.Error("query embedding failed", zap.Error(err))
		return FailureReply
	}
	results, err := e.store.Search(vec, e.topK)
	if err != nil {
		e.log.Error("similarity search failed", zap.Error(err))
		return FailureReply
	}
	if len(results) == 0 {
		return NotAvailable
	}

	contextBlock := buildContext(results)
	if e.synth == nil {
		// Degraded mode: no language model configured.
		return contextBlock
	}

	prompt := fmt.Sprintf(answerPrompt, NotAvailable, contextBlock, query)
	answer, err := e.synth.Complete(ctx, prompt)
	if err != nil {
		e.log.Error("answer synthesis failed", zap.Error(err), zap.String("query", query))
		return FailureReply
	}
	return answer
}

// buildContext concatenates the retrieved chunk texts in retrieval order,
// most similar first.
func buildContext(results []domain.SearchResult) string {
	var b strings.Builder
	for i, r := range results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.Chunk.Text)
	}
	return b.String()
}
