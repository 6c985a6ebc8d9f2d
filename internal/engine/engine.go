package engine

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"campus-assistant/internal/ingest"
	"campus-assistant/internal/retrieval"
	"campus-assistant/internal/router"
	"campus-assistant/internal/speech"
)

// ApologyReply is returned for any unexpected failure inside the query
// path; failures are logged and never propagated.
const ApologyReply = "Sorry, I'm having trouble right now. Could you please ask your question again?"

// EmptyQueryReply is returned for blank utterances.
const EmptyQueryReply = "Please ask a valid question."

// Greeting is the line the assistant opens a session with.
const Greeting = "Hey! I'm your campus assistant. Ask me anything about campus life, hostels, fees or whatever you need to know!"

// Engine ties the query pipeline together: routing, retrieval, answer
// synthesis and speech normalization. One Engine is constructed at process
// start and shared by every caller; the store is built lazily on first use,
// guarded so concurrent first-time callers observe a single initialization.
type Engine struct {
	ingestor  *ingest.Ingestor
	retrieval *retrieval.Engine
	router    *router.Router
	log       *zap.Logger

	once    sync.Once
	initErr error
	stats   ingest.Stats
}

// Reply pairs a processed utterance with its spoken reply.
type Reply struct {
	Query string
	Text  string
}

func New(ingestor *ingest.Ingestor, retr *retrieval.Engine, rtr *router.Router, log *zap.Logger) *Engine {
	return &Engine{ingestor: ingestor, retrieval: retr, router: rtr, log: log}
}

// Init runs ingestion exactly once, blocking until the index is persisted.
// Calling it at cold start is optional: the first query triggers the same
// guarded initialization.
func (e *Engine) Init(ctx context.Context) error {
	e.once.Do(func() {
		e.stats, e.initErr = e.ingestor.Ingest(ctx)
	})
	return e.initErr
}

// Stats reports the result of the ingestion pass. Only meaningful after Init.
func (e *Engine) Stats() ingest.Stats { return e.stats }

// Answer routes the utterance and returns the final speech-ready reply
// text. It never returns an error: every failure degrades to a fixed
// apology.
func (e *Engine) Answer(ctx context.Context, query string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("query handling panicked", zap.Any("panic", r), zap.String("query", query))
			reply = ApologyReply
		}
	}()

	if err := e.Init(ctx); err != nil {
		e.log.Error("engine initialization failed", zap.Error(err))
		return ApologyReply
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return EmptyQueryReply
	}

	category := e.router.Classify(query)
	if category.IsCasual() {
		e.log.Info("casual utterance", zap.Stringer("category", category))
		reply := e.router.CasualReply(category)
		if category == router.Capability && e.stats.Summary != "" {
			reply += " " + e.stats.Summary
		}
		return reply
	}

	raw := e.retrieval.Answer(ctx, query)
	if raw == retrieval.FailureReply {
		return raw
	}
	clean := speech.Normalize(raw)
	confidence := e.router.AssessConfidence(raw, clean)
	e.log.Info("knowledge answer",
		zap.String("query", query),
		zap.Bool("confident", confidence == router.Confident))
	return e.router.KnowledgeReply(query, clean, confidence)
}

// AnswerAsync runs Answer on a worker goroutine and delivers the reply on
// the returned channel, so a caller servicing many sessions is not blocked
// on retrieval and synthesis. For the same input and index state the result
// equals Answer's.
func (e *Engine) AnswerAsync(ctx context.Context, query string) <-chan string {
	out := make(chan string, 1)
	go func() {
		out <- e.Answer(ctx, query)
		close(out)
	}()
	return out
}

// Serve consumes finalized utterances from in and emits replies on out,
// one at a time, until in closes or the context is cancelled. Blank
// utterances are skipped. Errors are captured per message by Answer's
// recovery, so one bad utterance cannot stop the worker.
func (e *Engine) Serve(ctx context.Context, in <-chan string, out chan<- Reply) {
	for {
		select {
		case <-ctx.Done():
			return
		case utterance, ok := <-in:
			if !ok {
				return
			}
			if strings.TrimSpace(utterance) == "" {
				continue
			}
			select {
			case out <- Reply{Query: utterance, Text: e.Answer(ctx, utterance)}:
			case <-ctx.Done():
				return
			}
		}
	}
}
