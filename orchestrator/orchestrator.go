// Package orchestrator runs a question through the full answer pipeline:
// classify, expand, retrieve, assemble, generate, clean.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/drp-labs/spokesbot/cache"
	"github.com/drp-labs/spokesbot/classifier"
	"github.com/drp-labs/spokesbot/common/logger"
	"github.com/drp-labs/spokesbot/llm"
	"github.com/drp-labs/spokesbot/metrics"
	"github.com/drp-labs/spokesbot/post"
	"github.com/drp-labs/spokesbot/preretrieve"
	"github.com/drp-labs/spokesbot/prompt"
	"github.com/drp-labs/spokesbot/retriever"
	"github.com/drp-labs/spokesbot/schema"
)

const chunkPreviewLength = 200

// Orchestrator owns the pipeline stages. Every dependency is injected so
// tests can substitute deterministic fakes.
type Orchestrator struct {
	Retriever *retriever.ContextRetriever
	Assembler *prompt.Assembler
	LLM       llm.Provider
	// Answers may be nil; a nil cache misses on every lookup.
	Answers *cache.AnswerCache
}

// Trace carries the intermediate artifacts of one query for diagnostics.
type Trace struct {
	Question      string   `json:"question"`
	DocType       string   `json:"doc_type"`
	ExpandedQuery string   `json:"expanded_query"`
	NumChunks     int      `json:"num_chunks"`
	ChunkPreviews []string `json:"chunk_previews,omitempty"`
	Degraded      bool     `json:"degraded"`
	Refused       bool     `json:"refused"`
	CacheHit      bool     `json:"cache_hit"`
	RawAnswer     string   `json:"raw_answer,omitempty"`
	Answer        string   `json:"answer"`
}

// Query answers a question. It never returns an error: generation failures
// come back as a descriptive answer string, missing evidence as the refusal.
func (o *Orchestrator) Query(ctx context.Context, question string) string {
	trace := o.run(ctx, question)
	return trace.Answer
}

// QueryVerbose answers a question and surfaces the intermediate pipeline
// state alongside the final answer.
func (o *Orchestrator) QueryVerbose(ctx context.Context, question string) *Trace {
	return o.run(ctx, question)
}

// Classify exposes the scope decision for diagnostic call paths.
func (o *Orchestrator) Classify(question string) schema.DocType {
	return classifier.Classify(question)
}

// RetrieveContext exposes the retrieval stage for diagnostic call paths.
func (o *Orchestrator) RetrieveContext(ctx context.Context, question string) schema.RetrievalResult {
	docType := classifier.Classify(question)
	expanded := preretrieve.Expand(question)
	return o.Retriever.Retrieve(ctx, question, expanded, docType)
}

func (o *Orchestrator) run(ctx context.Context, question string) *Trace {
	start := time.Now()
	trace := &Trace{Question: question}

	docType := classifier.Classify(question)
	trace.DocType = string(docType)

	if answer, ok := o.Answers.Get(cache.Key(question, docType)); ok {
		metrics.IncCacheHit()
		trace.CacheHit = true
		trace.Answer = answer
		return trace
	}

	expanded := preretrieve.Expand(question)
	trace.ExpandedQuery = expanded

	result := o.Retriever.Retrieve(ctx, question, expanded, docType)
	trace.NumChunks = len(result.Passages)
	trace.Degraded = result.Degraded
	trace.ChunkPreviews = previews(result)
	if result.Degraded {
		metrics.IncFallback("unfiltered")
	}

	promptText, refused := o.Assembler.Build(question, result)
	if refused {
		// Terminal state by design, not an error. No generation call.
		metrics.IncRefusal()
		trace.Refused = true
		trace.Answer = promptText
		o.finish(trace, result, start)
		return trace
	}

	raw, err := o.LLM.GenerateCompletion(ctx, promptText)
	if err != nil {
		logger.Errorf("orchestrator: generation failed: %v", err)
		metrics.IncGenerationError()
		trace.Answer = fmt.Sprintf("Error: Could not generate response (%v)", err)
		o.finish(trace, result, start)
		return trace
	}
	trace.RawAnswer = raw

	trace.Answer = post.Clean(raw)
	o.Answers.Set(cache.Key(question, docType), trace.Answer)
	o.finish(trace, result, start)
	return trace
}

func (o *Orchestrator) finish(trace *Trace, result schema.RetrievalResult, start time.Time) {
	metrics.IncQuery(string(result.DocType))
	metrics.ObserveQuery(string(result.DocType), start, len(result.Passages))
	logger.Debugf("orchestrator: question=%q scope=%s chunks=%d degraded=%t refused=%t elapsed=%s",
		trace.Question, trace.DocType, trace.NumChunks, trace.Degraded, trace.Refused, time.Since(start))
}

func previews(result schema.RetrievalResult) []string {
	n := len(result.Passages)
	if n > 3 {
		n = 3
	}
	out := make([]string, 0, n)
	for _, p := range result.Passages[:n] {
		content := p.Content
		if len(content) > chunkPreviewLength {
			content = content[:chunkPreviewLength] + "..."
		}
		out = append(out, content)
	}
	return out
}
