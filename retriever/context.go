package retriever

import (
	"context"
	"strings"

	"github.com/drp-labs/spokesbot/common/logger"
	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/schema"
)

const recallSearchK = 3

// ContextRetriever runs the multi-pass retrieval ladder. It never returns an
// error: every index failure is absorbed into a degraded or empty result so
// the pipeline always has something to hand the assembler.
type ContextRetriever struct {
	Index Index
	// TopK caps single-scope results; the combined scope is capped at twice
	// this value.
	TopK int
	// MinContentLength drops noise fragments during deduplication.
	MinContentLength int
	// MinViable is the result count below which the original question is
	// searched alongside the expanded one.
	MinViable int
	// ExtendedRecall adds per-keyword recall searches to the candidate pool.
	ExtendedRecall bool
}

// NewContextRetriever builds a retriever from configuration.
func NewContextRetriever(index Index, cfg config.RetrievalConfig) *ContextRetriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 8
	}
	minContent := cfg.MinContentLength
	if minContent <= 0 {
		minContent = 50
	}
	minViable := cfg.MinViable
	if minViable <= 0 {
		minViable = 3
	}
	return &ContextRetriever{
		Index:            index,
		TopK:             topK,
		MinContentLength: minContent,
		MinViable:        minViable,
		ExtendedRecall:   cfg.ExtendedRecall,
	}
}

// Retrieve collects grounding passages for the question under the given
// scope. The expanded query drives the primary searches; the original
// question backs the fallback and recall passes.
func (r *ContextRetriever) Retrieve(ctx context.Context, question, expanded string, docType schema.DocType) schema.RetrievalResult {
	if docType == schema.DocTypeBoth {
		return r.retrieveCombined(ctx, expanded)
	}
	return r.retrieveSingle(ctx, question, expanded, docType)
}

// retrieveCombined searches each constituent scope once and concatenates the
// results in scope order, capped at twice TopK. Duplicates across scopes are
// kept on purpose: a passage surfacing under both scopes is itself evidence
// of overlap for comparison prompts.
func (r *ContextRetriever) retrieveCombined(ctx context.Context, expanded string) schema.RetrievalResult {
	result := schema.RetrievalResult{DocType: schema.DocTypeBoth}
	for _, scope := range schema.DocTypeBoth.Scopes() {
		hits, err := r.search(ctx, expanded, r.TopK, scope)
		if err != nil {
			logger.Warnf("retriever: %s scope search failed: %v", scope, err)
			continue
		}
		for _, hit := range hits {
			result.Passages = append(result.Passages, hit.Document)
		}
	}
	if limit := 2 * r.TopK; len(result.Passages) > limit {
		result.Passages = result.Passages[:limit]
	}
	return result
}

func (r *ContextRetriever) retrieveSingle(ctx context.Context, question, expanded string, docType schema.DocType) schema.RetrievalResult {
	result := schema.RetrievalResult{DocType: docType}

	candidates, err := r.search(ctx, expanded, r.TopK, docType)
	if err != nil {
		return r.recoverFromSearchError(ctx, question, err)
	}

	if r.ExtendedRecall {
		candidates = append(candidates, r.recallSearches(ctx, question, docType)...)
	}

	// Scope filter starved: fall back to the whole index and flag it.
	if len(candidates) == 0 {
		logger.Warnf("retriever: no %s documents matched, searching all documents", docType)
		unfiltered, err := r.search(ctx, expanded, r.TopK, "")
		if err != nil {
			return r.recoverFromSearchError(ctx, question, err)
		}
		candidates = unfiltered
		result.Degraded = true
	}

	// Thin result set: the expansion may have diluted the query, so retry
	// with the original question and merge.
	if len(candidates) < r.MinViable {
		original, err := r.search(ctx, question, r.TopK, docType)
		if err != nil {
			logger.Warnf("retriever: original-question search failed: %v", err)
		} else {
			candidates = append(candidates, original...)
		}
	}

	result.Passages = r.dedupe(candidates)
	if len(result.Passages) > r.TopK {
		result.Passages = result.Passages[:r.TopK]
	}
	return result
}

// recallSearches issues one small search per significant word among the
// first three significant words of the original question, pulling in related
// sections the main query alone would miss.
func (r *ContextRetriever) recallSearches(ctx context.Context, question string, docType schema.DocType) []schema.SearchResult {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(question)) {
		if len(w) > 3 {
			words = append(words, w)
		}
		if len(words) == 3 {
			break
		}
	}

	var extra []schema.SearchResult
	for _, word := range words {
		hits, err := r.search(ctx, word, recallSearchK, docType)
		if err != nil {
			logger.Debugf("retriever: recall search for %q failed: %v", word, err)
			continue
		}
		extra = append(extra, hits...)
	}
	return extra
}

// recoverFromSearchError retries once without the scope filter, then gives
// up with an empty platform-scoped result. Nothing propagates to the caller.
func (r *ContextRetriever) recoverFromSearchError(ctx context.Context, question string, searchErr error) schema.RetrievalResult {
	logger.Errorf("retriever: search failed, retrying unfiltered: %v", searchErr)
	hits, err := r.search(ctx, question, r.TopK, "")
	if err != nil {
		logger.Errorf("retriever: unfiltered retry failed: %v", err)
		return schema.RetrievalResult{DocType: schema.DocTypePlatform, Degraded: true}
	}
	result := schema.RetrievalResult{DocType: schema.DocTypePlatform, Degraded: true}
	for _, hit := range hits {
		result.Passages = append(result.Passages, hit.Document)
	}
	return result
}

// dedupe drops passages with duplicate trimmed content or content shorter
// than the minimum length, preserving first-seen order.
func (r *ContextRetriever) dedupe(candidates []schema.SearchResult) []schema.Document {
	seen := make(map[string]struct{}, len(candidates))
	var unique []schema.Document
	for _, c := range candidates {
		content := strings.TrimSpace(c.Document.Content)
		if len(content) <= r.MinContentLength {
			continue
		}
		if _, ok := seen[content]; ok {
			continue
		}
		seen[content] = struct{}{}
		unique = append(unique, c.Document)
	}
	return unique
}

func (r *ContextRetriever) search(ctx context.Context, query string, topK int, docType schema.DocType) ([]schema.SearchResult, error) {
	return r.Index.Search(ctx, query, topK, docType)
}
