package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drp-labs/spokesbot/cache"
	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/prompt"
	"github.com/drp-labs/spokesbot/retriever"
	"github.com/drp-labs/spokesbot/schema"
)

const partyName = "Democratic Republicans"

type fakeIndex struct {
	docs    map[schema.DocType][]schema.Document
	queries []string
}

func (f *fakeIndex) Search(ctx context.Context, query string, topK int, docType schema.DocType) ([]schema.SearchResult, error) {
	f.queries = append(f.queries, query)
	docs := f.docs[docType]
	if len(docs) > topK {
		docs = docs[:topK]
	}
	results := make([]schema.SearchResult, 0, len(docs))
	for _, d := range docs {
		results = append(results, schema.SearchResult{Document: d, Score: 1})
	}
	return results, nil
}

type fakeLLM struct {
	answer string
	err    error
	calls  int
	// prompts captures what generation was asked for.
	prompts []string
}

func (f *fakeLLM) GenerateCompletion(ctx context.Context, promptText string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, promptText)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) EnsureModel(ctx context.Context) error { return nil }

func newOrchestrator(index retriever.Index, gen *fakeLLM) *Orchestrator {
	return &Orchestrator{
		Retriever: &retriever.ContextRetriever{Index: index, TopK: 8, MinContentLength: 50, MinViable: 1},
		Assembler: prompt.NewAssembler(partyName, 50),
		LLM:       gen,
	}
}

func wagePassage() schema.Document {
	return schema.Document{
		ID:      "wage",
		Content: "Our platform supports raising the minimum wage to a living wage, indexed to regional cost of living, because every working family deserves economic security.",
		DocType: schema.DocTypePlatform,
	}
}

func TestQueryExpandsNegativeWageQuestion(t *testing.T) {
	index := &fakeIndex{docs: map[schema.DocType][]schema.Document{
		schema.DocTypePlatform: {wagePassage()},
	}}
	gen := &fakeLLM{answer: "**Answer:** We support raising the minimum wage."}
	o := newOrchestrator(index, gen)

	answer := o.Query(context.Background(), "Would the party lower the minimum wage?")

	require.NotEmpty(t, index.queries)
	assert.Contains(t, index.queries[0], "raise wage")
	assert.Contains(t, index.queries[0], "support wage")
	assert.NotContains(t, answer, "Answer:")
	assert.Contains(t, answer, "raising the minimum wage")
}

func TestQueryRefusesWithoutContextAndSkipsGeneration(t *testing.T) {
	index := &fakeIndex{docs: map[schema.DocType][]schema.Document{}}
	gen := &fakeLLM{answer: "should never be called"}
	o := newOrchestrator(index, gen)

	answer := o.Query(context.Background(), "What is your stance on asteroid mining?")

	assert.Zero(t, gen.calls)
	assert.Contains(t, answer, partyName)
	assert.Contains(t, answer, "rephrasing")
}

func TestQueryComparativeQuestionUsesBothScopes(t *testing.T) {
	index := &fakeIndex{docs: map[schema.DocType][]schema.Document{
		schema.DocTypePlatform: {wagePassage()},
		schema.DocTypeHistory: {{
			ID:      "hist",
			Content: "The original party, founded by Jefferson and Madison in 1792, championed agrarian interests and strict construction of the constitution.",
			DocType: schema.DocTypeHistory,
		}},
	}}
	gen := &fakeLLM{answer: "The platform has shifted from agrarian interests to labor protections."}
	o := newOrchestrator(index, gen)

	trace := o.QueryVerbose(context.Background(), "How does the platform differ from the historical platform?")

	assert.Equal(t, string(schema.DocTypeBoth), trace.DocType)
	assert.Equal(t, 2, trace.NumChunks)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Jefferson")
	assert.Contains(t, gen.prompts[0], "minimum wage")
}

func TestQueryGenerationFailureReturnsErrorString(t *testing.T) {
	index := &fakeIndex{docs: map[schema.DocType][]schema.Document{
		schema.DocTypePlatform: {wagePassage()},
	}}
	gen := &fakeLLM{err: errors.New("connection refused")}
	o := newOrchestrator(index, gen)

	answer := o.Query(context.Background(), "What about wages?")

	assert.True(t, strings.HasPrefix(answer, "Error:"))
	assert.Contains(t, answer, "connection refused")
}

func TestQueryVerboseSurfacesIntermediateState(t *testing.T) {
	index := &fakeIndex{docs: map[schema.DocType][]schema.Document{
		schema.DocTypePlatform: {wagePassage()},
	}}
	gen := &fakeLLM{answer: "We support it."}
	o := newOrchestrator(index, gen)

	trace := o.QueryVerbose(context.Background(), "Would you cut the minimum wage?")

	assert.Equal(t, string(schema.DocTypePlatform), trace.DocType)
	assert.Contains(t, trace.ExpandedQuery, "increase minimum wage")
	assert.Equal(t, 1, trace.NumChunks)
	require.Len(t, trace.ChunkPreviews, 1)
	assert.LessOrEqual(t, len(trace.ChunkPreviews[0]), chunkPreviewLength+3)
	assert.Equal(t, "We support it", trace.Answer)
	assert.Equal(t, "We support it.", trace.RawAnswer)
}

func TestQueryCachesAnswers(t *testing.T) {
	index := &fakeIndex{docs: map[schema.DocType][]schema.Document{
		schema.DocTypePlatform: {wagePassage()},
	}}
	gen := &fakeLLM{answer: "We support it."}
	o := newOrchestrator(index, gen)
	o.Answers = cache.NewAnswerCache(config.CacheConfig{Enable: true, MaxEntries: 10, TTLSeconds: 60})

	first := o.Query(context.Background(), "What about the minimum wage?")
	second := o.Query(context.Background(), "what about the minimum wage?")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.calls)
}

func TestClassifyAndRetrieveContextDiagnostics(t *testing.T) {
	index := &fakeIndex{docs: map[schema.DocType][]schema.Document{
		schema.DocTypeHistory: {{
			ID:      "hist",
			Content: "The party was founded in Philadelphia in 1792 around opposition to centralized banking and federalist economic policy.",
			DocType: schema.DocTypeHistory,
		}},
	}}
	o := newOrchestrator(index, &fakeLLM{})

	assert.Equal(t, schema.DocTypeHistory, o.Classify("Where was the party founded?"))

	result := o.RetrieveContext(context.Background(), "Where was the party founded?")
	assert.Equal(t, schema.DocTypeHistory, result.DocType)
	require.Len(t, result.Passages, 1)
	assert.Contains(t, result.Passages[0].Content, "Philadelphia")
}
