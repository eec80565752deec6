// Package spokesbot wires the answer pipeline together: corpus ingestion,
// retrieval, prompt assembly, generation, and cleanup.
package spokesbot

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/drp-labs/spokesbot/cache"
	"github.com/drp-labs/spokesbot/common/httpx"
	"github.com/drp-labs/spokesbot/common/logger"
	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/embedding"
	"github.com/drp-labs/spokesbot/ingest"
	"github.com/drp-labs/spokesbot/llm"
	"github.com/drp-labs/spokesbot/orchestrator"
	"github.com/drp-labs/spokesbot/prompt"
	"github.com/drp-labs/spokesbot/retriever"
	"github.com/drp-labs/spokesbot/schema"
	"github.com/drp-labs/spokesbot/vectordb"
)

const Version = "1.0.0"

// Client owns the providers and the orchestrator. Construct once at startup;
// safe for concurrent queries after Initialize completes.
type Client struct {
	cfg      *config.Config
	store    vectordb.VectorStoreProvider
	embedder embedding.Provider
	llm      llm.Provider
	ingestor *ingest.Ingestor
	orch     *orchestrator.Orchestrator

	ready atomic.Bool
}

// NewClient builds every provider from configuration. The vector index is
// empty until Initialize ingests the corpus.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config failed, err: %w", err)
	}
	httpClient := httpx.NewFromConfig(cfg.HTTP)

	embedder, err := embedding.NewEmbeddingProvider(cfg.Embedding, httpClient)
	if err != nil {
		return nil, fmt.Errorf("create embedding provider failed, err: %w", err)
	}

	llmProvider, err := llm.NewLLMProvider(cfg.LLM, httpClient)
	if err != nil {
		return nil, fmt.Errorf("create llm provider failed, err: %w", err)
	}

	store, err := vectordb.NewVectorStoreProvider(ctx, cfg.VectorDB, cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("create vector store provider failed, err: %w", err)
	}

	ingestor, err := ingest.NewIngestor(embedder, store, cfg.Retrieval.Splitter)
	if err != nil {
		return nil, fmt.Errorf("create ingestor failed, err: %w", err)
	}

	index := &retriever.VectorIndex{
		Embed:     embedder,
		Store:     store,
		Threshold: cfg.Retrieval.Threshold,
	}
	orch := &orchestrator.Orchestrator{
		Retriever: retriever.NewContextRetriever(index, cfg.Retrieval),
		Assembler: prompt.NewAssembler(cfg.Party.Name, cfg.Retrieval.MinContentLength),
		LLM:       llmProvider,
		Answers:   cache.NewAnswerCache(cfg.Cache),
	}

	return &Client{
		cfg:      cfg,
		store:    store,
		embedder: embedder,
		llm:      llmProvider,
		ingestor: ingestor,
		orch:     orch,
	}, nil
}

// Initialize provisions models and ingests the corpus. Queries arriving
// before this completes are answered with a still-initializing placeholder.
func (c *Client) Initialize(ctx context.Context) error {
	logger.Infof("spokesbot: initializing")
	if err := c.llm.EnsureModel(ctx); err != nil {
		logger.Warnf("spokesbot: model provisioning check failed: %v", err)
	}
	if err := c.ingestor.IngestCorpus(ctx, c.cfg.Corpus); err != nil {
		return fmt.Errorf("ingest corpus failed, err: %w", err)
	}
	// Cached answers predate the fresh index.
	c.orch.Answers.Purge()
	c.ready.Store(true)
	logger.Infof("spokesbot: ready")
	return nil
}

// Ready reports whether the corpus has been ingested.
func (c *Client) Ready() bool {
	return c.ready.Load()
}

// Query answers a question. Never returns an error; failures become
// user-displayable answer strings.
func (c *Client) Query(ctx context.Context, question string) string {
	return c.orch.Query(ctx, question)
}

// QueryVerbose answers a question with the intermediate pipeline state.
func (c *Client) QueryVerbose(ctx context.Context, question string) *orchestrator.Trace {
	return c.orch.QueryVerbose(ctx, question)
}

// Classify exposes the scope decision for diagnostics.
func (c *Client) Classify(question string) schema.DocType {
	return c.orch.Classify(question)
}

// RetrieveContext exposes the retrieval stage for diagnostics.
func (c *Client) RetrieveContext(ctx context.Context, question string) schema.RetrievalResult {
	return c.orch.RetrieveContext(ctx, question)
}

// Config returns the active configuration.
func (c *Client) Config() *config.Config {
	return c.cfg
}

// Close releases the vector store connection.
func (c *Client) Close() error {
	return c.store.Close()
}
