// Package retriever turns a question into the passage set that grounds the
// answer, tolerating an unavailable or sparse index.
package retriever

import (
	"context"

	"github.com/drp-labs/spokesbot/embedding"
	"github.com/drp-labs/spokesbot/schema"
	"github.com/drp-labs/spokesbot/vectordb"
)

// Index is the similarity-search capability the retriever depends on. An
// empty docType searches the whole index.
type Index interface {
	Search(ctx context.Context, query string, topK int, docType schema.DocType) ([]schema.SearchResult, error)
}

// VectorIndex implements Index on an embedding provider plus a vector store.
type VectorIndex struct {
	Embed embedding.Provider
	Store vectordb.VectorStoreProvider
	// Threshold is passed through to the underlying search options.
	Threshold float64
}

func (v *VectorIndex) Search(ctx context.Context, query string, topK int, docType schema.DocType) ([]schema.SearchResult, error) {
	if topK <= 0 {
		topK = 10
	}
	vec, err := v.Embed.GetEmbedding(ctx, query)
	if err != nil {
		return nil, err
	}
	opts := &schema.SearchOptions{TopK: topK, Threshold: v.Threshold, DocType: docType}
	return v.Store.SearchDocs(ctx, vec, opts)
}
