// Package vectordb stores and searches embedded passages.
package vectordb

import (
	"context"
	"fmt"

	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/schema"
)

// VectorStoreProvider is the persistence interface for embedded passages.
type VectorStoreProvider interface {
	AddDocs(ctx context.Context, docs []schema.Document) error
	// SearchDocs returns passages ordered by similarity. A DocType in the
	// options restricts the search to that scope.
	SearchDocs(ctx context.Context, vector []float32, opts *schema.SearchOptions) ([]schema.SearchResult, error)
	ListDocs(ctx context.Context, limit int) ([]schema.Document, error)
	DeleteDocs(ctx context.Context, ids []string) error
	Close() error
}

// NewVectorStoreProvider creates a store from configuration.
func NewVectorStoreProvider(ctx context.Context, cfg config.VectorDBConfig, dimensions int) (VectorStoreProvider, error) {
	switch cfg.Provider {
	case "milvus":
		return NewMilvusStore(ctx, cfg, dimensions)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown vectordb provider: %s", cfg.Provider)
	}
}
