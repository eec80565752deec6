// Package embedding turns text into vectors via a configured backend.
package embedding

import (
	"context"
	"fmt"

	"github.com/drp-labs/spokesbot/common/httpx"
	"github.com/drp-labs/spokesbot/config"
)

// Provider generates a vector embedding for a piece of text.
type Provider interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// NewEmbeddingProvider creates an embedding provider from configuration.
func NewEmbeddingProvider(cfg config.EmbeddingConfig, client *httpx.Client) (Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaProvider(cfg, client), nil
	case "openai":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
}
