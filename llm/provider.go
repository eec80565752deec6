// Package llm wraps the text-generation backends.
package llm

import (
	"context"
	"fmt"

	"github.com/drp-labs/spokesbot/common/httpx"
	"github.com/drp-labs/spokesbot/config"
)

// Provider generates a completion for a fully composed prompt.
type Provider interface {
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
	// EnsureModel checks that the configured model is available, pulling it
	// when the backend supports that. Best effort; failure is non-fatal.
	EnsureModel(ctx context.Context) error
}

// NewLLMProvider creates a generation provider from configuration.
func NewLLMProvider(cfg config.LLMConfig, client *httpx.Client) (Provider, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaProvider(cfg, client), nil
	case "openai":
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
