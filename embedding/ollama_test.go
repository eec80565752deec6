package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drp-labs/spokesbot/config"
)

func TestOllamaGetEmbedding(t *testing.T) {
	var got ollamaEmbeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float64{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.EmbeddingConfig{Provider: "ollama", BaseURL: srv.URL, Model: "qwen3-embedding:0.6b"}, nil)

	vec, err := p.GetEmbedding(context.Background(), "minimum wage")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "qwen3-embedding:0.6b", got.Model)
	assert.Equal(t, "minimum wage", got.Prompt)
}

func TestOllamaGetEmbeddingEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{})
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.EmbeddingConfig{Provider: "ollama", BaseURL: srv.URL, Model: "m"}, nil)

	_, err := p.GetEmbedding(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestNewEmbeddingProviderUnknown(t *testing.T) {
	_, err := NewEmbeddingProvider(config.EmbeddingConfig{Provider: "abacus"}, nil)
	assert.Error(t, err)
}
