package llm

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

func TestOllamaGenerateCompletion(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "We support it.", Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.LLMConfig{
		Provider:    "ollama",
		BaseURL:     srv.URL,
		Model:       "qwen3:0.6b",
		Temperature: 0.4,
		TopP:        0.9,
		TopK:        40,
	}, nil)

	answer, err := p.GenerateCompletion(context.Background(), "What about wages?")
	require.NoError(t, err)
	assert.Equal(t, "We support it.", answer)

	assert.Equal(t, "qwen3:0.6b", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, 0.4, got.Options["temperature"])
	assert.Equal(t, 0.9, got.Options["top_p"])
	assert.Equal(t, float64(40), got.Options["top_k"])
}

func TestOllamaGenerateCompletionErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.LLMConfig{Provider: "ollama", BaseURL: srv.URL, Model: "m"}, nil)

	_, err := p.GenerateCompletion(context.Background(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestOllamaEnsureModelPullsWhenMissing(t *testing.T) {
	pulled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"models": []map[string]string{{"name": "other-model"}},
			})
		case "/api/pull":
			pulled = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.LLMConfig{Provider: "ollama", BaseURL: srv.URL, Model: "qwen3:0.6b"}, nil)

	require.NoError(t, p.EnsureModel(context.Background()))
	assert.True(t, pulled)
}

func TestOllamaEnsureModelSkipsPullWhenPresent(t *testing.T) {
	pulled := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"models": []map[string]string{{"name": "qwen3:0.6b"}},
			})
		case "/api/pull":
			pulled = true
		}
	}))
	defer srv.Close()

	p := NewOllamaProvider(config.LLMConfig{Provider: "ollama", BaseURL: srv.URL, Model: "qwen3:0.6b"}, nil)

	require.NoError(t, p.EnsureModel(context.Background()))
	assert.False(t, pulled)
}

func TestOllamaEnsureModelToleratesUnreachableServer(t *testing.T) {
	p := NewOllamaProvider(config.LLMConfig{Provider: "ollama", BaseURL: "http://127.0.0.1:1", Model: "m"}, nil)
	assert.NoError(t, p.EnsureModel(context.Background()))
}

func TestNewLLMProviderUnknown(t *testing.T) {
	_, err := NewLLMProvider(config.LLMConfig{Provider: "smoke-signals"}, nil)
	assert.Error(t, err)
}
