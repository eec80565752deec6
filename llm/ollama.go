package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/drp-labs/spokesbot/common/httpx"
	"github.com/drp-labs/spokesbot/common/logger"
	"github.com/drp-labs/spokesbot/config"
)

// OllamaProvider generates completions through a local Ollama server.
type OllamaProvider struct {
	baseURL     string
	model       string
	temperature float64
	topP        float64
	topK        int
	client      *httpx.Client
	tagsTimeout time.Duration
	pullTimeout time.Duration
}

func NewOllamaProvider(cfg config.LLMConfig, client *httpx.Client) *OllamaProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	genTimeout := 60 * time.Second
	if cfg.GenerateTimeoutSeconds > 0 {
		genTimeout = time.Duration(cfg.GenerateTimeoutSeconds) * time.Second
	}
	if client == nil {
		client = httpx.NewFromConfig(nil)
	}
	tagsTimeout := 10 * time.Second
	if cfg.TagsTimeoutSeconds > 0 {
		tagsTimeout = time.Duration(cfg.TagsTimeoutSeconds) * time.Second
	}
	pullTimeout := 300 * time.Second
	if cfg.PullTimeoutSeconds > 0 {
		pullTimeout = time.Duration(cfg.PullTimeoutSeconds) * time.Second
	}
	return &OllamaProvider{
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		topK:        cfg.TopK,
		client:      client.WithTimeout(genTimeout),
		tagsTimeout: tagsTimeout,
		pullTimeout: pullTimeout,
	}
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (p *OllamaProvider) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	options := map[string]any{}
	if p.temperature > 0 {
		options["temperature"] = p.temperature
	}
	if p.topP > 0 {
		options["top_p"] = p.topP
	}
	if p.topK > 0 {
		options["top_k"] = p.topK
	}
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:   p.model,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request failed, err: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create generate request failed, err: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request failed, err: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate request returned status %d", resp.StatusCode)
	}

	var result ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode generate response failed, err: %w", err)
	}
	return result.Response, nil
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// EnsureModel lists local models and pulls the configured one when missing.
// Errors are logged and swallowed so a flaky registry cannot block startup.
func (p *OllamaProvider) EnsureModel(ctx context.Context) error {
	tagsCtx, cancel := context.WithTimeout(ctx, p.tagsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(tagsCtx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("create tags request failed, err: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		logger.Warnf("llm: could not check model availability: %v", err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnf("llm: model list returned status %d", resp.StatusCode)
		return nil
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		logger.Warnf("llm: could not decode model list: %v", err)
		return nil
	}
	for _, m := range tags.Models {
		if m.Name == p.model {
			return nil
		}
	}

	logger.Infof("llm: pulling model %s", p.model)
	pullCtx, cancelPull := context.WithTimeout(ctx, p.pullTimeout)
	defer cancelPull()

	body, _ := json.Marshal(map[string]any{"name": p.model, "stream": false})
	pullReq, err := http.NewRequestWithContext(pullCtx, http.MethodPost, p.baseURL+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create pull request failed, err: %w", err)
	}
	pullReq.Header.Set("Content-Type", "application/json")
	pullResp, err := p.client.WithTimeout(p.pullTimeout).Do(pullReq)
	if err != nil {
		logger.Warnf("llm: could not pull model %s: %v", p.model, err)
		return nil
	}
	defer pullResp.Body.Close()
	if pullResp.StatusCode != http.StatusOK {
		logger.Warnf("llm: pull for model %s returned status %d", p.model, pullResp.StatusCode)
	}
	return nil
}
