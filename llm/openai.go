package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/drp-labs/spokesbot/config"
)

// OpenAIProvider generates completions through an OpenAI-compatible endpoint.
type OpenAIProvider struct {
	client      openai.Client
	model       string
	temperature float64
	topP        float64
	maxTokens   int
}

func NewOpenAIProvider(cfg config.LLMConfig) *OpenAIProvider {
	opts := []option.RequestOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIProvider{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
	}
}

func (p *OpenAIProvider) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(p.model),
	}
	if p.temperature > 0 {
		params.Temperature = openai.Float(p.temperature)
	}
	if p.topP > 0 {
		params.TopP = openai.Float(p.topP)
	}
	if p.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.maxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion request failed, err: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// EnsureModel is a no-op for hosted endpoints.
func (p *OpenAIProvider) EnsureModel(ctx context.Context) error {
	return nil
}
