package translation

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIDispatcher talks to an OpenAI-compatible chat completion endpoint
type OpenAIDispatcher struct {
	config *Config
	client *openai.Client
}

// NewOpenAIDispatcher creates a dispatcher for cfg.BaseURL
func NewOpenAIDispatcher(cfg *Config) *OpenAIDispatcher {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIDispatcher{
		config: cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Name returns the backend name
func (d *OpenAIDispatcher) Name() string {
	return ProviderOpenAI
}

// Dispatch sends one chat completion request constrained to a JSON object reply
func (d *OpenAIDispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.User,
			},
		},
		Temperature: Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
