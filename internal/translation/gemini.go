package translation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiDispatcher sends batches to the Gemini API
type GeminiDispatcher struct {
	config *Config
	client *genai.Client
}

// NewGeminiDispatcher creates a Gemini client. cfg.BaseURL overrides the
// API endpoint when set.
func NewGeminiDispatcher(ctx context.Context, cfg *Config) (*GeminiDispatcher, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiDispatcher{
		config: cfg,
		client: client,
	}, nil
}

// Name returns the backend name
func (d *GeminiDispatcher) Name() string {
	return ProviderGemini
}

// Dispatch generates content with a JSON response MIME type
func (d *GeminiDispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	resp, err := d.client.Models.GenerateContent(ctx, d.config.Model, genai.Text(req.User), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(Temperature),
		ResponseMIMEType:  "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}
