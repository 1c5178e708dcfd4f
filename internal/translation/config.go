package translation

import (
	"errors"
	"fmt"
	"time"
)

// Supported backends
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

const (
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultOpenAIModel    = "gpt-3.5-turbo"
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultSourceLanguage = "English"
	DefaultTargetLanguage = "Simplified Chinese"
	DefaultTimeout        = 2 * time.Minute

	// Temperature is the sampling temperature used for every request
	Temperature float32 = 0.7
)

// ErrMissingAPIKey is returned at startup when no credential is configured
var ErrMissingAPIKey = errors.New("API key not configured")

// Config holds the settings shared by all batches of a run. Build it once
// with NewConfig and treat it as read-only afterwards.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string // empty means the provider default
	Model    string

	SourceLanguage string
	TargetLanguage string

	Timeout time.Duration // per request

	// MaxConsecutiveFailures opens the circuit breaker after this many
	// failed requests in a row. Zero disables the breaker.
	MaxConsecutiveFailures int
}

// NewConfig fills defaults and validates the result
func NewConfig(c Config) (*Config, error) {
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		c.Model = DefaultModel(c.Provider)
	}
	if c.Provider == ProviderOpenAI && c.BaseURL == "" {
		c.BaseURL = DefaultOpenAIBaseURL
	}
	if c.SourceLanguage == "" {
		c.SourceLanguage = DefaultSourceLanguage
	}
	if c.TargetLanguage == "" {
		c.TargetLanguage = DefaultTargetLanguage
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the configuration can be used to dispatch requests
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("%w for provider %s", ErrMissingAPIKey, c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxConsecutiveFailures < 0 {
		return fmt.Errorf("max consecutive failures must not be negative, got %d", c.MaxConsecutiveFailures)
	}
	return nil
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider string) string {
	if provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}
