// Package llm talks to the hosted generative model.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/alchemorsel-genai/backend/config"
)

var (
	// ErrMissingAPIKey is returned when a provider is built without a key.
	ErrMissingAPIKey = errors.New("llm: API key is not configured")
	// ErrEmptyResponse means the model answered without any text.
	ErrEmptyResponse = errors.New("llm: model returned no text")
)

// probePrompt is a cheap request used to verify credentials at startup.
const probePrompt = "Generate a simple recipe name"

// Client sends one prompt and returns the model's text reply.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Settings are the sampling parameters shared by all providers.
type Settings struct {
	Model       string
	BaseURL     string
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
}

// SettingsFromConfig copies the generation settings out of cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Model:       cfg.GenAIModel,
		BaseURL:     cfg.GenAIBaseURL,
		Temperature: cfg.GenAITemperature,
		TopP:        cfg.GenAITopP,
		TopK:        cfg.GenAITopK,
		MaxTokens:   cfg.GenAIMaxTokens,
	}
}

// New builds the client for cfg.GenAIProvider.
func New(ctx context.Context, cfg *config.Config) (Client, error) {
	settings := SettingsFromConfig(cfg)
	switch cfg.GenAIProvider {
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg.GenAIAPIKey, settings)
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.GenAIAPIKey, settings)
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", cfg.GenAIProvider)
	}
}

// Probe makes one small request and reports whether it produced text.
func Probe(ctx context.Context, c Client) error {
	if _, err := c.Complete(ctx, probePrompt); err != nil {
		return fmt.Errorf("llm: startup probe failed: %w", err)
	}
	return nil
}
