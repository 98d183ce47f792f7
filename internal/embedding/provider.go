package embedding

import (
	"context"
	"errors"
	"fmt"
)

// Provider generates embeddings from text.
type Provider interface {
	// Embed generates an embedding for the given text.
	Embed(ctx context.Context, text string) (Embedding, error)

	// ModelName returns the name of the embedding model.
	ModelName() string

	// Dimensions returns the expected vector dimensions.
	Dimensions() int
}

// Provider names accepted in configuration.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Errors returned when building a provider.
var (
	ErrUnsupportedProvider = errors.New("unsupported embedding provider")
	ErrMissingAPIKey       = errors.New("OpenAI API key required (set OPENAI_API_KEY or openai_api_key)")
)

// Config selects and configures a provider. Zero values fall back to the
// provider defaults.
type Config struct {
	Provider          string
	Model             string
	Dimensions        int
	OllamaURL         string
	OpenAIAPIKey      string
	RequestsPerSecond float64
}

// New builds the configured provider, wrapped in a rate limiter when
// RequestsPerSecond is positive.
func New(cfg Config) (Provider, error) {
	var p Provider

	switch cfg.Provider {
	case "", ProviderOllama:
		var opts []OllamaOption
		if cfg.OllamaURL != "" {
			opts = append(opts, WithBaseURL(cfg.OllamaURL))
		}
		if cfg.Model != "" {
			opts = append(opts, WithModel(cfg.Model))
		}
		if cfg.Dimensions > 0 {
			opts = append(opts, WithDimensions(cfg.Dimensions))
		}
		p = NewOllamaProvider(opts...)

	case ProviderOpenAI:
		openai, err := NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model, cfg.Dimensions)
		if err != nil {
			return nil, err
		}
		p = openai

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}

	return NewRateLimited(p, cfg.RequestsPerSecond), nil
}
