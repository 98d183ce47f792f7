package embedding

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// DefaultOpenAIModel is used when no model is configured for OpenAI.
	DefaultOpenAIModel = "text-embedding-3-small"

	// DefaultOpenAIDimensions is the output size of text-embedding-3-small.
	DefaultOpenAIDimensions = 1536
)

// OpenAIProvider generates embeddings through the OpenAI API.
type OpenAIProvider struct {
	embedder   embeddings.Embedder
	model      string
	dimensions int
}

// NewOpenAIProvider creates an OpenAI-backed provider. Empty model and
// non-positive dimensions select the defaults.
func NewOpenAIProvider(apiKey, model string, dimensions int) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	if dimensions <= 0 {
		dimensions = DefaultOpenAIDimensions
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("create openai embedder: %w", err)
	}

	return newOpenAIProvider(embedder, model, dimensions), nil
}

func newOpenAIProvider(embedder embeddings.Embedder, model string, dimensions int) *OpenAIProvider {
	return &OpenAIProvider{embedder: embedder, model: model, dimensions: dimensions}
}

// Embed generates an embedding for the given text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) (Embedding, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return Embedding{}, err
	}
	return Embedding{Vector: vectors[0]}, nil
}

// EmbedBatch embeds several texts in one call.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("count mismatch: got %d, want %d", len(vectors), len(texts))
	}
	for i, v := range vectors {
		if len(v) != p.dimensions {
			return nil, fmt.Errorf("embedding %d dimension mismatch: got %d, want %d", i, len(v), p.dimensions)
		}
	}
	return vectors, nil
}

// ModelName returns the name of the embedding model.
func (p *OpenAIProvider) ModelName() string {
	return p.model
}

// Dimensions returns the expected vector dimensions.
func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}
