// Package embedding generates fixed-dimension vectors for chunk text via the
// OpenAI embeddings API.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
)

const (
	// DefaultModel is the embedding model used unless configured otherwise.
	DefaultModel = "text-embedding-3-small"
	// DefaultDimension is the vector size of DefaultModel.
	DefaultDimension = 1536
	// DefaultBatchSize balances requests-per-minute against tokens-per-minute
	// rate limits; the API accepts up to 2048 inputs per call.
	DefaultBatchSize = 500
)

// Config selects the model and batching behavior of an Embedder.
type Config struct {
	Model     string
	Dimension int
	BatchSize int
}

// Embedder turns chunk text into embedding vectors. Requests are batched and
// retried with exponential backoff on rate-limit responses.
type Embedder struct {
	client    *openai.Client
	model     string
	dimension int
	batchSize int
}

// NewEmbedder creates an Embedder. It requires OPENAI_API_KEY in the
// environment; zero-valued Config fields fall back to the defaults.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	client := openai.NewClient()

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimension <= 0 {
		cfg.Dimension = DefaultDimension
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	return &Embedder{
		client:    &client,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		batchSize: cfg.BatchSize,
	}, nil
}

// Dimension returns the configured vector size.
func (e *Embedder) Dimension() int {
	return e.dimension
}

// Client exposes the underlying OpenAI client for packages that share it.
func (e *Embedder) Client() *openai.Client {
	return e.client
}

// Embed generates one vector per input text, preserving order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32

	for i := 0; i < len(texts); i += e.batchSize {
		end := min(i+e.batchSize, len(texts))

		batch, err := e.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", i, end, err)
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

// embedBatch embeds one batch, retrying rate-limit errors (HTTP 429) with
// exponential backoff. Other API errors are permanent.
func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vectors [][]float32

	operation := func() error {
		resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
			Model: e.model,
		})
		if err != nil {
			if isRateLimitError(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		vectors = make([][]float32, len(resp.Data))
		for i, data := range resp.Data {
			vectors[i] = toFloat32(data.Embedding)
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}

	for i, v := range vectors {
		if len(v) != e.dimension {
			return nil, fmt.Errorf("vector %d has %d dimensions, expected %d", i, len(v), e.dimension)
		}
	}
	return vectors, nil
}

func isRateLimitError(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}

// toFloat32 narrows the API's float64 vectors for storage.
func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
