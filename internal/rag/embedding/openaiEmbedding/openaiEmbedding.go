package openaiEmbedding

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/customHttpClient"
	"github.com/smahat/docuchat/internal/rag/embedding"
	"github.com/smahat/docuchat/pkg/logger_i"
)

var logger *logger_i.Logger
var embeddingClient *client
var once sync.Once

type client struct {
	openAi *openai.Client
	model  string
}

// GetOpenAIEmbeddingClient is the alternative embedder, used when
// OPENAI_API_KEY is set instead of a Google key.
func GetOpenAIEmbeddingClient(ctx context.Context, modelName string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return &client{openAi: embeddingClient.openAi, model: embeddingClient.model}
}

func newOpenAIEmbedder(modelName string) {
	if os.Getenv("OPENAI_API_KEY") == "" {
		logger.Error("OPENAI_API_KEY not set")
		return
	}
	c := openai.NewClient(option.WithHTTPClient(customHttpClient.PooledClient()))
	embeddingClient = &client{openAi: &c, model: modelName}
	logger.Info("OpenAI embedding client created")
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.embedWithRetry(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string, isLargeDataSet bool) ([][]float32, error) {
	return c.embedWithRetry(ctx, chunks)
}

// embedWithRetry retries rate-limit errors with exponential backoff;
// everything else fails immediately.
func (c *client) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	var vectors [][]float32
	operation := func() error {
		resp, err := c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{
				OfArrayOfStrings: texts,
			},
			Model: openai.EmbeddingModel(c.model),
		})
		if err != nil {
			if isRateLimitError(err) {
				log.Warn("OpenAI rate limited, backing off")
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
		log.Error("Error getting embeddings from OpenAI", "error", err)
		return nil, err
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

func toFloat32(f64 []float64) []float32 {
	f32 := make([]float32, len(f64))
	for i, v := range f64 {
		f32[i] = float32(v)
	}
	return f32
}
