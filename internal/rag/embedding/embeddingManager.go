package embedding

import "context"

// Embedder turns text into vectors for the index. GetEmbedding serves
// the query path; BatchEmbedding serves ingestion, where the large flag
// lets a provider switch to its bulk endpoint.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string, isLargeDataSet bool) ([][]float32, error)
}
