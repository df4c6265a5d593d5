package vectorindex

import (
	"context"

	"github.com/smahat/docuchat/internal/domain/commonModels"
)

// Hit is one similarity match from the external index.
type Hit struct {
	Text       string
	DocumentId string
	Filename   string
	Ordinal    int
	Score      float64
}

// Index is the narrow contract with the external vector index service.
// Embedding generation is internal to implementations; the pipeline
// never touches vectors directly.
type Index interface {
	IndexChunks(ctx context.Context, chunks []commonModels.DocumentChunk) error
	Search(ctx context.Context, queryText string, k int) ([]Hit, error)
	DeleteDocument(ctx context.Context, documentId string) error
}
