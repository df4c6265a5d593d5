package docstore

import (
	"context"

	"github.com/smahat/docuchat/internal/domain/commonModels"
)

// Store is the narrow contract the pipeline has with document
// persistence. Schema and file storage mechanics live behind it.
type Store interface {
	ListDocuments(ctx context.Context, userId string) ([]commonModels.Document, error)
	GetDocumentText(ctx context.Context, documentId string) (string, error)
	SaveDocument(ctx context.Context, doc commonModels.Document, text string, summary commonModels.DocumentContextSummary) error
	DeleteDocument(ctx context.Context, documentId string) error
	GetSummaries(ctx context.Context, userId string) ([]commonModels.DocumentContextSummary, error)
}
