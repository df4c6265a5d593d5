package ingest

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/commonModels"
	"github.com/smahat/docuchat/internal/domain/jobModel"
	"github.com/smahat/docuchat/internal/rag/chunker"
	"github.com/smahat/docuchat/internal/rag/docstore"
	"github.com/smahat/docuchat/internal/rag/vectorindex"
	"github.com/smahat/docuchat/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger *logger_i.Logger

// ProcessDocumentIngestion extracts text from the uploaded file, chunks
// it, pushes the chunks to the vector index and stores the full text
// plus a context summary. A nil index degrades to text-only storage so
// the keyword strategies still work.
func ProcessDocumentIngestion(ctx context.Context, job jobModel.Job, docs docstore.Store, index vectorindex.Index) jobModel.Job {
	logger = logger_i.NewLogger("Document Ingestion").With("traceId", ctx.Value(config.TRACE_ID_KEY))

	docName := job.JobPayload.IngestFileName
	docPath := job.JobPayload.IngestURL
	logger.Debug("Processing document", "filename", docName, "path", docPath)

	job.CurrentStep = jobModel.IngestProcessing

	docType := getDocType(docPath)
	if docType == commonModels.ERR {
		logger.Error("Unsupported document type", "path", docPath)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Unsupported document type"
		return job
	}

	doc := commonModels.Document{
		Id:         job.Id,
		UserId:     job.UserId,
		Filename:   docName,
		UploadedAt: time.Now(),
		Type:       docType,
	}

	rawPages, err := extractText(docPath, doc.Type)
	if err != nil {
		logger.Error("Error extracting document content", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Error extracting document content"
		return job
	}

	var parts []string
	for _, page := range rawPages {
		parts = append(parts, page.Content)
	}
	fullText := strings.TrimSpace(strings.Join(parts, "\n"))
	if fullText == "" {
		logger.Error("Document contained no extractable text", "filename", docName)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Document contained no extractable text"
		return job
	}

	chunks := chunker.Chunk(fullText, doc, chunker.DefaultOptions())
	logger.Debug("Processing document", "chunks", len(chunks))

	if index != nil {
		if err := index.IndexChunks(ctx, chunks); err != nil {
			// Text scan strategies still cover the document.
			logger.Warn("Vector indexing failed, document stored without embeddings", "error", err)
		}
	}

	summary := BuildSummary(doc, fullText)
	if err := docs.SaveDocument(ctx, doc, fullText, summary); err != nil {
		logger.Error("Error storing document", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error.Message = "Error storing document"
		return job
	}

	if err := os.Remove(docPath); err != nil {
		logger.Error("Error removing temp file", "error", err)
	}
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	return job
}
