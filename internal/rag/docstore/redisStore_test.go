package docstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/data/redisStore"
	"github.com/smahat/docuchat/internal/domain/commonModels"
	"github.com/smahat/docuchat/internal/rag/docstore"
)

func newRedisDocStore(t *testing.T) *docstore.RedisStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return docstore.TestDocStore(redisStore.NewTestStore(client))
}

func saveTestDoc(t *testing.T, s *docstore.RedisStore, ctx context.Context, id, filename, text string) commonModels.Document {
	doc := commonModels.Document{
		Id:         id,
		UserId:     "user-1",
		Filename:   filename,
		UploadedAt: time.Now(),
		Type:       commonModels.TXT,
	}
	summary := commonModels.DocumentContextSummary{
		DocumentId: id,
		Filename:   filename,
		Summary:    text,
	}
	if err := s.SaveDocument(ctx, doc, text, summary); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	return doc
}

func TestRedisDocStore_SaveAndRead(t *testing.T) {
	docStore := newRedisDocStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	saveTestDoc(t, docStore, ctx, "doc-1", "resume.txt", "Jane Doe, backend engineer.")
	saveTestDoc(t, docStore, ctx, "doc-2", "runbook.txt", "Operations runbook.")

	docs, err := docStore.ListDocuments(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	// Upload order is preserved.
	if docs[0].Filename != "resume.txt" || docs[1].Filename != "runbook.txt" {
		t.Errorf("wrong order: %q, %q", docs[0].Filename, docs[1].Filename)
	}

	text, err := docStore.GetDocumentText(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetDocumentText failed: %v", err)
	}
	if text != "Jane Doe, backend engineer." {
		t.Errorf("text mismatch: %q", text)
	}

	summaries, err := docStore.GetSummaries(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSummaries failed: %v", err)
	}
	if len(summaries) != 2 || summaries[0].DocumentId != "doc-1" {
		t.Errorf("unexpected summaries: %+v", summaries)
	}

	empty, err := docStore.ListDocuments(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListDocuments failed for empty user: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no documents for user-2, got %d", len(empty))
	}
}

func TestRedisDocStore_MissingDocument(t *testing.T) {
	docStore := newRedisDocStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	if _, err := docStore.GetDocumentText(ctx, "ghost"); err == nil {
		t.Error("expected error for unknown document id")
	}
}

func TestRedisDocStore_DeleteHidesDocument(t *testing.T) {
	docStore := newRedisDocStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	saveTestDoc(t, docStore, ctx, "doc-1", "resume.txt", "Jane Doe.")
	saveTestDoc(t, docStore, ctx, "doc-2", "runbook.txt", "Runbook.")

	if err := docStore.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}

	if _, err := docStore.GetDocumentText(ctx, "doc-1"); err == nil {
		t.Error("deleted document should not resolve")
	}

	// The user index tolerates dangling ids.
	docs, err := docStore.ListDocuments(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].Id != "doc-2" {
		t.Errorf("expected only doc-2 after delete, got %+v", docs)
	}
}
