package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/data/redisStore"
	"github.com/smahat/docuchat/pkg/logger_i"

	"github.com/smahat/docuchat/internal/domain/commonModels"
)

// RedisStore keeps document metadata and extracted text in redis: a
// per-user list of document ids plus one record per document.
type RedisStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

type redisRecord struct {
	Doc     commonModels.Document               `json:"doc"`
	Text    string                              `json:"text"`
	Summary commonModels.DocumentContextSummary `json:"summary"`
}

func GetRedisDocStore(ctx context.Context) *RedisStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisStore) SaveDocument(ctx context.Context, doc commonModels.Document, text string, summary commonModels.DocumentContextSummary) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "document Id", doc.Id)
	data, err := json.Marshal(redisRecord{Doc: doc, Text: text, Summary: summary})
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, docKey(doc.Id), data, 0); err != nil {
		log.Error("Error saving document record", "error", err)
		return err
	}
	// The user index is unbounded on purpose: documents live until the
	// user deletes them, unlike the turn and cache rings.
	if err := s.store.ListPushCapped(ctx, userDocsKey(doc.UserId), doc.Id, 1<<20); err != nil {
		log.Error("Error indexing document for user", "error", err)
		return err
	}
	return nil
}

func (s *RedisStore) ListDocuments(ctx context.Context, userId string) ([]commonModels.Document, error) {
	recs, err := s.userRecords(ctx, userId)
	if err != nil {
		return nil, err
	}
	docs := make([]commonModels.Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, rec.Doc)
	}
	return docs, nil
}

func (s *RedisStore) GetSummaries(ctx context.Context, userId string) ([]commonModels.DocumentContextSummary, error) {
	recs, err := s.userRecords(ctx, userId)
	if err != nil {
		return nil, err
	}
	summaries := make([]commonModels.DocumentContextSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, rec.Summary)
	}
	return summaries, nil
}

func (s *RedisStore) GetDocumentText(ctx context.Context, documentId string) (string, error) {
	rec, err := s.record(ctx, documentId)
	if err != nil {
		return "", err
	}
	return rec.Text, nil
}

func (s *RedisStore) DeleteDocument(ctx context.Context, documentId string) error {
	return s.store.Del(ctx, docKey(documentId))
}

func (s *RedisStore) record(ctx context.Context, documentId string) (redisRecord, error) {
	var rec redisRecord
	val, err := s.store.Get(ctx, docKey(documentId))
	if s.store.IsNil(err) {
		return rec, fmt.Errorf("document %s not found", documentId)
	} else if err != nil {
		return rec, err
	}
	err = json.Unmarshal([]byte(val), &rec)
	return rec, err
}

func (s *RedisStore) userRecords(ctx context.Context, userId string) ([]redisRecord, error) {
	ids, err := s.store.ListAll(ctx, userDocsKey(userId))
	if err != nil {
		if s.store.IsNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var recs []redisRecord
	for _, id := range ids {
		rec, err := s.record(ctx, id)
		if err != nil {
			// Deleted documents linger in the index; skip them.
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func docKey(documentId string) string {
	return "doc:" + documentId
}

func userDocsKey(userId string) string {
	return "userdocs:" + userId
}

func TestDocStore(store *redisStore.Store) *RedisStore {
	return &RedisStore{
		store:  store,
		logger: logger_i.NewLogger("test doc store"),
	}
}
