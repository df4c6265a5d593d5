package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/smahat/docuchat/internal/domain/commonModels"
)

type record struct {
	doc     commonModels.Document
	text    string
	summary commonModels.DocumentContextSummary
}

// InMemoryStore backs the document contract with process memory. Used
// when redis is offline and in tests.
type InMemoryStore struct {
	lock *sync.RWMutex
	docs map[string]record
}

func InitInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		lock: new(sync.RWMutex),
		docs: make(map[string]record),
	}
}

func (s *InMemoryStore) ListDocuments(ctx context.Context, userId string) ([]commonModels.Document, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var docs []commonModels.Document
	for _, rec := range s.docs {
		if rec.doc.UserId == userId {
			docs = append(docs, rec.doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].UploadedAt.Before(docs[j].UploadedAt) })
	return docs, nil
}

func (s *InMemoryStore) GetDocumentText(ctx context.Context, documentId string) (string, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	rec, ok := s.docs[documentId]
	if !ok {
		return "", fmt.Errorf("document %s not found", documentId)
	}
	return rec.text, nil
}

func (s *InMemoryStore) SaveDocument(ctx context.Context, doc commonModels.Document, text string, summary commonModels.DocumentContextSummary) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.docs[doc.Id] = record{doc: doc, text: text, summary: summary}
	return nil
}

func (s *InMemoryStore) DeleteDocument(ctx context.Context, documentId string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.docs, documentId)
	return nil
}

func (s *InMemoryStore) GetSummaries(ctx context.Context, userId string) ([]commonModels.DocumentContextSummary, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var summaries []commonModels.DocumentContextSummary
	for _, rec := range s.docs {
		if rec.doc.UserId == userId {
			summaries = append(summaries, rec.summary)
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].UploadedAt.Before(summaries[j].UploadedAt) })
	return summaries, nil
}
