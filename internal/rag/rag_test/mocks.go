package rag_test

import (
	"context"

	"github.com/smahat/docuchat/internal/domain/commonModels"
	"github.com/smahat/docuchat/internal/rag/llm"
	"github.com/smahat/docuchat/internal/rag/vectorindex"
)

// MockIndex implements vectorindex.Index
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnSearch      func(ctx context.Context, queryText string, k int) ([]vectorindex.Hit, error)
	OnIndexChunks func(ctx context.Context, chunks []commonModels.DocumentChunk) error
	OnDelete      func(ctx context.Context, documentId string) error

	SearchCalls int
}

func (m *MockIndex) Search(ctx context.Context, queryText string, k int) ([]vectorindex.Hit, error) {
	m.SearchCalls++
	if m.OnSearch != nil {
		return m.OnSearch(ctx, queryText, k)
	}
	return []vectorindex.Hit{{Text: "default context", DocumentId: "doc-1", Filename: "default.txt", Score: 0.9}}, nil
}

func (m *MockIndex) IndexChunks(ctx context.Context, chunks []commonModels.DocumentChunk) error {
	if m.OnIndexChunks != nil {
		return m.OnIndexChunks(ctx, chunks)
	}
	return nil
}

func (m *MockIndex) DeleteDocument(ctx context.Context, documentId string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, documentId)
	}
	return nil
}

// llmOpts keeps the test closures short.
type llmOpts = llm.GenerateOptions

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error)

	Prompts []string
	Opts    []llm.GenerateOptions
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	m.Opts = append(m.Opts, opts)
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt, opts)
	}
	return "mocked llm response", nil
}
