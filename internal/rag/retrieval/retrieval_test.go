package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/commonModels"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/internal/rag/vectorindex"
	"github.com/smahat/docuchat/pkg/logger_i"
)

type fakeIndex struct {
	searchFunc func(ctx context.Context, queryText string, k int) ([]vectorindex.Hit, error)
}

func (f *fakeIndex) IndexChunks(ctx context.Context, chunks []commonModels.DocumentChunk) error {
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, queryText string, k int) ([]vectorindex.Hit, error) {
	return f.searchFunc(ctx, queryText, k)
}

func (f *fakeIndex) DeleteDocument(ctx context.Context, documentId string) error {
	return nil
}

type fakeDocStore struct {
	texts map[string]string
}

func (f *fakeDocStore) ListDocuments(ctx context.Context, userId string) ([]commonModels.Document, error) {
	return nil, nil
}

func (f *fakeDocStore) GetDocumentText(ctx context.Context, documentId string) (string, error) {
	text, ok := f.texts[documentId]
	if !ok {
		return "", errors.New("document not found")
	}
	return text, nil
}

func (f *fakeDocStore) SaveDocument(ctx context.Context, doc commonModels.Document, text string, summary commonModels.DocumentContextSummary) error {
	return nil
}

func (f *fakeDocStore) DeleteDocument(ctx context.Context, documentId string) error {
	return nil
}

func (f *fakeDocStore) GetSummaries(ctx context.Context, userId string) ([]commonModels.DocumentContextSummary, error) {
	return nil, nil
}

func testDocuments() []commonModels.Document {
	return []commonModels.Document{
		{Id: "doc-1", UserId: "u1", Filename: "resume.pdf", UploadedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
		{Id: "doc-2", UserId: "u1", Filename: "report.txt", UploadedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
	}
}

func TestRetrieveDocumentListUsesMetadataOnly(t *testing.T) {
	index := &fakeIndex{searchFunc: func(ctx context.Context, q string, k int) ([]vectorindex.Hit, error) {
		t.Fatal("vector index must not be queried for a listing question")
		return nil, nil
	}}
	o := NewOrchestrator(index, &fakeDocStore{})

	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentDocumentList, Confidence: 0.95}}
	candidates, stats := o.Retrieve(context.Background(), "what documents do I have?", testDocuments(), analysis, 10)

	require.Len(t, candidates, 2)
	assert.Equal(t, []string{"metadata"}, stats.StrategiesUsed)
	assert.False(t, stats.VectorDegraded)
	for _, c := range candidates {
		assert.Equal(t, queryModel.MetadataCandidate, c.Kind)
		assert.NotEmpty(t, c.Filename)
		assert.False(t, c.UploadedAt.IsZero())
	}
}

func TestRetrieveVectorFailureDegradesToKeywordScan(t *testing.T) {
	index := &fakeIndex{searchFunc: func(ctx context.Context, q string, k int) ([]vectorindex.Hit, error) {
		return nil, errors.New("index unreachable")
	}}
	docs := &fakeDocStore{texts: map[string]string{
		"doc-1": "Summary of skills\nGo programming and distributed systems\nContact below",
		"doc-2": "Quarterly report\nRevenue grew",
	}}
	o := NewOrchestrator(index, docs)

	analysis := queryModel.QueryAnalysis{
		Intent:           queryModel.Intent{Type: queryModel.IntentQuestion, Confidence: 0.7},
		Keywords:         []string{"distributed", "systems"},
		ExpandedKeywords: []string{"distributed", "systems"},
	}
	candidates, stats := o.Retrieve(context.Background(), "what distributed systems work is mentioned?", testDocuments(), analysis, 10)

	require.NotEmpty(t, candidates)
	assert.True(t, stats.VectorDegraded)
	assert.Contains(t, stats.StrategiesUsed, "keyword")
	assert.NotContains(t, stats.StrategiesUsed, "vector")
	assert.Contains(t, candidates[0].Text, "distributed systems")
}

func TestRetrieveVectorHitScoresPropagate(t *testing.T) {
	index := &fakeIndex{searchFunc: func(ctx context.Context, q string, k int) ([]vectorindex.Hit, error) {
		return []vectorindex.Hit{
			{Text: "rolling updates, one pod at a time", DocumentId: "doc-2", Filename: "report.txt", Score: 0.42},
		}, nil
	}}
	o := NewOrchestrator(index, &fakeDocStore{})

	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentQuestion, Confidence: 0.7}}
	candidates, stats := o.Retrieve(context.Background(), "how does deployment work?", testDocuments(), analysis, 10)

	require.Len(t, candidates, 1)
	assert.Contains(t, stats.StrategiesUsed, "vector")
	assert.Equal(t, queryModel.VectorCandidate, candidates[0].Kind)
	assert.Equal(t, 0.42, candidates[0].RawScore)
	assert.Equal(t, "report.txt", candidates[0].Filename)
	assert.Equal(t, "how does deployment work?", candidates[0].Reformulation)
}

func TestRetrieveNilIndexReportsDegraded(t *testing.T) {
	docs := &fakeDocStore{texts: map[string]string{"doc-1": "nothing relevant here"}}
	o := NewOrchestrator(nil, docs)

	analysis := queryModel.QueryAnalysis{
		Intent:           queryModel.Intent{Type: queryModel.IntentQuestion},
		ExpandedKeywords: []string{"unmatched"},
	}
	candidates, stats := o.Retrieve(context.Background(), "anything?", testDocuments(), analysis, 10)

	assert.Empty(t, candidates)
	assert.True(t, stats.VectorDegraded)
}

func TestRetrieveExtractionRunsEntityScan(t *testing.T) {
	index := &fakeIndex{searchFunc: func(ctx context.Context, q string, k int) ([]vectorindex.Hit, error) {
		return nil, nil
	}}
	docs := &fakeDocStore{texts: map[string]string{
		"doc-1": "Jane Doe\nSkills: Go, Kubernetes, gRPC\nEducation: BSc Computer Science",
	}}
	o := NewOrchestrator(index, docs)

	analysis := queryModel.QueryAnalysis{
		Intent:           queryModel.Intent{Type: queryModel.IntentExtraction, Confidence: 0.9},
		Keywords:         []string{"skills"},
		ExpandedKeywords: []string{"skills", "expertise"},
	}
	candidates, stats := o.Retrieve(context.Background(), "extract the skills from resume", testDocuments(), analysis, 10)

	require.NotEmpty(t, candidates)
	assert.Contains(t, stats.StrategiesUsed, "entity")
	assert.Equal(t, queryModel.EntityCandidate, candidates[0].Kind)
	assert.Equal(t, "skill", candidates[0].EntityType)
	assert.Contains(t, candidates[0].Text, "Kubernetes")
}

func TestRetrieveCapsResults(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("golang appears on this line together with filler text number ")
		sb.WriteString(strings.Repeat("x", i+1)) //keep each line's prefix distinct after normalisation
		sb.WriteString("\n")
	}
	docs := &fakeDocStore{texts: map[string]string{"doc-1": sb.String()}}
	o := NewOrchestrator(nil, docs)

	analysis := queryModel.QueryAnalysis{
		Intent:           queryModel.Intent{Type: queryModel.IntentSearch},
		ExpandedKeywords: []string{"golang"},
	}
	candidates, _ := o.Retrieve(context.Background(), "find golang", testDocuments(), analysis, 4)
	assert.Len(t, candidates, 4)
}

func TestDedupeByPrefixKeepsFirstOccurrence(t *testing.T) {
	long := strings.Repeat("shared leading text ", 10)
	candidates := []queryModel.RetrievalCandidate{
		{Kind: queryModel.VectorCandidate, Text: long + "vector tail", RawScore: 0.8},
		{Kind: queryModel.TextCandidate, Text: long + "keyword tail", RawScore: 5},
		{Kind: queryModel.TextCandidate, Text: "completely different passage", RawScore: 1},
	}

	kept := dedupeByPrefix(candidates)
	require.Len(t, kept, 2)
	assert.Equal(t, queryModel.VectorCandidate, kept[0].Kind)
	assert.Equal(t, "completely different passage", kept[1].Text)
}

func TestDedupeNormalisesWhitespaceAndCase(t *testing.T) {
	candidates := []queryModel.RetrievalCandidate{
		{Text: "The  Quick\nBrown Fox"},
		{Text: "the quick brown fox"},
	}
	assert.Len(t, dedupeByPrefix(candidates), 1)
}

func TestRerankOrderingAndBoosts(t *testing.T) {
	rich := strings.Repeat("a meaningful passage about the topic. ", 10)
	analysis := queryModel.QueryAnalysis{
		Intent:             queryModel.Intent{Type: queryModel.IntentGeneral},
		DocumentReferences: []queryModel.DocumentReference{{DocumentId: "doc-9", Confidence: 0.9}},
	}
	candidates := []queryModel.RetrievalCandidate{
		{Kind: queryModel.TextCandidate, Text: "tiny", RawScore: 1.0, DocumentId: "doc-1"},
		{Kind: queryModel.VectorCandidate, Text: rich, RawScore: 1.0, DocumentId: "doc-1"},
		{Kind: queryModel.TextCandidate, Text: rich, RawScore: 1.0, DocumentId: "doc-9"},
	}

	ranked := rerank(candidates, analysis, 10)
	require.Len(t, ranked, 3)

	// The referenced-document boost (1.5) lets a keyword hit overtake
	// the higher vector strategy weight; the short fragment sinks.
	assert.Equal(t, "doc-9", ranked[0].DocumentId)
	assert.Equal(t, queryModel.VectorCandidate, ranked[1].Kind)
	assert.Equal(t, "tiny", ranked[2].Text)

	for _, c := range ranked {
		assert.Greater(t, c.FinalScore, 0.0)
	}
	assert.InDelta(t, 1.0*config.KeywordStrategyWeight*config.RichChunkBonus*config.DocumentTargetBoost, ranked[0].FinalScore, 1e-9)
}

func TestRerankStableOnTies(t *testing.T) {
	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentGeneral}}
	text := strings.Repeat("equal length passage text here. ", 4)
	candidates := []queryModel.RetrievalCandidate{
		{Kind: queryModel.TextCandidate, Text: text, RawScore: 1.0, DocumentId: "first"},
		{Kind: queryModel.TextCandidate, Text: text, RawScore: 1.0, DocumentId: "second"},
	}
	ranked := rerank(candidates, analysis, 10)
	assert.Equal(t, "first", ranked[0].DocumentId)
	assert.Equal(t, "second", ranked[1].DocumentId)
}

func TestScoreLineWordBoundaryBonus(t *testing.T) {
	exact := scoreLine("we use go here", []string{"go"})
	substring := scoreLine("the golang team", []string{"go"})
	assert.Greater(t, exact, substring)
	assert.Zero(t, scoreLine("   ", []string{"go"}))
}

func TestReformulateQueryVariants(t *testing.T) {
	analysis := queryModel.QueryAnalysis{
		Intent:           queryModel.Intent{Type: queryModel.IntentSummary},
		ExpandedKeywords: []string{"report", "overview"},
	}
	variants := reformulateQuery("summarize the report", analysis)
	require.Len(t, variants, 3)
	assert.Equal(t, "summarize the report", variants[0])
	assert.Equal(t, "report overview", variants[1])
	assert.Contains(t, variants[2], "summary overview")
}

func TestMain(m *testing.M) {
	logger_i.Init()
	m.Run()
}
