package memory

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/data/store"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/pkg/logger_i"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger_i.Init()
	os.Exit(m.Run())
}

func newTestMemory() *Memory {
	return New(store.InitInMemoryTurnStore(), store.InitInMemoryCacheStore())
}

func TestJaccardSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, JaccardSimilarity("deploy the service", "deploy the service"))
	assert.Equal(t, 1.0, JaccardSimilarity("Deploy The Service", "deploy the service"))
	assert.Equal(t, 0.5, JaccardSimilarity("deploy the service", "deploy the app"))
	assert.Equal(t, 0.0, JaccardSimilarity("alpha beta", "gamma delta"))
	assert.Equal(t, 0.0, JaccardSimilarity("", "anything"))

	// Punctuation and contraction leftovers must not sink the score for
	// near-duplicate phrasings.
	assert.GreaterOrEqual(t, JaccardSimilarity("What's in the report?", "What is in the report?"), config.CacheSimilarityCutoff)
}

func TestClassifyContextDependency(t *testing.T) {
	cases := []struct {
		query string
		want  queryModel.ContextDependency
	}{
		{"you mentioned the deployment process before", queryModel.DependencyHigh},
		{"as i said, the rollout failed", queryModel.DependencyHigh},
		{"what about it", queryModel.DependencyMedium},
		{"is that still true", queryModel.DependencyMedium},
		{"compare the two offers side by side", queryModel.DependencyMedium},
		{"what is the capital of france", queryModel.DependencyLow},
	}
	for _, tc := range cases {
		got := ClassifyContextDependency(tc.query, nil)
		assert.Equal(t, tc.want, got, "query: %q", tc.query)
	}
}

func TestClassifyContextDependencyTopicOverlap(t *testing.T) {
	recent := []queryModel.ConversationTurn{
		{UserMessage: "how does the deployment process work"},
	}
	// Heavy word overlap with the previous turn reads as a follow-up.
	got := ClassifyContextDependency("deployment process steps", recent)
	assert.Equal(t, queryModel.DependencyMedium, got)

	got = ClassifyContextDependency("favorite pizza toppings", recent)
	assert.Equal(t, queryModel.DependencyLow, got)
}

func TestRecordTurnEvictsBeyondCap(t *testing.T) {
	mem := newTestMemory()
	ctx := context.Background()

	total := config.TurnHistoryCap + 5
	for i := 0; i < total; i++ {
		_, err := mem.RecordTurn(ctx, "chat-1", "user-1",
			fmt.Sprintf("question %d", i), fmt.Sprintf("answer %d", i), TurnMetadata{})
		require.NoError(t, err)
	}

	turns := mem.RecentTurns(ctx, "chat-1", 0)
	require.Len(t, turns, config.TurnHistoryCap)
	assert.Equal(t, "question 5", turns[0].UserMessage)
	assert.Equal(t, fmt.Sprintf("question %d", total-1), turns[len(turns)-1].UserMessage)
}

func TestSelectRelevantHistory(t *testing.T) {
	mem := newTestMemory()
	ctx := context.Background()

	seed := []struct{ q, a string }{
		{"what is the weather like", "No idea, I only read your documents."},
		{"how does the deployment process work", "Rolling updates, one pod at a time."},
		{"thanks", "You're welcome."},
	}
	for _, s := range seed {
		_, err := mem.RecordTurn(ctx, "chat-1", "user-1", s.q, s.a, TurnMetadata{})
		require.NoError(t, err)
	}

	selected := mem.SelectRelevantHistory(ctx, "chat-1", "what else about the deployment process", 5, 4000)
	require.Len(t, selected, 2)
	// Chronological order, the off-topic weather turn filtered out.
	assert.Equal(t, "how does the deployment process work", selected[0].UserMessage)
	assert.Equal(t, "thanks", selected[1].UserMessage)
}

func TestSelectRelevantHistoryMaxTurns(t *testing.T) {
	mem := newTestMemory()
	ctx := context.Background()

	_, _ = mem.RecordTurn(ctx, "chat-1", "user-1", "how does the deployment process work", "Rolling updates.", TurnMetadata{})
	_, _ = mem.RecordTurn(ctx, "chat-1", "user-1", "thanks", "You're welcome.", TurnMetadata{})

	selected := mem.SelectRelevantHistory(ctx, "chat-1", "what else about the deployment process", 1, 4000)
	require.Len(t, selected, 1)
	assert.Equal(t, "how does the deployment process work", selected[0].UserMessage)
}

func TestSelectRelevantHistoryCharBudget(t *testing.T) {
	mem := newTestMemory()
	ctx := context.Background()

	_, _ = mem.RecordTurn(ctx, "chat-1", "user-1",
		"how does the deployment process work", strings.Repeat("long answer ", 100), TurnMetadata{})
	_, _ = mem.RecordTurn(ctx, "chat-1", "user-1", "thanks", "You're welcome.", TurnMetadata{})

	// The high-scoring turn is too expensive for the budget; the cheap
	// one still fits.
	selected := mem.SelectRelevantHistory(ctx, "chat-1", "what else about the deployment process", 5, 60)
	require.Len(t, selected, 1)
	assert.Equal(t, "thanks", selected[0].UserMessage)
}

func TestSelectRelevantHistorySkipsIndependentQueries(t *testing.T) {
	mem := newTestMemory()
	ctx := context.Background()

	_, _ = mem.RecordTurn(ctx, "chat-1", "user-1", "how does the deployment process work", "Rolling updates.", TurnMetadata{})

	// A self-contained question gets no history, however relevant the
	// past turns look.
	assert.Nil(t, mem.SelectRelevantHistory(ctx, "chat-1", "what is the capital of france", 5, 4000))
}

func TestSelectRelevantHistoryEmptyChat(t *testing.T) {
	mem := newTestMemory()
	assert.Nil(t, mem.SelectRelevantHistory(context.Background(), "no-such-chat", "anything", 5, 4000))
}

func TestGetCachedResponseThreshold(t *testing.T) {
	mem := newTestMemory()
	ctx := context.Background()

	mem.CacheResponse(ctx, "user-1", "how does the deployment process work", "Rolling updates.", map[string]string{"intent": "question"})

	hit := mem.GetCachedResponse(ctx, "user-1", "how does the deployment process work", config.CacheSimilarityCutoff)
	require.NotNil(t, hit)
	assert.Equal(t, "Rolling updates.", hit.ResponseText)
	assert.Equal(t, "question", hit.Metadata["intent"])

	assert.Nil(t, mem.GetCachedResponse(ctx, "user-1", "what color is the sky", config.CacheSimilarityCutoff))
	// Per-user isolation.
	assert.Nil(t, mem.GetCachedResponse(ctx, "user-2", "how does the deployment process work", config.CacheSimilarityCutoff))
}

func TestGetCachedResponseBestMatchWins(t *testing.T) {
	mem := newTestMemory()
	ctx := context.Background()

	mem.CacheResponse(ctx, "user-1", "deployment process work how", "close", nil)
	mem.CacheResponse(ctx, "user-1", "how does the deployment process work", "exact", nil)

	hit := mem.GetCachedResponse(ctx, "user-1", "how does the deployment process work", 0.5)
	require.NotNil(t, hit)
	assert.Equal(t, "exact", hit.ResponseText)
}

func TestCacheEvictsOldestBeyondCap(t *testing.T) {
	mem := newTestMemory()
	ctx := context.Background()

	total := config.ResponseCacheCap + 3
	for i := 0; i < total; i++ {
		mem.CacheResponse(ctx, "user-1", fmt.Sprintf("unique query number %02d xyzzy", i), "answer", nil)
	}

	// The earliest entries are gone, the newest survive.
	assert.Nil(t, mem.GetCachedResponse(ctx, "user-1", "unique query number 00 xyzzy", 0.99))
	assert.NotNil(t, mem.GetCachedResponse(ctx, "user-1", fmt.Sprintf("unique query number %02d xyzzy", total-1), 0.99))
}
