package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/data/redisStore"
	"github.com/smahat/docuchat/internal/data/store"
	"github.com/smahat/docuchat/internal/domain/queryModel"
)

func newTurnStore(t *testing.T) *store.RedisTurnStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestTurnStore(redisStore.NewTestStore(client))
}

func TestRedisTurnStore_ChatLifecycle(t *testing.T) {
	turnStore := newTurnStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	if turnStore.ValidateChatId(ctx, "chat-1") {
		t.Fatal("chat should not exist before InitNewChat")
	}

	if err := turnStore.InitNewChat(ctx, "chat-1"); err != nil {
		t.Fatalf("InitNewChat failed: %v", err)
	}
	if !turnStore.ValidateChatId(ctx, "chat-1") {
		t.Fatal("chat marker not visible after InitNewChat")
	}

	turn := queryModel.ConversationTurn{
		Id:                  "turn-1",
		ChatId:              "chat-1",
		UserId:              "user-1",
		UserMessage:         "how does the deployment process work",
		BotResponse:         "Rolling updates.",
		DocumentsReferenced: []string{"doc-1"},
		QueryType:           "question",
		Confidence:          0.7,
	}
	if err := turnStore.AppendTurn(ctx, turn); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}

	turns, err := turnStore.RecentTurns(ctx, "chat-1", 10)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	got := turns[0]
	if got.UserMessage != turn.UserMessage || got.BotResponse != turn.BotResponse {
		t.Errorf("turn content mismatch: %+v", got)
	}
	if len(got.DocumentsReferenced) != 1 || got.DocumentsReferenced[0] != "doc-1" {
		t.Errorf("documents referenced lost in roundtrip: %+v", got.DocumentsReferenced)
	}
}

func TestRedisTurnStore_RecentTurnsReturnsNewestOldestFirst(t *testing.T) {
	turnStore := newTurnStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	for i := 0; i < 5; i++ {
		turn := queryModel.ConversationTurn{
			ChatId:      "chat-1",
			UserMessage: fmt.Sprintf("question %d", i),
		}
		if err := turnStore.AppendTurn(ctx, turn); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	turns, err := turnStore.RecentTurns(ctx, "chat-1", 2)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].UserMessage != "question 3" || turns[1].UserMessage != "question 4" {
		t.Errorf("wrong window or order: %q, %q", turns[0].UserMessage, turns[1].UserMessage)
	}
}

func TestRedisTurnStore_ConcurrentAppendsStayBounded(t *testing.T) {
	turnStore := newTurnStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "race-trace")

	const workers = 20
	const perWorker = 5
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				turn := queryModel.ConversationTurn{
					ChatId:      "chat-1",
					UserMessage: fmt.Sprintf("worker %d question %d", w, i),
				}
				_ = turnStore.AppendTurn(ctx, turn)
			}
		}(w)
	}
	wg.Wait()

	turns, err := turnStore.RecentTurns(ctx, "chat-1", config.TurnHistoryCap*2)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) > config.TurnHistoryCap {
		t.Errorf("list exceeded cap under concurrency: %d", len(turns))
	}
}

func TestRedisTurnStore_AppendEvictsBeyondCap(t *testing.T) {
	turnStore := newTurnStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	total := config.TurnHistoryCap + 4
	for i := 0; i < total; i++ {
		turn := queryModel.ConversationTurn{
			ChatId:      "chat-1",
			UserMessage: fmt.Sprintf("question %d", i),
		}
		if err := turnStore.AppendTurn(ctx, turn); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
	}

	turns, err := turnStore.RecentTurns(ctx, "chat-1", config.TurnHistoryCap*2)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != config.TurnHistoryCap {
		t.Fatalf("expected list trimmed to %d, got %d", config.TurnHistoryCap, len(turns))
	}
	if turns[0].UserMessage != "question 4" {
		t.Errorf("oldest surviving turn should be question 4, got %q", turns[0].UserMessage)
	}
}
