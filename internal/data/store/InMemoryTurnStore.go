package store

import (
	"context"
	"sync"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/queryModel"
)

// InMemoryTurnStore keeps a bounded ring of turns per chat. Appends past
// the cap evict the oldest turn in the same write.
type InMemoryTurnStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]queryModel.ConversationTurn
	cap      int
}

func InitInMemoryTurnStore() *InMemoryTurnStore {
	return &InMemoryTurnStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]queryModel.ConversationTurn),
		cap:      config.TurnHistoryCap,
	}
}

func (store *InMemoryTurnStore) ValidateChatId(ctx context.Context, chatId string) bool {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	_, ok := store.chatMap[chatId]
	return ok
}

func (store *InMemoryTurnStore) InitNewChat(ctx context.Context, chatId string) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[chatId] = make([]queryModel.ConversationTurn, 0)
	return nil
}

func (store *InMemoryTurnStore) AppendTurn(ctx context.Context, turn queryModel.ConversationTurn) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	turns := append(store.chatMap[turn.ChatId], turn)
	if len(turns) > store.cap {
		turns = turns[len(turns)-store.cap:]
	}
	store.chatMap[turn.ChatId] = turns
	return nil
}

func (store *InMemoryTurnStore) RecentTurns(ctx context.Context, chatId string, max int) ([]queryModel.ConversationTurn, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	turns := store.chatMap[chatId]
	if max > 0 && len(turns) > max {
		turns = turns[len(turns)-max:]
	}
	out := make([]queryModel.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}
