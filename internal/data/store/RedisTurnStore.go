package store

import (
	"context"
	"encoding/json"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/data/redisStore"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/pkg/logger_i"
)

type RedisTurnStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisTurnStore(ctx context.Context) *RedisTurnStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisTurnStore)
	if inner == nil {
		return nil
	}
	return &RedisTurnStore{
		store:  inner,
		logger: logger_i.NewLogger("TurnStore"),
	}
}

func (s *RedisTurnStore) ValidateChatId(ctx context.Context, chatId string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	found, err := s.store.Exists(ctx, chatMarkerKey(chatId))
	if err != nil && !s.store.IsNil(err) {
		log.Error("Failed to check if chat exists", "err", err)
		return false
	}
	if found {
		return true
	}
	found, err = s.store.Exists(ctx, turnKey(chatId))
	if err != nil && !s.store.IsNil(err) {
		return false
	}
	return found
}

func (s *RedisTurnStore) InitNewChat(ctx context.Context, chatId string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	log.Debug("Initializing new chat")
	if err := s.store.Del(ctx, turnKey(chatId)); err != nil && !s.store.IsNil(err) {
		return err
	}
	// A persistent marker so ValidateChatId works for empty chats.
	return s.store.Set(ctx, chatMarkerKey(chatId), "1", config.RedisTurnStoreTTL)
}

func (s *RedisTurnStore) AppendTurn(ctx context.Context, turn queryModel.ConversationTurn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", turn.ChatId)
	data, err := json.Marshal(turn)
	if err != nil {
		log.Error("Error marshalling turn", "error", err)
		return err
	}
	// LTRIM in the same write keeps the ring bounded.
	err = s.store.ListPushCapped(ctx, turnKey(turn.ChatId), data, config.TurnHistoryCap)
	if err != nil {
		log.Error("Error appending turn", "error", err)
	}
	return err
}

func (s *RedisTurnStore) RecentTurns(ctx context.Context, chatId string, max int) ([]queryModel.ConversationTurn, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "chat Id", chatId)
	raw, err := s.store.ListTail(ctx, turnKey(chatId), int64(max))
	if err != nil {
		if s.store.IsNil(err) {
			return nil, nil
		}
		log.Error("Error getting turns", "error", err)
		return nil, err
	}

	turns := make([]queryModel.ConversationTurn, 0, len(raw))
	for _, item := range raw {
		var turn queryModel.ConversationTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			log.Error("Error unmarshalling turn", "error", err)
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func turnKey(chatId string) string {
	return "turns:" + chatId
}

func chatMarkerKey(chatId string) string {
	return "chat:" + chatId
}

func TestTurnStore(store *redisStore.Store) *RedisTurnStore {
	return &RedisTurnStore{
		store:  store,
		logger: logger_i.NewLogger("test turn store"),
	}
}
