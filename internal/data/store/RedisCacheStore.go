package store

import (
	"context"
	"encoding/json"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/data/redisStore"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/pkg/logger_i"
)

type RedisCacheStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisCacheStore(ctx context.Context) *RedisCacheStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisTurnStore)
	if inner == nil {
		return nil
	}
	return &RedisCacheStore{
		store:  inner,
		logger: logger_i.NewLogger("ResponseCacheStore"),
	}
}

func (s *RedisCacheStore) Append(ctx context.Context, userId string, entry queryModel.CacheEntry) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "user Id", userId)
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error("Error marshalling cache entry", "error", err)
		return err
	}
	err = s.store.ListPushCapped(ctx, cacheKey(userId), data, config.ResponseCacheCap)
	if err != nil {
		log.Error("Error appending cache entry", "error", err)
	}
	return err
}

func (s *RedisCacheStore) Entries(ctx context.Context, userId string) ([]queryModel.CacheEntry, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "user Id", userId)
	raw, err := s.store.ListAll(ctx, cacheKey(userId))
	if err != nil {
		if s.store.IsNil(err) {
			return nil, nil
		}
		log.Error("Error reading cache entries", "error", err)
		return nil, err
	}

	entries := make([]queryModel.CacheEntry, 0, len(raw))
	for _, item := range raw {
		var entry queryModel.CacheEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			log.Error("Error unmarshalling cache entry", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func cacheKey(userId string) string {
	return "rcache:" + userId
}

func TestCacheStore(store *redisStore.Store) *RedisCacheStore {
	return &RedisCacheStore{
		store:  store,
		logger: logger_i.NewLogger("test cache store"),
	}
}
