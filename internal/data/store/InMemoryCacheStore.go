package store

import (
	"context"
	"sync"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/queryModel"
)

// InMemoryCacheStore is a bounded per-user FIFO of cached answers.
type InMemoryCacheStore struct {
	cacheLock *sync.RWMutex
	cacheMap  map[string][]queryModel.CacheEntry
	cap       int
}

func InitInMemoryCacheStore() *InMemoryCacheStore {
	return &InMemoryCacheStore{
		cacheLock: new(sync.RWMutex),
		cacheMap:  make(map[string][]queryModel.CacheEntry),
		cap:       config.ResponseCacheCap,
	}
}

func (store *InMemoryCacheStore) Append(ctx context.Context, userId string, entry queryModel.CacheEntry) error {
	store.cacheLock.Lock()
	defer store.cacheLock.Unlock()
	entries := append(store.cacheMap[userId], entry)
	if len(entries) > store.cap {
		entries = entries[len(entries)-store.cap:]
	}
	store.cacheMap[userId] = entries
	return nil
}

func (store *InMemoryCacheStore) Entries(ctx context.Context, userId string) ([]queryModel.CacheEntry, error) {
	store.cacheLock.RLock()
	defer store.cacheLock.RUnlock()
	entries := store.cacheMap[userId]
	out := make([]queryModel.CacheEntry, len(entries))
	copy(out, entries)
	return out, nil
}
