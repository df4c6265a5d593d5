package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/data/redisStore"
	"github.com/smahat/docuchat/internal/data/store"
	"github.com/smahat/docuchat/internal/domain/queryModel"
)

func newCacheStore(t *testing.T) *store.RedisCacheStore {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.TestCacheStore(redisStore.NewTestStore(client))
}

func TestRedisCacheStore_AppendAndEntries(t *testing.T) {
	cacheStore := newCacheStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	entry := queryModel.CacheEntry{
		QueryText:    "how does the deployment process work",
		ResponseText: "Rolling updates.",
		Metadata:     map[string]string{"intent": "question"},
	}
	if err := cacheStore.Append(ctx, "user-1", entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := cacheStore.Entries(ctx, "user-1")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ResponseText != entry.ResponseText {
		t.Errorf("response mismatch: %q", entries[0].ResponseText)
	}
	if entries[0].Metadata["intent"] != "question" {
		t.Errorf("metadata lost in roundtrip: %+v", entries[0].Metadata)
	}

	// Users never see each other's cache.
	other, err := cacheStore.Entries(ctx, "user-2")
	if err != nil {
		t.Fatalf("Entries failed for empty user: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty cache for user-2, got %d entries", len(other))
	}
}

func TestRedisCacheStore_AppendEvictsBeyondCap(t *testing.T) {
	cacheStore := newCacheStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	total := config.ResponseCacheCap + 3
	for i := 0; i < total; i++ {
		entry := queryModel.CacheEntry{QueryText: fmt.Sprintf("query %d", i)}
		if err := cacheStore.Append(ctx, "user-1", entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries, err := cacheStore.Entries(ctx, "user-1")
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != config.ResponseCacheCap {
		t.Fatalf("expected cache trimmed to %d, got %d", config.ResponseCacheCap, len(entries))
	}
	if entries[0].QueryText != "query 3" {
		t.Errorf("oldest surviving entry should be query 3, got %q", entries[0].QueryText)
	}
}
