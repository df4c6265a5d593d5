package memory

import (
	"context"
	"time"

	"github.com/smahat/docuchat/internal/domain/queryModel"
)

// GetCachedResponse returns the best cached answer whose query is a
// near-duplicate of the incoming one, or nil when nothing clears the
// similarity threshold. Staleness is accepted: entries are never
// invalidated when the underlying documents change.
func (m *Memory) GetCachedResponse(ctx context.Context, userId, query string, threshold float64) *queryModel.CacheEntry {
	entries, err := m.cache.Entries(ctx, userId)
	if err != nil {
		m.logger.Error("Cache lookup failed", "userId", userId, "error", err)
		return nil
	}

	var best *queryModel.CacheEntry
	bestScore := threshold
	for i := range entries {
		score := JaccardSimilarity(query, entries[i].QueryText)
		if score >= bestScore {
			best = &entries[i]
			bestScore = score
		}
	}
	if best != nil {
		m.logger.Info("Semantic cache hit", "userId", userId, "similarity", bestScore)
	}
	return best
}

func (m *Memory) CacheResponse(ctx context.Context, userId, query, response string, metadata map[string]string) {
	entry := queryModel.CacheEntry{
		QueryText:    query,
		ResponseText: response,
		Metadata:     metadata,
		CachedAt:     time.Now(),
	}
	if err := m.cache.Append(ctx, userId, entry); err != nil {
		m.logger.Error("Failed to cache response", "userId", userId, "error", err)
	}
}
