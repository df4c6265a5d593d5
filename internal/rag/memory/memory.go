package memory

import (
	"context"
	"sort"
	"time"

	"github.com/smahat/docuchat/internal/adapter/utils"
	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/pkg/logger_i"
)

// Memory owns the per-conversation turn history and the per-user
// semantic response cache. Stores are injected so the bounded-eviction
// invariant is testable on its own.
type Memory struct {
	turns  queryModel.TurnStore
	cache  queryModel.ResponseCacheStore
	logger *logger_i.Logger
}

func New(turns queryModel.TurnStore, cache queryModel.ResponseCacheStore) *Memory {
	return &Memory{
		turns:  turns,
		cache:  cache,
		logger: logger_i.NewLogger("ConversationMemory"),
	}
}

type TurnMetadata struct {
	DocumentsReferenced []string
	TopicsDiscussed     []string
	EntitiesFound       []string
	QueryType           string
	Confidence          float64
}

// RecordTurn appends to the bounded per-chat history; the store evicts
// the oldest entry beyond the cap as part of the write.
func (m *Memory) RecordTurn(ctx context.Context, chatId, userId, query, response string, meta TurnMetadata) (queryModel.ConversationTurn, error) {
	turn := queryModel.ConversationTurn{
		Id:                  utils.GetNewUUID(),
		ChatId:              chatId,
		UserId:              userId,
		Timestamp:           time.Now(),
		UserMessage:         query,
		BotResponse:         response,
		DocumentsReferenced: meta.DocumentsReferenced,
		TopicsDiscussed:     meta.TopicsDiscussed,
		EntitiesFound:       meta.EntitiesFound,
		QueryType:           meta.QueryType,
		Confidence:          meta.Confidence,
	}
	if err := m.turns.AppendTurn(ctx, turn); err != nil {
		m.logger.Error("Failed to append turn", "chatId", chatId, "error", err)
		return turn, err
	}
	return turn, nil
}

func (m *Memory) RecentTurns(ctx context.Context, chatId string, max int) []queryModel.ConversationTurn {
	turns, err := m.turns.RecentTurns(ctx, chatId, max)
	if err != nil {
		m.logger.Error("Failed to load recent turns", "chatId", chatId, "error", err)
		return nil
	}
	return turns
}

func (m *Memory) ClassifyContextDependency(ctx context.Context, chatId, query string) queryModel.ContextDependency {
	recent := m.RecentTurns(ctx, chatId, 2)
	return ClassifyContextDependency(query, recent)
}

type scoredTurn struct {
	turn  queryModel.ConversationTurn
	score float64
	order int
}

// SelectRelevantHistory scores past turns against the current query and
// greedily packs the best ones into the character budget. The selection
// is returned in chronological order so the prompt reads as a coherent
// conversation. Queries with no detectable context dependency get no
// history at all.
func (m *Memory) SelectRelevantHistory(ctx context.Context, chatId, query string, maxTurns, maxCharBudget int) []queryModel.ConversationTurn {
	turns := m.RecentTurns(ctx, chatId, config.TurnHistoryCap)
	if len(turns) == 0 {
		return nil
	}

	recent := turns
	if len(recent) > 2 {
		recent = recent[len(recent)-2:]
	}
	if ClassifyContextDependency(query, recent) == queryModel.DependencyLow {
		return nil
	}

	scored := make([]scoredTurn, 0, len(turns))
	for i, turn := range turns {
		recency := float64(i+1) / float64(len(turns))
		overlap := JaccardSimilarity(query, turn.UserMessage)
		followUp := 0.0
		if i >= len(turns)-2 {
			followUp = 1.0
		}
		score := config.RecencyWeight*recency + config.OverlapWeight*overlap + config.FollowUpWeight*followUp
		if score < config.HistoryRelevanceFloor {
			continue
		}
		scored = append(scored, scoredTurn{turn: turn, score: score, order: i})
	}
	if len(scored) == 0 {
		return nil
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	var selected []scoredTurn
	budget := maxCharBudget
	for _, st := range scored {
		if len(selected) >= maxTurns {
			break
		}
		cost := len(st.turn.UserMessage) + len(st.turn.BotResponse)
		if cost > budget {
			continue
		}
		budget -= cost
		selected = append(selected, st)
	}

	// Re-order chronologically, oldest selected first.
	sort.Slice(selected, func(i, j int) bool { return selected[i].order < selected[j].order })

	result := make([]queryModel.ConversationTurn, len(selected))
	for i, st := range selected {
		result[i] = st.turn
	}
	return result
}
