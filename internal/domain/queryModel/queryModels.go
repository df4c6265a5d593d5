package queryModel

import (
	"context"
	"time"
)

type IntentType string

const (
	IntentDocumentList IntentType = "document_list"
	IntentExtraction   IntentType = "extraction"
	IntentSummary      IntentType = "summary"
	IntentComparison   IntentType = "comparison"
	IntentSearch       IntentType = "search"
	IntentQuestion     IntentType = "question"
	IntentGeneral      IntentType = "general"
	IntentCreative     IntentType = "creative"
)

type Intent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`
}

type ScopeType string

const (
	ScopeComparison    ScopeType = "comparison"
	ScopeSummary       ScopeType = "summary"
	ScopeExtraction    ScopeType = "extraction"
	ScopeSearch        ScopeType = "search"
	ScopeMultiDocument ScopeType = "multi_document"
	ScopeGeneral       ScopeType = "general"
)

type DocumentReference struct {
	DocumentId string  `json:"document_id"`
	MatchType  string  `json:"match_type"`
	Confidence float64 `json:"confidence"`
}

// QueryAnalysis is created fresh per query and never persisted beyond
// the request.
type QueryAnalysis struct {
	RawQuery             string              `json:"raw_query"`
	Intent               Intent              `json:"intent"`
	Keywords             []string            `json:"keywords"`
	ExpandedKeywords     []string            `json:"expanded_keywords"`
	Entities             map[string][]string `json:"entities"`
	DocumentReferences   []DocumentReference `json:"document_references"`
	SuggestedTemperature float32             `json:"suggested_temperature"`
	SuggestedScope       ScopeType           `json:"suggested_scope"`
}

type CandidateKind string

const (
	MetadataCandidate CandidateKind = "metadata"
	VectorCandidate   CandidateKind = "vector"
	TextCandidate     CandidateKind = "text"
	EntityCandidate   CandidateKind = "entity"
)

// RetrievalCandidate is transient: produced by one strategy, consumed
// by re-ranking and the prompt builders, discarded after the turn.
type RetrievalCandidate struct {
	Kind       CandidateKind `json:"kind"`
	Text       string        `json:"text"`
	DocumentId string        `json:"document_id,omitempty"`
	Filename   string        `json:"filename,omitempty"`
	RawScore   float64       `json:"raw_score"`
	FinalScore float64       `json:"final_score"`

	//strategy-specific payload
	Reformulation string    `json:"reformulation,omitempty"` //vector: which reformulated query produced the hit
	LineNumber    int       `json:"line_number,omitempty"`   //text/entity: position of the matched line
	EntityType    string    `json:"entity_type,omitempty"`   //entity: cue table that matched
	UploadedAt    time.Time `json:"uploaded_at,omitempty"`   //metadata
}

// ConversationTurn is immutable after creation and belongs to exactly
// one chat. Histories are bounded rings, oldest entries evicted.
type ConversationTurn struct {
	Id                  string    `json:"id"`
	ChatId              string    `json:"chat_id"`
	UserId              string    `json:"user_id"`
	Timestamp           time.Time `json:"timestamp"`
	UserMessage         string    `json:"user_message"`
	BotResponse         string    `json:"bot_response"`
	DocumentsReferenced []string  `json:"documents_referenced,omitempty"`
	TopicsDiscussed     []string  `json:"topics_discussed,omitempty"`
	EntitiesFound       []string  `json:"entities_found,omitempty"`
	QueryType           string    `json:"query_type"`
	Confidence          float64   `json:"confidence"`
}

// CacheEntry staleness is accepted: entries are only FIFO-evicted,
// never invalidated when a document changes.
type CacheEntry struct {
	QueryText    string            `json:"query_text"`
	ResponseText string            `json:"response_text"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CachedAt     time.Time         `json:"cached_at"`
}

type ContextDependency string

const (
	DependencyLow    ContextDependency = "low"
	DependencyMedium ContextDependency = "medium"
	DependencyHigh   ContextDependency = "high"
)

type AnswerMetadata struct {
	IntentType          IntentType `json:"intent_type"`
	Confidence          float64    `json:"confidence"`
	Temperature         float32    `json:"temperature"`
	StrategiesUsed      []string   `json:"strategies_used"`
	FromCache           bool       `json:"from_cache"`
	HistoryTurnsUsed    int        `json:"history_turns_used"`
	DegradedVectorIndex bool       `json:"degraded_vector_index,omitempty"`
	DegradedGeneration  bool       `json:"degraded_generation,omitempty"`
}

type AnswerResult struct {
	Response       string               `json:"response"`
	RelevantChunks []RetrievalCandidate `json:"relevant_chunks,omitempty"`
	Metadata       AnswerMetadata       `json:"metadata"`
}

// TurnStore holds per-chat turn rings. Eviction at the cap is a side
// effect of every append, not a separate sweep.
type TurnStore interface {
	AppendTurn(ctx context.Context, turn ConversationTurn) error
	RecentTurns(ctx context.Context, chatId string, max int) ([]ConversationTurn, error)
	ValidateChatId(ctx context.Context, chatId string) bool
	InitNewChat(ctx context.Context, chatId string) error
}

// ResponseCacheStore is a bounded per-user FIFO of cached answers.
type ResponseCacheStore interface {
	Entries(ctx context.Context, userId string) ([]CacheEntry, error)
	Append(ctx context.Context, userId string, entry CacheEntry) error
}
