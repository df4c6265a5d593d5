package config

import (
	"log/slog"
	"time"
)

type ContextKey string

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = ContextKey("traceId")

	NoAuthBypass = true //set to false once a real token is provisioned
	AuthToken    = ""

	//requests without a user id share this bucket
	DefaultUserId = "default"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking
	ChunkSize          = 1000 //characters
	ChunkOverlap       = 150  //generous overlap helps semantic continuity
	ChunkContextWindow = 100  //chars of surrounding text kept on each chunk
	PreserveSentences  = true

	//re-ranking
	MinChunkLength       = 50  //candidates below this get penalized
	RichChunkLength      = 200 //candidates above this get rewarded
	ShortChunkPenalty    = 0.7
	RichChunkBonus       = 1.15
	IntentMatchBonus     = 1.2
	DocumentTargetBoost  = 1.5
	DedupPrefixLength    = 100
	KeywordContextLines  = 2
	DefaultMaxCandidates = 10

	//strategy weights, vector >= document-targeted >= entity >= keyword
	VectorStrategyWeight   = 1.0
	DocumentStrategyWeight = 0.9
	EntityStrategyWeight   = 0.8
	KeywordStrategyWeight  = 0.7

	//conversation memory
	TurnHistoryCap        = 50
	ResponseCacheCap      = 20
	CacheSimilarityCutoff = 0.8
	HistoryRelevanceFloor = 0.3
	HistoryMaxTurns       = 5
	HistoryCharBudget     = 2000
	RecencyWeight         = 0.2
	OverlapWeight         = 0.6
	FollowUpWeight        = 0.2

	//prompt assembly
	PromptCharBudget    = 8000
	PromptTopCandidates = 6

	//generation temperatures by intent
	TemperatureExtraction   float32 = 0.2
	TemperatureDocumentList float32 = 0.1
	TemperatureSummary      float32 = 0.4
	TemperatureComparison   float32 = 0.3
	TemperatureSearch       float32 = 0.3
	TemperatureQuestion     float32 = 0.5
	TemperatureGeneral      float32 = 0.7
	TemperatureCreative     float32 = 0.9
	GenerationMaxTokens             = 1024

	//a slow strategy degrades to an empty result set
	StrategyTimeout       = 5 * time.Second
	VectorSearchRetryMax  = 2
	VectorSearchRetryWait = 200 * time.Millisecond

	//a single stuck pdf page must not hang the whole ingestion job
	PageExtractionTimeout = 10 * time.Second

	EmbeddingOutputDimensionality int32 = 1536
	ChunkCollectionName                 = "doc-chunks"
	VectorSearchLimit                   = 5

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1

	//llm + embeddings
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"
	ModelContext         = "You are a helpful assistant answering questions about the user's uploaded documents. Only use the provided context and history. If you don't know the answer, say you don't know."

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisTurnStore     = 1
	RedisDocumentStore = 2

	//redis timeouts
	RedisJobStoreTTL  = 24 * time.Hour
	RedisTurnStoreTTL = 24 * time.Hour
)
