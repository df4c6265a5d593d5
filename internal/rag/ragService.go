package rag

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/jobModel"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/internal/metrics"
	"github.com/smahat/docuchat/internal/rag/docstore"
	"github.com/smahat/docuchat/internal/rag/ingest"
	"github.com/smahat/docuchat/internal/rag/llm"
	"github.com/smahat/docuchat/internal/rag/memory"
	"github.com/smahat/docuchat/internal/rag/policy"
	"github.com/smahat/docuchat/internal/rag/retrieval"
	"github.com/smahat/docuchat/internal/rag/vectorindex"
	"github.com/smahat/docuchat/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - The PUBLIC contract the worker calls.
  - It defines behavior only; the worker never sees the stores, the
    vector index or the model client.

2. service (Private Struct):
  - The PRIVATE implementation holding the state (document store,
    vector index, conversation memory, model provider).
  - Lowercase so external packages cannot reach the dependencies
    directly.

3. Pointer Receiver (*service):
  - Methods on (*service) satisfy the Service interface implicitly.

4. Dependency Injection (NewService):
  - Lets tests swap every collaborator for a mock without touching the
    worker.
*/

// Service is all the worker needs: answer a query job or ingest a
// document job.
type Service interface {
	ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	docs      docstore.Store
	index     vectorindex.Index
	retriever *retrieval.Orchestrator
	memory    *memory.Memory
	llm       llm.Provider
	logger    *logger_i.Logger
}

// NewService wires the pipeline. A nil index is allowed: retrieval
// degrades to the text scan strategies.
func NewService(docs docstore.Store, index vectorindex.Index, mem *memory.Memory, provider llm.Provider) Service {
	return &service{
		docs:      docs,
		index:     index,
		retriever: retrieval.NewOrchestrator(index, docs),
		memory:    mem,
		llm:       provider,
		logger:    logger_i.NewLogger("RAG Service :"),
	}
}

const apologyResponse = "I'm sorry, I couldn't generate an answer right now. Please try again in a moment."
const emptyQueryResponse = "Please ask me something about your documents and I'll do my best to help."

// ProcessRequest runs the full query pipeline: analyze, cache check,
// history selection, retrieval, generation, then turn recording. Every
// stage degrades rather than failing the job; the only hard errors are
// an invalid payload or a missing chat.
func (s *service) ProcessRequest(ctx context.Context, jobt jobModel.Job) jobModel.Job {
	inMethodLogger := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY).(string), "JobId", jobt.Id)

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query := strings.TrimSpace(jobt.JobPayload.Question)
	if len(query) == 0 {
		return returnOutput(jobt, &queryModel.AnswerResult{
			Response: emptyQueryResponse,
			Metadata: queryModel.AnswerMetadata{IntentType: queryModel.IntentGeneral},
		})
	}

	// Query Analysis
	analysis := s.executeAnalyzeStep(processContext, inMethodLogger, &jobt)

	// Semantic Cache Check
	if cached := s.executeCacheCheckStep(processContext, inMethodLogger, &jobt, analysis); cached != nil {
		return returnOutput(jobt, cached)
	}

	// Conversation History
	history := s.executeHistoryStep(processContext, inMethodLogger, &jobt)

	// Retrieval
	candidates, stats := s.executeRetrievalStep(processContext, inMethodLogger, &jobt, analysis)

	// Generation
	answer, err := s.executeLLMStep(processContext, inMethodLogger, &jobt, analysis, candidates, history)
	degraded := false
	if err != nil {
		inMethodLogger.Error("Generation failed, answering with apology", "error", err)
		answer = apologyResponse
		degraded = true
	}

	result := &queryModel.AnswerResult{
		Response:       answer,
		RelevantChunks: candidates,
		Metadata: queryModel.AnswerMetadata{
			IntentType:          analysis.Intent.Type,
			Confidence:          analysis.Intent.Confidence,
			Temperature:         policy.TemperatureFor(analysis.Intent.Type),
			StrategiesUsed:      stats.StrategiesUsed,
			HistoryTurnsUsed:    len(history),
			DegradedVectorIndex: stats.VectorDegraded,
			DegradedGeneration:  degraded,
		},
	}

	// Record the turn; an apology is still part of the conversation but
	// never worth caching.
	s.executeRecordTurnStep(ctx, inMethodLogger, &jobt, analysis, answer)
	if !degraded {
		go s.memory.CacheResponse(context.WithoutCancel(ctx), jobt.UserId, query, answer, map[string]string{
			"intent": string(analysis.Intent.Type),
		})
	}

	return returnOutput(jobt, result)
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("Document_ingestion", time.Since(start)) }()
	j := ingest.ProcessDocumentIngestion(ctx, job, s.docs, s.index)
	if j.Status != jobModel.JobStatusComplete {
		return s.jobError(j, errors.New("ingest Document Failed"), "INGESTION_FAILURE", true)
	}
	return j
}
