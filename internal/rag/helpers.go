package rag

import (
	"context"
	"net/http"
	"time"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/jobModel"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/internal/metrics"
	"github.com/smahat/docuchat/internal/rag/analyzer"
	"github.com/smahat/docuchat/internal/rag/memory"
	"github.com/smahat/docuchat/internal/rag/policy"
	"github.com/smahat/docuchat/internal/rag/retrieval"
	"github.com/smahat/docuchat/pkg/logger_i"
)

func returnOutput(job jobModel.Job, ans *queryModel.AnswerResult) jobModel.Job {
	job.JobPayload.Answer = ans
	job.CurrentStep = jobModel.Complete
	return job
}

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("ProcessRequest", "Current Status", job.CurrentStep)
	return job
}

func (s *service) jobError(job jobModel.Job, err error, message string, canRetry bool) jobModel.Job {
	s.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: "Internal Server Error",
		Retry:   canRetry,
	}
	job.Status = jobModel.JobStatusError
	return job
}

func (s *service) executeAnalyzeStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) queryModel.QueryAnalysis {
	*job = logOutput(*job, jobModel.AnalyzeCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_analysis", time.Since(start)) }()

	known, err := s.docs.ListDocuments(ctx, job.UserId)
	if err != nil {
		log.Warn("Could not list documents for analysis", "error", err)
	}
	analysis := analyzer.Analyze(job.JobPayload.Question, known)
	metrics.CaptureQueryIntent(string(analysis.Intent.Type))
	log.Debug("Query analyzed", "intent", analysis.Intent.Type, "confidence", analysis.Intent.Confidence)
	return analysis
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, analysis queryModel.QueryAnalysis) *queryModel.AnswerResult {
	*job = logOutput(*job, jobModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	// Follow-up questions lean on conversation state a cached answer
	// does not carry. Only cues in the query itself count here: judging
	// against the previous turn would flag every repeated question as a
	// follow-up and the cache could never hit its intended case.
	if memory.ClassifyContextDependency(job.JobPayload.Question, nil) != queryModel.DependencyLow {
		return nil
	}

	entry := s.memory.GetCachedResponse(ctx, job.UserId, job.JobPayload.Question, config.CacheSimilarityCutoff)
	metrics.CaptureCacheLookup(entry != nil)
	if entry == nil {
		return nil
	}
	return &queryModel.AnswerResult{
		Response: entry.ResponseText,
		Metadata: queryModel.AnswerMetadata{
			IntentType: analysis.Intent.Type,
			Confidence: analysis.Intent.Confidence,
			FromCache:  true,
		},
	}
}

func (s *service) executeHistoryStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) []queryModel.ConversationTurn {
	*job = logOutput(*job, jobModel.HistoryCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("history_selection", time.Since(start)) }()

	return s.memory.SelectRelevantHistory(ctx, job.ChatId, job.JobPayload.Question, config.HistoryMaxTurns, config.HistoryCharBudget)
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, analysis queryModel.QueryAnalysis) ([]queryModel.RetrievalCandidate, retrieval.Stats) {
	*job = logOutput(*job, jobModel.RetrievalCall, log)

	// Chitchat and creative prompts are answered from history alone
	// unless the user pointed at a document.
	if (analysis.Intent.Type == queryModel.IntentGeneral || analysis.Intent.Type == queryModel.IntentCreative) &&
		len(analysis.DocumentReferences) == 0 {
		return nil, retrieval.Stats{}
	}

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieval", time.Since(start)) }()

	known, err := s.docs.ListDocuments(ctx, job.UserId)
	if err != nil {
		log.Warn("Could not list documents for retrieval", "error", err)
	}
	candidates, stats := s.retriever.Retrieve(ctx, job.JobPayload.Question, known, analysis, config.DefaultMaxCandidates)
	for _, strategy := range stats.StrategiesUsed {
		metrics.CaptureStrategyRun(strategy)
	}
	return candidates, stats
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, analysis queryModel.QueryAnalysis, candidates []queryModel.RetrievalCandidate, history []queryModel.ConversationTurn) (string, error) {
	*job = logOutput(*job, jobModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	prompt := policy.BuildPrompt(job.JobPayload.Question, analysis, candidates, history)
	return s.llm.Generate(ctx, prompt, policy.GenerateOptionsFor(analysis.Intent.Type))
}

func (s *service) executeRecordTurnStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job, analysis queryModel.QueryAnalysis, answer string) {
	*job = logOutput(*job, jobModel.RecordTurnCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("record_turn", time.Since(start)) }()

	var referenced []string
	for _, ref := range analysis.DocumentReferences {
		referenced = append(referenced, ref.DocumentId)
	}
	var entities []string
	for _, values := range analysis.Entities {
		entities = append(entities, values...)
	}

	_, err := s.memory.RecordTurn(ctx, job.ChatId, job.UserId, job.JobPayload.Question, answer, memory.TurnMetadata{
		DocumentsReferenced: referenced,
		TopicsDiscussed:     analysis.Keywords,
		EntitiesFound:       entities,
		QueryType:           string(analysis.Intent.Type),
		Confidence:          analysis.Intent.Confidence,
	})
	if err != nil {
		log.Error("Failed to record conversation turn", "error", err)
	}
}
