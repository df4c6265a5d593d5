package retrieval

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/commonModels"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/internal/rag/docstore"
	"github.com/smahat/docuchat/internal/rag/vectorindex"
	"github.com/smahat/docuchat/pkg/logger_i"
)

// Stats describes how a retrieval round went, for response metadata.
type Stats struct {
	StrategiesUsed []string
	VectorDegraded bool
}

// Orchestrator fans a query out to the retrieval strategies suited to
// its intent, merges their candidates and re-ranks the survivors.
type Orchestrator struct {
	index  vectorindex.Index
	docs   docstore.Store
	logger *logger_i.Logger
}

// NewOrchestrator accepts a nil index; retrieval then runs on the text
// scan strategies alone and reports the degradation in Stats.
func NewOrchestrator(index vectorindex.Index, docs docstore.Store) *Orchestrator {
	return &Orchestrator{
		index:  index,
		docs:   docs,
		logger: logger_i.NewLogger("RetrievalOrchestrator"),
	}
}

// Retrieve runs the selected strategies concurrently, each under its
// own timeout. Strategy failures degrade to empty result sets; the only
// way to get zero candidates is for every strategy to come up empty.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, documents []commonModels.Document, analysis queryModel.QueryAnalysis, maxResults int) ([]queryModel.RetrievalCandidate, Stats) {
	if maxResults <= 0 {
		maxResults = config.DefaultMaxCandidates
	}

	// An inventory question is answered from metadata alone; scanning
	// content would only surface noise.
	if analysis.Intent.Type == queryModel.IntentDocumentList {
		meta := (&metadataStrategy{}).Retrieve(ctx, query, documents, analysis)
		ranked := rerank(meta, analysis, maxResults)
		return ranked, Stats{StrategiesUsed: []string{"metadata"}}
	}

	strategies := o.selectStrategies(analysis)

	// Results are collected per strategy slot so the merge order stays
	// deterministic regardless of which goroutine finishes first.
	results := make([][]queryModel.RetrievalCandidate, len(strategies))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i, strategy := range strategies {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, config.StrategyTimeout)
			defer cancel()
			found := strategy.Retrieve(sctx, query, documents, analysis)
			mu.Lock()
			results[i] = found
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	var stats Stats
	var merged []queryModel.RetrievalCandidate
	for i, strategy := range strategies {
		if vs, ok := strategy.(*vectorStrategy); ok && vs.degraded {
			stats.VectorDegraded = true
		}
		if len(results[i]) == 0 {
			continue
		}
		stats.StrategiesUsed = append(stats.StrategiesUsed, strategy.Name())
		merged = append(merged, results[i]...)
	}

	deduped := dedupeByPrefix(merged)
	ranked := rerank(deduped, analysis, maxResults)
	o.logger.Debug("Retrieval round complete",
		"strategies", stats.StrategiesUsed,
		"candidates", len(merged),
		"afterDedup", len(deduped),
		"returned", len(ranked))
	return ranked, stats
}

// selectStrategies orders strategies by trust so that merge order, and
// with it dedup survival, favours the higher-precision sources.
func (o *Orchestrator) selectStrategies(analysis queryModel.QueryAnalysis) []Strategy {
	strategies := []Strategy{&vectorStrategy{orchestrator: o}}
	if analysis.Intent.Type == queryModel.IntentExtraction {
		strategies = append(strategies, &entityStrategy{orchestrator: o})
	}
	strategies = append(strategies, &keywordStrategy{orchestrator: o})
	return strategies
}
