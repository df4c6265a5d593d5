package retrieval

import (
	"sort"
	"strings"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/queryModel"
)

// dedupeByPrefix collapses candidates whose normalised text shares the
// same leading characters. First occurrence wins, so the caller's merge
// order decides which strategy's copy survives.
func dedupeByPrefix(candidates []queryModel.RetrievalCandidate) []queryModel.RetrievalCandidate {
	seen := make(map[string]bool, len(candidates))
	kept := candidates[:0:0]
	for _, c := range candidates {
		key := dedupKey(c.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, c)
	}
	return kept
}

func dedupKey(text string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if len(normalized) > config.DedupPrefixLength {
		normalized = normalized[:config.DedupPrefixLength]
	}
	return normalized
}

// rerank computes each candidate's final score and returns the top
// maxResults in descending order. The sort is stable, so candidates
// with equal scores keep the strategy-priority order they arrived in.
func rerank(candidates []queryModel.RetrievalCandidate, analysis queryModel.QueryAnalysis, maxResults int) []queryModel.RetrievalCandidate {
	referenced := make(map[string]bool, len(analysis.DocumentReferences))
	for _, ref := range analysis.DocumentReferences {
		referenced[ref.DocumentId] = true
	}

	ranked := make([]queryModel.RetrievalCandidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		score := ranked[i].RawScore * strategyWeight(ranked[i].Kind)
		score *= lengthAdjustment(len(ranked[i].Text))
		if intentMatches(ranked[i], analysis) {
			score *= config.IntentMatchBonus
		}
		if referenced[ranked[i].DocumentId] {
			score *= config.DocumentTargetBoost
		}
		ranked[i].FinalScore = score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

func strategyWeight(kind queryModel.CandidateKind) float64 {
	switch kind {
	case queryModel.VectorCandidate:
		return config.VectorStrategyWeight
	case queryModel.EntityCandidate:
		return config.EntityStrategyWeight
	case queryModel.TextCandidate:
		return config.KeywordStrategyWeight
	default:
		return config.DocumentStrategyWeight
	}
}

// lengthAdjustment penalises fragments too short to mean much and
// rewards passages long enough to carry real context.
func lengthAdjustment(length int) float64 {
	switch {
	case length < config.MinChunkLength:
		return config.ShortChunkPenalty
	case length > config.RichChunkLength:
		return config.RichChunkBonus
	default:
		return 1.0
	}
}

// intentMatches reports whether a candidate's provenance lines up with
// what the intent asked for, e.g. an entity hit of the requested type
// on an extraction query.
func intentMatches(c queryModel.RetrievalCandidate, analysis queryModel.QueryAnalysis) bool {
	switch analysis.Intent.Type {
	case queryModel.IntentExtraction:
		return c.Kind == queryModel.EntityCandidate && c.EntityType != ""
	case queryModel.IntentDocumentList:
		return c.Kind == queryModel.MetadataCandidate
	case queryModel.IntentSearch, queryModel.IntentQuestion:
		return c.Kind == queryModel.VectorCandidate
	default:
		return false
	}
}
