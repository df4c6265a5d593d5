package memory

import (
	"regexp"
	"strings"

	"github.com/smahat/docuchat/internal/domain/queryModel"
)

// Cue tables are declarative so the matching order stays explicit and
// testable in isolation.
var explicitReferenceCues = []string{
	"earlier", "you mentioned", "you said", "before", "previously",
	"as i said", "we discussed", "last time", "again",
}

var followUpCues = []string{
	"what about", "and the", "also", "too", "as well", "how about",
	"then", "so,", "ok but", "what else", "more details", "elaborate",
}

var pronounReference = regexp.MustCompile(`(?i)^\s*(what|how|why|where|when|is|are|does|do|can)?\s*(about\s+)?(it|that|this|those|these|them|he|she|they)\b`)

var comparisonCue = regexp.MustCompile(`(?i)\b(compare|versus|vs\.?|difference)\b`)

// ClassifyContextDependency decides how much a query's correct answer
// depends on prior turns. Low-dependency queries skip history entirely
// to avoid diluting the prompt with irrelevant context.
func ClassifyContextDependency(query string, recentTurns []queryModel.ConversationTurn) queryModel.ContextDependency {
	lower := strings.ToLower(query)

	for _, cue := range explicitReferenceCues {
		if strings.Contains(lower, cue) {
			return queryModel.DependencyHigh
		}
	}

	if pronounReference.MatchString(query) || comparisonCue.MatchString(query) {
		return queryModel.DependencyMedium
	}
	for _, cue := range followUpCues {
		if strings.Contains(lower, cue) {
			return queryModel.DependencyMedium
		}
	}

	// Topic overlap with the immediately preceding turn also reads as a
	// follow-up.
	if len(recentTurns) > 0 {
		last := recentTurns[len(recentTurns)-1]
		if JaccardSimilarity(query, last.UserMessage) >= 0.25 {
			return queryModel.DependencyMedium
		}
	}

	return queryModel.DependencyLow
}
