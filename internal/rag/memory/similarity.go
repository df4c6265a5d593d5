package memory

import (
	"regexp"
	"strings"
)

// JaccardSimilarity over lower-cased word sets. Tokens are runs of
// letters and digits, so punctuation and contraction leftovers ("what's"
// vs "what is") don't sink the score for near-duplicate queries. Shared
// by history selection and the semantic response cache. A deliberate
// precision/cost trade-off given the bounded search space, not a claim
// of semantic accuracy.
func JaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

var similarityTokenizer = regexp.MustCompile(`[a-z0-9]+`)

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range similarityTokenizer.FindAllString(strings.ToLower(s), -1) {
		if len(tok) == 1 {
			continue
		}
		set[tok] = true
	}
	return set
}
