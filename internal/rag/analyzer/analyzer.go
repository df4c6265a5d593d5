package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"github.com/smahat/docuchat/internal/domain/commonModels"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/internal/rag/policy"
)

// Analyze classifies a query's intent and expands it into search terms.
// Pure and deterministic: the same (query, documents) pair always yields
// an identical QueryAnalysis.
func Analyze(query string, knownDocuments []commonModels.Document) queryModel.QueryAnalysis {
	intent := detectIntent(query)
	keywords := extractKeywords(query)

	analysis := queryModel.QueryAnalysis{
		RawQuery:           query,
		Intent:             intent,
		Keywords:           keywords,
		ExpandedKeywords:   expandKeywords(keywords),
		Entities:           extractEntities(query),
		DocumentReferences: detectDocumentReferences(query, knownDocuments),
		SuggestedScope:     suggestScope(query, intent),
	}
	analysis.SuggestedTemperature = suggestTemperature(intent.Type)
	return analysis
}

func detectIntent(query string) queryModel.Intent {
	for _, group := range intentPatternGroups {
		for _, p := range group.patterns {
			if p.MatchString(query) {
				return queryModel.Intent{Type: group.intent, Confidence: group.confidence}
			}
		}
	}
	if strings.HasSuffix(strings.TrimSpace(query), "?") {
		return queryModel.Intent{Type: queryModel.IntentQuestion, Confidence: 0.7}
	}
	return queryModel.Intent{Type: queryModel.IntentGeneral, Confidence: 0.5}
}

func extractEntities(query string) map[string][]string {
	entities := make(map[string][]string)
	for entityType, extractor := range entityExtractors {
		matches := extractor.FindAllString(query, -1)
		if len(matches) == 0 {
			continue
		}
		seen := make(map[string]bool)
		var unique []string
		for _, m := range matches {
			key := strings.ToLower(strings.TrimSpace(m))
			if seen[key] {
				continue
			}
			seen[key] = true
			unique = append(unique, strings.TrimSpace(m))
		}
		entities[entityType] = unique
	}
	return entities
}

var wordTokenizer = regexp.MustCompile(`[a-zA-Z0-9]+`)

func extractKeywords(query string) []string {
	tokens := wordTokenizer.FindAllString(strings.ToLower(query), -1)
	seen := make(map[string]bool)
	var keywords []string
	for _, tok := range tokens {
		if len(tok) <= 2 || stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}
	return keywords
}

func expandKeywords(keywords []string) []string {
	expanded := make([]string, 0, len(keywords))
	seen := make(map[string]bool)
	for _, kw := range keywords {
		if !seen[kw] {
			seen[kw] = true
			expanded = append(expanded, kw)
		}
		for _, syn := range synonymTable[kw] {
			if !seen[syn] {
				seen[syn] = true
				expanded = append(expanded, syn)
			}
		}
	}
	return expanded
}

func detectDocumentReferences(query string, docs []commonModels.Document) []queryModel.DocumentReference {
	lowerQuery := strings.ToLower(query)
	var refs []queryModel.DocumentReference
	for _, doc := range docs {
		base := strings.ToLower(strings.TrimSuffix(doc.Filename, extension(doc.Filename)))
		if base == "" {
			continue
		}
		if strings.Contains(lowerQuery, base) {
			refs = append(refs, queryModel.DocumentReference{
				DocumentId: doc.Id,
				MatchType:  "filename",
				Confidence: 0.9,
			})
		}
	}
	// Deterministic output regardless of the caller's document order.
	sort.Slice(refs, func(i, j int) bool { return refs[i].DocumentId < refs[j].DocumentId })
	return refs
}

func extension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return filename[idx:]
}

func suggestScope(query string, intent queryModel.Intent) queryModel.ScopeType {
	lower := strings.ToLower(query)
	switch intent.Type {
	case queryModel.IntentComparison:
		return queryModel.ScopeComparison
	case queryModel.IntentSummary:
		if strings.Contains(lower, "all ") || strings.Contains(lower, "every ") || strings.Contains(lower, "each ") {
			return queryModel.ScopeMultiDocument
		}
		return queryModel.ScopeSummary
	case queryModel.IntentExtraction:
		return queryModel.ScopeExtraction
	case queryModel.IntentSearch, queryModel.IntentQuestion:
		return queryModel.ScopeSearch
	case queryModel.IntentDocumentList:
		return queryModel.ScopeMultiDocument
	default:
		return queryModel.ScopeGeneral
	}
}

// The intent-to-temperature mapping lives in policy; the analysis only
// records the suggestion so downstream stages need not re-derive it.
func suggestTemperature(intent queryModel.IntentType) float32 {
	return policy.TemperatureFor(intent)
}
