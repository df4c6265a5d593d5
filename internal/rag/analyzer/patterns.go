package analyzer

import (
	"regexp"

	"github.com/smahat/docuchat/internal/domain/queryModel"
)

// Intent pattern groups are checked in declaration order; the first
// group with a matching pattern wins. Order is a correctness invariant:
// document-list before extraction before summary before comparison
// before search.
type patternGroup struct {
	intent     queryModel.IntentType
	confidence float64
	patterns   []*regexp.Regexp
}

var intentPatternGroups = []patternGroup{
	{
		intent:     queryModel.IntentDocumentList,
		confidence: 0.95,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(what|which)\b.*\b(documents?|files?)\b.*\b(uploaded|upload|have)\b`),
			regexp.MustCompile(`(?i)\b(list|show|display)\b.*\b(my\s+)?(documents?|files?|uploads?)\b`),
			regexp.MustCompile(`(?i)\bdocuments?\b.*\b(have i|did i)\b.*\bupload`),
			regexp.MustCompile(`(?i)\bhow many\b.*\b(documents?|files?)\b`),
		},
	},
	{
		intent:     queryModel.IntentExtraction,
		confidence: 0.9,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(extract|pull|get|grab)\b.*\b(skills?|emails?|phones?|names?|dates?|numbers?)\b`),
			regexp.MustCompile(`(?i)\bwhat\b.*\b(skills?|experience|qualifications?|certifications?)\b`),
			regexp.MustCompile(`(?i)\b(email|phone|contact)\b.*\b(address|number|info|information)\b`),
			regexp.MustCompile(`(?i)\blist\b.*\b(skills?|technologies|tools)\b`),
		},
	},
	{
		intent:     queryModel.IntentSummary,
		confidence: 0.9,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bsummar(y|ize|ise|ized|ised)\b`),
			regexp.MustCompile(`(?i)\b(overview|brief|gist|main points?|key points?)\b`),
			regexp.MustCompile(`(?i)\btl;?dr\b`),
			regexp.MustCompile(`(?i)\bwhat('?s| is)\b.*\babout\b`),
		},
	},
	{
		intent:     queryModel.IntentComparison,
		confidence: 0.85,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(compare|comparison|contrast)\b`),
			regexp.MustCompile(`(?i)\b(versus|vs\.?)\b`),
			regexp.MustCompile(`(?i)\bdifference(s)? between\b`),
			regexp.MustCompile(`(?i)\bwhich\b.*\b(better|best|more)\b`),
		},
	},
	{
		intent:     queryModel.IntentSearch,
		confidence: 0.8,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(search|look) for\b`),
			regexp.MustCompile(`(?i)\bwhere\b.*\b(is|are|does|mentioned?)\b`),
			regexp.MustCompile(`(?i)\b(find|locate)\b.*\bin\b`),
			regexp.MustCompile(`(?i)\bmentions?\b`),
		},
	},
}

// Entity extractors keyed by entity type. Duplicates are removed after
// extraction.
var entityExtractors = map[string]*regexp.Regexp{
	"person": regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`),
	"email":  regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	"phone":  regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`),
	"skill": regexp.MustCompile(`(?i)\b(python|java(script)?|typescript|golang|go|rust|sql|nosql|react|angular|docker|kubernetes|aws|azure|gcp|terraform|linux|git|c\+\+|c#|scala|kotlin|swift)\b`),
}
