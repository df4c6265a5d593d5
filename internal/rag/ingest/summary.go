package ingest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/smahat/docuchat/internal/domain/commonModels"
)

func getDocType(docPath string) commonModels.DocType {
	ext := strings.ToLower(filepath.Ext(docPath))
	switch ext {
	case ".pdf":
		return commonModels.PDF
	case ".docx", ".rtf", ".odt":
		return commonModels.DOCX
	case ".txt":
		return commonModels.TXT
	default:
		return commonModels.ERR
	}
}

func extractText(path string, contentType commonModels.DocType) ([]rawPage, error) {
	switch contentType {
	case commonModels.PDF:
		return extractPDF(path)
	case commonModels.DOCX, commonModels.TXT:
		return extractTextLike(path)
	default:
		return nil, fmt.Errorf("unsupported content type: %s", contentType)
	}
}

const (
	summaryLeadChars = 300
	keyTopicCount    = 8
)

var topicTokenizer = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9]+`)

// Common words that would dominate any frequency count.
var topicStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "with": true, "this": true,
	"that": true, "from": true, "they": true, "have": true, "has": true,
	"was": true, "were": true, "will": true, "can": true, "its": true,
	"our": true, "your": true, "their": true, "about": true, "which": true,
	"when": true, "where": true, "there": true, "been": true, "into": true,
	"also": true, "than": true, "then": true, "them": true, "these": true,
	"such": true, "over": true, "more": true, "most": true, "other": true,
	"some": true, "each": true, "any": true, "may": true, "would": true,
	"should": true, "could": true,
}

// BuildSummary derives a cheap document context summary at ingestion
// time: the leading text as the summary line and the most frequent
// content words as key topics. No model call involved.
func BuildSummary(doc commonModels.Document, fullText string) commonModels.DocumentContextSummary {
	return commonModels.DocumentContextSummary{
		DocumentId: doc.Id,
		Filename:   doc.Filename,
		Summary:    leadingText(fullText, summaryLeadChars),
		KeyTopics:  keyTopics(fullText, keyTopicCount),
		UploadedAt: doc.UploadedAt,
	}
}

// leadingText cuts at a word boundary so the summary never ends
// mid-token.
func leadingText(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= limit {
		return text
	}
	cut := strings.LastIndex(text[:limit], " ")
	if cut <= 0 {
		cut = limit
	}
	return text[:cut] + "..."
}

func keyTopics(text string, max int) []string {
	counts := make(map[string]int)
	for _, token := range topicTokenizer.FindAllString(strings.ToLower(text), -1) {
		if len(token) <= 3 || topicStopWords[token] {
			continue
		}
		counts[token]++
	}
	if len(counts) == 0 {
		return nil
	}

	type wordCount struct {
		word  string
		count int
	}
	ranked := make([]wordCount, 0, len(counts))
	for word, count := range counts {
		ranked = append(ranked, wordCount{word, count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})

	if len(ranked) > max {
		ranked = ranked[:max]
	}
	topics := make([]string, len(ranked))
	for i, wc := range ranked {
		topics[i] = wc.word
	}
	return topics
}
