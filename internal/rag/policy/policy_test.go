package policy

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/queryModel"
)

func TestTemperatureForOrdering(t *testing.T) {
	// Colder for factual intents, warmer for open-ended ones.
	assert.Less(t, TemperatureFor(queryModel.IntentDocumentList), TemperatureFor(queryModel.IntentExtraction))
	assert.Less(t, TemperatureFor(queryModel.IntentExtraction), TemperatureFor(queryModel.IntentSummary))
	assert.Less(t, TemperatureFor(queryModel.IntentQuestion), TemperatureFor(queryModel.IntentGeneral))
	assert.Less(t, TemperatureFor(queryModel.IntentGeneral), TemperatureFor(queryModel.IntentCreative))
}

func TestTemperatureForUnknownFallsBackToGeneral(t *testing.T) {
	assert.Equal(t, config.TemperatureGeneral, TemperatureFor(queryModel.IntentType("nonsense")))
}

func TestGenerateOptionsFor(t *testing.T) {
	opts := GenerateOptionsFor(queryModel.IntentExtraction)
	assert.Equal(t, config.TemperatureExtraction, opts.Temperature)
	assert.Equal(t, config.GenerationMaxTokens, opts.MaxTokens)
}

func TestBuildPromptDocumentList(t *testing.T) {
	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentDocumentList}}
	candidates := []queryModel.RetrievalCandidate{
		{Kind: queryModel.MetadataCandidate, Filename: "resume.pdf", UploadedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Kind: queryModel.MetadataCandidate, Filename: "notes.txt", UploadedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
	}

	prompt := BuildPrompt("what files do I have?", analysis, candidates, nil)

	assert.Contains(t, prompt, "Document inventory:")
	assert.Contains(t, prompt, "- resume.pdf (uploaded 2026-03-01)")
	assert.Contains(t, prompt, "- notes.txt (uploaded 2026-03-02)")
	assert.Contains(t, prompt, "Question: what files do I have?")
	assert.NotContains(t, prompt, "Passages:")
}

func TestBuildPromptIncludesHistoryAndSources(t *testing.T) {
	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentQuestion}}
	history := []queryModel.ConversationTurn{
		{UserMessage: "what skills are listed?", BotResponse: "Go and Kubernetes."},
	}
	candidates := []queryModel.RetrievalCandidate{
		{Kind: queryModel.VectorCandidate, Text: "Ten years of Go experience.", Filename: "resume.pdf"},
	}

	prompt := BuildPrompt("and how many years?", analysis, candidates, history)

	assert.Contains(t, prompt, "Conversation so far:")
	assert.Contains(t, prompt, "User: what skills are listed?")
	assert.Contains(t, prompt, "Assistant: Go and Kubernetes.")
	assert.Contains(t, prompt, "From resume.pdf:\n[1] Ten years of Go experience.")
	assert.True(t, strings.HasSuffix(prompt, "Question: and how many years?"))
}

func TestBuildPromptGroupsPassagesByDocument(t *testing.T) {
	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentComparison}}
	candidates := []queryModel.RetrievalCandidate{
		{Kind: queryModel.VectorCandidate, Text: "Offer A pays more.", Filename: "offer-a.txt"},
		{Kind: queryModel.VectorCandidate, Text: "Offer B is remote.", Filename: "offer-b.txt"},
		{Kind: queryModel.TextCandidate, Text: "Offer A has no equity.", Filename: "offer-a.txt"},
	}

	prompt := BuildPrompt("compare the offers", analysis, candidates, nil)

	// One heading per document, passages from the same file together
	// even when their ranks interleave.
	assert.Equal(t, 1, strings.Count(prompt, "From offer-a.txt:"))
	assert.Equal(t, 1, strings.Count(prompt, "From offer-b.txt:"))
	assert.Contains(t, prompt, "From offer-a.txt:\n[1] Offer A pays more.\n[2] Offer A has no equity.")
	assert.Contains(t, prompt, "From offer-b.txt:\n[3] Offer B is remote.")
}

func TestBuildPromptUnknownIntentGetsGeneralInstructions(t *testing.T) {
	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentType("")}}
	prompt := BuildPrompt("hello", analysis, nil, nil)
	assert.Contains(t, prompt, intentInstructions[queryModel.IntentGeneral])
}

func TestBuildPromptCapsCandidateCount(t *testing.T) {
	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentSearch}}
	var candidates []queryModel.RetrievalCandidate
	for i := 0; i < config.PromptTopCandidates+4; i++ {
		candidates = append(candidates, queryModel.RetrievalCandidate{
			Kind:     queryModel.VectorCandidate,
			Text:     "passage number " + strings.Repeat("x", i+1),
			Filename: "doc.txt",
		})
	}

	prompt := BuildPrompt("find it", analysis, candidates, nil)
	assert.Equal(t, config.PromptTopCandidates, strings.Count(prompt, "] passage number"))
}

func TestBuildPromptRespectsCharBudget(t *testing.T) {
	analysis := queryModel.QueryAnalysis{Intent: queryModel.Intent{Type: queryModel.IntentSummary}}
	huge := strings.Repeat("lorem ipsum ", 2000) //well past the whole budget on its own
	candidates := []queryModel.RetrievalCandidate{
		{Kind: queryModel.VectorCandidate, Text: "short passage that fits", Filename: "a.txt"},
		{Kind: queryModel.VectorCandidate, Text: huge, Filename: "b.txt"},
	}

	prompt := BuildPrompt("summarize", analysis, candidates, nil)
	assert.Contains(t, prompt, "short passage that fits")
	assert.NotContains(t, prompt, "b.txt")
	assert.LessOrEqual(t, len(prompt), config.PromptCharBudget)
}
