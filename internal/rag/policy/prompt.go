package policy

import (
	"fmt"
	"strings"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/queryModel"
)

// Prompt instructions per intent. The listing variant tells the model
// to stick to the inventory it was handed; extraction asks for verbatim
// values rather than paraphrase.
var intentInstructions = map[queryModel.IntentType]string{
	queryModel.IntentDocumentList: "List the user's uploaded documents using only the inventory below. Give filename and upload date for each, nothing invented.",
	queryModel.IntentExtraction:   "Extract the requested values from the passages below. Quote values verbatim and say which document each came from. If a value is absent, say so.",
	queryModel.IntentSummary:      "Summarize the passages below into a short, faithful overview. Do not add facts that are not in the passages.",
	queryModel.IntentComparison:   "Compare the items the user asked about using only the passages below. Structure the answer around their differences and similarities.",
	queryModel.IntentSearch:       "Answer using the most relevant passages below and mention which document supports each point.",
	queryModel.IntentQuestion:     "Answer the question using only the passages and conversation context below. If the passages do not contain the answer, say you don't know.",
	queryModel.IntentGeneral:      "Respond helpfully. Use the passages and conversation context below when they are relevant.",
	queryModel.IntentCreative:     "Respond creatively. You may draw on the passages below for grounding but the style is yours.",
}

// BuildPrompt assembles the generation prompt: intent instructions,
// then relevant history, then evidence, then the question. Evidence is
// dropped lowest-ranked first when the character budget is exceeded.
func BuildPrompt(query string, analysis queryModel.QueryAnalysis, candidates []queryModel.RetrievalCandidate, history []queryModel.ConversationTurn) string {
	var b strings.Builder
	b.WriteString(intentInstructions[analysis.Intent.Type])
	if b.Len() == 0 {
		b.WriteString(intentInstructions[queryModel.IntentGeneral])
	}
	b.WriteString("\n\n")

	if len(history) > 0 {
		b.WriteString("Conversation so far:\n")
		b.WriteString(formatHistory(history))
		b.WriteString("\n")
	}

	evidence := formatEvidence(analysis.Intent.Type, candidates, config.PromptCharBudget-b.Len()-len(query)-64)
	if evidence != "" {
		b.WriteString(evidence)
		b.WriteString("\n")
	}

	b.WriteString("Question: ")
	b.WriteString(query)
	return b.String()
}

func formatHistory(history []queryModel.ConversationTurn) string {
	var b strings.Builder
	for _, turn := range history {
		b.WriteString("User: ")
		b.WriteString(turn.UserMessage)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.BotResponse)
		b.WriteString("\n")
	}
	return b.String()
}

// formatEvidence renders the top candidates within budget. Listing
// candidates render as an inventory line; content candidates are
// grouped under a heading per source document so the model can tell
// which passages belong together.
func formatEvidence(intent queryModel.IntentType, candidates []queryModel.RetrievalCandidate, budget int) string {
	if len(candidates) == 0 || budget <= 0 {
		return ""
	}
	top := candidates
	if len(top) > config.PromptTopCandidates {
		top = top[:config.PromptTopCandidates]
	}

	var b strings.Builder
	if intent == queryModel.IntentDocumentList {
		b.WriteString("Document inventory:\n")
		for _, c := range top {
			date := ""
			if !c.UploadedAt.IsZero() {
				date = c.UploadedAt.Format("2006-01-02")
			}
			line := fmt.Sprintf("- %s (uploaded %s)\n", c.Filename, date)
			if b.Len()+len(line) > budget {
				break
			}
			b.WriteString(line)
		}
		return b.String()
	}

	b.WriteString("Passages:\n")
	n := 0
	for _, group := range groupBySource(top) {
		heading := fmt.Sprintf("From %s:\n", group.source)
		wroteHeading := false
		for _, c := range group.candidates {
			line := fmt.Sprintf("[%d] %s\n", n+1, strings.TrimSpace(c.Text))
			need := len(line)
			if !wroteHeading {
				need += len(heading)
			}
			if b.Len()+need > budget {
				continue
			}
			if !wroteHeading {
				b.WriteString(heading)
				wroteHeading = true
			}
			b.WriteString(line)
			n++
		}
	}
	return b.String()
}

type sourceGroup struct {
	source     string
	candidates []queryModel.RetrievalCandidate
}

// groupBySource buckets candidates by document, documents ordered by
// the rank of their best candidate and passages keeping rank order
// within each bucket.
func groupBySource(candidates []queryModel.RetrievalCandidate) []sourceGroup {
	byKey := make(map[string]int)
	var groups []sourceGroup
	for _, c := range candidates {
		source := c.Filename
		if source == "" {
			source = c.DocumentId
		}
		idx, ok := byKey[source]
		if !ok {
			idx = len(groups)
			byKey[source] = idx
			groups = append(groups, sourceGroup{source: source})
		}
		groups[idx].candidates = append(groups[idx].candidates, c)
	}
	return groups
}
