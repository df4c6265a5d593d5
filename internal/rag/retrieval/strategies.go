package retrieval

import (
	"context"
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/smahat/docuchat/internal/config"
	"github.com/smahat/docuchat/internal/domain/commonModels"
	"github.com/smahat/docuchat/internal/domain/queryModel"
	"github.com/smahat/docuchat/internal/rag/vectorindex"
)

// Strategy is one independent way of locating candidate evidence. A
// strategy that fails returns an empty set, never an error that aborts
// the turn.
type Strategy interface {
	Name() string
	Retrieve(ctx context.Context, query string, documents []commonModels.Document, analysis queryModel.QueryAnalysis) []queryModel.RetrievalCandidate
}

// --- metadata listing ---

type metadataStrategy struct{}

func (s *metadataStrategy) Name() string { return "metadata" }

// Retrieve returns one candidate per document with filename and upload
// date only. Cheaper than content search and immune to false negatives
// when the user just wants an inventory.
func (s *metadataStrategy) Retrieve(ctx context.Context, query string, documents []commonModels.Document, analysis queryModel.QueryAnalysis) []queryModel.RetrievalCandidate {
	candidates := make([]queryModel.RetrievalCandidate, 0, len(documents))
	for _, doc := range documents {
		candidates = append(candidates, queryModel.RetrievalCandidate{
			Kind:       queryModel.MetadataCandidate,
			Text:       doc.Filename,
			DocumentId: doc.Id,
			Filename:   doc.Filename,
			UploadedAt: doc.UploadedAt,
			RawScore:   1.0,
		})
	}
	return candidates
}

// --- external vector search ---

type vectorStrategy struct {
	orchestrator *Orchestrator
	degraded     bool //set when the index was unreachable, not when it merely found nothing
}

func (s *vectorStrategy) Name() string { return "vector" }

func (s *vectorStrategy) Retrieve(ctx context.Context, query string, documents []commonModels.Document, analysis queryModel.QueryAnalysis) []queryModel.RetrievalCandidate {
	if s.orchestrator.index == nil {
		s.degraded = true
		return nil
	}

	var candidates []queryModel.RetrievalCandidate
	seen := make(map[string]bool)
	for _, reformulation := range reformulateQuery(query, analysis) {
		hits, err := s.searchWithRetry(ctx, reformulation)
		if err != nil {
			s.degraded = true
			s.orchestrator.logger.Warn("Vector search failed", "reformulation", reformulation, "error", err)
			continue
		}
		for _, hit := range hits {
			// The same point can come back for several reformulations.
			key := hit.DocumentId + "/" + hit.Text
			if seen[key] {
				continue
			}
			seen[key] = true
			candidates = append(candidates, queryModel.RetrievalCandidate{
				Kind:          queryModel.VectorCandidate,
				Text:          hit.Text,
				DocumentId:    hit.DocumentId,
				Filename:      hit.Filename,
				RawScore:      hit.Score,
				Reformulation: reformulation,
			})
		}
	}
	return candidates
}

func (s *vectorStrategy) searchWithRetry(ctx context.Context, query string) ([]vectorindex.Hit, error) {
	var hits []vectorindex.Hit

	operation := func() error {
		raw, err := s.orchestrator.index.Search(ctx, query, config.VectorSearchLimit)
		if err != nil {
			return err
		}
		hits = raw
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(config.VectorSearchRetryWait), config.VectorSearchRetryMax)
	err := backoff.Retry(operation, backoff.WithContext(b, ctx))
	return hits, err
}

// reformulateQuery produces the base query plus intent-specific
// variants; each hit is tagged with the reformulation that produced it.
func reformulateQuery(query string, analysis queryModel.QueryAnalysis) []string {
	reformulations := []string{query}
	if len(analysis.ExpandedKeywords) > 0 {
		reformulations = append(reformulations, strings.Join(analysis.ExpandedKeywords, " "))
	}
	switch analysis.Intent.Type {
	case queryModel.IntentDocumentList:
		reformulations = append(reformulations, query+" uploaded documents files list")
	case queryModel.IntentSummary:
		reformulations = append(reformulations, query+" summary overview main points")
	case queryModel.IntentExtraction:
		reformulations = append(reformulations, query+" details information facts")
	}
	return reformulations
}

// --- in-text keyword/sentence scan ---

type keywordStrategy struct {
	orchestrator *Orchestrator
}

func (s *keywordStrategy) Name() string { return "keyword" }

func (s *keywordStrategy) Retrieve(ctx context.Context, query string, documents []commonModels.Document, analysis queryModel.QueryAnalysis) []queryModel.RetrievalCandidate {
	if len(analysis.ExpandedKeywords) == 0 {
		return nil
	}

	var candidates []queryModel.RetrievalCandidate
	for _, doc := range documents {
		text, err := s.orchestrator.docs.GetDocumentText(ctx, doc.Id)
		if err != nil {
			s.orchestrator.logger.Warn("Could not load document text", "documentId", doc.Id, "error", err)
			continue
		}
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			score := scoreLine(line, analysis.ExpandedKeywords)
			if score <= 0 {
				continue
			}
			candidates = append(candidates, queryModel.RetrievalCandidate{
				Kind:       queryModel.TextCandidate,
				Text:       withContextLines(lines, i, config.KeywordContextLines),
				DocumentId: doc.Id,
				Filename:   doc.Filename,
				RawScore:   score,
				LineNumber: i + 1,
			})
		}
	}
	return candidates
}

// scoreLine weights longer keywords higher; an exact word-boundary
// match earns a bonus over a bare substring match.
func scoreLine(line string, keywords []string) float64 {
	lower := strings.ToLower(line)
	if strings.TrimSpace(lower) == "" {
		return 0
	}
	score := 0.0
	for _, kw := range keywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		score += float64(len(kw)) / 10.0
		if wordBoundaryMatch(lower, kw) {
			score += float64(len(kw)) / 20.0
		}
	}
	return score
}

func wordBoundaryMatch(line, keyword string) bool {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(line)
}

func withContextLines(lines []string, idx, window int) string {
	from := idx - window
	if from < 0 {
		from = 0
	}
	to := idx + window + 1
	if to > len(lines) {
		to = len(lines)
	}
	return strings.TrimSpace(strings.Join(lines[from:to], "\n"))
}

// --- entity-pattern scan ---

// Cue phrases per entity type, declarative so the scan is testable on
// its own.
var entityCueTable = map[string][]string{
	"skill":      {"skills:", "skills ", "proficient in", "experienced in", "technologies:", "expertise", "competencies"},
	"email":      {"email:", "e-mail", "@"},
	"phone":      {"phone:", "tel:", "mobile:", "contact number"},
	"education":  {"education:", "degree", "university", "bachelor", "master", "phd"},
	"experience": {"experience:", "worked at", "employment", "work history"},
	"person":     {"name:", "mr.", "ms.", "dr."},
}

type entityStrategy struct {
	orchestrator *Orchestrator
}

func (s *entityStrategy) Name() string { return "entity" }

func (s *entityStrategy) Retrieve(ctx context.Context, query string, documents []commonModels.Document, analysis queryModel.QueryAnalysis) []queryModel.RetrievalCandidate {
	wanted := requestedEntityTypes(analysis)
	if len(wanted) == 0 {
		return nil
	}

	var candidates []queryModel.RetrievalCandidate
	for _, doc := range documents {
		text, err := s.orchestrator.docs.GetDocumentText(ctx, doc.Id)
		if err != nil {
			continue
		}
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lower := strings.ToLower(line)
			for _, entityType := range wanted {
				score := 0.0
				for _, cue := range entityCueTable[entityType] {
					if strings.Contains(lower, cue) {
						score += 1.0
					}
				}
				if score <= 0 {
					continue
				}
				candidates = append(candidates, queryModel.RetrievalCandidate{
					Kind:       queryModel.EntityCandidate,
					Text:       withContextLines(lines, i, config.KeywordContextLines),
					DocumentId: doc.Id,
					Filename:   doc.Filename,
					RawScore:   score,
					LineNumber: i + 1,
					EntityType: entityType,
				})
			}
		}
	}
	return candidates
}

// requestedEntityTypes maps the analysis back onto the cue table, in a
// fixed order so results are reproducible.
func requestedEntityTypes(analysis queryModel.QueryAnalysis) []string {
	ordered := []string{"skill", "email", "phone", "education", "experience", "person"}
	mentioned := make(map[string]bool)
	for entityType := range analysis.Entities {
		mentioned[entityType] = true
	}
	for _, kw := range analysis.ExpandedKeywords {
		switch kw {
		case "skills", "skill", "expertise", "abilities", "competencies":
			mentioned["skill"] = true
		case "email", "emails":
			mentioned["email"] = true
		case "phone", "phones", "contact":
			mentioned["phone"] = true
		case "education", "degree", "university":
			mentioned["education"] = true
		case "experience", "background", "work":
			mentioned["experience"] = true
		}
	}

	var wanted []string
	for _, entityType := range ordered {
		if mentioned[entityType] {
			wanted = append(wanted, entityType)
		}
	}
	return wanted
}
