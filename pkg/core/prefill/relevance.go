package prefill

import (
	"sort"
	"strings"
	"unicode/utf8"

	"modelrisk_intake/pkg/core/utils"
	"modelrisk_intake/pkg/models"
)

// Relevance scoring weights.
const (
	filenameHitScore = 3
	textHitScore     = 1
)

// ScoreDocument adds 3 for every hint found in the filename and 1 for every
// hint found in the summary or excerpt. Matching is case-insensitive.
func ScoreDocument(doc models.ParsedDocument, hints []string) int {
	filename := strings.ToLower(doc.Filename)
	excerpt, _ := utils.Truncate(doc.ExtractedText, SectionExcerptChars)
	text := strings.ToLower(doc.DocumentSummary + "\n" + excerpt)

	score := 0
	for _, hint := range hints {
		hint = strings.ToLower(strings.TrimSpace(hint))
		if hint == "" {
			continue
		}
		if strings.Contains(filename, hint) {
			score += filenameHitScore
		}
		if strings.Contains(text, hint) {
			score += textHitScore
		}
	}
	return score
}

type scoredDoc struct {
	doc        models.ParsedDocument
	score      int
	excerptLen int
}

// SelectDocuments picks the documents a section pass reads. Two or fewer
// candidates are all used. Otherwise the top 4 positively scored documents
// are kept when at least two score above zero, else the top 3 overall.
// Ties go to the longer excerpt.
func SelectDocuments(docs []models.ParsedDocument, hints []string) []models.ParsedDocument {
	if len(docs) <= 2 {
		return docs
	}

	scored := make([]scoredDoc, 0, len(docs))
	positive := 0
	for _, d := range docs {
		s := ScoreDocument(d, hints)
		if s > 0 {
			positive++
		}
		n := utf8.RuneCountInString(d.ExtractedText)
		if n > SectionExcerptChars {
			n = SectionExcerptChars
		}
		scored = append(scored, scoredDoc{doc: d, score: s, excerptLen: n})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].excerptLen > scored[j].excerptLen
	})

	limit := 3
	if positive >= 2 {
		limit = 4
		if positive < limit {
			limit = positive
		}
	}
	if limit > len(scored) {
		limit = len(scored)
	}

	out := make([]models.ParsedDocument, 0, limit)
	for _, s := range scored[:limit] {
		out = append(out, s.doc)
	}
	return out
}
