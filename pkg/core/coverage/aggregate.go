// Package coverage folds per-document classifications into one verdict per section.
package coverage

import (
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/models"
)

// Rank orders confidence values. Unknown values rank as low.
func Rank(confidence string) int {
	switch confidence {
	case models.ConfidenceHigh:
		return 3
	case models.ConfidenceMedium:
		return 2
	default:
		return 1
	}
}

// Aggregate computes the overall coverage over the fixed section order and
// returns the ids of sections with no contributing document.
func Aggregate(docs []models.ParsedDocument) (models.OverallCoverage, []string) {
	return AggregateSections(schema.SectionIDs(), docs)
}

// AggregateSections is Aggregate over an explicit section list.
func AggregateSections(sectionIDs []string, docs []models.ParsedDocument) (models.OverallCoverage, []string) {
	overall := make(models.OverallCoverage, len(sectionIDs))
	gaps := []string{}

	for _, id := range sectionIDs {
		var (
			sources []string
			covered bool
			best    string
		)
		for _, doc := range docs {
			entry, ok := doc.CoverageDetail[id]
			if !ok {
				continue
			}
			sources = append(sources, doc.Filename)
			covered = covered || entry.Covered
			conf := entry.Confidence
			if conf == "" {
				conf = models.ConfidenceLow
			}
			if best == "" || Rank(conf) > Rank(best) {
				best = conf
			}
		}

		if len(sources) == 0 {
			overall[id] = models.SectionCoverage{Status: models.StatusGap, Sources: []string{}}
			gaps = append(gaps, id)
			continue
		}

		status := models.StatusPartial
		if covered {
			status = models.StatusCovered
		}
		overall[id] = models.SectionCoverage{Status: status, Sources: sources, Confidence: best}
	}
	return overall, gaps
}
