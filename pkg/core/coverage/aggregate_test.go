package coverage

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/models"
)

func TestAggregate_StatusesAndSources(t *testing.T) {
	docs := []models.ParsedDocument{
		{Filename: "vendor.pdf", CoverageDetail: map[string]models.CoverageEntry{
			"model_design": {Covered: false, Confidence: models.ConfidenceMedium},
			"data":         {Covered: false, Confidence: models.ConfidenceLow},
		}},
		{Filename: "validation.docx", CoverageDetail: map[string]models.CoverageEntry{
			"model_design": {Covered: true, Confidence: models.ConfidenceLow},
			"validation":   {Covered: true, Confidence: models.ConfidenceHigh},
		}},
	}

	overall, gaps := Aggregate(docs)

	want := map[string]models.SectionCoverage{
		"model_design": {Status: models.StatusCovered, Sources: []string{"vendor.pdf", "validation.docx"}, Confidence: models.ConfidenceMedium},
		"data":         {Status: models.StatusPartial, Sources: []string{"vendor.pdf"}, Confidence: models.ConfidenceLow},
		"validation":   {Status: models.StatusCovered, Sources: []string{"validation.docx"}, Confidence: models.ConfidenceHigh},
	}
	for id, w := range want {
		if diff := cmp.Diff(w, overall[id]); diff != "" {
			t.Errorf("section %s mismatch (-want +got):\n%s", id, diff)
		}
	}

	wantGaps := []string{"general_info", "model_purpose", "performance", "implementation", "limitations", "monitoring", "governance"}
	if diff := cmp.Diff(wantGaps, gaps); diff != "" {
		t.Errorf("gaps mismatch (-want +got):\n%s", diff)
	}
	if len(overall) != len(schema.SectionIDs()) {
		t.Errorf("expected every section in overall coverage, got %d", len(overall))
	}
	if overall["governance"].Status != models.StatusGap || overall["governance"].Confidence != "" {
		t.Errorf("unexpected gap entry %+v", overall["governance"])
	}
}

func TestAggregate_NoDocuments(t *testing.T) {
	overall, gaps := Aggregate(nil)
	if len(gaps) != len(schema.SectionIDs()) {
		t.Fatalf("expected all sections as gaps, got %v", gaps)
	}
	for _, id := range schema.SectionIDs() {
		if overall[id].Status != models.StatusGap {
			t.Errorf("%s: expected gap, got %s", id, overall[id].Status)
		}
	}
}

func TestRank_Monotonic(t *testing.T) {
	if !(Rank(models.ConfidenceHigh) > Rank(models.ConfidenceMedium) && Rank(models.ConfidenceMedium) > Rank(models.ConfidenceLow)) {
		t.Error("rank must order high > medium > low")
	}
	if Rank("bogus") != Rank(models.ConfidenceLow) {
		t.Error("unknown confidence should rank as low")
	}
}

func genEntry() gopter.Gen {
	return gopter.CombineGens(
		gen.Bool(),
		gen.OneConstOf(models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow),
		gen.Bool(),
	).Map(func(v []interface{}) *models.CoverageEntry {
		if !v[2].(bool) {
			return nil
		}
		return &models.CoverageEntry{Covered: v[0].(bool), Confidence: v[1].(string)}
	})
}

func TestAggregate_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("status and confidence follow contributing entries", prop.ForAll(
		func(entries []*models.CoverageEntry) bool {
			var docs []models.ParsedDocument
			maxRank := 0
			anyCovered := false
			contributing := 0
			for i, e := range entries {
				doc := models.ParsedDocument{Filename: string(rune('a' + i%26)), CoverageDetail: map[string]models.CoverageEntry{}}
				if e != nil {
					doc.CoverageDetail["data"] = *e
					contributing++
					anyCovered = anyCovered || e.Covered
					if Rank(e.Confidence) > maxRank {
						maxRank = Rank(e.Confidence)
					}
				}
				docs = append(docs, doc)
			}

			overall, gaps := AggregateSections([]string{"data"}, docs)
			got := overall["data"]
			switch {
			case contributing == 0:
				return got.Status == models.StatusGap && len(gaps) == 1 && gaps[0] == "data"
			case anyCovered:
				return got.Status == models.StatusCovered && len(gaps) == 0 &&
					Rank(got.Confidence) == maxRank && len(got.Sources) == contributing
			default:
				return got.Status == models.StatusPartial && len(gaps) == 0 &&
					Rank(got.Confidence) == maxRank && len(got.Sources) == contributing
			}
		},
		gen.SliceOf(genEntry()),
	))

	properties.TestingRun(t)
}
