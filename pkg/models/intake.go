package models

// Coverage status values shared by the classifier and the aggregator.
const (
	StatusCovered = "covered"
	StatusPartial = "partial"
	StatusGap     = "gap"
)

// Confidence values.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// CoverageEntry is one document's verdict for one section. Entries with status
// "gap" are never stored, so a missing entry means gap.
type CoverageEntry struct {
	Covered    bool   `json:"covered"`
	Confidence string `json:"confidence"`
	Summary    string `json:"summary"`
}

// ParsedDocument is an uploaded file after text extraction and classification.
type ParsedDocument struct {
	ID              string                   `json:"id"`
	Filename        string                   `json:"filename"`
	ExtractedText   string                   `json:"extractedText"`
	SectionsCovered []string                 `json:"sectionsCovered"`
	CoverageDetail  map[string]CoverageEntry `json:"coverageDetail"`
	DocumentSummary string                   `json:"documentSummary"`
}

// SectionCoverage is the aggregated verdict for one section across documents.
type SectionCoverage struct {
	Status     string   `json:"status"`
	Sources    []string `json:"sources"`
	Confidence string   `json:"confidence,omitempty"`
}

// OverallCoverage maps section id to its aggregated verdict.
type OverallCoverage map[string]SectionCoverage
