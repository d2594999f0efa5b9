package models

import "time"

// ReportTable is a deterministic table block inside a report section.
type ReportTable struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ReportSection is one content block of the assembled report.
type ReportSection struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Table   *ReportTable `json:"table,omitempty"`
}

// Report is the assembled model documentation.
type Report struct {
	BankName        string          `json:"bankName"`
	ModelName       string          `json:"modelName"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	GenerationNotes []string        `json:"generationNotes"`
	Sections        []ReportSection `json:"sections"`
	Coverage        OverallCoverage `json:"coverage"`
	Gaps            []string        `json:"gaps"`
}
