package report

import (
	"strings"

	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/models"
)

// NotProvided is shown for empty summary attributes.
const NotProvided = "Not provided"

// summaryFields are the intake fields listed in the model summary table.
var summaryFields = []struct{ section, field string }{
	{"general_info", "model_name"},
	{"general_info", "model_id"},
	{"general_info", "model_developer"},
	{"general_info", "model_type"},
	{"general_info", "model_owner"},
	{"general_info", "business_unit"},
	{"general_info", "risk_tier"},
	{"general_info", "model_status"},
	{"general_info", "implementation_date"},
	{"validation", "last_validation_date"},
	{"validation", "validation_outcome"},
	{"governance", "next_review_date"},
}

// ModelSummary builds the summary section directly from intake data.
func ModelSummary(data models.IntakeData) models.ReportSection {
	cat := schema.Default()
	table := &models.ReportTable{Headers: []string{"Attribute", "Value"}}
	for _, sf := range summaryFields {
		label := sf.field
		if e, ok := cat.Lookup(sf.section, sf.field); ok {
			label = e.Label
		}
		value := data.String(sf.section, sf.field)
		if value == "" {
			value = NotProvided
		}
		table.Rows = append(table.Rows, []string{label, value})
	}

	title := "Model Summary"
	for _, ts := range schema.ReportTemplate {
		if ts.ID == schema.ModelSummaryID {
			title = ts.Title
		}
	}
	return models.ReportSection{
		ID:      schema.ModelSummaryID,
		Title:   title,
		Content: markdownTable(table),
		Table:   table,
	}
}

func markdownTable(t *models.ReportTable) string {
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}
