package schema

// ModelSummaryID is the report section built from intake data without the LLM.
const ModelSummaryID = "model_summary"

// TemplateSection is one section of the generated report.
type TemplateSection struct {
	ID          string
	Title       string
	Description string
	// Sources lists the intake sections whose data feeds this report section.
	Sources []string
}

// ReportTemplate is the report outline in output order.
var ReportTemplate = []TemplateSection{
	{ID: ModelSummaryID, Title: "Model Summary", Description: "Key inventory attributes of the model.", Sources: []string{"general_info"}},
	{ID: "1.1", Title: "Executive Summary", Description: "Short overview of the model, its purpose, risk tier and validation status.", Sources: []string{"general_info", "model_purpose", "validation"}},
	{ID: "2.1", Title: "Model Purpose and Intended Use", Description: "What the model does and which business decisions rely on it.", Sources: []string{"model_purpose"}},
	{ID: "2.2", Title: "Products and Regulatory Scope", Description: "Portfolios in scope and the regulatory requirements supported.", Sources: []string{"model_purpose"}},
	{ID: "3.1", Title: "Model Methodology", Description: "Modeling approach, estimation technique and calibration.", Sources: []string{"model_design"}},
	{ID: "3.2", Title: "Key Assumptions", Description: "Material assumptions and their justification.", Sources: []string{"model_design"}},
	{ID: "3.3", Title: "Model Variables", Description: "Final model drivers presented as a table with source and transformation.", Sources: []string{"model_design"}},
	{ID: "4.1", Title: "Data Sources", Description: "Development and production data sources presented as a table.", Sources: []string{"data"}},
	{ID: "4.2", Title: "Data Quality and Limitations", Description: "Data quality controls, sample period and known data gaps.", Sources: []string{"data"}},
	{ID: "5.1", Title: "Performance Testing", Description: "Performance metrics, results against thresholds and backtesting.", Sources: []string{"performance"}},
	{ID: "5.2", Title: "Benchmarking and Sensitivity", Description: "Benchmark comparisons and sensitivity analysis.", Sources: []string{"performance"}},
	{ID: "6.1", Title: "Implementation and Change Control", Description: "Production platform, implementation testing and change management.", Sources: []string{"implementation"}},
	{ID: "7.1", Title: "Limitations and Compensating Controls", Description: "Known limitations, overlays and mitigating controls.", Sources: []string{"limitations"}},
	{ID: "8.1", Title: "Independent Validation and Ongoing Monitoring", Description: "Validation outcome and findings, monitoring metrics and thresholds.", Sources: []string{"validation", "monitoring"}},
	{ID: "9.1", Title: "Governance and Approval", Description: "Approval, committee oversight, review cycle and policy references.", Sources: []string{"governance"}},
}

// NarrativeSections returns the template sections the LLM writes.
func NarrativeSections() []TemplateSection {
	out := make([]TemplateSection, 0, len(ReportTemplate))
	for _, s := range ReportTemplate {
		if s.ID == ModelSummaryID {
			continue
		}
		out = append(out, s)
	}
	return out
}
