// Package schema holds the static intake schema: the ordered form sections,
// their fields, the per-section relevance hints and the report template.
package schema

// FieldType is the input type of an intake field.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeTextarea    FieldType = "textarea"
	TypeSelect      FieldType = "select"
	TypeDate        FieldType = "date"
	TypeMultiSelect FieldType = "multi-select"
	TypeTable       FieldType = "table"
)

// Field is one input of an intake section.
type Field struct {
	Name         string
	Label        string
	Type         FieldType
	Options      []string
	TableColumns []string
	AIHint       string
}

// Section is an ordered subdivision of the intake form.
type Section struct {
	ID     string
	Title  string
	Hints  []string
	Fields []Field
}

var riskTiers = []string{"Tier 1 (High)", "Tier 2 (Medium)", "Tier 3 (Low)"}

// Sections is the intake form in its fixed order. The classifier evaluates
// every document against exactly these ids.
var Sections = []Section{
	{
		ID:    "general_info",
		Title: "General Information",
		Hints: []string{"overview", "summary", "inventory", "model card", "vendor", "profile"},
		Fields: []Field{
			{Name: "model_name", Label: "Model Name", Type: TypeText, AIHint: "Official name of the model as used in the model inventory."},
			{Name: "model_id", Label: "Model ID", Type: TypeText, AIHint: "Inventory identifier, e.g. MRM-0042."},
			{Name: "model_developer", Label: "Model Developer / Vendor", Type: TypeText, AIHint: "Internal team or third-party vendor that built the model."},
			{Name: "model_type", Label: "Model Type", Type: TypeSelect, Options: []string{"PD", "LGD", "EAD", "CECL / Allowance", "Stress Testing", "AML / Fraud", "Pricing", "Other"}, AIHint: "Primary model category."},
			{Name: "model_owner", Label: "Model Owner", Type: TypeText, AIHint: "Accountable business owner."},
			{Name: "business_unit", Label: "Business Unit", Type: TypeText, AIHint: "Line of business using the model."},
			{Name: "risk_tier", Label: "Risk Tier", Type: TypeSelect, Options: riskTiers, AIHint: "Model risk tier / materiality rating."},
			{Name: "model_status", Label: "Model Status", Type: TypeSelect, Options: []string{"In Development", "In Production", "Retired"}, AIHint: "Lifecycle status."},
			{Name: "implementation_date", Label: "Implementation Date", Type: TypeDate, AIHint: "Date the model went live."},
		},
	},
	{
		ID:    "model_purpose",
		Title: "Model Purpose & Use",
		Hints: []string{"purpose", "use case", "intended use", "scope", "business", "regulatory"},
		Fields: []Field{
			{Name: "purpose", Label: "Model Purpose", Type: TypeTextarea, AIHint: "What the model estimates or decides."},
			{Name: "intended_use", Label: "Intended Use", Type: TypeTextarea, AIHint: "Business decisions and processes that consume the output."},
			{Name: "products_covered", Label: "Products / Portfolios Covered", Type: TypeMultiSelect, Options: []string{"Commercial Loans", "Consumer Loans", "Mortgages", "Credit Cards", "Deposits", "Securities", "Derivatives"}, AIHint: "Portfolios in scope."},
			{Name: "regulatory_requirements", Label: "Regulatory Requirements", Type: TypeMultiSelect, Options: []string{"CECL", "CCAR / DFAST", "Basel III", "IFRS 9", "BSA / AML", "SR 11-7"}, AIHint: "Regulations or guidance the model supports."},
		},
	},
	{
		ID:    "model_design",
		Title: "Model Design & Methodology",
		Hints: []string{"methodology", "design", "development", "pd", "lgd", "ead", "calibration", "specification", "technical"},
		Fields: []Field{
			{Name: "methodology", Label: "Methodology", Type: TypeTextarea, AIHint: "Modeling technique and estimation approach."},
			{Name: "model_approach", Label: "Model Approach", Type: TypeSelect, Options: []string{"Statistical / Econometric", "Machine Learning", "Expert Judgment", "Hybrid", "Vendor Black-Box"}, AIHint: "Overall approach family."},
			{Name: "key_assumptions", Label: "Key Assumptions", Type: TypeTextarea, AIHint: "Material assumptions stated by the developer."},
			{Name: "calibration_approach", Label: "Calibration Approach", Type: TypeTextarea, AIHint: "How outputs are calibrated to observed rates."},
			{Name: "model_variables", Label: "Model Variables", Type: TypeTable, TableColumns: []string{"Variable", "Description", "Source", "Transformation"}, AIHint: "Input drivers used in the final model."},
		},
	},
	{
		ID:    "data",
		Title: "Data",
		Hints: []string{"data", "dictionary", "lineage", "source", "etl", "sample"},
		Fields: []Field{
			{Name: "data_sources", Label: "Data Sources", Type: TypeTable, TableColumns: []string{"Source Name", "Description", "Time Period", "Owner"}, AIHint: "Systems and datasets feeding development and production."},
			{Name: "data_period_start", Label: "Development Data Start", Type: TypeDate, AIHint: "First observation date of the development sample."},
			{Name: "data_period_end", Label: "Development Data End", Type: TypeDate, AIHint: "Last observation date of the development sample."},
			{Name: "data_quality_checks", Label: "Data Quality Checks", Type: TypeTextarea, AIHint: "Completeness, accuracy and reconciliation controls."},
			{Name: "data_limitations", Label: "Data Limitations", Type: TypeTextarea, AIHint: "Known gaps or proxies in the data."},
		},
	},
	{
		ID:    "performance",
		Title: "Performance Testing",
		Hints: []string{"performance", "backtest", "testing", "results", "accuracy", "benchmark"},
		Fields: []Field{
			{Name: "performance_metrics", Label: "Performance Metrics", Type: TypeMultiSelect, Options: []string{"AUC / Gini", "KS Statistic", "Accuracy Ratio", "RMSE", "MAPE", "Backtesting", "Benchmarking", "Sensitivity Analysis"}, AIHint: "Metrics used to assess performance."},
			{Name: "performance_results", Label: "Performance Results", Type: TypeTable, TableColumns: []string{"Metric", "Value", "Threshold", "Result"}, AIHint: "Reported metric values against thresholds."},
			{Name: "backtesting_summary", Label: "Backtesting Summary", Type: TypeTextarea, AIHint: "Outcome of out-of-time or out-of-sample backtests."},
		},
	},
	{
		ID:    "implementation",
		Title: "Implementation",
		Hints: []string{"implementation", "deployment", "platform", "uat", "production", "change"},
		Fields: []Field{
			{Name: "platform", Label: "Implementation Platform", Type: TypeText, AIHint: "System or platform running the model."},
			{Name: "implementation_testing", Label: "Implementation Testing", Type: TypeTextarea, AIHint: "Parallel runs, code review and reconciliation of production output."},
			{Name: "user_acceptance_date", Label: "User Acceptance Date", Type: TypeDate, AIHint: "Date UAT was signed off."},
			{Name: "change_control", Label: "Change Control", Type: TypeTextarea, AIHint: "How model changes are approved and deployed."},
		},
	},
	{
		ID:    "limitations",
		Title: "Limitations & Compensating Controls",
		Hints: []string{"limitation", "weakness", "overlay", "adjustment", "control"},
		Fields: []Field{
			{Name: "known_limitations", Label: "Known Limitations", Type: TypeTable, TableColumns: []string{"Limitation", "Impact", "Mitigation"}, AIHint: "Documented limitations and their mitigations."},
			{Name: "compensating_controls", Label: "Compensating Controls", Type: TypeTextarea, AIHint: "Controls offsetting model weaknesses."},
			{Name: "overlays", Label: "Management Overlays", Type: TypeTextarea, AIHint: "Qualitative adjustments applied on top of model output."},
		},
	},
	{
		ID:    "validation",
		Title: "Independent Validation",
		Hints: []string{"validation", "review", "finding", "mrm", "independent", "audit"},
		Fields: []Field{
			{Name: "last_validation_date", Label: "Last Validation Date", Type: TypeDate, AIHint: "Completion date of the latest validation."},
			{Name: "validator", Label: "Validator", Type: TypeText, AIHint: "Validation team or firm."},
			{Name: "validation_outcome", Label: "Validation Outcome", Type: TypeSelect, Options: []string{"Approved", "Approved with Conditions", "Not Approved"}, AIHint: "Overall validation conclusion."},
			{Name: "validation_findings", Label: "Validation Findings", Type: TypeTable, TableColumns: []string{"Finding", "Severity", "Owner", "Due Date", "Status"}, AIHint: "Issues raised by validation."},
		},
	},
	{
		ID:    "monitoring",
		Title: "Ongoing Monitoring",
		Hints: []string{"monitoring", "ongoing", "threshold", "kpi", "tracking", "quarterly"},
		Fields: []Field{
			{Name: "monitoring_frequency", Label: "Monitoring Frequency", Type: TypeSelect, Options: []string{"Monthly", "Quarterly", "Semi-Annually", "Annually"}, AIHint: "How often monitoring is performed."},
			{Name: "monitoring_metrics", Label: "Monitoring Metrics", Type: TypeTextarea, AIHint: "Metrics tracked in ongoing monitoring."},
			{Name: "thresholds", Label: "Monitoring Thresholds", Type: TypeTable, TableColumns: []string{"Metric", "Green", "Amber", "Red"}, AIHint: "Traffic-light thresholds per metric."},
			{Name: "escalation_process", Label: "Escalation Process", Type: TypeTextarea, AIHint: "What happens on a threshold breach."},
		},
	},
	{
		ID:    "governance",
		Title: "Governance & Approval",
		Hints: []string{"governance", "approval", "committee", "policy", "charter", "sign-off"},
		Fields: []Field{
			{Name: "model_approver", Label: "Model Approver", Type: TypeText, AIHint: "Person or body that approved use."},
			{Name: "approval_date", Label: "Approval Date", Type: TypeDate, AIHint: "Date of approval for use."},
			{Name: "next_review_date", Label: "Next Review Date", Type: TypeDate, AIHint: "Scheduled date of the next periodic review."},
			{Name: "governance_committee", Label: "Governance Committee", Type: TypeText, AIHint: "Committee overseeing the model."},
			{Name: "policy_references", Label: "Policy References", Type: TypeTextarea, AIHint: "Internal policies and standards that apply."},
		},
	},
}

// SectionIDs returns the section ids in form order.
func SectionIDs() []string {
	ids := make([]string, len(Sections))
	for i, s := range Sections {
		ids[i] = s.ID
	}
	return ids
}

// SectionByID finds a section by id.
func SectionByID(id string) (Section, bool) {
	for _, s := range Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
