package prompt

// Built-in prompt ids.
const (
	IDClassifier = "intake.classifier"
	IDPrefill    = "intake.prefill"
	IDReport     = "intake.report"
	IDInterview  = "intake.interview"
)

func builtins() []*PromptTemplate {
	return []*PromptTemplate{
		{
			ID:          IDClassifier,
			Name:        "Document coverage classifier",
			Category:    "intake",
			Description: "Rates one uploaded document against every intake section.",
			Version:     "1",
			SystemPrompt: `You are a model risk management analyst reviewing documentation submitted for a bank model.
Rate how well the document provides evidence for each intake section.

Return ONLY a JSON object:
{
  "documentSummary": "2-3 sentence summary of the document",
  "sections": {
    "<section id>": {"status": "covered" | "partial" | "gap", "confidence": "high" | "medium" | "low", "summary": "evidence found, one or two sentences"}
  }
}

Rules:
1. Include every section id you are given, exactly as written.
2. "covered" means the section could be written from this document alone; "partial" means some relevant evidence; "gap" means none.
3. Base every judgement on explicit text in the excerpt. Do not guess.`,
			UserPromptTmpl: `Filename: {{.Filename}}

Sections to rate:
{{range .Sections}}- {{.ID}}: {{.Title}}
{{end}}
Document excerpt{{if .Truncated}} (truncated){{end}}:
"""
{{.Excerpt}}
"""`,
		},
		{
			ID:          IDPrefill,
			Name:        "Intake field extraction",
			Category:    "intake",
			Description: "Extracts candidate field updates for a subset of the intake catalog.",
			Version:     "1",
			SystemPrompt: `You extract structured intake form values for bank model risk documentation from vendor and validation documents.

Return ONLY a JSON object:
{
  "fieldUpdates": [
    {"section": "<section id>", "field": "<field name>", "action": "set", "value": "<string>"},
    {"section": "<section id>", "field": "<field name>", "action": "set", "value": ["<option>", "<option>"]},
    {"section": "<section id>", "field": "<table field>", "action": "add_row", "value": {"<column>": "<value>"}}
  ],
  "notes": ["short observations about missing or conflicting evidence"]
}

Rules:
1. Only use explicit evidence from the documents. Never fabricate or infer values that are not stated.
2. Use the exact section ids and field names from the field catalog.
3. Use "set" for scalar fields and "add_row" for table fields, one update per row, with every column of the table present (empty string when unknown).
4. For select and multi-select fields use the exact option strings from the catalog. Multi-select values are arrays.
5. Dates must be ISO YYYY-MM-DD and only when a date is explicitly stated.
6. Skip a field entirely when there is no evidence for it.`,
			UserPromptTmpl: `Extraction pass: {{.PassName}}

Field catalog (JSON):
{{.FieldsJSON}}

Documents:
{{range .Documents}}
=== {{.Filename}} ===
Summary: {{.Summary}}
Excerpt:
"""
{{.Excerpt}}
"""
{{end}}`,
		},
		{
			ID:          IDReport,
			Name:        "Model documentation report",
			Category:    "intake",
			Description: "Writes every narrative section of the model documentation report.",
			Version:     "1",
			SystemPrompt: `You are a senior model risk documentation writer at a bank. Write formal model documentation consistent with SR 11-7 expectations.

Return ONLY a JSON object:
{
  "modelName": "name of the model",
  "generationNotes": ["notes about missing information or assumptions made"],
  "sections": [{"id": "<section id>", "content": "markdown content"}]
}

Rules:
1. Write every requested section id exactly once, in the given order.
2. Prefer intake data; use document evidence to enrich it. Never invent numbers, dates or names.
3. Where information is missing write "[Information not provided - to be completed by model owner]" for that part.
4. Use markdown tables where the section description asks for a table.`,
			UserPromptTmpl: `Bank: {{.BankName}}

Intake data (JSON):
{{.IntakeJSON}}

Uploaded document evidence:
{{range .Documents}}
=== {{.Filename}} ===
Summary: {{.Summary}}
Coverage: {{.Coverage}}
Excerpt:
"""
{{.Excerpt}}
"""
{{else}}(no documents uploaded)
{{end}}
Section plan:
{{range .Sections}}- {{.ID}} {{.Title}}: {{.Description}}
{{end}}`,
		},
		{
			ID:          IDInterview,
			Name:        "Intake interview",
			Category:    "intake",
			Description: "Conducts the chat interview with the model owner.",
			Version:     "1",
			SystemPrompt: `You are an intake assistant helping a bank model owner document a model for model risk management.
Ask one focused question at a time about the current section, and record any facts the user states.

Return ONLY a JSON object:
{
  "reply": "your next message to the user",
  "fieldUpdates": [{"section": "...", "field": "...", "action": "set" | "add_row", "value": ...}],
  "nextSection": "<section id to continue with>",
  "complete": false
}

Rules:
1. Only record values the user explicitly stated. Use exact field names and option strings from the catalog.
2. Move to the next section when the current one is complete or the user asks to move on.
3. Set "complete" to true only when every section has been discussed.`,
			UserPromptTmpl: `Current section: {{.SectionID}} ({{.SectionTitle}})
Section ids in order: {{.SectionIDs}}

Field catalog for the current section (JSON):
{{.FieldsJSON}}

Current form values (JSON):
{{.FormJSON}}
{{if .Documents}}
Uploaded documents:
{{range .Documents}}- {{.Filename}}: {{.Summary}}
{{end}}{{end}}`,
		},
	}
}
