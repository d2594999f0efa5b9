package prefill

import (
	"context"
	"encoding/json"
	"fmt"

	"modelrisk_intake/pkg/core/agent"
	"modelrisk_intake/pkg/core/llm"
	"modelrisk_intake/pkg/core/prompt"
	"modelrisk_intake/pkg/core/sanitize"
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/core/utils"
	"modelrisk_intake/pkg/models"
)

// Pass kinds, in the order they run.
const (
	KindSection     = "section"
	KindScalarSweep = "scalar_sweep"
	KindTableSweep  = "table_sweep"
)

// Pass describes one bounded extraction request.
type Pass struct {
	Name      string
	Kind      string
	Section   string
	Fields    []schema.Entry
	Documents []models.ParsedDocument
}

// PassResult is what one pass produced. Updates are still unsanitized.
type PassResult struct {
	Pass       Pass
	RawUpdates []interface{}
	Notes      []string
	Accepted   int
	Err        error
}

// Diagnostic converts the result into its diagnostics record.
func (r PassResult) Diagnostic() models.PrefillDiagnosticsPass {
	return models.PrefillDiagnosticsPass{
		Name:             r.Pass.Name,
		Section:          r.Pass.Section,
		RequestedFields:  len(r.Pass.Fields),
		ExtractedUpdates: r.Accepted,
		NoteCount:        len(r.Notes),
		DocCount:         len(r.Pass.Documents),
		Failed:           r.Err != nil,
	}
}

type promptDoc struct {
	Filename string
	Summary  string
	Excerpt  string
}

// RunPass issues the pass's single LLM request. A failed call yields a
// result with no updates, one failure note and Err set.
func (e *Extractor) RunPass(ctx context.Context, p Pass) PassResult {
	res := PassResult{Pass: p}

	userPrompt, system, err := e.renderPass(p)
	if err == nil {
		var raw string
		raw, err = e.exec.Execute(ctx, agent.Prefill, []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: userPrompt},
		})
		if err == nil {
			obj := utils.ParseObject(raw)
			res.RawUpdates = utils.GetArray(obj, "fieldUpdates")
			res.Notes = utils.StringList(utils.GetArray(obj, "notes"))
			res.Accepted = len(sanitize.Sanitize(e.catalog, res.RawUpdates))
			return res
		}
	}

	res.Err = err
	res.Notes = []string{fmt.Sprintf("Extraction pass %q failed: %v", p.Name, err)}
	return res
}

func (e *Extractor) renderPass(p Pass) (string, string, error) {
	pt, err := e.prompts.GetPrompt(prompt.IDPrefill)
	if err != nil {
		return "", "", err
	}
	fieldsJSON, err := json.MarshalIndent(p.Fields, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode field catalog: %w", err)
	}
	docs := make([]promptDoc, 0, len(p.Documents))
	for _, d := range p.Documents {
		excerpt, _ := utils.Truncate(d.ExtractedText, SectionExcerptChars)
		docs = append(docs, promptDoc{Filename: d.Filename, Summary: d.DocumentSummary, Excerpt: excerpt})
	}
	userPrompt, err := prompt.RenderUserPrompt(pt, map[string]interface{}{
		"PassName":   p.Name,
		"FieldsJSON": string(fieldsJSON),
		"Documents":  docs,
	})
	if err != nil {
		return "", "", err
	}
	return userPrompt, pt.SystemPrompt, nil
}
