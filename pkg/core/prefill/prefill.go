// Package prefill extracts intake field values from uploaded documents.
//
// A run is a fixed sequence of passes: one per form section over the most
// relevant documents, then up to two batches of still-empty scalar fields
// and one pass for still-empty tables over every document. All raw updates
// are sanitized together at the end, so earlier passes win on conflicts.
package prefill

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"modelrisk_intake/pkg/core/agent"
	"modelrisk_intake/pkg/core/llm"
	"modelrisk_intake/pkg/core/prompt"
	"modelrisk_intake/pkg/core/sanitize"
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/models"
)

const (
	// SectionExcerptChars is the amount of each document's text sent per pass.
	SectionExcerptChars = 8500
	SweepBatchSize      = 40
	MaxSweepBatches     = 2
)

// NoDocumentsNote is returned when no document has usable text.
const NoDocumentsNote = "No document text available for extraction."

// Result is the outcome of one extraction run.
type Result struct {
	FieldUpdates []models.FieldUpdate      `json:"fieldUpdates"`
	Notes        []string                  `json:"notes"`
	Diagnostics  models.PrefillDiagnostics `json:"diagnostics"`
}

type Extractor struct {
	exec     agent.Executor
	prompts  *prompt.Registry
	catalog  *schema.Catalog
	sections []schema.Section
	logger   *zap.Logger
}

func New(exec agent.Executor, prompts *prompt.Registry, catalog *schema.Catalog, logger *zap.Logger) *Extractor {
	if prompts == nil {
		prompts = prompt.Get()
	}
	if catalog == nil {
		catalog = schema.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		exec:     exec,
		prompts:  prompts,
		catalog:  catalog,
		sections: schema.Sections,
		logger:   logger,
	}
}

// SectionPasses builds one pass per section that has catalog fields.
func (e *Extractor) SectionPasses(docs []models.ParsedDocument) []Pass {
	var passes []Pass
	for _, s := range e.sections {
		fields := e.catalog.ForSection(s.ID)
		if len(fields) == 0 {
			continue
		}
		passes = append(passes, Pass{
			Name:      "section:" + s.ID,
			Kind:      KindSection,
			Section:   s.ID,
			Fields:    fields,
			Documents: SelectDocuments(docs, s.Hints),
		})
	}
	return passes
}

// SweepPasses builds the follow-up passes for fields without an accepted
// update so far.
func (e *Extractor) SweepPasses(docs []models.ParsedDocument, accepted []models.FieldUpdate) []Pass {
	filled := make(map[string]bool, len(accepted))
	for _, u := range accepted {
		filled[u.Key()] = true
	}

	var scalars, tables []schema.Entry
	for _, entry := range e.catalog.Entries() {
		if filled[entry.Key()] {
			continue
		}
		if entry.IsTable() {
			tables = append(tables, entry)
		} else {
			scalars = append(scalars, entry)
		}
	}

	var passes []Pass
	for batch := 0; batch < MaxSweepBatches && batch*SweepBatchSize < len(scalars); batch++ {
		end := (batch + 1) * SweepBatchSize
		if end > len(scalars) {
			end = len(scalars)
		}
		passes = append(passes, Pass{
			Name:      fmt.Sprintf("remaining_scalars:%d", batch+1),
			Kind:      KindScalarSweep,
			Fields:    scalars[batch*SweepBatchSize : end],
			Documents: docs,
		})
	}
	if len(tables) > 0 {
		passes = append(passes, Pass{
			Name:      "remaining_tables",
			Kind:      KindTableSweep,
			Fields:    tables,
			Documents: docs,
		})
	}
	return passes
}

// Run executes the section passes and the sweeps. Pass failures are recorded
// and skipped; missing credentials abort the run.
func (e *Extractor) Run(ctx context.Context, docs []models.ParsedDocument) (*Result, error) {
	if err := e.exec.Ready(agent.Prefill); err != nil {
		return nil, err
	}

	usable := make([]models.ParsedDocument, 0, len(docs))
	for _, d := range docs {
		if d.ExtractedText != "" {
			usable = append(usable, d)
		}
	}

	result := &Result{
		FieldUpdates: []models.FieldUpdate{},
		Notes:        []string{},
		Diagnostics: models.PrefillDiagnostics{
			RequestedFields: e.catalog.Len(),
			Passes:          []models.PrefillDiagnosticsPass{},
		},
	}
	if len(usable) == 0 {
		result.Notes = append(result.Notes, NoDocumentsNote)
		return result, nil
	}

	var raw []interface{}
	run := func(passes []Pass) error {
		for _, p := range passes {
			res := e.RunPass(ctx, p)
			if res.Err != nil {
				if errors.Is(res.Err, llm.ErrMissingCredentials) {
					return res.Err
				}
				e.logger.Warn("extraction pass failed", zap.String("pass", p.Name), zap.Error(res.Err))
			} else {
				e.logger.Info("extraction pass complete",
					zap.String("pass", p.Name),
					zap.Int("requested", len(p.Fields)),
					zap.Int("accepted", res.Accepted),
					zap.Int("docs", len(p.Documents)))
			}
			raw = append(raw, res.RawUpdates...)
			result.Notes = appendUnique(result.Notes, res.Notes...)
			result.Diagnostics.Passes = append(result.Diagnostics.Passes, res.Diagnostic())
		}
		return nil
	}

	if err := run(e.SectionPasses(usable)); err != nil {
		return nil, err
	}
	if err := run(e.SweepPasses(usable, sanitize.Sanitize(e.catalog, raw))); err != nil {
		return nil, err
	}

	result.FieldUpdates = sanitize.Sanitize(e.catalog, raw)
	result.Diagnostics.ExtractedUpdates = len(result.FieldUpdates)
	for _, u := range result.FieldUpdates {
		if u.Action == models.ActionAddRow {
			result.Diagnostics.TableRowsAdded++
		} else {
			result.Diagnostics.ScalarFieldsFilled++
		}
	}
	return result, nil
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		dup := false
		for _, existing := range list {
			if existing == item {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, item)
		}
	}
	return list
}
