// Package report assembles the model documentation report from intake data
// and uploaded document evidence.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"modelrisk_intake/pkg/core/agent"
	"modelrisk_intake/pkg/core/coverage"
	"modelrisk_intake/pkg/core/llm"
	"modelrisk_intake/pkg/core/prompt"
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/core/utils"
	"modelrisk_intake/pkg/models"
)

const (
	// ExcerptChars is the amount of each document's text included in the report request.
	ExcerptChars = 4500
	// Placeholder fills any section the LLM left out or left empty.
	Placeholder = "[Information not provided - to be completed by model owner]"
)

// Request is the input of one report assembly.
type Request struct {
	BankName   string                  `json:"bankName"`
	IntakeData models.IntakeData       `json:"intakeData"`
	Documents  []models.ParsedDocument `json:"documents"`
}

type Assembler struct {
	exec    agent.Executor
	prompts *prompt.Registry
	logger  *zap.Logger
	now     func() time.Time
}

func New(exec agent.Executor, prompts *prompt.Registry, logger *zap.Logger) *Assembler {
	if prompts == nil {
		prompts = prompt.Get()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{exec: exec, prompts: prompts, logger: logger, now: time.Now}
}

type promptDoc struct {
	Filename string
	Summary  string
	Coverage string
	Excerpt  string
}

// Assemble writes every narrative section with one LLM request and prepends
// the model summary table built from intake data.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*models.Report, error) {
	if err := a.exec.Ready(agent.Report); err != nil {
		return nil, err
	}
	if req.IntakeData == nil {
		req.IntakeData = models.IntakeData{}
	}

	pt, err := a.prompts.GetPrompt(prompt.IDReport)
	if err != nil {
		return nil, err
	}
	userPrompt, err := a.renderPrompt(pt, req)
	if err != nil {
		return nil, err
	}

	raw, err := a.exec.Execute(ctx, agent.Report, []llm.Message{
		{Role: llm.RoleSystem, Content: pt.SystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	})
	if err != nil {
		return nil, fmt.Errorf("report generation: %w", err)
	}
	obj := utils.ParseObject(raw)

	written := make(map[string]string)
	for _, item := range utils.GetArray(obj, "sections") {
		sec, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		id := utils.GetString(sec, "id")
		content, _ := sec["content"].(string)
		if id != "" {
			// Later duplicates replace earlier ones.
			written[id] = content
		}
	}

	overall, gaps := coverage.Aggregate(req.Documents)
	rep := &models.Report{
		BankName:        strings.TrimSpace(req.BankName),
		ModelName:       utils.GetString(obj, "modelName"),
		GeneratedAt:     a.now().UTC(),
		GenerationNotes: utils.StringList(utils.GetArray(obj, "generationNotes")),
		Coverage:        overall,
		Gaps:            gaps,
	}
	if rep.ModelName == "" {
		rep.ModelName = FallbackModelName(req.IntakeData)
	}
	if rep.GenerationNotes == nil {
		rep.GenerationNotes = []string{}
	}

	rep.Sections = append(rep.Sections, ModelSummary(req.IntakeData))
	missing := 0
	for _, ts := range schema.NarrativeSections() {
		content := utils.CleanMarkdown(written[ts.ID])
		if content == "" {
			content = Placeholder
			missing++
		}
		rep.Sections = append(rep.Sections, models.ReportSection{ID: ts.ID, Title: ts.Title, Content: content})
	}

	a.logger.Info("report assembled",
		zap.String("model", rep.ModelName),
		zap.Int("sections", len(rep.Sections)),
		zap.Int("placeholders", missing),
		zap.Int("documents", len(req.Documents)))
	return rep, nil
}

func (a *Assembler) renderPrompt(pt *prompt.PromptTemplate, req Request) (string, error) {
	intakeJSON, err := json.MarshalIndent(req.IntakeData, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode intake data: %w", err)
	}

	docs := make([]promptDoc, 0, len(req.Documents))
	for _, d := range req.Documents {
		excerpt, _ := utils.Truncate(d.ExtractedText, ExcerptChars)
		docs = append(docs, promptDoc{
			Filename: d.Filename,
			Summary:  d.DocumentSummary,
			Coverage: describeCoverage(d),
			Excerpt:  excerpt,
		})
	}

	return prompt.RenderUserPrompt(pt, map[string]interface{}{
		"BankName":   req.BankName,
		"IntakeJSON": string(intakeJSON),
		"Documents":  docs,
		"Sections":   schema.NarrativeSections(),
	})
}

// describeCoverage lists a document's non-gap sections in form order.
func describeCoverage(d models.ParsedDocument) string {
	var parts []string
	for _, id := range schema.SectionIDs() {
		entry, ok := d.CoverageDetail[id]
		if !ok {
			continue
		}
		status := models.StatusPartial
		if entry.Covered {
			status = models.StatusCovered
		}
		parts = append(parts, fmt.Sprintf("%s: %s (%s)", id, status, entry.Confidence))
	}
	if len(parts) == 0 {
		return "no sections evidenced"
	}
	return strings.Join(parts, "; ")
}

// FallbackModelName builds "{developer} {type} Documentation" from intake data.
// With neither value present it returns "Model Documentation".
func FallbackModelName(data models.IntakeData) string {
	var parts []string
	for _, field := range []string{"model_developer", "model_type"} {
		if v := data.String("general_info", field); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "Model Documentation"
	}
	return strings.Join(append(parts, "Documentation"), " ")
}
