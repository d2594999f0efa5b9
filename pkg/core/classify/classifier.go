// Package classify rates each uploaded document against every intake section.
package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"modelrisk_intake/pkg/core/agent"
	"modelrisk_intake/pkg/core/llm"
	"modelrisk_intake/pkg/core/prompt"
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/core/utils"
	"modelrisk_intake/pkg/models"
)

// MaxExcerptChars is the amount of document text sent with a classification request.
const MaxExcerptChars = 12000

const (
	DefaultDocumentSummary = "Document processed and classified."
	DefaultEntrySummary    = "No clear evidence found."
	FailedDocumentSummary  = "Failed to process this document."
)

// Input is one document handed to ClassifyAll. Err records an upstream
// extraction failure; such documents become failure placeholders.
type Input struct {
	Filename string
	Text     string
	Err      error
}

type Classifier struct {
	exec     agent.Executor
	prompts  *prompt.Registry
	sections []schema.Section
	logger   *zap.Logger
}

func New(exec agent.Executor, prompts *prompt.Registry, logger *zap.Logger) *Classifier {
	if prompts == nil {
		prompts = prompt.Get()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		exec:     exec,
		prompts:  prompts,
		sections: schema.Sections,
		logger:   logger,
	}
}

// Classify issues one LLM request for the document and rebuilds a coverage
// map over every known section. Only the LLM call itself can fail.
func (c *Classifier) Classify(ctx context.Context, filename, text string) (models.ParsedDocument, error) {
	pt := c.prompts.MustGet(prompt.IDClassifier)

	excerpt, truncated := utils.Truncate(text, MaxExcerptChars)
	type sectionRef struct{ ID, Title string }
	refs := make([]sectionRef, 0, len(c.sections))
	for _, s := range c.sections {
		refs = append(refs, sectionRef{s.ID, s.Title})
	}

	userPrompt, err := prompt.RenderUserPrompt(pt, map[string]interface{}{
		"Filename":  filename,
		"Sections":  refs,
		"Excerpt":   excerpt,
		"Truncated": truncated,
	})
	if err != nil {
		return models.ParsedDocument{}, fmt.Errorf("render classifier prompt: %w", err)
	}

	raw, err := c.exec.Execute(ctx, agent.Classifier, []llm.Message{
		{Role: llm.RoleSystem, Content: pt.SystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt},
	})
	if err != nil {
		return models.ParsedDocument{}, fmt.Errorf("classify %s: %w", filename, err)
	}

	doc := c.buildDocument(filename, text, utils.ParseObject(raw))
	c.logger.Info("document classified",
		zap.String("file", filename),
		zap.Strings("sections_covered", doc.SectionsCovered),
		zap.Int("sections_with_evidence", len(doc.CoverageDetail)))
	return doc, nil
}

func (c *Classifier) buildDocument(filename, text string, obj map[string]interface{}) models.ParsedDocument {
	summary := utils.GetString(obj, "documentSummary")
	if summary == "" {
		summary = DefaultDocumentSummary
	}

	rawSections := utils.GetObject(obj, "sections")
	detail := make(map[string]models.CoverageEntry)
	covered := []string{}
	for _, s := range c.sections {
		status, entry := normalizeEntry(rawSections[s.ID])
		if status == models.StatusGap {
			continue
		}
		detail[s.ID] = entry
		if entry.Covered {
			covered = append(covered, s.ID)
		}
	}

	return models.ParsedDocument{
		ID:              uuid.New().String(),
		Filename:        filename,
		ExtractedText:   text,
		SectionsCovered: covered,
		CoverageDetail:  detail,
		DocumentSummary: summary,
	}
}

// normalizeEntry validates one section verdict. Anything missing or
// malformed is a gap with low confidence.
func normalizeEntry(raw interface{}) (string, models.CoverageEntry) {
	entry := models.CoverageEntry{Confidence: models.ConfidenceLow, Summary: DefaultEntrySummary}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return models.StatusGap, entry
	}

	status := strings.ToLower(strings.TrimSpace(utils.GetString(obj, "status")))
	switch status {
	case models.StatusCovered, models.StatusPartial, models.StatusGap:
	default:
		return models.StatusGap, entry
	}

	switch conf := strings.ToLower(strings.TrimSpace(utils.GetString(obj, "confidence"))); conf {
	case models.ConfidenceHigh, models.ConfidenceMedium, models.ConfidenceLow:
		entry.Confidence = conf
	}
	if summary := utils.GetString(obj, "summary"); summary != "" {
		entry.Summary = summary
	}
	entry.Covered = status == models.StatusCovered
	return status, entry
}

// Failed is the placeholder for a document whose extraction or
// classification failed.
func Failed(filename string) models.ParsedDocument {
	return models.ParsedDocument{
		ID:              uuid.New().String(),
		Filename:        filename,
		ExtractedText:   "",
		SectionsCovered: []string{},
		CoverageDetail:  map[string]models.CoverageEntry{},
		DocumentSummary: FailedDocumentSummary,
	}
}

// ClassifyAll classifies documents one after another in input order. A
// failure for one document yields its placeholder; only missing credentials
// abort the whole batch.
func (c *Classifier) ClassifyAll(ctx context.Context, inputs []Input) ([]models.ParsedDocument, error) {
	if err := c.exec.Ready(agent.Classifier); err != nil {
		return nil, err
	}

	docs := make([]models.ParsedDocument, 0, len(inputs))
	for _, in := range inputs {
		if in.Err != nil {
			c.logger.Warn("document extraction failed", zap.String("file", in.Filename), zap.Error(in.Err))
			docs = append(docs, Failed(in.Filename))
			continue
		}
		doc, err := c.Classify(ctx, in.Filename, in.Text)
		if err != nil {
			if errors.Is(err, llm.ErrMissingCredentials) {
				return nil, err
			}
			c.logger.Warn("document classification failed", zap.String("file", in.Filename), zap.Error(err))
			docs = append(docs, Failed(in.Filename))
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
