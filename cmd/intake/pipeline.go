package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modelrisk_intake/pkg/core/agent"
	"modelrisk_intake/pkg/core/classify"
	"modelrisk_intake/pkg/core/coverage"
	"modelrisk_intake/pkg/core/docs"
	"modelrisk_intake/pkg/core/prefill"
	"modelrisk_intake/pkg/core/prompt"
	"modelrisk_intake/pkg/core/report"
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/models"
)

type pipeline struct {
	agents  *agent.Manager
	prompts *prompt.Registry
	docs    *docs.Extractor
}

func newPipeline() *pipeline {
	prompts := prompt.Get()
	if _, err := prompts.LoadFromDirectory(cfg.Server.PromptsDir); err != nil {
		logger.Warn("failed to load prompt overrides", zap.Error(err))
	}
	return &pipeline{
		agents:  agent.NewManager(cfg.Agents, logger.Named("agent")),
		prompts: prompts,
		docs: docs.NewExtractor(docs.Config{
			MaxFileSize: cfg.MaxUploadBytes(),
			Cache:       docs.NewTextCache(filepath.Join(cfg.Server.CacheDir, "text")),
			Logger:      logger.Named("docs"),
		}),
	}
}

// loadInputs reads and extracts every path. Unreadable files become failed
// inputs rather than aborting the run.
func loadInputs(ext *docs.Extractor, paths []string) []classify.Input {
	inputs := make([]classify.Input, 0, len(paths))
	for _, path := range paths {
		in := classify.Input{Filename: filepath.Base(path)}
		data, err := os.ReadFile(path)
		if err == nil {
			in.Text, err = ext.Extract(in.Filename, data)
		}
		in.Err = err
		inputs = append(inputs, in)
	}
	return inputs
}

func (p *pipeline) classify(ctx context.Context, paths []string) ([]models.ParsedDocument, error) {
	if len(paths) == 0 {
		return []models.ParsedDocument{}, nil
	}
	c := classify.New(p.agents, p.prompts, logger.Named("classify"))
	return c.ClassifyAll(ctx, loadInputs(p.docs, paths))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	parsed, err := newPipeline().classify(ctx, args)
	if err != nil {
		return err
	}
	cov, gaps := coverage.Aggregate(parsed)
	return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
		"documents": parsed,
		"coverage":  cov,
		"gaps":      gaps,
	})
}

func runPrefill(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	p := newPipeline()
	parsed, err := p.classify(ctx, args)
	if err != nil {
		return err
	}
	res, err := prefill.New(p.agents, p.prompts, schema.Default(), logger.Named("prefill")).Run(ctx, parsed)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), res)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	data, err := readIntake(intakePath)
	if err != nil {
		return err
	}

	p := newPipeline()
	parsed, err := p.classify(ctx, args)
	if err != nil {
		return err
	}
	rep, err := report.New(p.agents, p.prompts, logger.Named("report")).Assemble(ctx, report.Request{
		BankName:   bankName,
		IntakeData: data,
		Documents:  parsed,
	})
	if err != nil {
		return err
	}

	if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
		page, err := report.RenderHTML(rep)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), page)
		return err
	}
	return writeJSON(cmd.OutOrStdout(), rep)
}

// readIntake loads intake data from a JSON file; an empty path means no data.
func readIntake(path string) (models.IntakeData, error) {
	data := models.IntakeData{}
	if path == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intake data: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse intake data %s: %w", path, err)
	}
	return data, nil
}
