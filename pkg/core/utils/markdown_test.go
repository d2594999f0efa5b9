package utils

import (
	"strings"
	"testing"
)

func TestCleanMarkdown(t *testing.T) {
	in := "```markdown\n# Title\n\nBody\n```"
	if got := CleanMarkdown(in); got != "# Title\n\nBody" {
		t.Errorf("unexpected cleaned markdown %q", got)
	}
}

func TestRenderMarkdown_Table(t *testing.T) {
	md := "| Metric | Value |\n|---|---|\n| AUC | 0.81 |\n"
	html, err := RenderMarkdown(md)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected GFM table in output, got %s", html)
	}
}
