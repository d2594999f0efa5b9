package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewRegistry_HasBuiltins(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{IDClassifier, IDPrefill, IDReport, IDInterview} {
		pt, err := r.GetPrompt(id)
		if err != nil {
			t.Fatalf("missing built-in %s: %v", id, err)
		}
		if pt.SystemPrompt == "" || pt.UserPromptTmpl == "" {
			t.Errorf("%s: built-in prompt incomplete", id)
		}
	}
}

func TestRegistry_RegisterRequiresID(t *testing.T) {
	if err := NewRegistry().Register(&PromptTemplate{}); err == nil {
		t.Fatal("expected error for empty ID")
	}
}

func TestLoadFromDirectory_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "intake"), 0755); err != nil {
		t.Fatal(err)
	}
	override := `{"system_prompt": "custom classifier rules"}`
	if err := os.WriteFile(filepath.Join(dir, "intake", "classifier.json"), []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	n, err := r.LoadFromDirectory(dir)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 override, got %d", n)
	}
	pt := r.MustGet(IDClassifier)
	if pt.SystemPrompt != "custom classifier rules" {
		t.Errorf("override not applied: %q", pt.SystemPrompt)
	}
	if pt.UserPromptTmpl == "" {
		t.Error("partial override should keep the built-in user template")
	}
	if pt.Category != "intake" {
		t.Errorf("expected category from folder, got %q", pt.Category)
	}
}

func TestLoadFromDirectory_MissingDir(t *testing.T) {
	n, err := NewRegistry().LoadFromDirectory(filepath.Join(t.TempDir(), "absent"))
	if err != nil || n != 0 {
		t.Errorf("missing dir should be a no-op, got n=%d err=%v", n, err)
	}
}

func TestRenderUserPrompt_Classifier(t *testing.T) {
	pt := NewRegistry().MustGet(IDClassifier)
	out, err := RenderUserPrompt(pt, map[string]interface{}{
		"Filename":  "pd_model.pdf",
		"Sections":  []struct{ ID, Title string }{{"model_design", "Model Design"}},
		"Excerpt":   "The PD model uses logistic regression.",
		"Truncated": true,
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, want := range []string{"pd_model.pdf", "- model_design: Model Design", "(truncated)", "logistic regression"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered prompt missing %q:\n%s", want, out)
		}
	}
}

func TestLoadFromDirectory_RejectsBrokenTemplate(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "intake"), 0755); err != nil {
		t.Fatal(err)
	}
	broken := `{"user_prompt_template": "Document: {{.Filename"}`
	if err := os.WriteFile(filepath.Join(dir, "intake", "report.json"), []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if _, err := r.LoadFromDirectory(dir); err == nil {
		t.Fatal("expected error for unparsable template")
	}
	if r.MustGet(IDReport).UserPromptTmpl == `Document: {{.Filename` {
		t.Error("broken template should not replace the built-in")
	}
}
