package schema

import "testing"

func TestDefaultCatalog_KeysUnique(t *testing.T) {
	c := Default()
	seen := make(map[string]bool)
	for _, e := range c.Entries() {
		if seen[e.Key()] {
			t.Fatalf("duplicate catalog key %s", e.Key())
		}
		seen[e.Key()] = true
	}
	if c.Len() == 0 {
		t.Fatal("catalog should not be empty")
	}
}

func TestDefaultCatalog_TypeMetadata(t *testing.T) {
	for _, e := range Default().Entries() {
		switch e.Type {
		case TypeSelect, TypeMultiSelect:
			if len(e.Options) == 0 {
				t.Errorf("%s: select field without options", e.Key())
			}
		case TypeTable:
			if len(e.TableColumns) == 0 {
				t.Errorf("%s: table field without columns", e.Key())
			}
		case TypeText, TypeTextarea, TypeDate:
		default:
			t.Errorf("%s: unknown type %q", e.Key(), e.Type)
		}
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	e, ok := c.Lookup("model_design", "model_variables")
	if !ok {
		t.Fatal("expected model_design.model_variables in catalog")
	}
	if !e.IsTable() {
		t.Errorf("expected table type, got %s", e.Type)
	}
	if _, ok := c.Lookup("model_design", "nope"); ok {
		t.Error("unknown field should not resolve")
	}
	if _, ok := c.LookupKey("general_info.model_name"); !ok {
		t.Error("LookupKey should resolve general_info.model_name")
	}
}

func TestCatalog_ForSectionKeepsOrder(t *testing.T) {
	entries := Default().ForSection("general_info")
	sec, _ := SectionByID("general_info")
	if len(entries) != len(sec.Fields) {
		t.Fatalf("expected %d entries, got %d", len(sec.Fields), len(entries))
	}
	for i, f := range sec.Fields {
		if entries[i].Field != f.Name {
			t.Errorf("position %d: expected %s, got %s", i, f.Name, entries[i].Field)
		}
	}
}

func TestCatalog_EntriesReturnsCopy(t *testing.T) {
	c := Default()
	entries := c.Entries()
	entries[0].Field = "mutated"
	if c.Entries()[0].Field == "mutated" {
		t.Error("Entries must not expose internal storage")
	}
}

func TestNarrativeSections_ExcludesSummary(t *testing.T) {
	for _, s := range NarrativeSections() {
		if s.ID == ModelSummaryID {
			t.Fatal("model_summary must not be requested from the LLM")
		}
	}
	if len(NarrativeSections()) != len(ReportTemplate)-1 {
		t.Errorf("expected %d narrative sections, got %d", len(ReportTemplate)-1, len(NarrativeSections()))
	}
}

func TestSections_HaveHints(t *testing.T) {
	for _, s := range Sections {
		if len(s.Hints) == 0 {
			t.Errorf("section %s has no relevance hints", s.ID)
		}
	}
	design, _ := SectionByID("model_design")
	found := false
	for _, h := range design.Hints {
		if h == "calibration" {
			found = true
		}
	}
	if !found {
		t.Error("model_design hints should include calibration")
	}
}
