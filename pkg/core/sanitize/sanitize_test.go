package sanitize

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/models"
)

func update(section, field, action string, value interface{}) map[string]interface{} {
	return map[string]interface{}{"section": section, "field": field, "action": action, "value": value}
}

func TestSanitize_DatePhrase(t *testing.T) {
	out := Sanitize(schema.Default(), []interface{}{
		update("validation", "last_validation_date", "set", "Validated on March 3, 2024"),
	})
	require.Len(t, out, 1)
	assert.Equal(t, "2024-03-03", out[0].Value)
	assert.Equal(t, models.ActionSet, out[0].Action)
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-03", "2024-03-03", true},
		{"approved 2023-11-30 by committee", "2023-11-30", true},
		{"Validated on March 3, 2024", "2024-03-03", true},
		{"on 3rd March 2023", "2023-03-03", true},
		{"Sep 30, 2022", "2022-09-30", true},
		{"12/31/2021", "2021-12-31", true},
		{"2024-13-45", "", false},
		{"TBD", "", false},
		{"", "", false},
		{"20240303", "", false},
		{"Approved 2023/12/31", "2023-12-31", true},
		{"2024/3/7", "2024-03-07", true},
		{"3.14", "", false},
		{"12.5", "", false},
		{"7.1", "", false},
		{"0000-03-14", "", false},
		{"December 2023", "", false},
		{"approved in Sept 2022", "", false},
	}
	for _, c := range cases {
		got, ok := NormalizeDate(c.in)
		assert.Equal(t, c.ok, ok, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestSanitize_Cap(t *testing.T) {
	fields := make([]schema.Field, 125)
	for i := range fields {
		fields[i] = schema.Field{Name: fmt.Sprintf("f%03d", i), Type: schema.TypeText}
	}
	cat := schema.NewCatalog([]schema.Section{{ID: "bulk", Fields: fields}})

	raw := make([]interface{}, 0, 125)
	for i := range fields {
		raw = append(raw, update("bulk", fields[i].Name, "set", fmt.Sprintf("value %d", i)))
	}

	out := Sanitize(cat, raw)
	require.Len(t, out, MaxUpdates)
	assert.Equal(t, "f000", out[0].Field)
	assert.Equal(t, "f119", out[MaxUpdates-1].Field)
}

func TestSanitize_RejectsInvalidCandidates(t *testing.T) {
	out := Sanitize(schema.Default(), []interface{}{
		"not an object",
		update("", "model_name", "set", "x"),
		update("general_info", "", "set", "x"),
		update("general_info", "unknown_field", "set", "x"),
		update("general_info", "model_name", "set", "   "),
		update("general_info", "model_name", "set", 42.0),
		update("general_info", "model_name", "add_row", "Scorecard"),
		update("model_design", "model_variables", "set", map[string]interface{}{"Variable": "LTV"}),
		update("model_design", "model_variables", "add_row", "LTV"),
		update("model_design", "model_variables", "add_row", map[string]interface{}{"Variable": "  ", "Other": "x"}),
		update("general_info", "model_type", "set", "Mortgage Prepayment"),
		update("model_purpose", "products_covered", "set", "Boats; Planes"),
		update("governance", "approval_date", "set", "next spring"),
	})
	assert.Empty(t, out)
}

func TestSanitize_ScalarFirstWins(t *testing.T) {
	out := Sanitize(schema.Default(), []interface{}{
		update("general_info", "model_name", "set", "  Retail PD Scorecard "),
		update("general_info", "model_name", "set", "Other Name"),
		update("general_info", "model_owner", "", "Head of Retail Credit"),
	})
	require.Len(t, out, 2)
	assert.Equal(t, "Retail PD Scorecard", out[0].Value)
	assert.Equal(t, "model_owner", out[1].Field)
	assert.Equal(t, models.ActionSet, out[1].Action)
}

func TestSanitize_RejectedCandidateDoesNotClaimKey(t *testing.T) {
	out := Sanitize(schema.Default(), []interface{}{
		update("monitoring", "monitoring_frequency", "set", "Weekly"),
		update("monitoring", "monitoring_frequency", "set", "quarterly"),
	})
	require.Len(t, out, 1)
	assert.Equal(t, "Quarterly", out[0].Value)
}

func TestSanitize_SelectNormalization(t *testing.T) {
	out := Sanitize(schema.Default(), []interface{}{
		update("general_info", "risk_tier", "set", "tier 1 high"),
		update("validation", "validation_outcome", "set", "APPROVED WITH CONDITIONS"),
	})
	require.Len(t, out, 2)
	assert.Equal(t, "Tier 1 (High)", out[0].Value)
	assert.Equal(t, "Approved with Conditions", out[1].Value)
}

func TestSanitize_MultiSelect(t *testing.T) {
	out := Sanitize(schema.Default(), []interface{}{
		update("model_purpose", "regulatory_requirements", "set", "cecl; IFRS-9 | Basel III, cecl, unknown"),
		update("model_purpose", "products_covered", "set", []interface{}{"credit cards", 7.0, "Mortgages", "CREDIT CARDS"}),
	})
	require.Len(t, out, 2)
	assert.Equal(t, []string{"CECL", "IFRS 9", "Basel III"}, out[0].Value)
	assert.Equal(t, []string{"Credit Cards", "Mortgages"}, out[1].Value)
}

func TestSanitize_TableRows(t *testing.T) {
	out := Sanitize(schema.Default(), []interface{}{
		update("model_design", "model_variables", "add_row", map[string]interface{}{"variable": " LTV ", "Description": "Loan to value"}),
		update("model_design", "model_variables", "ADD_ROW", map[string]interface{}{"Variable": "ltv", "description": "LOAN TO VALUE"}),
		update("model_design", "model_variables", "add_row", map[string]interface{}{"Variable": "DTI"}),
		update("performance", "performance_results", "add_row", map[string]interface{}{"Metric": "Gini", "Value": 0.62}),
	})
	require.Len(t, out, 3)

	first := out[0].Value.(models.TableRow)
	assert.Equal(t, "LTV", first["Variable"])
	assert.Equal(t, "Loan to value", first["Description"])
	assert.Equal(t, "", first["Source"])
	assert.Equal(t, "", first["Transformation"])
	_, err := uuid.Parse(first[models.RowIDKey])
	assert.NoError(t, err)

	assert.Equal(t, "DTI", out[1].Value.(models.TableRow)["Variable"])
	assert.Equal(t, "0.62", out[2].Value.(models.TableRow)["Value"])
	assert.NotEqual(t, first[models.RowIDKey], out[1].Value.(models.TableRow)[models.RowIDKey])
}

func TestSanitize_KeepsValidRowID(t *testing.T) {
	id := uuid.New().String()
	out := Sanitize(schema.Default(), []interface{}{
		update("limitations", "known_limitations", "add_row", map[string]interface{}{"Limitation": "Short history", "id": id}),
		update("limitations", "known_limitations", "add_row", map[string]interface{}{"Limitation": "Proxy data", "id": "row-1"}),
	})
	require.Len(t, out, 2)
	assert.Equal(t, id, out[0].Value.(models.TableRow)[models.RowIDKey])
	assert.NotEqual(t, "row-1", out[1].Value.(models.TableRow)[models.RowIDKey])
}

// candidatePool mixes valid, near-valid and junk values for every entry type.
var candidatePool = []interface{}{
	"", "  ", "Quarterly", "quarterly", "semi annually", "Approved with conditions",
	"PD, lgd; Other|bogus", []interface{}{"CECL", "cecl", "IFRS-9", 3.0},
	"2024-03-03", "Validated on March 3, 2024", "3rd March 2023", "TBD", 42.0, nil,
	"Retail PD Scorecard", "tier 2 medium",
	map[string]interface{}{"Metric": "Gini", "Value": 0.62},
	map[string]interface{}{"metric": "gini", "value": "0.62"},
	map[string]interface{}{"variable": "LTV", "Description": " loan to value "},
	map[string]interface{}{"Finding": "Weak documentation", "Severity": "High", "id": "not-a-uuid"},
	map[string]interface{}{"Limitation": "Short history"},
	map[string]interface{}{},
}

var candidateActions = []interface{}{"set", "add_row", "", "delete"}

func buildCandidates(entries []schema.Entry, picks []int) []interface{} {
	raw := make([]interface{}, 0, len(picks))
	for _, p := range picks {
		e := entries[p%len(entries)]
		p /= len(entries)
		v := candidatePool[p%len(candidatePool)]
		p /= len(candidatePool)
		a := candidateActions[p%len(candidateActions)]
		raw = append(raw, map[string]interface{}{"section": e.Section, "field": e.Field, "action": a, "value": v})
	}
	return raw
}

func TestSanitize_Properties(t *testing.T) {
	cat := schema.Default()
	entries := cat.Entries()
	space := len(entries) * len(candidatePool) * len(candidateActions)
	picks := gen.SliceOf(gen.IntRange(0, space-1))

	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("sanitize is idempotent", prop.ForAll(
		func(p []int) bool {
			once := Sanitize(cat, buildCandidates(entries, p))
			twice := Sanitize(cat, Raw(once))
			return reflect.DeepEqual(once, twice)
		},
		picks,
	))

	properties.Property("select values come from the option list", prop.ForAll(
		func(p []int) bool {
			for _, u := range Sanitize(cat, buildCandidates(entries, p)) {
				e, _ := cat.Lookup(u.Section, u.Field)
				var values []string
				switch e.Type {
				case schema.TypeSelect:
					values = []string{u.Value.(string)}
				case schema.TypeMultiSelect:
					values = u.Value.([]string)
				default:
					continue
				}
				for _, v := range values {
					if !contains(e.Options, v) {
						return false
					}
				}
			}
			return true
		},
		picks,
	))

	properties.Property("table rows carry every column and unique signatures", prop.ForAll(
		func(p []int) bool {
			seen := make(map[string]bool)
			for _, u := range Sanitize(cat, buildCandidates(entries, p)) {
				if u.Action != models.ActionAddRow {
					continue
				}
				e, _ := cat.Lookup(u.Section, u.Field)
				row := u.Value.(models.TableRow)
				sig := []string{e.Key()}
				for _, col := range e.TableColumns {
					v, ok := row[col]
					if !ok {
						return false
					}
					sig = append(sig, strings.ToLower(v))
				}
				key := strings.Join(sig, "|")
				if seen[key] {
					return false
				}
				seen[key] = true
			}
			return true
		},
		picks,
	))

	properties.Property("never more than the cap", prop.ForAll(
		func(p []int) bool {
			return len(Sanitize(cat, buildCandidates(entries, p))) <= MaxUpdates
		},
		picks,
	))

	properties.TestingRun(t)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
