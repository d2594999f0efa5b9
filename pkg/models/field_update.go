package models

import "strings"

// Field update actions.
const (
	ActionSet    = "set"
	ActionAddRow = "add_row"
)

// RowIDKey is the key under which a table row carries its synthetic id.
const RowIDKey = "id"

// TableRow is one row of a table field keyed by column name, plus RowIDKey.
type TableRow map[string]string

// FieldUpdate is a single proposed mutation of the intake form.
// Value holds a string (text, textarea, select, date), a []string
// (multi-select) or a TableRow (add_row).
type FieldUpdate struct {
	Section string      `json:"section"`
	Field   string      `json:"field"`
	Action  string      `json:"action"`
	Value   interface{} `json:"value"`
}

// Key returns the catalog key "section.field".
func (u FieldUpdate) Key() string {
	return u.Section + "." + u.Field
}

// PrefillDiagnosticsPass records what one extraction pass requested and produced.
type PrefillDiagnosticsPass struct {
	Name             string `json:"name"`
	Section          string `json:"section,omitempty"`
	RequestedFields  int    `json:"requestedFields"`
	ExtractedUpdates int    `json:"extractedUpdates"`
	NoteCount        int    `json:"noteCount"`
	DocCount         int    `json:"docCount"`
	Failed           bool   `json:"failed,omitempty"`
}

// PrefillDiagnostics summarizes one extraction run.
type PrefillDiagnostics struct {
	RequestedFields    int                      `json:"requestedFields"`
	ExtractedUpdates   int                      `json:"extractedUpdates"`
	ScalarFieldsFilled int                      `json:"scalarFieldsFilled"`
	TableRowsAdded     int                      `json:"tableRowsAdded"`
	Passes             []PrefillDiagnosticsPass `json:"passes"`
}

// IntakeData is the form state: section id -> field name -> value.
// Scalars are strings, multi-selects []string, tables []TableRow. Values
// decoded from JSON may also be []interface{} / map[string]interface{}.
type IntakeData map[string]map[string]interface{}

// Apply merges updates the way the form layer does: "set" upserts by
// (section, field) and "add_row" appends to the table.
func (d IntakeData) Apply(updates []FieldUpdate) {
	for _, u := range updates {
		if u.Section == "" || u.Field == "" {
			continue
		}
		sec, ok := d[u.Section]
		if !ok {
			sec = make(map[string]interface{})
			d[u.Section] = sec
		}
		switch u.Action {
		case ActionAddRow:
			row, ok := u.Value.(TableRow)
			if !ok {
				continue
			}
			sec[u.Field] = append(d.Rows(u.Section, u.Field), row)
		default:
			sec[u.Field] = u.Value
		}
	}
}

// String returns the scalar value of a field, joining multi-select values.
func (d IntakeData) String(section, field string) string {
	sec, ok := d[section]
	if !ok {
		return ""
	}
	switch v := sec[field].(type) {
	case string:
		return strings.TrimSpace(v)
	case []string:
		return strings.Join(v, ", ")
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// Rows returns the table rows of a field, converting JSON-decoded rows.
func (d IntakeData) Rows(section, field string) []TableRow {
	sec, ok := d[section]
	if !ok {
		return nil
	}
	switch v := sec[field].(type) {
	case []TableRow:
		return v
	case []interface{}:
		rows := make([]TableRow, 0, len(v))
		for _, item := range v {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			row := make(TableRow, len(m))
			for k, val := range m {
				if s, ok := val.(string); ok {
					row[k] = s
				}
			}
			rows = append(rows, row)
		}
		return rows
	}
	return nil
}
