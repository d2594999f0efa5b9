// Package sanitize turns untrusted field updates proposed by the LLM into
// updates that conform to the intake catalog.
package sanitize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/models"
)

// MaxUpdates caps the number of updates one run can accept.
const MaxUpdates = 120

// Sanitize validates raw candidates in order. Earlier candidates win on
// duplicate scalar keys; identical table rows are kept once.
func Sanitize(cat *schema.Catalog, raw []interface{}) []models.FieldUpdate {
	out := []models.FieldUpdate{}
	seenScalar := make(map[string]bool)
	seenRow := make(map[string]bool)

	for _, item := range raw {
		if len(out) >= MaxUpdates {
			break
		}
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		section, _ := obj["section"].(string)
		field, _ := obj["field"].(string)
		section, field = strings.TrimSpace(section), strings.TrimSpace(field)
		if section == "" || field == "" {
			continue
		}
		entry, ok := cat.Lookup(section, field)
		if !ok {
			continue
		}
		action, _ := obj["action"].(string)
		action = strings.ToLower(strings.TrimSpace(action))

		if entry.IsTable() {
			if action != models.ActionAddRow {
				continue
			}
			row, sig, ok := buildRow(entry, obj["value"])
			if !ok || seenRow[sig] {
				continue
			}
			seenRow[sig] = true
			out = append(out, models.FieldUpdate{Section: section, Field: field, Action: models.ActionAddRow, Value: row})
			continue
		}

		if action != "" && action != models.ActionSet {
			continue
		}
		if seenScalar[entry.Key()] {
			continue
		}
		value, ok := scalarValue(entry, obj["value"])
		if !ok {
			continue
		}
		seenScalar[entry.Key()] = true
		out = append(out, models.FieldUpdate{Section: section, Field: field, Action: models.ActionSet, Value: value})
	}
	return out
}

func scalarValue(entry schema.Entry, v interface{}) (interface{}, bool) {
	switch entry.Type {
	case schema.TypeMultiSelect:
		values := matchOptions(entry.Options, tokens(v))
		if len(values) == 0 {
			return nil, false
		}
		return values, true
	case schema.TypeSelect:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return matchOption(entry.Options, s)
	case schema.TypeDate:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return NormalizeDate(s)
	default:
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, false
		}
		return strings.TrimSpace(s), true
	}
}

// buildRow fills every declared column and returns the row with its dedup signature.
func buildRow(entry schema.Entry, v interface{}) (models.TableRow, string, bool) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, "", false
	}

	row := make(models.TableRow, len(entry.TableColumns)+1)
	sig := []string{entry.Key()}
	empty := true
	for _, col := range entry.TableColumns {
		val := strings.TrimSpace(cellString(lookupColumn(obj, col)))
		row[col] = val
		sig = append(sig, strings.ToLower(val))
		if val != "" {
			empty = false
		}
	}
	if empty {
		return nil, "", false
	}

	id, _ := obj[models.RowIDKey].(string)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	row[models.RowIDKey] = id
	return row, strings.Join(sig, "\x1f"), true
}

// lookupColumn finds a column by exact name, then case-insensitively.
func lookupColumn(obj map[string]interface{}, col string) interface{} {
	if v, ok := obj[col]; ok {
		return v
	}
	for k, v := range obj {
		if strings.EqualFold(strings.TrimSpace(k), col) {
			return v
		}
	}
	return nil
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Raw converts updates back into the generic form Sanitize accepts.
func Raw(updates []models.FieldUpdate) []interface{} {
	data, err := json.Marshal(updates)
	if err != nil {
		return nil
	}
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return raw
}
