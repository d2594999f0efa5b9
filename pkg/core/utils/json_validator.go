package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// StripCodeFence removes a surrounding ```json ... ``` block if present.
func StripCodeFence(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}
	cleaned = strings.TrimPrefix(cleaned, "```")
	if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 && !strings.ContainsAny(cleaned[:nl], "{[") {
		cleaned = cleaned[nl+1:]
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

// RepairJSON attempts to fix common JSON errors from LLM outputs.
// Uses github.com/RealAlexandreAI/json-repair for intelligent repair.
// Supported repairs:
// - Missing quotes around keys
// - Single quotes instead of double quotes
// - Unclosed arrays/objects
// - Trailing commas
// - Comments in JSON
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (Hjson) and returns standard JSON.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}
	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(jsonBytes), nil
}

// SmartParse tries multiple parsing strategies to decode an LLM reply into target.
// Order of attempts:
// 1. Standard JSON parse (after stripping code fences)
// 2. JSON repair
// 3. Hjson parse (most lenient)
func SmartParse(input string, target interface{}) error {
	cleaned := StripCodeFence(input)
	if cleaned == "" {
		return fmt.Errorf("SMART_PARSE_FAILED: empty input")
	}

	if err := json.Unmarshal([]byte(cleaned), target); err == nil {
		return nil
	}

	if repaired, err := RepairJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(repaired), target); err == nil {
			return nil
		}
	}

	if hjsonResult, err := ParseHJSON(cleaned); err == nil {
		if err := json.Unmarshal([]byte(hjsonResult), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}

// ParseObject decodes an LLM reply into a JSON object. It never fails:
// anything that does not parse to an object yields an empty map.
func ParseObject(input string) map[string]interface{} {
	var obj map[string]interface{}
	if err := SmartParse(input, &obj); err != nil || obj == nil {
		return map[string]interface{}{}
	}
	return obj
}

// GetString returns obj[key] as a trimmed string, or "" when absent or not a string.
func GetString(obj map[string]interface{}, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

// GetArray returns obj[key] as an array, or nil.
func GetArray(obj map[string]interface{}, key string) []interface{} {
	arr, _ := obj[key].([]interface{})
	return arr
}

// GetObject returns obj[key] as an object, or nil.
func GetObject(obj map[string]interface{}, key string) map[string]interface{} {
	m, _ := obj[key].(map[string]interface{})
	return m
}

// StringList collects the non-empty strings of an array.
func StringList(arr []interface{}) []string {
	var out []string
	for _, item := range arr {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
