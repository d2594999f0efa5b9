package sanitize

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// tokens splits a multi-select value given as an array or a delimited string.
func tokens(v interface{}) []string {
	var out []string
	switch t := v.(type) {
	case string:
		out = strings.FieldsFunc(t, func(r rune) bool { return r == ',' || r == ';' || r == '|' })
	case []interface{}:
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	case []string:
		out = t
	}
	return out
}

// matchOptions maps tokens onto options, dropping unmatched tokens and duplicates.
func matchOptions(options, toks []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range toks {
		opt, ok := matchOption(options, tok)
		if !ok || seen[opt] {
			continue
		}
		seen[opt] = true
		out = append(out, opt)
	}
	return out
}

// matchOption returns the option equal to s ignoring case, or failing that
// ignoring everything but letters and digits.
func matchOption(options []string, s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, opt := range options {
		if strings.EqualFold(opt, s) {
			return opt, true
		}
	}
	key := alnum(s)
	if key == "" {
		return "", false
	}
	for _, opt := range options {
		if alnum(opt) == key {
			return opt, true
		}
	}
	return "", false
}

func alnum(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

const isoDate = "2006-01-02"

// Plausible years for model documentation dates.
const (
	minYear = 1900
	maxYear = 2100
)

var (
	isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

	month           = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?`
	monthFirstRe    = regexp.MustCompile(`(?i)\b` + month + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`)
	dayFirstRe      = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+` + month + `,?\s+\d{4}\b`)
	slashDateRe     = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	yearFirstRe     = regexp.MustCompile(`\b\d{4}/\d{1,2}/\d{1,2}\b`)
	monthYearRe     = regexp.MustCompile(`(?i)^(?:[a-z]+\s+)*` + month + `,?\s+\d{4}$`)
	yearRe          = regexp.MustCompile(`\b\d{4}\b`)
	ordinalSuffixRe = regexp.MustCompile(`(?i)(\d)(?:st|nd|rd|th)\b`)

	candidateLayouts = []string{
		"January 2, 2006", "January 2 2006", "Jan 2, 2006", "Jan 2 2006", "Jan. 2, 2006",
		"2 January 2006", "2 January, 2006", "2 Jan 2006", "2 Jan. 2006",
		"1/2/2006", "01/02/2006", "2006/1/2",
	}
)

// NormalizeDate returns s as YYYY-MM-DD. A literal ISO date inside s wins;
// otherwise the first recognizable date phrase is parsed. The result must
// carry an explicit four-digit year between 1900 and 2100 and a day; a bare
// month such as "December 2023" is rejected.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, lit := range isoDateRe.FindAllString(s, -1) {
		if t, err := time.Parse(isoDate, lit); err == nil && plausible(t) {
			return t.Format(isoDate), true
		}
	}

	var candidates []string
	for _, re := range []*regexp.Regexp{monthFirstRe, dayFirstRe, slashDateRe, yearFirstRe} {
		candidates = append(candidates, re.FindAllString(s, -1)...)
	}
	for _, c := range candidates {
		c = ordinalSuffixRe.ReplaceAllString(c, "$1")
		c = strings.Join(strings.Fields(c), " ")
		for _, layout := range candidateLayouts {
			if t, err := time.Parse(layout, c); err == nil && plausible(t) {
				return t.Format(isoDate), true
			}
		}
		if t, ok := parseAny(c); ok && plausible(t) {
			return t.Format(isoDate), true
		}
	}

	if !hasLetterOrSeparator(s) || !yearRe.MatchString(s) || monthYearRe.MatchString(s) {
		return "", false
	}
	if t, ok := parseAny(s); ok && plausible(t) {
		return t.Format(isoDate), true
	}
	return "", false
}

func plausible(t time.Time) bool {
	return t.Year() >= minYear && t.Year() <= maxYear
}

// parseAny wraps dateparse, which can panic on some malformed inputs.
func parseAny(s string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	t, err := dateparse.ParseAny(s)
	return t, err == nil
}

// hasLetterOrSeparator guards dateparse against bare digit runs it would
// read as timestamps.
func hasLetterOrSeparator(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || r == '/' || r == '-' || r == '.' {
			return true
		}
	}
	return false
}
