package utils

// Truncate returns the first maxChars characters of s and whether anything was cut.
func Truncate(s string, maxChars int) (string, bool) {
	if maxChars <= 0 {
		return "", s != ""
	}
	if len(s) <= maxChars {
		return s, false
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i], true
		}
		n++
	}
	return s, false
}
