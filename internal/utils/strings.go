package utils

import "strings"

// NormalizeTicker trims and upper-cases a user-entered ticker symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseTickers splits a comma-separated ticker list, normalizing each symbol and
// dropping empties and duplicates. Returns nil for empty/whitespace-only input.
func ParseTickers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	seen := map[string]bool{}
	var result []string
	for _, v := range strings.Split(s, ",") {
		ticker := NormalizeTicker(v)
		if ticker == "" || seen[ticker] {
			continue
		}
		seen[ticker] = true
		result = append(result, ticker)
	}

	return result
}
