// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// BusinessName canonicalizes a listing name for uniqueness comparison:
// Unicode NFKC normalization, full case folding, and whitespace collapsed
// to single spaces. "Clay  & Kiln " and "clay & kiln" compare equal.
func BusinessName(raw string) string {
	s := norm.NFKC.String(sanitizeString(raw))
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Email lowercases and trims an email address for index lookups.
func Email(raw string) string {
	return strings.ToLower(strings.TrimSpace(sanitizeString(raw)))
}

// Specialties trims, de-duplicates (case-insensitively, first spelling
// wins) and drops empty entries from a specialty list. Order is preserved.
func Specialties(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(sanitizeString(s))
		if s == "" {
			continue
		}
		key := cases.Fold().String(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// sanitizeString removes null bytes from strings, which can cause
// issues in databases and JSON parsing.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 { // null byte
			return -1 // drop it
		}
		return r
	}, s)
}
