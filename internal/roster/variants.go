package roster

import (
	"regexp"
	"strings"
)

var (
	parenthetical   = regexp.MustCompile(`\([^)]*\)`)
	incumbentMarker = regexp.MustCompile(`(?i)\bincumbent\b`)
	emptyParens     = regexp.MustCompile(`\(\s*\)`)
)

// Variants returns the canonical name followed by the forms source text
// tends to use: without parenthetical suffixes such as a party letter, and
// without an "Incumbent" marker. Duplicates and empty forms are dropped.
func Variants(name string) []string {
	forms := []string{
		name,
		tidy(parenthetical.ReplaceAllString(name, " ")),
		tidy(incumbentMarker.ReplaceAllString(name, " ")),
		tidy(incumbentMarker.ReplaceAllString(parenthetical.ReplaceAllString(name, " "), " ")),
	}

	out := make([]string, 0, len(forms))
	seen := make(map[string]bool, len(forms))
	for _, f := range forms {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// tidy collapses whitespace and drops separators left dangling at either end.
func tidy(s string) string {
	s = strings.Join(strings.Fields(emptyParens.ReplaceAllString(s, " ")), " ")
	return strings.Trim(s, " -–—,:")
}
