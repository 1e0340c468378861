package feed

import (
	"strings"
)

// Validate checks an entry against the rules of the feed it is bound for.
// It stops at the first failing rule; the required-field rule reports
// every missing field at once.
func Validate(entry Entry, cfg Config) error {
	var missing []string
	required := []struct {
		name  string
		empty bool
	}{
		{"title", entry.Title == ""},
		{"summary", entry.Summary == ""},
		{"source", entry.Source == ""},
		{"sourceUrl", entry.SourceURL == ""},
		{"category", entry.Category == ""},
		{"tags", len(entry.Tags) == 0},
	}
	for _, f := range required {
		if f.empty {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return missingFields(missing)
	}

	if !strings.HasPrefix(entry.SourceURL, "http://") && !strings.HasPrefix(entry.SourceURL, "https://") {
		return invalid("sourceUrl must start with http:// or https://")
	}

	if domain, ok := blockedDomain(entry.SourceURL); ok {
		return invalid("Social media URLs are not allowed. Found %s in sourceUrl.", domain)
	}

	if !cfg.HasCategory(entry.Category) {
		return invalid("Invalid category %q for %s feed. Valid: %s",
			entry.Category, cfg.Name, strings.Join(cfg.Categories, ", "))
	}

	return nil
}

// blockedDomain returns the first blocked domain found anywhere in rawURL.
// The match is a case-insensitive substring test, so "x.com" also catches
// hosts that merely contain it.
func blockedDomain(rawURL string) (string, bool) {
	lower := strings.ToLower(rawURL)
	for _, domain := range BlockedDomains {
		if strings.Contains(lower, domain) {
			return domain, true
		}
	}
	return "", false
}
