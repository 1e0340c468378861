// Package display provides terminal output formatting for sentinel.
package display

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/samber/lo"

	"github.com/hillcountry/sentinel/internal/aggregator"
	"github.com/hillcountry/sentinel/internal/feed"
)

const separator = " • "

// summaryWidth is the longest summary shown in a listing, in characters.
const summaryWidth = 120

// TerminalFormatter formats feed entries for terminal display.
type TerminalFormatter struct {
	now func() time.Time
}

// FormatterOption configures the TerminalFormatter.
type FormatterOption func(*TerminalFormatter)

// WithClock sets the reference time used for relative timestamps.
func WithClock(now func() time.Time) FormatterOption {
	return func(f *TerminalFormatter) {
		if now != nil {
			f.now = now
		}
	}
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter(opts ...FormatterOption) *TerminalFormatter {
	f := &TerminalFormatter{now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatItem formats a single entry for display.
func (f *TerminalFormatter) FormatItem(item aggregator.Item) string {
	var lines []string
	e := item.Entry

	// Header: [FEED] Title
	lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(item.Feed), e.Title))

	when := e.Date
	if item.Dated {
		when = f.FormatTimestamp(item.PublishedAt)
	}
	lines = append(lines, "  "+strings.Join(lo.Compact([]string{e.Source, when}), separator))

	if e.Summary != "" {
		lines = append(lines, "  "+TruncateText(e.Summary, summaryWidth))
	}

	if labels := formatLabels(e); labels != "" {
		lines = append(lines, "  "+labels)
	}

	if e.SourceURL != "" {
		lines = append(lines, "  "+e.SourceURL)
	}

	return strings.Join(lines, "\n") + "\n"
}

// formatLabels renders category, tags and related candidate on one line.
func formatLabels(e feed.Entry) string {
	var parts []string
	if e.Category != "" {
		parts = append(parts, FormatCategory(e.Category))
	}
	for _, tag := range e.Tags {
		parts = append(parts, "#"+tag)
	}
	if e.RelatedCandidate != "" {
		parts = append(parts, "@"+e.RelatedCandidate)
	}
	return strings.Join(parts, separator)
}

// FormatFeed formats multiple entries for display.
func (f *TerminalFormatter) FormatFeed(items []aggregator.Item) string {
	if len(items) == 0 {
		return "No entries to display.\n"
	}

	var formatted []string
	for _, item := range items {
		formatted = append(formatted, f.FormatItem(item))
	}

	return strings.Join(formatted, "\n---\n\n")
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	diff := f.now().Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatDate formats a stored entry date as "January 2, 2006".
// Unparseable dates format as "".
func FormatDate(s string) string {
	t, ok := feed.ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("January 2, 2006")
}

// FormatCategory turns a category slug into a title, e.g.
// "county-government" into "County Government".
func FormatCategory(category string) string {
	words := strings.Split(category, "-")
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// TruncateText cuts text to at most maxLen characters at the last word
// boundary and appends "…". Text within the limit is returned as is.
func TruncateText(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	if maxLen <= 0 {
		return "…"
	}
	cut := string(r[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
