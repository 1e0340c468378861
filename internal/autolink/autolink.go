// Package autolink turns candidate names in page text into profile links.
//
// Two entry points share one matcher:
// - Text rewrites a string, protecting tags and anchor/script/style bodies
// - HTML and Document parse markup and rewrite text nodes only
//
// Longer names always win over shorter names they contain, so
// "Mary Ann Labowski" is linked whole even if "Ann Labowski" is also known.
// Text that already sits inside a link is never linked again, which makes
// every entry point idempotent.
package autolink

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/hillcountry/sentinel/internal/roster"
)

// DefaultClass is the class attribute set on generated links.
const DefaultClass = "candidate-auto-link"

// minNameLen is the shortest name, in characters, that is ever linked.
const minNameLen = 3

// Linker links candidate names to their profile pages.
type Linker struct {
	terms    []term
	basePath string
	class    string
	fold     bool
	variants bool
}

type term struct {
	name string
	slug string
	re   *regexp.Regexp
}

// span is a half-open byte range [start, end) with the slug it links to.
type span struct {
	start, end int
	slug       string
}

// Option configures the Linker.
type Option func(*Linker)

// WithCaseInsensitive matches names regardless of letter case.
// The link label still shows the text as written.
func WithCaseInsensitive() Option {
	return func(l *Linker) { l.fold = true }
}

// WithClass sets the class attribute of generated links.
func WithClass(class string) Option {
	return func(l *Linker) { l.class = class }
}

// WithoutVariants matches canonical roster names only.
func WithoutVariants() Option {
	return func(l *Linker) { l.variants = false }
}

// New builds a linker for the roster. basePath is prepended to
// "profiles/{slug}.html", e.g. "../" for pages one level deep.
func New(r *roster.Roster, basePath string, opts ...Option) *Linker {
	l := &Linker{basePath: basePath, class: DefaultClass, variants: true}
	for _, opt := range opts {
		opt(l)
	}
	if r == nil {
		return l
	}

	seen := map[string]bool{}
	for _, c := range r.Candidates {
		names := []string{c.Name}
		if l.variants {
			names = roster.Variants(c.Name)
		}
		for _, name := range names {
			name = strings.TrimSpace(name)
			key := name
			if l.fold {
				key = strings.ToLower(name)
			}
			if utf8.RuneCountInString(name) < minNameLen || c.Slug == "" || seen[key] {
				continue
			}
			seen[key] = true
			l.terms = append(l.terms, term{name: name, slug: c.Slug, re: namePattern(name, l.fold)})
		}
	}

	sort.SliceStable(l.terms, func(i, j int) bool {
		return utf8.RuneCountInString(l.terms[i].name) > utf8.RuneCountInString(l.terms[j].name)
	})
	return l
}

// AutoLink links every known name in text. Markup goes through the
// tree-based path, plain text through the string path.
func AutoLink(text string, candidates []roster.Candidate, basePath string) string {
	return New(&roster.Roster{Candidates: candidates}, basePath).Link(text)
}

// Link picks the string or tree path depending on whether s looks like markup.
func (l *Linker) Link(s string) string {
	out, _ := l.LinkCount(s)
	return out
}

// LinkCount is Link that also reports how many links were added.
func (l *Linker) LinkCount(s string) (string, int) {
	if strings.ContainsRune(s, '<') {
		return l.linkFragment(s)
	}
	return l.linkString(s)
}

// Names returns the matchable names in match order, longest first.
func (l *Linker) Names() []string {
	out := make([]string, len(l.terms))
	for i, t := range l.terms {
		out[i] = t.name
	}
	return out
}

// Href returns the profile URL for a slug.
func (l *Linker) Href(slug string) string {
	return l.basePath + "profiles/" + slug + ".html"
}

// Text rewrites s, wrapping each name in a link. Text inside a tag or
// inside an a, script or style element is left alone.
func (l *Linker) Text(s string) string {
	out, _ := l.linkString(s)
	return out
}

func (l *Linker) linkString(s string) (string, int) {
	if s == "" || len(l.terms) == 0 {
		return s, 0
	}

	spans := l.find(s, protectedRegions(s))
	if len(spans) == 0 {
		return s, 0
	}

	var b strings.Builder
	prev := 0
	for _, sp := range spans {
		b.WriteString(s[prev:sp.start])
		b.WriteString(l.anchor(sp.slug, s[sp.start:sp.end]))
		prev = sp.end
	}
	b.WriteString(s[prev:])
	return b.String(), len(spans)
}

func (l *Linker) anchor(slug, label string) string {
	return fmt.Sprintf(`<a href="%s" class="%s">%s</a>`,
		html.EscapeString(l.Href(slug)), html.EscapeString(l.class), label)
}

// find returns the accepted matches in s ordered by position. Terms are
// tried longest first; a match is dropped when it touches a protected
// region or overlaps a match already accepted.
func (l *Linker) find(s string, protected []span) []span {
	var accepted []span
	for _, t := range l.terms {
		for _, m := range t.matches(s) {
			if overlapsAny(m, protected) || overlapsAny(m, accepted) {
				continue
			}
			accepted = append(accepted, m)
		}
	}
	sort.Slice(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })
	return accepted
}

// matches returns the whole-word occurrences of t in s. A rejected hit
// only moves the search one rune on, so a later whole-word hit that
// overlaps it is still found.
func (t term) matches(s string) []span {
	var out []span
	for pos := 0; pos < len(s); {
		loc := t.re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if t.bounded(s, start, end) {
			out = append(out, span{start: start, end: end, slug: t.slug})
			pos = end
			continue
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		pos = start + max(size, 1)
	}
	return out
}

// bounded reports whether s[start:end] stands as a whole word. A boundary
// is only required on a side where the match starts or ends with a word
// character, so names ending in punctuation still match.
func (t term) bounded(s string, start, end int) bool {
	first, _ := utf8.DecodeRuneInString(s[start:end])
	last, _ := utf8.DecodeLastRuneInString(s[start:end])
	if isWordRune(first) && start > 0 {
		if before, _ := utf8.DecodeLastRuneInString(s[:start]); isWordRune(before) {
			return false
		}
	}
	if isWordRune(last) && end < len(s) {
		if after, _ := utf8.DecodeRuneInString(s[end:]); isWordRune(after) {
			return false
		}
	}
	return true
}

func overlapsAny(m span, spans []span) bool {
	for _, s := range spans {
		if m.start < s.end && s.start < m.end {
			return true
		}
	}
	return false
}

func namePattern(name string, fold bool) *regexp.Regexp {
	p := regexp.QuoteMeta(name)
	if fold {
		p = `(?i)` + p
	}
	return regexp.MustCompile(p)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
