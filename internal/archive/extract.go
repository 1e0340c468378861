package archive

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// stripped elements are dropped from the archived body with their content.
var stripped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Template: true,
	atom.Form:     true,
}

var sanitizer = bluemonday.UGCPolicy()

var (
	bylinePattern  = regexp.MustCompile(`\b[Bb]y[ \t]+([A-Z][a-z]+(?:[ \t]+[A-Z][a-z.'-]+){1,3})`)
	isoDatePattern = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	longDate       = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})\b`)
	blankRuns      = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// Extract pulls the title, byline, publish date and body out of a page.
// The body is the first article element, else the whole body, with
// scripts, styles and forms removed and the rest sanitized.
func Extract(page []byte, rawURL string) (*Article, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse article: %w", err)
	}

	a := &Article{URL: rawURL}
	if h1 := find(doc, atom.H1); h1 != nil {
		a.Title = collapse(textOf(h1))
	}
	if a.Title == "" {
		if title := find(doc, atom.Title); title != nil {
			a.Title = collapse(textOf(title))
		}
	}
	a.Author = metaContent(doc, "name", "author")
	a.PublishDate = isoDay(metaContent(doc, "property", "article:published_time"))
	if a.PublishDate == "" {
		if t := find(doc, atom.Time); t != nil {
			a.PublishDate = isoDay(attr(t, "datetime"))
		}
	}

	root := find(doc, atom.Article)
	if root == nil {
		root = find(doc, atom.Body)
	}
	if root == nil {
		root = doc
	}
	removeStripped(root)

	text := textOf(root)
	if a.Author == "" {
		if m := bylinePattern.FindStringSubmatch(text); m != nil {
			a.Author = m[1]
		}
	}
	if a.PublishDate == "" {
		a.PublishDate = dateInText(text)
	}

	var b bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return nil, fmt.Errorf("failed to render article body: %w", err)
		}
	}
	body := sanitizer.Sanitize(b.String())
	a.Body = strings.TrimSpace(blankRuns.ReplaceAllString(body, "\n\n"))
	return a, nil
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}

func removeStripped(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && stripped[c.DataAtom] {
			n.RemoveChild(c)
		} else if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeStripped(c)
		}
		c = next
	}
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// metaContent returns the content of the first <meta key="val">.
func metaContent(doc *html.Node, key, val string) string {
	var out string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Meta && strings.EqualFold(attr(n, key), val) {
			out = strings.TrimSpace(attr(n, "content"))
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(doc)
	return out
}

// isoDay reduces an RFC 3339 timestamp or a YYYY-MM-DD date to YYYY-MM-DD.
func isoDay(s string) string {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(time.DateOnly)
	}
	if len(s) >= 10 {
		if t, err := time.Parse(time.DateOnly, s[:10]); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return ""
}

// dateInText finds the first date written as YYYY-MM-DD or "January 2, 2006".
func dateInText(text string) string {
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2006-1-2", m[1]+"-"+m[2]+"-"+m[3]); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	if m := longDate.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("January 2 2006", m[1]+" "+m[2]+" "+m[3]); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return ""
}
