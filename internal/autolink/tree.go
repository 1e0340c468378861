package autolink

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// skipped elements are never descended into. Site chrome (nav, footer and
// the injected #site-nav / #site-footer containers) is not content.
var skipped = map[atom.Atom]bool{
	atom.A:        true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Nav:      true,
	atom.Footer:   true,
	atom.Head:     true,
	atom.Title:    true,
	atom.Textarea: true,
	atom.Noscript: true,
	atom.Template: true,
}

var skippedIDs = map[string]bool{"site-nav": true, "site-footer": true}

// HTML links names in a markup fragment by walking its text nodes.
// If nothing is linked, or the fragment cannot be parsed, s is returned
// unchanged.
func (l *Linker) HTML(s string) string {
	out, _ := l.linkFragment(s)
	return out
}

func (l *Linker) linkFragment(s string) (string, int) {
	if s == "" || len(l.terms) == 0 {
		return s, 0
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s), context)
	if err != nil {
		return s, 0
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	added := l.LinkNode(container)
	if added == 0 {
		return s, 0
	}

	var b strings.Builder
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return s, 0
		}
	}
	return b.String(), added
}

// Document links names across a full HTML page read from r and writes the
// result to w. It returns the number of links added.
func (l *Linker) Document(r io.Reader, w io.Writer) (int, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return 0, fmt.Errorf("failed to parse document: %w", err)
	}

	added := l.LinkNode(doc)
	if err := html.Render(w, doc); err != nil {
		return added, fmt.Errorf("failed to render document: %w", err)
	}
	return added, nil
}

// LinkNode rewrites the text nodes under n in place and returns the number
// of links added. Text under a skipped element is left alone.
func (l *Linker) LinkNode(n *html.Node) int {
	if n == nil || len(l.terms) == 0 {
		return 0
	}

	added := 0
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			added += l.linkText(n)
			return
		case html.ElementNode:
			if skipElement(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			visit(c)
			c = next
		}
	}
	visit(n)
	return added
}

func skipElement(n *html.Node) bool {
	if skipped[n.DataAtom] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == "id" && skippedIDs[attr.Val] {
			return true
		}
	}
	return false
}

// linkText replaces a text node with text and anchor siblings.
func (l *Linker) linkText(n *html.Node) int {
	parent := n.Parent
	if parent == nil {
		return 0
	}

	spans := l.find(n.Data, nil)
	if len(spans) == 0 {
		return 0
	}

	prev := 0
	for _, sp := range spans {
		if sp.start > prev {
			parent.InsertBefore(textNode(n.Data[prev:sp.start]), n)
		}
		parent.InsertBefore(l.anchorNode(sp.slug, n.Data[sp.start:sp.end]), n)
		prev = sp.end
	}
	if prev < len(n.Data) {
		parent.InsertBefore(textNode(n.Data[prev:]), n)
	}
	parent.RemoveChild(n)
	return len(spans)
}

func (l *Linker) anchorNode(slug, label string) *html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr: []html.Attribute{
			{Key: "href", Val: l.Href(slug)},
			{Key: "class", Val: l.class},
		},
	}
	a.AppendChild(textNode(label))
	return a
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
