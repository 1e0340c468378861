package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// Sink accepts rendered markup. Each Render replaces what the sink held.
type Sink interface {
	Render(markup string) error
}

var (
	_ Sink = (*StringSink)(nil)
	_ Sink = (*ElementSink)(nil)
)

// ErrElementNotFound is returned when a page has no element with the target id.
var ErrElementNotFound = errors.New("element not found")

// StringSink keeps the last markup rendered to it.
type StringSink struct {
	markup string
}

func (s *StringSink) Render(markup string) error {
	s.markup = markup
	return nil
}

func (s *StringSink) String() string {
	return s.markup
}

// ElementSink renders into the element with a given id inside a parsed page.
type ElementSink struct {
	doc *html.Node
	el  *html.Node
}

// NewElementSink parses the page read from r and targets the element with id.
func NewElementSink(r io.Reader, id string) (*ElementSink, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	el := findByID(doc, id)
	if el == nil {
		return nil, fmt.Errorf("#%s: %w", id, ErrElementNotFound)
	}
	return &ElementSink{doc: doc, el: el}, nil
}

// Render replaces the children of the target element with markup.
func (s *ElementSink) Render(markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), s.el)
	if err != nil {
		return fmt.Errorf("failed to parse markup: %w", err)
	}
	for c := s.el.FirstChild; c != nil; c = s.el.FirstChild {
		s.el.RemoveChild(c)
	}
	for _, n := range nodes {
		s.el.AppendChild(n)
	}
	return nil
}

// WriteTo writes the whole page.
func (s *ElementSink) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, s.doc); err != nil {
		return 0, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.WriteTo(w)
}

// InjectFile renders markup into the element with id in the page at path
// and rewrites the page in place.
func InjectFile(path, id, markup string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read page: %w", err)
	}
	sink, err := NewElementSink(f, id)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := sink.Render(markup); err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := sink.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}
	return nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
