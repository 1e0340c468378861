// Package render produces the HTML fragments the static pages show:
// feed cards, feed previews, candidate cards and profile activity.
//
// Output is written to a Sink, so the same markup can be collected as a
// string or injected into an element of an existing page.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/hillcountry/sentinel/internal/aggregator"
	"github.com/hillcountry/sentinel/internal/autolink"
	"github.com/hillcountry/sentinel/internal/display"
	"github.com/hillcountry/sentinel/internal/feed"
	"github.com/hillcountry/sentinel/internal/roster"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// DefaultPreviewLimit is the number of cards in a preview when none is given.
const DefaultPreviewLimit = 3

// Renderer renders feed and roster data to markup.
type Renderer struct {
	base   string
	linker *autolink.Linker
}

// Option configures the Renderer.
type Option func(*Renderer)

// WithBasePath sets the prefix for site-relative image and profile paths,
// e.g. "../" for pages under feeds/ or profiles/.
func WithBasePath(base string) Option {
	return func(r *Renderer) { r.base = base }
}

// WithLinker links candidate names in card text. Cards wrapped in a
// source link are left alone, since links cannot nest.
func WithLinker(l *autolink.Linker) Option {
	return func(r *Renderer) { r.linker = l }
}

// New creates a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type cardView struct {
	ID        string
	URL       string
	External  bool
	Thumbnail string
	Title     string
	Date      string
	Summary   string
	Category  string
	Tags      []string
	Source    string
}

type candidateView struct {
	Name      string
	Href      string
	Photo     string
	Status    string
	Incumbent bool
}

// Card renders one feed entry.
func (r *Renderer) Card(e feed.Entry) (string, error) {
	out, err := execute("card", r.cardView(e))
	if err != nil || r.linker == nil {
		return out, err
	}
	// The whole card goes through the tree path, so a card that is
	// itself a link keeps its text plain.
	return r.linker.HTML(out), nil
}

// List renders entries newest first, one card per line.
func (r *Renderer) List(entries []feed.Entry) (string, error) {
	return r.cards(newestFirst(entries, aggregator.Options{}))
}

// Preview renders the newest limit entries followed by a "View All" link.
// A non-positive limit means DefaultPreviewLimit; an empty viewAllURL means "#".
func (r *Renderer) Preview(entries []feed.Entry, limit int, viewAllURL string) (string, error) {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}
	if viewAllURL == "" {
		viewAllURL = "#"
	}

	cards, err := r.cards(newestFirst(entries, aggregator.Options{Limit: limit}))
	if err != nil {
		return "", err
	}
	link, err := execute("view-all", viewAllURL)
	if err != nil {
		return "", err
	}
	return cards + "\n" + link, nil
}

// ProfileFeed renders the entries related to one candidate, newest first,
// or a placeholder when there are none.
func (r *Renderer) ProfileFeed(entries []feed.Entry, slug string) (string, error) {
	var related []feed.Entry
	if slug != "" {
		related = newestFirst(entries, aggregator.Options{Candidate: slug})
	}
	if len(related) == 0 {
		return execute("no-activity", nil)
	}
	return r.cards(related)
}

// CandidateCard renders one candidate with photo, status and profile link.
func (r *Renderer) CandidateCard(c roster.Candidate) (string, error) {
	return execute("candidate", r.candidateView(c))
}

// CandidateGrid renders every candidate into a card grid.
func (r *Renderer) CandidateGrid(cs []roster.Candidate) (string, error) {
	views := make([]candidateView, len(cs))
	for i, c := range cs {
		views[i] = r.candidateView(c)
	}
	return execute("grid", views)
}

// Thumbnail returns the entry image, or the icon of the entry's feed.
func (r *Renderer) Thumbnail(e feed.Entry) string {
	if e.ImageURL != "" {
		return e.ImageURL
	}

	name := ""
	if cfg, ok := feed.ForID(e.ID); ok {
		name = cfg.Name
	} else {
		source := strings.ToLower(e.Source)
		for _, n := range feed.Names() {
			if strings.Contains(source, n) {
				name = n
				break
			}
		}
	}

	switch name {
	case feed.FeedCandidate, feed.FeedPolicy, feed.FeedBusiness:
		return r.base + "images/icon-" + name + ".png"
	default:
		return r.base + "images/icon-news.png"
	}
}

func (r *Renderer) cards(entries []feed.Entry) (string, error) {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		card, err := r.Card(e)
		if err != nil {
			return "", err
		}
		out = append(out, card)
	}
	return strings.Join(out, "\n"), nil
}

func (r *Renderer) cardView(e feed.Entry) cardView {
	source := e.Source
	if source == "" {
		source = "Source"
	}

	return cardView{
		ID:        e.ID,
		URL:       e.SourceURL,
		External:  strings.HasPrefix(e.SourceURL, "http://") || strings.HasPrefix(e.SourceURL, "https://"),
		Thumbnail: r.Thumbnail(e),
		Title:     e.Title,
		Date:      display.FormatDate(e.Date),
		Summary:   e.Summary,
		Category:  display.FormatCategory(e.Category),
		Tags:      e.Tags,
		Source:    source,
	}
}

func (r *Renderer) candidateView(c roster.Candidate) candidateView {
	v := candidateView{
		Name:      c.Name,
		Photo:     c.Photo,
		Status:    c.Status,
		Incumbent: c.Incumbent,
	}
	if v.Photo == "" {
		v.Photo = r.base + "images/default-person.png"
	}
	if c.Slug != "" {
		v.Href = r.base + "profiles/" + c.Slug + ".html"
	}
	return v
}

func newestFirst(entries []feed.Entry, opts aggregator.Options) []feed.Entry {
	agg := aggregator.New()
	agg.AddEntries("", entries)
	items := agg.GetFeed(opts)
	out := make([]feed.Entry, len(items))
	for i, item := range items {
		out[i] = item.Entry
	}
	return out
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return b.String(), nil
}
