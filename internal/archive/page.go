package archive

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Dir is the site-relative directory archived pages are written to.
const Dir = "articles/archive"

// minCompleteBody is the body length below which a page gets a
// "may be incomplete" note.
const minCompleteBody = 500

const incompleteNote = `<p><em>Note: This archived content may be incomplete. For the full article, please visit the original source.</em></p>`

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Request names the article to archive and where its copy goes.
type Request struct {
	URL    string
	Slug   string
	Source string
}

// Result describes a written archive page.
type Result struct {
	// Path is site-relative, e.g. articles/archive/some-slug.html.
	Path  string
	Title string
}

type pageView struct {
	Title    string
	Source   string
	URL      string
	Author   string
	Date     string
	LongDate string
	Archived string
	Body     template.HTML
}

// Page renders the archived copy of a. The publish date falls back to
// archivedAt when the article has none.
func Page(a *Article, source string, archivedAt time.Time) (string, error) {
	title := displayTitle(a, source)

	date := a.PublishDate
	if date == "" {
		date = archivedAt.Format(time.DateOnly)
	}
	long := date
	if t, err := time.Parse(time.DateOnly, date); err == nil {
		long = t.Format("January 2, 2006")
	}

	view := pageView{
		Title:    title,
		Source:   source,
		URL:      a.URL,
		Author:   a.Author,
		Date:     date,
		LongDate: long,
		Archived: archivedAt.Format("January 2, 2006"),
		Body:     template.HTML(body(a.Body)),
	}

	var b strings.Builder
	if err := pageTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("failed to render archive page: %w", err)
	}
	return b.String(), nil
}

// body wraps bare text in paragraphs and flags short content.
func body(content string) string {
	if !strings.Contains(content, "<p") && !strings.Contains(content, "<h") {
		var paras []string
		for _, para := range strings.Split(content, "\n\n") {
			if para = strings.TrimSpace(para); para != "" {
				paras = append(paras, "<p>"+para+"</p>")
			}
		}
		content = strings.Join(paras, "\n")
	}
	if len([]rune(content)) < minCompleteBody {
		content += "\n\n" + incompleteNote
	}
	return content
}

// Save writes page to articles/archive/<slug>.html under root and returns
// the site-relative path.
func Save(root, slug, page string) (string, error) {
	if !slugPattern.MatchString(slug) {
		return "", fmt.Errorf("%q: %w", slug, ErrInvalidSlug)
	}

	rel := Dir + "/" + slug + ".html"
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("failed to write archive page: %w", err)
	}
	return rel, nil
}

// Archive fetches the article, renders its copy and saves it under root.
func (c *Client) Archive(ctx context.Context, req Request, root string, now time.Time) (*Result, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, fmt.Errorf("%q: %w", req.Slug, ErrInvalidSlug)
	}

	article, err := c.Fetch(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	page, err := Page(article, req.Source, now)
	if err != nil {
		return nil, err
	}

	rel, err := Save(root, req.Slug, page)
	if err != nil {
		return nil, err
	}

	c.logger.Info("archived article", zap.String("slug", req.Slug), zap.String("path", rel))
	return &Result{Path: rel, Title: displayTitle(article, req.Source)}, nil
}

func displayTitle(a *Article, source string) string {
	if a.Title != "" {
		return a.Title
	}
	return "Article from " + source
}
