// Package archive tests document how external articles are copied locally.
//
// Test requirements (this file serves as documentation):
// - Client extracts title, byline, publish date and a sanitized body
// - Client retries server errors but not client errors
// - Archive pages credit the original source and link back to it
// - Short content is flagged as possibly incomplete
// - Pages are written to articles/archive/<slug>.html
package archive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const articlePage = `<html><head><title>Herald | Water rates</title>
<meta name="author" content="Jane Roe">
<meta property="article:published_time" content="2026-02-09T08:30:00-06:00">
<style>p { color: red }</style></head>
<body><nav>Menu</nav><article><h1>Water rates rise</h1>
<p onclick="steal()">The council voted.</p><script>alert(1)</script>
<p>Second <em>para</em>.</p></article></body></html>`

var archivedAt = time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)

func serve(t *testing.T, page string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, page)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAC800_Fetch_ExtractsArticle(t *testing.T) {
	server := serve(t, articlePage)

	a, err := NewClient().Fetch(context.Background(), server.URL+"/story")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Title != "Water rates rise" {
		t.Errorf("expected title from the first h1, got %q", a.Title)
	}
	if a.Author != "Jane Roe" {
		t.Errorf("expected author from meta, got %q", a.Author)
	}
	if a.PublishDate != "2026-02-09" {
		t.Errorf("expected publish date from meta, got %q", a.PublishDate)
	}
	if a.URL != server.URL+"/story" {
		t.Errorf("expected the requested URL to be kept, got %q", a.URL)
	}
}

func TestAC801_Fetch_SanitizesBody(t *testing.T) {
	server := serve(t, articlePage)

	a, err := NewClient().Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(a.Body, "<p>The council voted.</p>") {
		t.Errorf("body should keep paragraphs without handlers, got:\n%s", a.Body)
	}
	for _, banned := range []string{"alert", "<script", "onclick", "Menu", "color: red"} {
		if strings.Contains(a.Body, banned) {
			t.Errorf("body should not contain %q, got:\n%s", banned, a.Body)
		}
	}
}

func TestAC802_Extract_FallsBackToTitleAndText(t *testing.T) {
	page := "<html><head><title>Fallback Title</title></head><body>\n<p>By John Smith</p>\n<p>Published March 5, 2025.</p></body></html>"

	a, err := Extract([]byte(page), "https://example.com/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.Title != "Fallback Title" {
		t.Errorf("expected <title> when there is no h1, got %q", a.Title)
	}
	if a.Author != "John Smith" {
		t.Errorf("expected byline from text, got %q", a.Author)
	}
	if a.PublishDate != "2025-03-05" {
		t.Errorf("expected date from text, got %q", a.PublishDate)
	}
}

func TestAC803_Fetch_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(WithRetries(3, time.Millisecond)).Fetch(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusNotFound {
		t.Fatalf("expected HTTP 404 error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("404 should not be retried, got %d requests", calls.Load())
	}
}

func TestAC803_Fetch_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, articlePage)
	}))
	defer server.Close()

	a, err := NewClient(WithRetries(2, time.Millisecond)).Fetch(context.Background(), server.URL)

	if err != nil {
		t.Fatalf("fetch should succeed after retries, got %v", err)
	}
	if a.Title != "Water rates rise" || calls.Load() != 3 {
		t.Errorf("expected success on the third request, got %q after %d", a.Title, calls.Load())
	}
}

func TestAC803_Fetch_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(WithRetries(1, time.Millisecond)).Fetch(context.Background(), server.URL)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected HTTP error after retries, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected one retry, got %d requests", calls.Load())
	}
}

func TestAC804_Fetch_RejectsNonHTTPURL(t *testing.T) {
	_, err := NewClient().Fetch(context.Background(), "ftp://example.com/a")

	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected invalid URL error, got %v", err)
	}
}

func TestAC805_Page_CreditsOriginalSource(t *testing.T) {
	a := &Article{URL: "https://herald-zeitung.com/a", Title: "Water rates rise", Author: "Jane Roe", PublishDate: "2026-02-09", Body: "<p>Text</p>"}

	page, err := Page(a, "Herald-Zeitung", archivedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		`<title>Water rates rise [ARCHIVED] | Hill Country Sentinel</title>`,
		`<div class="archive-banner">`,
		`<a href="https://herald-zeitung.com/a" target="_blank" rel="noopener">https://herald-zeitung.com/a</a>`,
		`<time datetime="2026-02-09">February 9, 2026</time>`,
		`<span class="article-author">By Jane Roe</span>`,
		`Originally published by Herald-Zeitung`,
		`<h3>Archive Information</h3>`,
		`<li>Archived: February 10, 2026</li>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("archive page should contain %s", want)
		}
	}
}

func TestAC806_Page_FlagsShortContent(t *testing.T) {
	short := &Article{URL: "https://x.com", Body: "Just one line."}

	page, err := Page(short, "Herald", archivedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(page, "<p>Just one line.</p>") {
		t.Error("bare text should be wrapped in a paragraph")
	}
	if !strings.Contains(page, "may be incomplete") {
		t.Error("short content should carry the incomplete note")
	}
	if !strings.Contains(page, "<h1>Article from Herald</h1>") {
		t.Error("missing title should fall back to the source name")
	}
	if !strings.Contains(page, `<time datetime="2026-02-10">`) {
		t.Error("missing publish date should fall back to the archive date")
	}

	long := &Article{URL: "https://x.com", Body: "<p>" + strings.Repeat("word ", 120) + "</p>"}
	page, _ = Page(long, "Herald", archivedAt)
	if strings.Contains(page, "may be incomplete") {
		t.Error("long content should not carry the incomplete note")
	}
}

func TestAC807_Archive_WritesPage(t *testing.T) {
	server := serve(t, articlePage)
	root := t.TempDir()

	res, err := NewClient().Archive(context.Background(), Request{
		URL:    server.URL,
		Slug:   "water-rates-rise",
		Source: "Herald-Zeitung",
	}, root, archivedAt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Path != "articles/archive/water-rates-rise.html" || res.Title != "Water rates rise" {
		t.Errorf("unexpected result %+v", res)
	}
	data, err := os.ReadFile(filepath.Join(root, "articles", "archive", "water-rates-rise.html"))
	if err != nil {
		t.Fatalf("archive page should exist: %v", err)
	}
	if !strings.Contains(string(data), "The council voted.") {
		t.Error("archive page should hold the article body")
	}
}

func TestAC807_Archive_RejectsUnsafeSlug(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := NewClient().Archive(context.Background(), Request{URL: server.URL, Slug: "../index", Source: "x"}, t.TempDir(), archivedAt)

	if !errors.Is(err, ErrInvalidSlug) {
		t.Errorf("expected invalid slug error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Error("nothing should be fetched for an invalid slug")
	}
}
