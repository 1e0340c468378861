// Package render tests document the markup the static pages display.
//
// Test requirements (this file serves as documentation):
// - Every user-supplied string is escaped
// - Cards link out to the source in a new tab
// - Entries without an image get their feed's icon
// - Lists and previews show the newest entries first
// - Candidate cards link to profiles and mark incumbents
package render

import (
	"strings"
	"testing"

	"github.com/hillcountry/sentinel/internal/autolink"
	"github.com/hillcountry/sentinel/internal/feed"
	"github.com/hillcountry/sentinel/internal/roster"
)

func entry(id, date, title string) feed.Entry {
	return feed.Entry{
		ID:        id,
		Date:      date,
		Title:     title,
		Summary:   "Summary of " + title,
		Source:    "Herald-Zeitung",
		SourceURL: "https://herald-zeitung.com/" + id,
		Category:  "county-government",
		Tags:      []string{"judge"},
	}
}

// mustRender returns a checker for a render result, used as
// mustRender(t)(r.Card(e)).
func mustRender(t *testing.T) func(string, error) string {
	t.Helper()
	return func(out string, err error) string {
		t.Helper()
		if err != nil {
			t.Fatalf("render should succeed, got: %v", err)
		}
		return out
	}
}

func TestAC700_Card_ShowsEntryFields(t *testing.T) {
	out := mustRender(t)(New().Card(entry("cn-1-race", "2026-02-10T15:04:05", "Judge race")))

	for _, want := range []string{
		`<article class="feed-entry" data-id="cn-1-race">`,
		`<div class="entry-date">February 10, 2026</div>`,
		`<h3 class="entry-title">Judge race</h3>`,
		`<p class="entry-summary">Summary of Judge race</p>`,
		`<span class="tag category-badge">County Government</span><span class="tag">judge</span>`,
		`<div class="entry-source">Source: Herald-Zeitung</div>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("user should see %s in the card, got:\n%s", want, out)
		}
	}
}

func TestAC701_Card_LinksToSourceInNewTab(t *testing.T) {
	out := mustRender(t)(New().Card(entry("cn-1-race", "2026-02-10", "Judge race")))

	want := `<a href="https://herald-zeitung.com/cn-1-race" target="_blank" rel="noopener noreferrer" class="feed-entry-link"><article`
	if !strings.HasPrefix(out, want) {
		t.Errorf("card should be wrapped in an external link, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "</article></a>") {
		t.Errorf("link should close after the card, got:\n%s", out)
	}
}

func TestAC701_Card_NoLinkWithoutSourceURL(t *testing.T) {
	e := entry("cn-1-race", "2026-02-10", "Judge race")
	e.SourceURL = ""

	out := mustRender(t)(New().Card(e))

	if strings.Contains(out, "feed-entry-link") {
		t.Errorf("card without a source should not be a link, got:\n%s", out)
	}
}

func TestAC702_Card_EscapesUserText(t *testing.T) {
	e := entry("cn-1-x", "2026-02-10", `<script>alert("x")</script>`)
	e.Summary = `Fish & "Game" <b>`
	e.Tags = []string{"<i>"}

	out := mustRender(t)(New().Card(e))

	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>") || strings.Contains(out, "<i>") {
		t.Fatalf("user text should never become markup, got:\n%s", out)
	}
	if !strings.Contains(out, `<p class="entry-summary">Fish &amp; &#34;Game&#34; &lt;b&gt;</p>`) {
		t.Errorf("summary should be escaped, got:\n%s", out)
	}
}

func TestAC703_Thumbnail_FallsBackToFeedIcon(t *testing.T) {
	r := New(WithBasePath("../"))
	cases := map[string]feed.Entry{
		"../images/icon-candidate.png": {ID: "cn-1-a"},
		"../images/icon-policy.png":    {ID: "pf-1-a"},
		"../images/icon-business.png":  {ID: "x", Source: "Business Journal"},
		"../images/icon-news.png":      {ID: "x", Source: "Herald"},
		"https://img.example/a.jpg":    {ID: "cn-1-a", ImageURL: "https://img.example/a.jpg"},
	}

	for want, e := range cases {
		if got := r.Thumbnail(e); got != want {
			t.Errorf("Thumbnail(%+v) = %q, want %q", e, got, want)
		}
	}
}

func TestAC704_List_ShowsNewestFirst(t *testing.T) {
	out := mustRender(t)(New().List([]feed.Entry{
		entry("cn-1-old", "2026-01-01", "Old"),
		entry("cn-2-new", "2026-02-01", "New"),
	}))

	if strings.Index(out, "cn-2-new") > strings.Index(out, "cn-1-old") {
		t.Errorf("newest card should come first, got:\n%s", out)
	}
}

func TestAC705_Preview_LimitsAndLinksToAll(t *testing.T) {
	entries := []feed.Entry{
		entry("cn-1-a", "2026-01-01", "A"),
		entry("cn-2-b", "2026-01-02", "B"),
		entry("cn-3-c", "2026-01-03", "C"),
		entry("cn-4-d", "2026-01-04", "D"),
	}

	out := mustRender(t)(New().Preview(entries, 0, "feeds/candidate.html"))

	if n := strings.Count(out, `<article class="feed-entry"`); n != DefaultPreviewLimit {
		t.Errorf("preview should show %d cards by default, got %d", DefaultPreviewLimit, n)
	}
	if strings.Contains(out, "cn-1-a") {
		t.Error("oldest entry should be left out of the preview")
	}
	if !strings.HasSuffix(out, "\n"+`<a href="feeds/candidate.html" class="view-all">View All →</a>`) {
		t.Errorf("preview should end with a View All link, got:\n%s", out)
	}

	out = mustRender(t)(New().Preview(entries, 1, ""))
	if !strings.Contains(out, `<a href="#" class="view-all">`) {
		t.Errorf("View All should default to #, got:\n%s", out)
	}
}

func TestAC706_ProfileFeed_ShowsOnlyThatCandidate(t *testing.T) {
	mine := entry("cn-1-mine", "2026-01-01", "Mine")
	mine.RelatedCandidate = "carrie-isaac"
	other := entry("cn-2-other", "2026-01-02", "Other")
	other.RelatedCandidate = "kevin-webb"

	out := mustRender(t)(New().ProfileFeed([]feed.Entry{mine, other}, "carrie-isaac"))

	if !strings.Contains(out, "cn-1-mine") || strings.Contains(out, "cn-2-other") {
		t.Errorf("profile should show only the candidate's entries, got:\n%s", out)
	}
}

func TestAC706_ProfileFeed_EmptyMessage(t *testing.T) {
	want := `<p class="no-activity">No recent activity found for this official.</p>`

	for _, slug := range []string{"nobody", ""} {
		out := mustRender(t)(New().ProfileFeed([]feed.Entry{entry("cn-1-a", "2026-01-01", "A")}, slug))
		if out != want {
			t.Errorf("profile %q without activity should show the placeholder, got:\n%s", slug, out)
		}
	}
}

func TestAC707_CandidateCard_LinksProfileAndMarksIncumbent(t *testing.T) {
	c := roster.Candidate{Name: "Carrie Isaac", Slug: "carrie-isaac", Status: "State Rep", Incumbent: true}

	out := mustRender(t)(New(WithBasePath("../")).CandidateCard(c))

	for _, want := range []string{
		`<div class="card candidate-card incumbent">`,
		`<img src="../images/default-person.png" alt="Carrie Isaac" />`,
		`<div class="name"><a href="../profiles/carrie-isaac.html">Carrie Isaac</a></div>`,
		`<div class="status">State Rep</div>`,
		`<span class="badge incumbent">Incumbent</span>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("candidate card should contain %s, got:\n%s", want, out)
		}
	}
}

func TestAC707_CandidateCard_PlainNameWithoutSlug(t *testing.T) {
	c := roster.Candidate{Name: "Write In", Photo: "images/w.png"}

	out := mustRender(t)(New().CandidateCard(c))

	if !strings.Contains(out, `<div class="name">Write In</div>`) || strings.Contains(out, "Incumbent") {
		t.Errorf("candidate without slug should show a plain name, got:\n%s", out)
	}
	if !strings.Contains(out, `src="images/w.png"`) {
		t.Errorf("candidate photo should be used, got:\n%s", out)
	}
}

func TestAC708_CandidateGrid_RendersEveryCandidate(t *testing.T) {
	r := roster.Default()

	out := mustRender(t)(New().CandidateGrid(r.Candidates))

	if !strings.HasPrefix(out, `<div class="cards-grid candidate-grid">`) {
		t.Errorf("grid should be wrapped, got:\n%s", out)
	}
	if n := strings.Count(out, "candidate-card"); n != r.Len() {
		t.Errorf("grid should hold %d cards, got %d", r.Len(), n)
	}
}

func TestAC709_Card_LinksCandidateNamesInSummary(t *testing.T) {
	linker := autolink.New(roster.Default(), "../")
	e := entry("cn-1-a", "2026-01-01", "A")
	e.SourceURL = ""
	e.Summary = "Carrie Isaac filed & spoke."

	out := mustRender(t)(New(WithLinker(linker)).Card(e))

	want := `<p class="entry-summary"><a href="../profiles/carrie-isaac.html" class="candidate-auto-link">Carrie Isaac</a> filed &amp; spoke.</p>`
	if !strings.Contains(out, want) {
		t.Errorf("summary names should link to profiles, got:\n%s", out)
	}
}

func TestAC709_Card_NeverNestsLinks(t *testing.T) {
	linker := autolink.New(roster.Default(), "")
	e := entry("cn-1-a", "2026-01-01", "A")
	e.Summary = "Carrie Isaac spoke"

	out := mustRender(t)(New(WithLinker(linker)).Card(e))

	if strings.Contains(out, "candidate-auto-link") {
		t.Errorf("a card that is already a link should not get profile links inside it, got:\n%s", out)
	}
	if !strings.Contains(out, `<p class="entry-summary">Carrie Isaac spoke</p>`) {
		t.Errorf("summary should be left as written, got:\n%s", out)
	}
	if strings.Count(out, "<a ") != 1 {
		t.Errorf("card should hold exactly one link, got:\n%s", out)
	}
}

func TestAC709_List_LinksOnlyUnlinkedCards(t *testing.T) {
	linker := autolink.New(roster.Default(), "")
	linked := entry("cn-1-a", "2026-01-01", "A")
	linked.Summary = "Kevin Webb voted."
	plain := entry("cn-2-b", "2026-01-02", "B")
	plain.SourceURL = ""
	plain.Summary = "Carrie Isaac voted."

	out := mustRender(t)(New(WithLinker(linker)).List([]feed.Entry{linked, plain}))

	if n := strings.Count(out, "candidate-auto-link"); n != 1 {
		t.Errorf("only the card without a source link should get a profile link, got %d:\n%s", n, out)
	}
	if strings.Contains(out, "kevin-webb.html") {
		t.Errorf("names inside a linked card should stay plain, got:\n%s", out)
	}
}
