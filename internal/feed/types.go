// Package feed ingests news entries into the site's JSON feed files.
//
// This package enables sentinel to:
// - Resolve a named feed to its backing file and id prefix
// - Build and validate entries before anything touches disk
// - Prepend entries to the feed files the static pages read
// - Check existing feed files against the entry schema
package feed

import (
	"sort"
	"strings"
)

// Entry is one news item as stored in a feed file.
// Field order matches the on-disk JSON layout.
type Entry struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	Title            string   `json:"title"`
	Summary          string   `json:"summary"`
	Source           string   `json:"source"`
	SourceURL        string   `json:"sourceUrl"`
	Category         string   `json:"category"`
	Tags             []string `json:"tags"`
	RelatedCandidate string   `json:"relatedCandidate,omitempty"`
	ImageURL         string   `json:"imageUrl,omitempty"`
}

// Config describes one feed: where it lives and what it accepts.
type Config struct {
	Name       string
	File       string
	Prefix     string
	Categories []string
}

// Args is the flat key/value input accepted by Submit.
// Tags is a comma-joined list.
type Args struct {
	Feed             string
	Title            string
	Summary          string
	Source           string
	SourceURL        string
	Category         string
	Tags             string
	RelatedCandidate string
	ImageURL         string
}

// Result is returned by a successful Submit.
type Result struct {
	Entry Entry
	File  string
}

const (
	FeedCandidate = "candidate"
	FeedPolicy    = "policy"
	FeedBusiness  = "business"
)

var feeds = map[string]Config{
	FeedCandidate: {
		Name:       FeedCandidate,
		File:       "data/candidate-news.json",
		Prefix:     "cn",
		Categories: []string{"elections", "legislation", "county-government", "public-statement"},
	},
	FeedPolicy: {
		Name:       FeedPolicy,
		File:       "data/policy-feed.json",
		Prefix:     "pf",
		Categories: []string{"city-council", "county-government", "education", "infrastructure", "public-safety"},
	},
	FeedBusiness: {
		Name:       FeedBusiness,
		File:       "data/business-watch.json",
		Prefix:     "bw",
		Categories: []string{"donations", "endorsements", "social-stance", "hiring-practices"},
	},
}

// feedOrder is the order feeds are listed in messages and help text.
var feedOrder = []string{FeedCandidate, FeedPolicy, FeedBusiness}

// BlockedDomains are social sites never accepted as a primary source.
var BlockedDomains = []string{"nextdoor.com", "facebook.com", "twitter.com", "x.com", "instagram.com"}

// Names returns the known feed names.
func Names() []string {
	out := make([]string, len(feedOrder))
	copy(out, feedOrder)
	return out
}

// Lookup resolves a feed name to its configuration.
func Lookup(name string) (Config, error) {
	cfg, ok := feeds[name]
	if !ok || name == "" {
		return Config{}, &ConfigurationError{Feed: name, Valid: Names()}
	}
	cfg.Categories = append([]string(nil), cfg.Categories...)
	return cfg, nil
}

// ForID returns the feed whose id prefix starts entryID.
func ForID(entryID string) (Config, bool) {
	for _, name := range feedOrder {
		if strings.HasPrefix(entryID, feeds[name].Prefix+"-") {
			cfg, _ := Lookup(name)
			return cfg, true
		}
	}
	return Config{}, false
}

// All returns every feed configuration in display order.
func All() []Config {
	out := make([]Config, 0, len(feeds))
	for _, name := range feedOrder {
		cfg, _ := Lookup(name)
		out = append(out, cfg)
	}
	return out
}

// HasCategory reports whether category is allowed in this feed.
func (c Config) HasCategory(category string) bool {
	for _, cat := range c.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

// AllCategories returns the union of every feed's categories, sorted.
func AllCategories() []string {
	seen := map[string]bool{}
	var out []string
	for _, cfg := range feeds {
		for _, cat := range cfg.Categories {
			if !seen[cat] {
				seen[cat] = true
				out = append(out, cat)
			}
		}
	}
	sort.Strings(out)
	return out
}
