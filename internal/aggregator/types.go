// Package aggregator combines the site's feeds into one view.
//
// This package enables sentinel to:
// - Merge candidate, policy and business entries chronologically
// - Filter entries by feed, category, candidate and date range
// - Provide a unified Item for display and rendering
package aggregator

import (
	"time"

	"github.com/hillcountry/sentinel/internal/feed"
)

// Item is a feed entry tagged with the feed it came from.
type Item struct {
	Feed  string
	Entry feed.Entry

	// PublishedAt is the parsed entry date; zero when Dated is false.
	PublishedAt time.Time
	Dated       bool
}

// Options configures feed retrieval. Zero values disable a filter.
type Options struct {
	Limit      int
	Since      time.Time
	Until      time.Time
	Feeds      []string
	Categories []string

	// Candidate keeps entries whose relatedCandidate equals this slug.
	Candidate string
}
