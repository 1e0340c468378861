package aggregator

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hillcountry/sentinel/internal/feed"
)

// Aggregator collects and merges entries from several feeds.
type Aggregator struct {
	items []Item
}

// New creates a new Aggregator instance.
func New() *Aggregator {
	return &Aggregator{
		items: make([]Item, 0),
	}
}

// AddEntries adds the entries of one feed.
func (a *Aggregator) AddEntries(feedName string, entries []feed.Entry) {
	for _, e := range entries {
		at, ok := feed.ParseDate(e.Date)
		a.items = append(a.items, Item{Feed: feedName, Entry: e, PublishedAt: at, Dated: ok})
	}
}

// Len returns the number of entries collected so far.
func (a *Aggregator) Len() int {
	return len(a.items)
}

// GetFeed returns the matching entries, newest first. Entries sharing a
// date keep the order they were added in; undated entries come last.
// A date range excludes undated entries.
func (a *Aggregator) GetFeed(opts Options) []Item {
	out := lo.Filter(a.items, func(item Item, _ int) bool {
		return opts.matches(item)
	})

	sort.SliceStable(out, func(i, j int) bool {
		x, y := out[i], out[j]
		if x.Dated != y.Dated {
			return x.Dated
		}
		return x.PublishedAt.After(y.PublishedAt)
	})

	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func (o Options) matches(item Item) bool {
	if len(o.Feeds) > 0 && !lo.Contains(o.Feeds, item.Feed) {
		return false
	}
	if len(o.Categories) > 0 && !lo.Contains(o.Categories, item.Entry.Category) {
		return false
	}
	if o.Candidate != "" && item.Entry.RelatedCandidate != o.Candidate {
		return false
	}
	if o.Since.IsZero() && o.Until.IsZero() {
		return true
	}
	if !item.Dated {
		return false
	}
	if !o.Since.IsZero() && item.PublishedAt.Before(o.Since) {
		return false
	}
	if !o.Until.IsZero() && item.PublishedAt.After(o.Until) {
		return false
	}
	return true
}
