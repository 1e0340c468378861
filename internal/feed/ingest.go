package feed

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	// DateLayout is ISO-8601 truncated to seconds, without a zone suffix.
	DateLayout = "2006-01-02T15:04:05"

	maxSlugLen = 60
	maxIDLen   = 80
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into the slug used inside entry ids.
func Slugify(text string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(text), "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, "-")
	if len(s) > maxSlugLen {
		s = s[:maxSlugLen]
	}
	return s
}

// ParseTags splits a comma-joined tag list, trimming and dropping empties.
func ParseTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return lo.Compact(lo.Map(strings.Split(raw, ","), func(t string, _ int) string {
		return strings.TrimSpace(t)
	}))
}

// NewEntry builds an entry for cfg from args. The date and id come from now.
func NewEntry(cfg Config, args Args, now time.Time) Entry {
	id := fmt.Sprintf("%s-%d-%s", cfg.Prefix, now.UnixMilli(), Slugify(args.Title))
	if len(id) > maxIDLen {
		id = id[:maxIDLen]
	}

	return Entry{
		ID:               id,
		Date:             now.UTC().Format(DateLayout),
		Title:            args.Title,
		Summary:          args.Summary,
		Source:           args.Source,
		SourceURL:        args.SourceURL,
		Category:         args.Category,
		Tags:             ParseTags(args.Tags),
		RelatedCandidate: args.RelatedCandidate,
		ImageURL:         args.ImageURL,
	}
}

// Submit resolves, builds, validates and stores a new entry under root.
func Submit(args Args, root string, now time.Time) (*Result, error) {
	return NewStore(root).Submit(args, now)
}

// Submit resolves, builds, validates and stores a new entry.
// Nothing is written unless every rule passes.
func (s *Store) Submit(args Args, now time.Time) (*Result, error) {
	cfg, err := Lookup(args.Feed)
	if err != nil {
		return nil, err
	}

	entry := NewEntry(cfg, args, now)
	if err := Validate(entry, cfg); err != nil {
		s.logger.Debug("entry rejected",
			zap.String("feed", cfg.Name),
			zap.String("title", entry.Title),
			zap.Error(err))
		return nil, err
	}

	if err := s.Prepend(cfg, entry); err != nil {
		return nil, err
	}

	s.logger.Info("entry added",
		zap.String("feed", cfg.Name),
		zap.String("id", entry.ID),
		zap.String("file", cfg.File))

	return &Result{Entry: entry, File: cfg.File}, nil
}
