package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hillcountry/sentinel/internal/aggregator"
	"github.com/hillcountry/sentinel/internal/display"
)

// newListCmd creates the list subcommand.
func newListCmd(a *app) *cobra.Command {
	var feeds []string
	var categories []string
	var candidate string
	var since, until string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Display feed entries",
		Long:  "Display entries from every feed, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfgs, err := selectFeeds(feeds)
			if err != nil {
				return err
			}

			opts := aggregator.Options{Limit: limit, Categories: categories, Candidate: candidate}
			if opts.Since, err = parseDay(since, false); err != nil {
				return err
			}
			if opts.Until, err = parseDay(until, true); err != nil {
				return err
			}

			agg, err := aggregator.Load(a.store(), cfgs)
			if err != nil {
				return err
			}

			formatter := display.NewTerminalFormatter(display.WithClock(a.now))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFeed(agg.GetFeed(opts)))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&feeds, "feed", "f", nil, "Only these feeds (candidate, policy, business)")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "Only these categories")
	cmd.Flags().StringVar(&candidate, "candidate", "", "Only entries related to this candidate slug")
	cmd.Flags().StringVar(&since, "since", "", "Only entries on or after this day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&until, "until", "", "Only entries on or before this day (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of entries to display (0 for all)")

	return cmd
}

// parseDay parses a YYYY-MM-DD flag. endOfDay moves the result to the
// last instant of that day so --until is inclusive.
func parseDay(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
