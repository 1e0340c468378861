package main

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/hillcountry/sentinel/internal/aggregator"
	"github.com/hillcountry/sentinel/internal/autolink"
	"github.com/hillcountry/sentinel/internal/feed"
	"github.com/hillcountry/sentinel/internal/render"
)

// renderTarget is where rendered markup goes: a page element or stdout.
type renderTarget struct {
	page string
	id   string
}

func (t *renderTarget) addFlags(cmd *cobra.Command, defaultID string) {
	cmd.Flags().StringVar(&t.page, "page", "", "Write into this HTML page instead of stdout")
	cmd.Flags().StringVar(&t.id, "target", defaultID, "Id of the element to fill in --page")
}

func (t *renderTarget) emit(cmd *cobra.Command, markup string) error {
	if t.page != "" {
		if err := render.InjectFile(t.page, t.id, markup); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Rendered into %s#%s\n", t.page, t.id)
		return nil
	}

	var sink render.StringSink
	if err := sink.Render(markup); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sink.String())
	return nil
}

// newRenderCmd creates the render command group.
func newRenderCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render feed cards and candidate cards",
		Long:  "Render feed entries and candidates to HTML, either to stdout or into an element of an existing page.",
	}

	cmd.AddCommand(newRenderFeedCmd(a))
	cmd.AddCommand(newRenderCandidatesCmd(a))
	cmd.AddCommand(newRenderProfileCmd(a))

	return cmd
}

func newRenderFeedCmd(a *app) *cobra.Command {
	var feeds []string
	var preview int
	var viewAll string
	var base string
	var link bool
	var target renderTarget

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Render feed entries as cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.loadEntries(feeds)
			if err != nil {
				return err
			}

			opts := []render.Option{render.WithBasePath(base)}
			if link {
				r, err := a.loadRoster()
				if err != nil {
					return err
				}
				opts = append(opts, render.WithLinker(autolink.New(r, base)))
			}
			renderer := render.New(opts...)

			var markup string
			if cmd.Flags().Changed("preview") {
				markup, err = renderer.Preview(entries, preview, viewAll)
			} else {
				markup, err = renderer.List(entries)
			}
			if err != nil {
				return err
			}
			return target.emit(cmd, markup)
		},
	}

	cmd.Flags().StringSliceVarP(&feeds, "feed", "f", nil, "Only these feeds (default: all)")
	cmd.Flags().IntVar(&preview, "preview", render.DefaultPreviewLimit, "Render only the newest N entries and a View All link")
	cmd.Flags().StringVar(&viewAll, "view-all", "", "View All link target for --preview")
	cmd.Flags().StringVar(&base, "base", "", "Prefix for site-relative links, e.g. ../")
	cmd.Flags().BoolVar(&link, "link", false, "Link candidate names in summaries")
	target.addFlags(cmd, "news-feed")

	return cmd
}

func newRenderCandidatesCmd(a *app) *cobra.Command {
	var base string
	var target renderTarget

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Render the candidate card grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.loadRoster()
			if err != nil {
				return err
			}
			markup, err := render.New(render.WithBasePath(base)).CandidateGrid(r.Candidates)
			if err != nil {
				return err
			}
			return target.emit(cmd, markup)
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Prefix for site-relative links, e.g. ../")
	target.addFlags(cmd, "candidates-grid")

	return cmd
}

func newRenderProfileCmd(a *app) *cobra.Command {
	var base string
	var feeds []string
	var target renderTarget

	cmd := &cobra.Command{
		Use:   "profile <slug>",
		Short: "Render the activity feed for one candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			r, err := a.loadRoster()
			if err != nil {
				return err
			}
			if _, ok := r.Find(slug); !ok {
				return fmt.Errorf("unknown candidate %q", slug)
			}

			entries, err := a.loadEntries(feeds)
			if err != nil {
				return err
			}
			markup, err := render.New(render.WithBasePath(base)).ProfileFeed(entries, slug)
			if err != nil {
				return err
			}
			return target.emit(cmd, markup)
		},
	}

	cmd.Flags().StringVar(&base, "base", "../", "Prefix for site-relative links")
	cmd.Flags().StringSliceVarP(&feeds, "feed", "f", []string{feed.FeedCandidate}, "Feeds to search for the candidate's activity")
	target.addFlags(cmd, "candidate-feed")

	return cmd
}

// loadEntries reads the named feeds, or all of them, into one slice.
func (a *app) loadEntries(names []string) ([]feed.Entry, error) {
	cfgs, err := selectFeeds(names)
	if err != nil {
		return nil, err
	}

	agg, err := aggregator.Load(a.store(), cfgs)
	if err != nil {
		return nil, err
	}
	items := agg.GetFeed(aggregator.Options{})
	return lo.Map(items, func(it aggregator.Item, _ int) feed.Entry { return it.Entry }), nil
}

// selectFeeds resolves feed names, or every feed when names is empty.
func selectFeeds(names []string) ([]feed.Config, error) {
	if len(names) == 0 {
		return feed.All(), nil
	}
	cfgs := make([]feed.Config, 0, len(names))
	for _, name := range names {
		cfg, err := feed.Lookup(name)
		if err != nil {
			return nil, err
		}
		cfgs = append(cfgs, cfg)
	}
	return cfgs, nil
}
