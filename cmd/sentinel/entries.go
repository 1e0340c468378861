package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hillcountry/sentinel/internal/feed"
)

// newAddEntryCmd creates the add-entry subcommand.
func newAddEntryCmd(a *app) *cobra.Command {
	var args feed.Args

	cmd := &cobra.Command{
		Use:   "add-entry",
		Short: "Add an entry to a feed",
		Long: fmt.Sprintf(`Validate a news entry and prepend it to its feed file.

Feeds: %s
Blocked source domains: %s`, strings.Join(feed.Names(), ", "), strings.Join(feed.BlockedDomains, ", ")),
		Example: `  sentinel add-entry --feed candidate --title "County judge race heats up" \
    --summary "Two candidates filed." --source "Herald-Zeitung" \
    --sourceUrl "https://herald-zeitung.com/race" --category elections --tags "judge,election"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.store().Submit(args, a.now())
			if err != nil {
				return err
			}

			if args.RelatedCandidate != "" {
				a.warnUnknownCandidate(args.RelatedCandidate)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Entry added to %s\n", res.File)
			fmt.Fprintf(out, "  ID: %s\n", res.Entry.ID)
			fmt.Fprintf(out, "  Title: %s\n", res.Entry.Title)
			fmt.Fprintf(out, "  Date: %s\n", res.Entry.Date)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&args.Feed, "feed", "", "Feed name: "+strings.Join(feed.Names(), ", "))
	flags.StringVar(&args.Title, "title", "", "Entry title")
	flags.StringVar(&args.Summary, "summary", "", "Short summary")
	flags.StringVar(&args.Source, "source", "", "Publication name")
	flags.StringVar(&args.SourceURL, "sourceUrl", "", "Link to the original article (http or https)")
	flags.StringVar(&args.Category, "category", "", "Category allowed by the feed")
	flags.StringVar(&args.Tags, "tags", "", "Comma-separated tags")
	flags.StringVar(&args.RelatedCandidate, "relatedCandidate", "", "Profile slug of the related candidate")
	flags.StringVar(&args.ImageURL, "imageUrl", "", "Thumbnail image URL")

	return cmd
}

// warnUnknownCandidate logs when an entry names a slug the roster lacks.
func (a *app) warnUnknownCandidate(slug string) {
	r, err := a.loadRoster()
	if err != nil {
		a.logger.Warn("could not load roster", zap.Error(err))
		return
	}
	if _, ok := r.Find(slug); !ok {
		a.logger.Warn("related candidate is not in the roster", zap.String("slug", slug))
	}
}

// newValidateCmd creates the validate subcommand.
func newValidateCmd(a *app) *cobra.Command {
	var schema string

	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check feed files against the entry schema",
		Long:  "Check feed files against the entry schema. Without arguments every feed file under the site root is checked.",
		RunE: func(cmd *cobra.Command, files []string) error {
			if len(files) == 0 {
				store := a.store()
				for _, cfg := range feed.All() {
					files = append(files, store.Path(cfg))
				}
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range files {
				name := filepath.ToSlash(path)
				count, err := feed.CheckFile(path, schema)

				var schemaErr *feed.SchemaError
				switch {
				case err == nil:
					fmt.Fprintf(out, "✓ %s (%d entries)\n", name, count)
				case errors.Is(err, feed.ErrUnknownSchema):
					return err
				case errors.As(err, &schemaErr):
					failed++
					fmt.Fprintf(out, "✗ %s\n", name)
					for _, issue := range schemaErr.Issues {
						fmt.Fprintf(out, "  %s\n", issue)
					}
				default:
					failed++
					fmt.Fprintf(out, "✗ %s\n  %v\n", name, err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", feed.DefaultSchema, "Schema to check against")

	return cmd
}
