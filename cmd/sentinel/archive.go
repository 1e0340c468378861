package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hillcountry/sentinel/internal/archive"
)

const archiveTimeout = 60 * time.Second

// newArchiveCmd creates the archive subcommand.
func newArchiveCmd(a *app) *cobra.Command {
	var req archive.Request
	var retries uint

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Save a local copy of a news article",
		Long: `Fetch a news article and save a standalone copy under articles/archive/.

The last line of output is ARCHIVE_PATH=<path>, the site-relative path of
the saved page, for use by publishing scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), archiveTimeout)
			defer cancel()

			client := archive.NewClient(
				archive.WithLogger(a.logger),
				archive.WithRetries(uint64(retries), archive.DefaultRetryInterval),
			)
			result, err := client.Archive(ctx, req, a.getRoot(), a.now())
			if err != nil {
				return fmt.Errorf("failed to archive %s: %w", req.URL, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Archived %s\n", result.Title)
			fmt.Fprintf(out, "ARCHIVE_PATH=%s\n", result.Path)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.URL, "url", "", "Article URL (required)")
	cmd.Flags().StringVar(&req.Slug, "slug", "", "File name for the copy, e.g. council-vote-2025 (required)")
	cmd.Flags().StringVar(&req.Source, "source", "", "Publication name shown on the copy (required)")
	cmd.Flags().UintVar(&retries, "retries", archive.DefaultRetries, "Retries after a server error or dropped connection")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("slug")
	_ = cmd.MarkFlagRequired("source")

	return cmd
}
