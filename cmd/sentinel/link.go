package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hillcountry/sentinel/internal/autolink"
)

// newLinkCmd creates the link subcommand.
func newLinkCmd(a *app) *cobra.Command {
	var base string
	var write bool
	var foldCase bool
	var class string

	cmd := &cobra.Command{
		Use:   "link [file...]",
		Short: "Link candidate names to their profiles",
		Long: `Link every candidate name in pages to its profile page.

Existing links, scripts, styles, navigation and footers are left alone,
so running link again on its output changes nothing. Without files the
markup is read from stdin and written to stdout.`,
		RunE: func(cmd *cobra.Command, files []string) error {
			r, err := a.loadRoster()
			if err != nil {
				return err
			}

			opts := []autolink.Option{autolink.WithClass(class)}
			if foldCase {
				opts = append(opts, autolink.WithCaseInsensitive())
			}

			if len(files) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read input: %w", err)
				}
				out, _, err := linkContent(autolink.New(r, base, opts...), data)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}

			for _, path := range files {
				pathBase := base
				if !cmd.Flags().Changed("base") {
					pathBase = basePathFor(a.getRoot(), path)
				}
				linker := autolink.New(r, pathBase, opts...)

				if err := a.linkFile(cmd, linker, path, write); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Prefix for profile links (default: derived from each file's depth under the site root)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite files in place instead of printing them")
	cmd.Flags().BoolVar(&foldCase, "case-insensitive", false, "Match names regardless of letter case")
	cmd.Flags().StringVar(&class, "class", autolink.DefaultClass, "Class attribute for generated links")

	return cmd
}

func (a *app) linkFile(cmd *cobra.Command, linker *autolink.Linker, path string, write bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-named page
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	out, added, err := linkContent(linker, data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug("linked page", zap.String("path", path), zap.Int("links", added))

	if !write {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}

	if added > 0 {
		if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d links added\n", filepath.ToSlash(path), added)
	return nil
}

// linkContent links a whole page through the document path and anything
// else (fragments, plain text) through Link.
func linkContent(linker *autolink.Linker, data []byte) ([]byte, int, error) {
	if !isDocument(data) {
		out, added := linker.LinkCount(string(data))
		return []byte(out), added, nil
	}

	var buf bytes.Buffer
	added, err := linker.Document(bytes.NewReader(data), &buf)
	if err != nil {
		return nil, 0, err
	}
	if added == 0 {
		return data, 0, nil
	}
	return buf.Bytes(), added, nil
}

func isDocument(data []byte) bool {
	head := strings.ToLower(string(data[:min(len(data), 512)]))
	return strings.Contains(head, "<!doctype") || strings.Contains(head, "<html")
}

// basePathFor returns the relative prefix from path's directory back to
// root, e.g. "../" for profiles/a.html. Paths outside root get "".
func basePathFor(root, path string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return ""
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	rel, err := filepath.Rel(absRoot, filepath.Dir(absPath))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return strings.Repeat("../", len(strings.Split(filepath.ToSlash(rel), "/")))
}
