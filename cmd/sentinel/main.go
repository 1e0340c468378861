// Package main provides the sentinel CLI entry point.
package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hillcountry/sentinel/internal/feed"
	"github.com/hillcountry/sentinel/internal/roster"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is fine; real environment variables win.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

// resolveVersion prefers the ldflags version and falls back to the module
// version recorded by go install.
func resolveVersion(ldflags string, info *debug.BuildInfo) string {
	if ldflags != "dev" {
		return ldflags
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

// app holds settings shared by every subcommand.
type app struct {
	root       string
	rosterPath string
	verbose    bool
	logger     *zap.Logger
	now        func() time.Time
}

// getRoot returns the site root: --root, then SENTINEL_ROOT, then ".".
func (a *app) getRoot() string {
	if a.root != "" {
		return a.root
	}
	if dir := os.Getenv("SENTINEL_ROOT"); dir != "" {
		return dir
	}
	return "."
}

// getRosterPath returns --roster, then SENTINEL_ROSTER. Empty means the
// built-in roster.
func (a *app) getRosterPath() string {
	if a.rosterPath != "" {
		return a.rosterPath
	}
	return os.Getenv("SENTINEL_ROSTER")
}

func (a *app) loadRoster() (*roster.Roster, error) {
	path := a.getRosterPath()
	if path == "" {
		return roster.Default(), nil
	}
	r, err := roster.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("roster loaded", zap.String("path", path), zap.Int("candidates", r.Len()))
	return r, nil
}

func (a *app) store() *feed.Store {
	return feed.NewStore(a.getRoot(), feed.WithLogger(a.logger))
}

// logLevel returns debug with --verbose, else SENTINEL_LOG_LEVEL, else warn.
func (a *app) logLevel() (zapcore.Level, error) {
	if a.verbose {
		return zapcore.DebugLevel, nil
	}
	name := os.Getenv("SENTINEL_LOG_LEVEL")
	if name == "" {
		return zapcore.WarnLevel, nil
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return level, fmt.Errorf("invalid SENTINEL_LOG_LEVEL %q: %w", name, err)
	}
	return level, nil
}

func (a *app) initLogger() error {
	level, err := a.logLevel()
	if err != nil {
		return err
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	a.logger, err = config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// newRootCmd creates the root command for sentinel CLI.
func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop(), now: time.Now}

	info, _ := debug.ReadBuildInfo()
	rootCmd := &cobra.Command{
		Use:           "sentinel",
		Short:         "Maintain the Hill Country Sentinel news feeds",
		Long:          "Sentinel adds entries to the site's JSON feeds, checks them, links candidate names to their profiles, and renders and archives pages.",
		Version:       resolveVersion(version, info),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.SetVersionTemplate("sentinel version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&a.root, "root", "", "Site root directory (default $SENTINEL_ROOT or .)")
	rootCmd.PersistentFlags().StringVar(&a.rosterPath, "roster", "", "Candidate roster file: .json, .yaml or .toml (default $SENTINEL_ROSTER or built-in)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newAddEntryCmd(a))
	rootCmd.AddCommand(newValidateCmd(a))
	rootCmd.AddCommand(newListCmd(a))
	rootCmd.AddCommand(newLinkCmd(a))
	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newArchiveCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// newConfigCmd creates the config subcommand.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Long:  "Show the site root, roster and feed table sentinel is using.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			store := a.store()

			fmt.Fprintf(out, "Site root: %s\n", a.getRoot())
			if path := a.getRosterPath(); path != "" {
				fmt.Fprintf(out, "Roster: %s\n", path)
			} else {
				fmt.Fprintf(out, "Roster: built-in (%d candidates)\n", roster.Default().Len())
			}

			fmt.Fprintln(out, "Feeds:")
			for _, cfg := range feed.All() {
				fmt.Fprintf(out, "  %s (%s-) %s\n", cfg.Name, cfg.Prefix, store.Path(cfg))
				fmt.Fprintf(out, "    categories: %s\n", strings.Join(cfg.Categories, ", "))
			}
			return nil
		},
	}

	return cmd
}
