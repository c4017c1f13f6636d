package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photoprep/internal/collector"
	"photoprep/internal/config"
	"photoprep/internal/logging"
	"photoprep/internal/processor"
)

var (
	configPath string
	logLevel   string
	logFile    string
	noTUI      bool
)

var rootCmd = &cobra.Command{
	Use:   "photoprep",
	Short: "photoprep 📷 - resize, rename and catalog photo folders",
	Long: "photoprep 📷 walks a folder tree of photographs, downsizes and normalizes them to JPEG,\n" +
		"renames them by capture time or by category, and writes the images.csv manifest used by the gallery.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "YAML profile with per-command defaults")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "write structured JSON logs to this file")
	pf.BoolVar(&noTUI, "no-tui", false, "print plain progress lines even on a terminal")
}

func useTUI() bool {
	return !noTUI && isatty.IsTerminal(os.Stdout.Fd())
}

func newLogger() (*zap.Logger, error) {
	return logging.New(logging.Options{Level: logLevel, File: logFile, Quiet: useTUI()})
}

// commandFlags mirrors the flag set shared by the subcommands; only flags a
// command registers can ever be marked changed.
type commandFlags struct {
	root       string
	output     string
	manifest   string
	maxSize    []int
	quality    int
	dryRun     bool
	pathPrefix string
	allFiles   bool
}

// resolveConfig layers built-in defaults, the profile section and the
// flags the user actually set, in that order.
func resolveConfig(cmd *cobra.Command, defaults config.ProcessingConfig, pick func(*config.Profile) *config.ProcessingConfig, f *commandFlags) (config.ProcessingConfig, error) {
	profile, err := config.Load(configPath)
	if err != nil {
		return config.ProcessingConfig{}, err
	}
	cfg := config.Merge(defaults, pick(profile))

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = f.root
	}
	if flags.Changed("output") {
		cfg.Output = f.output
	}
	if flags.Changed("manifest") {
		cfg.Manifest = f.manifest
	}
	if flags.Changed("max-size") {
		if len(f.maxSize) != 2 {
			return cfg, fmt.Errorf("--max-size takes WIDTH,HEIGHT, got %v", f.maxSize)
		}
		cfg.MaxWidth, cfg.MaxHeight = f.maxSize[0], f.maxSize[1]
	}
	if flags.Changed("quality") {
		cfg.Quality = f.quality
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if flags.Changed("path-prefix") {
		cfg.PathPrefix = f.pathPrefix
	}
	if flags.Changed("all-files") {
		cfg.AllFiles = f.allFiles
	}
	return cfg, nil
}

// reportHandled prints the user-facing message for conditions that end a
// run cleanly and reports whether err was one of them.
func reportHandled(w io.Writer, cfg config.ProcessingConfig, err error) bool {
	switch {
	case errors.Is(err, collector.ErrRootNotFound), errors.Is(err, collector.ErrNotDirectory):
		fmt.Fprintf(w, "Root folder '%s' not found or is not a directory.\n", cfg.Root)
	case errors.Is(err, config.ErrSameRootOutput):
		fmt.Fprintln(w, "Error: The root and output folders cannot be the same. Please choose a different output folder.")
	case errors.Is(err, processor.ErrNoImages):
		fmt.Fprintf(w, "No images found under '%s'.\n", cfg.Root)
	default:
		return false
	}
	return true
}

// preflight runs the checks that end a run before any output exists.
func preflight(cfg config.ProcessingConfig, needsOutput bool) error {
	if err := collector.CheckRoot(cfg.Root); err != nil {
		return err
	}
	return cfg.Validate(needsOutput)
}
