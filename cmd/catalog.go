package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"photoprep/internal/config"
	"photoprep/internal/processor"
	"photoprep/internal/transform"
	"photoprep/internal/tui"
)

var catalogFlags commandFlags

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Resize photos into a mirrored tree and write a path,name,category manifest",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, config.CatalogDefaults(), func(p *config.Profile) *config.ProcessingConfig { return p.Catalog }, &catalogFlags)
		if err != nil {
			return err
		}
		return runCatalog(cmd, cfg, true)
	},
}

func init() {
	d := config.CatalogDefaults()
	f := catalogCmd.Flags()
	f.StringVarP(&catalogFlags.root, "root", "r", d.Root, "root folder to process")
	f.StringVarP(&catalogFlags.output, "output", "o", d.Output, "output folder for the resized tree (must be different from root)")
	f.StringVar(&catalogFlags.manifest, "manifest", d.Manifest, "manifest CSV to write")
	f.IntSliceVarP(&catalogFlags.maxSize, "max-size", "m", []int{d.MaxWidth, d.MaxHeight}, "maximum WIDTH,HEIGHT")
	f.IntVarP(&catalogFlags.quality, "quality", "q", d.Quality, "JPEG quality (1-100)")
	f.StringVar(&catalogFlags.pathPrefix, "path-prefix", d.PathPrefix, "prefix prepended to every manifest path")
	f.BoolVar(&catalogFlags.allFiles, "all-files", false, "attempt every non-hidden file, not just image extensions")
	f.BoolVar(&catalogFlags.dryRun, "dry-run", false, "show the manifest rows without writing anything")

	rootCmd.AddCommand(catalogCmd)
}

// runCatalog drives both the resizing catalog and the listing-only manifest.
func runCatalog(cmd *cobra.Command, cfg config.ProcessingConfig, resize bool) error {
	out := cmd.OutOrStdout()
	if !resize {
		cfg.Output = ""
	}
	if err := preflight(cfg, resize); err != nil {
		if reportHandled(out, cfg, err) {
			return nil
		}
		return err
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	title := "photoprep 📷 catalog"
	if !resize {
		title = "photoprep 📷 manifest"
	}
	prog := startProgress(title, useTUI(), out, cancel)
	summary, err := processor.RunCatalog(ctx, processor.CatalogOptions{
		Root:         cfg.Root,
		Output:       cfg.Output,
		ManifestPath: cfg.Manifest,
		PathPrefix:   cfg.PathPrefix,
		Bound:        transform.Bound{Width: cfg.MaxWidth, Height: cfg.MaxHeight},
		Quality:      cfg.Quality,
		AllFiles:     cfg.AllFiles,
		DryRun:       cfg.DryRun,
		Logger:       log,
	}, prog.updates)
	prog.finish()

	if err != nil {
		if reportHandled(out, cfg, err) {
			return nil
		}
		return err
	}

	fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(summary)))
	if cfg.DryRun {
		fmt.Fprintln(out, "Dry run: nothing was written.")
		return nil
	}
	fmt.Fprintf(out, "Successfully processed %d files.\n", summary.Processed)
	manifestPath := cfg.Manifest
	if abs, absErr := filepath.Abs(manifestPath); absErr == nil {
		manifestPath = abs
	}
	if resize {
		fmt.Fprintf(out, "Resized images are in '%s' and CSV is updated: %s\n", cfg.Output, manifestPath)
	} else {
		fmt.Fprintf(out, "Manifest written to: %s\n", manifestPath)
	}
	return nil
}
