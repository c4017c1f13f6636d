package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"photoprep/internal/config"
	"photoprep/internal/processor"
	"photoprep/internal/timestamp"
	"photoprep/internal/transform"
	"photoprep/internal/tui"
)

var resizeFlags commandFlags

var resizeCmd = &cobra.Command{
	Use:   "resize",
	Short: "Resize photos and rename them image_001.jpg, image_002.jpg, ... by capture time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd, config.ResizeDefaults(), func(p *config.Profile) *config.ProcessingConfig { return p.Resize }, &resizeFlags)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := preflight(cfg, true); err != nil {
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

		prog := startProgress("photoprep 📷 resize", useTUI(), out, cancel)
		summary, err := processor.Run(ctx, processor.Options{
			Root:     cfg.Root,
			Output:   cfg.Output,
			Bound:    transform.Bound{Width: cfg.MaxWidth, Height: cfg.MaxHeight},
			Quality:  cfg.Quality,
			DryRun:   cfg.DryRun,
			Resolver: timestamp.Default(),
			Logger:   log,
		}, prog.updates)
		prog.finish()

		if err != nil {
			if reportHandled(out, cfg, err) {
				return nil
			}
			return err
		}

		fmt.Fprintln(out, tui.RenderSummary(tui.SummaryRows(summary)))
		fmt.Fprintln(out, "Done.")
		return nil
	},
}

func init() {
	d := config.ResizeDefaults()
	f := resizeCmd.Flags()
	f.StringVarP(&resizeFlags.root, "root", "r", d.Root, "root folder to process")
	f.StringVarP(&resizeFlags.output, "output", "o", d.Output, "output folder for resized images (must be different from root)")
	f.IntSliceVarP(&resizeFlags.maxSize, "max-size", "m", []int{d.MaxWidth, d.MaxHeight}, "maximum WIDTH,HEIGHT")
	f.IntVarP(&resizeFlags.quality, "quality", "q", d.Quality, "JPEG quality (1-100)")
	f.BoolVar(&resizeFlags.dryRun, "dry-run", false, "show actions without modifying files")

	rootCmd.AddCommand(resizeCmd)
}
