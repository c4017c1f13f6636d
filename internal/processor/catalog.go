package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"photoprep/internal/collector"
	"photoprep/internal/manifest"
	"photoprep/internal/transform"
)

// CatalogOptions configures the category-preserving runs. Output is empty
// for the listing-only manifest, which references the source files directly.
type CatalogOptions struct {
	Root         string
	Output       string
	ManifestPath string
	PathPrefix   string
	Bound        transform.Bound
	Quality      int
	AllFiles     bool
	DryRun       bool
	Logger       *zap.Logger
}

// Resizes reports whether the run re-encodes images into Output.
func (o CatalogOptions) Resizes() bool {
	return o.Output != ""
}

// RunCatalog walks Root top-down and, for every accepted file, either
// re-encodes it into a mirrored tree under Output (when set) or just lists
// it. Each success becomes a manifest row named category_index, where the
// index comes from a per-category counter that advances per attempted file.
// Rows are recorded in traversal order.
func RunCatalog(ctx context.Context, opts CatalogOptions, updates chan<- ProgressUpdate) (Summary, error) {
	summary := Summary{DryRun: opts.DryRun, Manifest: opts.ManifestPath}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var dirs []collector.Dir
	err := collector.Walk(opts.Root, collector.Options{
		AllFiles: opts.AllFiles,
		Exclude:  outputExclusions(opts.Root, opts.Output),
		OnSkip:   skipReporter(updates, log),
	}, func(d collector.Dir) error {
		dirs = append(dirs, d)
		summary.Total += len(d.Files)
		return nil
	})
	if err != nil {
		return summary, err
	}
	if summary.Total == 0 {
		return Summary{DryRun: opts.DryRun}, fmt.Errorf("%w under '%s'", ErrNoImages, opts.Root)
	}

	log.Info("catalog run started",
		zap.String("root", opts.Root),
		zap.String("output", opts.Output),
		zap.String("manifest", opts.ManifestPath),
		zap.Int("files", summary.Total),
		zap.Bool("resize", opts.Resizes()),
		zap.Bool("dry_run", opts.DryRun),
	)
	emit(updates, ProgressUpdate{
		TotalDelta: summary.Total,
		Message:    fmt.Sprintf("Processing %d file(s) from '%s'...", summary.Total, opts.Root),
	})

	var mw *manifest.Writer
	if !opts.DryRun {
		mw, err = manifest.Create(opts.ManifestPath)
		if err != nil {
			return summary, err
		}
		defer mw.Abort()
	}

	counter := manifest.NewCounter()
	tOpts := transform.Options{Bound: opts.Bound, Quality: opts.Quality}

	for _, dir := range dirs {
		if opts.Resizes() && !opts.DryRun {
			target := filepath.Join(opts.Output, dir.RelPath)
			if err := os.MkdirAll(target, 0o755); err != nil {
				return summary, err
			}
		}

		for _, f := range dir.Files {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			category := f.Category(opts.Root)
			file := ImageFile{
				Path:     f.Path,
				RelPath:  f.RelPath,
				Ext:      f.Ext,
				Category: category,
				Index:    counter.Next(category),
			}

			var res Result
			var rowPath string
			if opts.Resizes() {
				dest := filepath.Join(opts.Output, dir.RelPath, jpegName(f.RelPath))
				rowPath = opts.PathPrefix + filepath.ToSlash(dest)
				if opts.DryRun {
					res = Result{File: file, Dest: dest, Planned: true}
				} else {
					res = processFile(file, dest, tOpts)
				}
			} else {
				rowPath = opts.PathPrefix + filepath.ToSlash(filepath.Join(opts.Root, f.RelPath))
				res = Result{File: file, Planned: opts.DryRun}
			}

			summary.add(res)
			if res.Err != nil {
				report(updates, log, res)
				continue
			}

			row := manifest.Row{
				Path:     rowPath,
				Name:     manifest.SyntheticName(category, file.Index),
				Category: category,
			}
			if mw != nil {
				if err := mw.Write(row); err != nil {
					return summary, err
				}
			}
			summary.Rows = append(summary.Rows, row)

			if opts.DryRun {
				emit(updates, ProgressUpdate{
					ProcessedDelta: 1,
					Message:        fmt.Sprintf("%s -> %s,%s,%s", f.Path, row.Path, row.Name, row.Category),
				})
				continue
			}
			report(updates, log, res)
		}
	}

	if mw != nil {
		if err := mw.Commit(); err != nil {
			return summary, err
		}
	}

	log.Info("catalog run finished",
		zap.Int("processed", summary.Processed),
		zap.Int("errors", summary.Errors),
		zap.Int("rows", len(summary.Rows)),
	)
	return summary, nil
}

// jpegName swaps the extension of a file name for .jpg.
func jpegName(rel string) string {
	base := filepath.Base(rel)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".jpg"
}
