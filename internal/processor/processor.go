// Package processor runs the photo pipelines: collect, order, transform
// and write, one file at a time.
package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"photoprep/internal/collector"
	"photoprep/internal/timestamp"
	"photoprep/internal/transform"
)

// Options configures a timestamp-ordered resize/rename run.
type Options struct {
	Root     string
	Output   string
	Bound    transform.Bound
	Quality  int
	DryRun   bool
	Resolver *timestamp.Resolver
	Logger   *zap.Logger
}

// PadWidth is the zero-padding for a run of total files: at least three
// digits, more when total needs them.
func PadWidth(total int) int {
	return max(3, len(strconv.Itoa(total)))
}

// SequenceName is the destination file name for a 1-based index.
func SequenceName(index, pad int) string {
	return fmt.Sprintf("image_%0*d.jpg", pad, index)
}

// Plan resolves a capture time for each file, orders them oldest first
// (ties keep path order) and assigns dense 1-based indices.
func Plan(files []collector.File, root string, resolver *timestamp.Resolver) []ImageFile {
	planned := make([]ImageFile, len(files))
	for i, f := range files {
		planned[i] = ImageFile{
			Path:      f.Path,
			RelPath:   f.RelPath,
			Ext:       f.Ext,
			Category:  f.Category(root),
			Timestamp: resolver.Resolve(f.Path),
		}
	}

	sort.SliceStable(planned, func(i, j int) bool {
		return planned[i].Timestamp.Seconds() < planned[j].Timestamp.Seconds()
	})
	for i := range planned {
		planned[i].Index = i + 1
	}
	return planned
}

// Run executes the timestamp-ordered pipeline. A per-file failure is
// recorded in the Summary and never stops the run; the returned error is
// reserved for conditions that prevent the run from starting.
func Run(ctx context.Context, opts Options, updates chan<- ProgressUpdate) (Summary, error) {
	summary := Summary{DryRun: opts.DryRun}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = timestamp.Default()
	}

	files, err := collector.Collect(opts.Root, collector.Options{
		Exclude: outputExclusions(opts.Root, opts.Output),
		OnSkip:  skipReporter(updates, log),
	})
	if err != nil {
		return summary, err
	}
	if len(files) == 0 {
		return summary, fmt.Errorf("%w under '%s'", ErrNoImages, opts.Root)
	}

	planned := Plan(files, opts.Root, resolver)
	total := len(planned)
	pad := PadWidth(total)
	summary.Total = total

	log.Info("resize run started",
		zap.String("root", opts.Root),
		zap.String("output", opts.Output),
		zap.Int("files", total),
		zap.Int("padding", pad),
		zap.String("bound", opts.Bound.String()),
		zap.Bool("dry_run", opts.DryRun),
	)
	emit(updates, ProgressUpdate{
		TotalDelta: total,
		Message:    fmt.Sprintf("Found %d image(s). Padding: %d digits.", total, pad),
	})

	if !opts.DryRun {
		if err := os.MkdirAll(opts.Output, 0o755); err != nil {
			return summary, err
		}
	}

	for _, file := range planned {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		dest := filepath.Join(opts.Output, SequenceName(file.Index, pad))
		emit(updates, ProgressUpdate{
			Message: fmt.Sprintf("[%d/%d] %s (%s) -> %s", file.Index, total, file.Path, file.Timestamp.Format(), dest),
		})
		log.Debug("timestamp resolved",
			zap.String("path", file.Path),
			zap.String("source", file.Timestamp.Source),
			zap.Float64("seconds", file.Timestamp.Seconds()),
		)

		if opts.DryRun {
			res := Result{File: file, Dest: dest, Planned: true}
			summary.add(res)
			emit(updates, ProgressUpdate{ProcessedDelta: 1})
			continue
		}

		res := processFile(file, dest, transform.Options{Bound: opts.Bound, Quality: opts.Quality})
		summary.add(res)
		report(updates, log, res)
	}

	log.Info("resize run finished",
		zap.Int("processed", summary.Processed),
		zap.Int("errors", summary.Errors),
		zap.Int64("bytes_written", summary.BytesWritten),
	)
	return summary, nil
}

// processFile reads, transforms and writes one photo. The encoded output is
// complete in memory before anything touches the destination.
func processFile(file ImageFile, dest string, opts transform.Options) Result {
	res := Result{File: file, Dest: dest}

	data, err := os.ReadFile(file.Path)
	if err != nil {
		res.Err = err
		return res
	}

	out, err := transform.Process(data, opts)
	if err != nil {
		res.Err = err
		return res
	}

	n, err := writeFile(dest, out.Data)
	if err != nil {
		res.Err = err
		return res
	}
	res.Bytes = n
	res.Width = out.Width
	res.Height = out.Height
	return res
}

func report(updates chan<- ProgressUpdate, log *zap.Logger, res Result) {
	if res.Err != nil {
		log.Warn("failed to process file", zap.String("path", res.File.Path), zap.Error(res.Err))
		emit(updates, ProgressUpdate{
			ErrorDelta: 1,
			Message:    fmt.Sprintf("Error processing %s: %v", res.File.Path, res.Err),
		})
		return
	}
	emit(updates, ProgressUpdate{ProcessedDelta: 1, BytesWrittenDelta: res.Bytes})
}

// skipReporter logs folders the walk could not read; the run carries on
// without them.
func skipReporter(updates chan<- ProgressUpdate, log *zap.Logger) func(string, error) {
	return func(path string, err error) {
		log.Warn("skipping unreadable folder", zap.String("path", path), zap.Error(err))
		emit(updates, ProgressUpdate{Message: fmt.Sprintf("Skipping unreadable folder %s: %v", path, err)})
	}
}

func emit(updates chan<- ProgressUpdate, update ProgressUpdate) {
	if updates != nil {
		updates <- update
	}
}
