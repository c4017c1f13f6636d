package processor

import (
	"errors"

	"photoprep/internal/manifest"
	"photoprep/internal/timestamp"
)

// ErrNoImages is returned when the walk yields nothing to process.
var ErrNoImages = errors.New("no images found")

// ImageFile is one source photo resolved for a run.
type ImageFile struct {
	Path      string
	RelPath   string
	Ext       string
	Category  string
	Timestamp timestamp.Resolution
	// Index is the 1-based destination slot, assigned after sorting.
	Index int
}

// Result is the outcome for one attempted file.
type Result struct {
	File   ImageFile
	Dest   string
	Bytes  int64
	Width  int
	Height int
	// Planned marks dry-run results: nothing was decoded or written.
	Planned bool
	Err     error
}

// OK reports whether the file was written (or planned, in a dry run).
func (r Result) OK() bool {
	return r.Err == nil
}

// Summary collects per-file results for one run.
type Summary struct {
	Total        int
	Processed    int
	Errors       int
	BytesWritten int64
	DryRun       bool
	Results      []Result
	Rows         []manifest.Row
	Manifest     string
}

func (s *Summary) add(res Result) {
	s.Results = append(s.Results, res)
	if res.Err != nil {
		s.Errors++
		return
	}
	s.Processed++
	s.BytesWritten += res.Bytes
}

// Failed returns the results that carry an error.
func (s Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// ProgressUpdate is streamed to the display while a run is in flight.
type ProgressUpdate struct {
	TotalDelta        int
	ProcessedDelta    int
	ErrorDelta        int
	BytesWrittenDelta int64
	// Message is a human-readable progress line; empty for pure counter updates.
	Message string
}
