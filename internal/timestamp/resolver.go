// Package timestamp resolves a best-effort capture time for a photo.
//
// Resolution runs an ordered chain of strategies. Each strategy either
// produces a time or declines; the first produced time wins. A path for
// which every strategy declines resolves to the zero Resolution, whose
// Seconds are 0. Resolve never returns an error.
package timestamp

import (
	"sync"
	"time"
)

// Strategy is one source of capture time.
type Strategy interface {
	Name() string
	Resolve(path string) (time.Time, bool)
}

// Source names used in Resolution.Source.
const (
	SourceExif    = "exif"
	SourceModTime = "mtime"
	SourceNone    = "none"
)

// Resolution is the outcome of resolving one path.
type Resolution struct {
	Time   time.Time
	Source string
}

// Seconds is the sort key: seconds since the epoch, 0 when unresolved.
func (r Resolution) Seconds() float64 {
	if r.Time.IsZero() {
		return 0
	}
	return float64(r.Time.UnixNano()) / float64(time.Second)
}

// Known reports whether any strategy produced a time.
func (r Resolution) Known() bool {
	return !r.Time.IsZero()
}

// Format renders the time for progress lines.
func (r Resolution) Format() string {
	if !r.Known() {
		return "unknown-date"
	}
	return r.Time.Local().Format("2006-01-02 15:04:05")
}

// Resolver runs strategies in order and caches one Resolution per path so
// the sort pass and the reporting pass do not decode metadata twice.
type Resolver struct {
	strategies []Strategy

	mu    sync.Mutex
	cache map[string]Resolution
}

// NewResolver builds a resolver over the given chain.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{
		strategies: strategies,
		cache:      make(map[string]Resolution),
	}
}

// Default is the capture-time chain: EXIF DateTimeOriginal, then file mtime.
func Default() *Resolver {
	return NewResolver(ExifStrategy{Location: time.Local}, ModTimeStrategy{})
}

// Resolve returns the cached or freshly computed resolution for path.
func (r *Resolver) Resolve(path string) Resolution {
	r.mu.Lock()
	if res, ok := r.cache[path]; ok {
		r.mu.Unlock()
		return res
	}
	r.mu.Unlock()

	res := Resolution{Source: SourceNone}
	for _, s := range r.strategies {
		if t, ok := s.Resolve(path); ok && !t.IsZero() {
			res = Resolution{Time: t, Source: s.Name()}
			break
		}
	}

	r.mu.Lock()
	r.cache[path] = res
	r.mu.Unlock()
	return res
}
