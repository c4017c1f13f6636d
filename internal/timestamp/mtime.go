package timestamp

import (
	"os"
	"time"
)

// ModTimeStrategy falls back to the file's last-modified time.
type ModTimeStrategy struct{}

func (ModTimeStrategy) Name() string { return SourceModTime }

func (ModTimeStrategy) Resolve(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
