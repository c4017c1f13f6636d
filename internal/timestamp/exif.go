package timestamp

import (
	"io"
	"os"
	"strings"
	"time"

	"photoprep/pkg/imgutil"
)

// ExifLayout is the fixed EXIF date-time layout (YYYY:MM:DD HH:MM:SS).
const ExifLayout = "2006:01:02 15:04:05"

// ExifStrategy reads the DateTimeOriginal tag. EXIF times carry no zone,
// so they are interpreted in Location (UTC when nil).
type ExifStrategy struct {
	Location *time.Location
}

func (ExifStrategy) Name() string { return SourceExif }

func (s ExifStrategy) Resolve(path string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	kind, err := imgutil.SniffReader(f)
	if err != nil || !kind.CarriesExif() {
		return time.Time{}, false
	}

	raw, found := dateTimeOriginal(f)
	if !found {
		return time.Time{}, false
	}
	return ParseExifTime(raw, s.Location)
}

// ParseExifTime parses an EXIF date-time string.
func ParseExifTime(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimRight(strings.TrimSpace(raw), "\x00")
	t, err := time.ParseInLocation(ExifLayout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dateTimeOriginal(rs io.ReadSeeker) (string, bool) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return "", false
	}

	tags, err := imgutil.ExifTags(rs)
	if err != nil {
		return "", false
	}

	tag, found := imgutil.FindExifTag(tags, "DateTimeOriginal", "")
	if !found {
		return "", false
	}
	if s, ok := tag.Value.(string); ok {
		return s, true
	}
	return tag.FormattedFirst, tag.FormattedFirst != ""
}
