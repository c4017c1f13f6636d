package timestamp

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"photoprep/internal/testutil"
)

type fixedStrategy struct {
	name  string
	t     time.Time
	ok    bool
	calls *int
}

func (f fixedStrategy) Name() string { return f.name }

func (f fixedStrategy) Resolve(string) (time.Time, bool) {
	if f.calls != nil {
		*f.calls++
	}
	return f.t, f.ok
}

func TestResolverFirstPresentWins(t *testing.T) {
	want := time.Date(2020, 5, 6, 7, 8, 9, 0, time.UTC)
	r := NewResolver(
		fixedStrategy{name: "a"},
		fixedStrategy{name: "b", t: want, ok: true},
		fixedStrategy{name: "c", t: time.Now(), ok: true},
	)

	res := r.Resolve("x")
	if res.Source != "b" || !res.Time.Equal(want) {
		t.Fatalf("unexpected resolution %+v", res)
	}
	if res.Seconds() != float64(want.Unix()) {
		t.Fatalf("seconds = %v, want %v", res.Seconds(), want.Unix())
	}
}

func TestResolverAllDeclineIsZero(t *testing.T) {
	r := NewResolver(fixedStrategy{name: "a"}, ExifStrategy{}, ModTimeStrategy{})
	res := r.Resolve(filepath.Join(t.TempDir(), "missing.jpg"))
	if res.Known() || res.Seconds() != 0 || res.Source != SourceNone {
		t.Fatalf("expected zero resolution, got %+v", res)
	}
	if res.Format() != "unknown-date" {
		t.Fatalf("format = %q", res.Format())
	}
}

func TestResolverCaches(t *testing.T) {
	calls := 0
	r := NewResolver(fixedStrategy{name: "a", t: time.Unix(10, 0), ok: true, calls: &calls})
	r.Resolve("p")
	r.Resolve("p")
	if calls != 1 {
		t.Fatalf("strategy called %d times, want 1", calls)
	}
}

func TestExifDateTimeOriginalPreferred(t *testing.T) {
	dir := t.TempDir()
	jpg := testutil.SpliceExif(
		testutil.EncodeJPEG(testutil.Gradient(8, 8)),
		testutil.BuildExifTIFF(testutil.Exif{DateTimeOriginal: "2019:07:04 12:30:45"}),
	)
	mtime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	path, err := testutil.WriteFile(dir, "a.jpg", jpg, mtime)
	if err != nil {
		t.Fatal(err)
	}

	r := NewResolver(ExifStrategy{Location: time.UTC}, ModTimeStrategy{})
	res := r.Resolve(path)
	want := time.Date(2019, 7, 4, 12, 30, 45, 0, time.UTC)
	if res.Source != SourceExif || !res.Time.Equal(want) {
		t.Fatalf("got %+v, want exif %v", res, want)
	}
}

func TestExifDateTimeOriginalInPNG(t *testing.T) {
	dir := t.TempDir()
	data := testutil.SplicePNGExif(
		testutil.EncodePNG(testutil.Gradient(8, 8)),
		testutil.BuildExifTIFF(testutil.Exif{Orientation: 1, DateTimeOriginal: "2018:02:03 04:05:06"}),
	)
	path, err := testutil.WriteFile(dir, "a.png", data, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}

	res := NewResolver(ExifStrategy{Location: time.UTC}, ModTimeStrategy{}).Resolve(path)
	want := time.Date(2018, 2, 3, 4, 5, 6, 0, time.UTC)
	if res.Source != SourceExif || !res.Time.Equal(want) {
		t.Fatalf("got %+v, want exif %v", res, want)
	}
}

func TestFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	mtime := time.Date(2021, 3, 3, 3, 3, 3, 0, time.UTC)

	cases := map[string][]byte{
		"plain.jpg":   testutil.EncodeJPEG(testutil.Gradient(4, 4)),
		"garbage.jpg": []byte("definitely not an image file"),
		"bad-date.jpg": testutil.SpliceExif(
			testutil.EncodeJPEG(testutil.Gradient(4, 4)),
			testutil.BuildExifTIFF(testutil.Exif{DateTimeOriginal: "yesterday-ish"}),
		),
		"pic.png": testutil.EncodePNG(testutil.Gradient(4, 4)),
	}

	r := Default()
	for name, data := range cases {
		path, err := testutil.WriteFile(dir, name, data, mtime)
		if err != nil {
			t.Fatal(err)
		}
		res := r.Resolve(path)
		if res.Source != SourceModTime || !res.Time.Equal(mtime) {
			t.Fatalf("%s: got %+v, want mtime %v", name, res, mtime)
		}
	}
}

func TestParseExifTime(t *testing.T) {
	got, ok := ParseExifTime("2024:01:02 03:04:05\x00", time.UTC)
	if !ok || !got.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Fatalf("got %v %v", got, ok)
	}
	if _, ok := ParseExifTime("2024-01-02 03:04:05", time.UTC); ok {
		t.Fatalf("dash layout should not parse")
	}
	if _, ok := ParseExifTime("", nil); ok {
		t.Fatalf("empty should not parse")
	}
}

func TestModTimeStrategyMissingFile(t *testing.T) {
	_, ok := ModTimeStrategy{}.Resolve(filepath.Join(os.TempDir(), "photoprep-no-such-file"))
	if ok {
		t.Fatalf("expected decline for missing file")
	}
}
