// Package manifest writes the path,name,category table consumed by the
// photo gallery pages.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Header is the first record of every manifest.
var Header = []string{"path", "name", "category"}

// Row is one processed photo.
type Row struct {
	Path     string
	Name     string
	Category string
}

func (r Row) record() []string {
	return []string{r.Path, r.Name, r.Category}
}

// SyntheticName builds the category_index display name.
func SyntheticName(category string, index int) string {
	return fmt.Sprintf("%s_%d", category, index)
}

// Counter hands out 1-based indices per category. Each category keeps its
// own sequence no matter how directories interleave.
type Counter struct {
	next map[string]int
}

func NewCounter() *Counter {
	return &Counter{next: make(map[string]int)}
}

// Next advances and returns the index for category.
func (c *Counter) Next(category string) int {
	c.next[category]++
	return c.next[category]
}

// Writer streams rows into a temporary file beside the destination and
// moves it into place on Commit, so an aborted run leaves no partial manifest.
type Writer struct {
	path string
	tmp  *os.File
	csv  *csv.Writer
	rows int
	done bool
}

// Create opens a manifest for writing and emits the header.
func Create(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, ".manifest-*.tmp")
	if err != nil {
		return nil, err
	}

	w := &Writer{path: path, tmp: tmp, csv: csv.NewWriter(tmp)}
	if err := w.csv.Write(Header); err != nil {
		_ = w.Abort()
		return nil, err
	}
	return w, nil
}

// Write appends one row.
func (w *Writer) Write(row Row) error {
	if w.done {
		return errors.New("manifest already closed")
	}
	if err := w.csv.Write(row.record()); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows is the number of data rows written so far.
func (w *Writer) Rows() int {
	return w.rows
}

// Path is the final destination.
func (w *Writer) Path() string {
	return w.path
}

// Commit flushes the rows and renames the temporary file over the destination.
func (w *Writer) Commit() error {
	if w.done {
		return errors.New("manifest already closed")
	}
	w.done = true

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		_ = w.tmp.Close()
		_ = os.Remove(w.tmp.Name())
		return err
	}
	if err := w.tmp.Sync(); err != nil {
		_ = w.tmp.Close()
		_ = os.Remove(w.tmp.Name())
		return err
	}
	if err := w.tmp.Close(); err != nil {
		_ = os.Remove(w.tmp.Name())
		return err
	}
	if err := os.Chmod(w.tmp.Name(), 0o644); err != nil {
		_ = os.Remove(w.tmp.Name())
		return err
	}
	return os.Rename(w.tmp.Name(), w.path)
}

// Abort discards everything written. Safe to call after Commit.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	_ = w.tmp.Close()
	return os.Remove(w.tmp.Name())
}

// Read parses a manifest, validating the header.
func Read(r io.Reader) ([]Row, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("manifest is empty")
	}

	head := records[0]
	if len(head) != len(Header) || head[0] != Header[0] || head[1] != Header[1] || head[2] != Header[2] {
		return nil, fmt.Errorf("unexpected manifest header %v", head)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row{Path: rec[0], Name: rec[1], Category: rec[2]})
	}
	return rows, nil
}

// ReadFile parses the manifest at path.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
