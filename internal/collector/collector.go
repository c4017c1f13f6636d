// Package collector enumerates candidate photos under a root directory.
package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	ErrRootNotFound = errors.New("root folder not found")
	ErrNotDirectory = errors.New("root is not a directory")
)

// ImageExtensions is the allow-list used when Options.AllFiles is false.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
	".bmp":  true,
	".webp": true,
	".gif":  true,
}

// File is one collected regular file.
type File struct {
	Path    string // root joined with RelPath
	RelPath string // relative to the root, OS separators
	Ext     string // lower-cased extension including the dot
	Dir     string // directory containing the file, relative to the root ("." for top level)
}

// Category is the name of the immediate parent directory. Top-level files
// take the root's own name.
func (f File) Category(root string) string {
	if f.Dir == "." {
		return filepath.Base(filepath.Clean(root))
	}
	return filepath.Base(f.Dir)
}

// Options tunes what the walk accepts.
type Options struct {
	// AllFiles disables the extension allow-list. Hidden files are still skipped.
	AllFiles bool
	// Exclude lists directories (any form, resolved to absolute) that are not descended into.
	Exclude []string
	// OnSkip is told about subdirectories that could not be read. They are
	// skipped and the walk goes on; only an unreadable root fails the walk.
	OnSkip func(path string, err error)
}

// readDir is swapped in tests to simulate unreadable directories.
var readDir = os.ReadDir

// Dir is one visited directory and the files accepted in it.
type Dir struct {
	RelPath string
	Files   []File
}

// Collect returns every accepted file under root, sorted by path.
func Collect(root string, opts Options) ([]File, error) {
	var files []File
	err := Walk(root, opts, func(d Dir) error {
		files = append(files, d.Files...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Walk visits directories top-down. Each directory's files are sorted
// case-insensitively and delivered before its subdirectories are visited;
// subdirectories are visited in lexical order.
func Walk(root string, opts Options, visit func(Dir) error) error {
	if err := CheckRoot(root); err != nil {
		return err
	}

	excluded, err := absAll(opts.Exclude)
	if err != nil {
		return err
	}

	return walkDir(root, ".", opts, excluded, visit)
}

// CheckRoot reports ErrRootNotFound or ErrNotDirectory for unusable roots.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: '%s'", ErrRootNotFound, root)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: '%s'", ErrNotDirectory, root)
	}
	return nil
}

func walkDir(root, rel string, opts Options, excluded []string, visit func(Dir) error) error {
	full := filepath.Join(root, rel)
	entries, err := readDir(full)
	if err != nil {
		if rel == "." {
			return err
		}
		if opts.OnSkip != nil {
			opts.OnSkip(full, err)
		}
		return nil
	}

	dir := Dir{RelPath: rel}
	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			subdirs = append(subdirs, name)
			continue
		}
		if IsHidden(name) || !isRegularFile(filepath.Join(full, name), entry) {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if !opts.AllFiles && !ImageExtensions[ext] {
			continue
		}
		relPath := filepath.Join(rel, name)
		dir.Files = append(dir.Files, File{
			Path:    filepath.Join(root, relPath),
			RelPath: relPath,
			Ext:     ext,
			Dir:     rel,
		})
	}

	sort.SliceStable(dir.Files, func(i, j int) bool {
		return strings.ToLower(filepath.Base(dir.Files[i].RelPath)) < strings.ToLower(filepath.Base(dir.Files[j].RelPath))
	})

	if err := visit(dir); err != nil {
		return err
	}

	for _, name := range subdirs {
		subRel := filepath.Join(rel, name)
		if isExcluded(filepath.Join(root, subRel), excluded) {
			continue
		}
		if err := walkDir(root, subRel, opts, excluded, visit); err != nil {
			return err
		}
	}
	return nil
}

// isRegularFile accepts regular files and symlinks that resolve to one.
func isRegularFile(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsHidden reports whether a file name carries the hidden-file prefix.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func absAll(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		out = append(out, filepath.Clean(abs))
	}
	return out, nil
}

func isExcluded(dir string, excluded []string) bool {
	if len(excluded) == 0 {
		return false
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	abs = filepath.Clean(abs)
	for _, ex := range excluded {
		if abs == ex {
			return true
		}
	}
	return false
}

// IsWithin reports whether path is root itself or nested under it.
func IsWithin(path string, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
