package collector

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCollectVisibleSorted(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"Beach/b.jpg", "Beach/a.JPG", "Beach/c.png", "Beach/d.webp",
		"City/x.tiff", "City/y.tif", "City/z.bmp", "City/w.gif",
		"Forest/1.jpeg", "Forest/2.jpg", "Forest/3.jpg", "Forest/4.png",
		"Beach/.hidden.jpg", "Forest/.DS_Store",
		"City/notes.txt",
	)

	files, err := Collect(root, Options{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 12 {
		t.Fatalf("expected 12 files, got %d: %v", len(files), files)
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
		if f.Ext == "" || !ImageExtensions[f.Ext] {
			t.Fatalf("unexpected extension %q for %s", f.Ext, f.Path)
		}
	}
	if !sort.StringsAreSorted(paths) {
		t.Fatalf("paths not sorted: %v", paths)
	}
}

func TestCollectAllFilesKeepsHiddenFilter(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a/notes.txt", "a/.secret", "a/pic.jpg")

	files, err := Collect(root, Options{AllFiles: true})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
}

func TestCollectMissingRoot(t *testing.T) {
	_, err := Collect(filepath.Join(t.TempDir(), "nope"), Options{})
	if !errors.Is(err, ErrRootNotFound) {
		t.Fatalf("expected ErrRootNotFound, got %v", err)
	}
}

func TestCollectRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "file.jpg")
	_, err := Collect(filepath.Join(root, "file.jpg"), Options{})
	if !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("expected ErrNotDirectory, got %v", err)
	}
}

func TestCollectExcludesOutputInsideRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.jpg", "out/image_001.jpg", "sub/b.jpg")

	files, err := Collect(root, Options{Exclude: []string{filepath.Join(root, "out")}})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %v", files)
	}
	for _, f := range files {
		if filepath.Dir(f.RelPath) == "out" {
			t.Fatalf("output dir was not excluded: %s", f.Path)
		}
	}
}

func TestWalkOrderAndCategories(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Photos")
	writeTree(t, root, "top.jpg", "Beach/B.jpg", "Beach/a.jpg", "Beach/Sunset/c.jpg", "Alps/z.jpg")

	var dirs []string
	var names []string
	err := Walk(root, Options{}, func(d Dir) error {
		dirs = append(dirs, d.RelPath)
		for _, f := range d.Files {
			names = append(names, filepath.Base(f.RelPath)+"@"+f.Category(root))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}

	wantDirs := []string{".", "Alps", "Beach", filepath.Join("Beach", "Sunset")}
	if len(dirs) != len(wantDirs) {
		t.Fatalf("dirs = %v, want %v", dirs, wantDirs)
	}
	for i := range wantDirs {
		if dirs[i] != wantDirs[i] {
			t.Fatalf("dirs = %v, want %v", dirs, wantDirs)
		}
	}

	wantNames := []string{"top.jpg@Photos", "z.jpg@Alps", "a.jpg@Beach", "B.jpg@Beach", "c.jpg@Sunset"}
	if len(names) != len(wantNames) {
		t.Fatalf("names = %v, want %v", names, wantNames)
	}
	for i := range wantNames {
		if names[i] != wantNames[i] {
			t.Fatalf("names = %v, want %v", names, wantNames)
		}
	}
}

func TestIsWithin(t *testing.T) {
	root := filepath.FromSlash("/photos")
	cases := map[string]bool{
		filepath.FromSlash("/photos"):         true,
		filepath.FromSlash("/photos/out"):     true,
		filepath.FromSlash("/photos-resized"): false,
		filepath.FromSlash("/other"):          false,
		filepath.FromSlash("/photos/../x"):    false,
	}
	for path, want := range cases {
		if got := IsWithin(path, root); got != want {
			t.Fatalf("IsWithin(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWalkSkipsUnreadableSubdirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Good/a.jpg", "Locked/b.jpg", "Locked/Deeper/c.jpg", "top.jpg")

	locked := filepath.Join(root, "Locked")
	denied := errors.New("permission denied")
	orig := readDir
	readDir = func(name string) ([]os.DirEntry, error) {
		if name == locked {
			return nil, denied
		}
		return orig(name)
	}
	t.Cleanup(func() { readDir = orig })

	var skipped []string
	files, err := Collect(root, Options{OnSkip: func(path string, err error) {
		if !errors.Is(err, denied) {
			t.Errorf("unexpected skip error: %v", err)
		}
		skipped = append(skipped, path)
	}})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 readable files, got %v", files)
	}
	if len(skipped) != 1 || skipped[0] != locked {
		t.Fatalf("skipped = %v, want [%s]", skipped, locked)
	}
}

func TestWalkUnreadableRootFails(t *testing.T) {
	root := t.TempDir()
	denied := errors.New("permission denied")
	orig := readDir
	readDir = func(string) ([]os.DirEntry, error) { return nil, denied }
	t.Cleanup(func() { readDir = orig })

	if _, err := Collect(root, Options{}); !errors.Is(err, denied) {
		t.Fatalf("expected root read error, got %v", err)
	}
}

func TestCollectFollowsSymlinkedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "Album/real.jpg")
	outside := t.TempDir()
	writeTree(t, outside, "elsewhere.jpg", "Nested/n.jpg")

	if err := os.Symlink(filepath.Join(outside, "elsewhere.jpg"), filepath.Join(root, "Album", "linked.jpg")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "Album", "missing.jpg"), filepath.Join(root, "Album", "dangling.jpg")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(outside, "Nested"), filepath.Join(root, "Album", "dirlink.jpg")); err != nil {
		t.Fatal(err)
	}

	files, err := Collect(root, Options{})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f.Path))
	}
	if len(names) != 2 || names[0] != "linked.jpg" || names[1] != "real.jpg" {
		t.Fatalf("got %v, want [linked.jpg real.jpg]", names)
	}
}
