package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateRejectsSameRootAndOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := ResizeDefaults()
	cfg.Root = dir
	cfg.Output = dir + string(filepath.Separator) + "nested" + string(filepath.Separator) + ".."

	if err := cfg.Validate(true); !errors.Is(err, ErrSameRootOutput) {
		t.Fatalf("expected ErrSameRootOutput, got %v", err)
	}
}

func TestValidateRelativeAndAbsoluteSamePath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	if err := os.Mkdir("Photos", 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := ResizeDefaults()
	cfg.Root = "Photos"
	cfg.Output = filepath.Join(dir, "Photos")

	if err := cfg.Validate(true); !errors.Is(err, ErrSameRootOutput) {
		t.Fatalf("expected ErrSameRootOutput, got %v", err)
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ProcessingConfig)
	}{
		{"zero width", func(c *ProcessingConfig) { c.MaxWidth = 0 }},
		{"negative height", func(c *ProcessingConfig) { c.MaxHeight = -1 }},
		{"quality too high", func(c *ProcessingConfig) { c.Quality = 101 }},
		{"quality zero", func(c *ProcessingConfig) { c.Quality = 0 }},
		{"no output", func(c *ProcessingConfig) { c.Output = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := ResizeDefaults()
			cfg.Root = "in"
			cfg.Output = "out"
			tc.mutate(&cfg)
			if err := cfg.Validate(true); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidateManifestOnlySkipsOutput(t *testing.T) {
	cfg := ManifestDefaults()
	if err := cfg.Validate(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photoprep.yaml")
	data := []byte(`
resize:
  root: Camera
  max_width: 1024
  dry_run: true
catalog:
  quality: 70
  all_files: true
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	profile, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	resize := Merge(ResizeDefaults(), profile.Resize)
	if resize.Root != "Camera" || resize.MaxWidth != 1024 || resize.MaxHeight != 2048 || !resize.DryRun {
		t.Fatalf("unexpected resize config: %+v", resize)
	}
	if resize.Output != "Resized_Images" || resize.Quality != 90 {
		t.Fatalf("defaults lost: %+v", resize)
	}

	catalog := Merge(CatalogDefaults(), profile.Catalog)
	if catalog.Quality != 70 || !catalog.AllFiles || catalog.MaxWidth != 1080 {
		t.Fatalf("unexpected catalog config: %+v", catalog)
	}

	manifest := Merge(ManifestDefaults(), profile.Manifest)
	if manifest != ManifestDefaults() {
		t.Fatalf("missing section should keep defaults: %+v", manifest)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Resize != nil || p.Catalog != nil || p.Manifest != nil {
		t.Fatalf("expected empty profile")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("resize: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
