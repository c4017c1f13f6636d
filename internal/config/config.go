// Package config holds the per-command processing settings and the
// optional YAML profile that can override their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrSameRootOutput is returned when the source and destination trees
// resolve to the same directory.
var ErrSameRootOutput = errors.New("the root and output folders cannot be the same")

// ProcessingConfig is built once from invocation arguments and is
// read-only for the rest of a run.
type ProcessingConfig struct {
	Root       string `yaml:"root"`
	Output     string `yaml:"output"`
	Manifest   string `yaml:"manifest"`
	MaxWidth   int    `yaml:"max_width"`
	MaxHeight  int    `yaml:"max_height"`
	Quality    int    `yaml:"quality"`
	DryRun     bool   `yaml:"dry_run"`
	PathPrefix string `yaml:"path_prefix"`
	AllFiles   bool   `yaml:"all_files"`
}

// Profile is the on-disk YAML layout, one section per command.
type Profile struct {
	Resize   *ProcessingConfig `yaml:"resize,omitempty"`
	Catalog  *ProcessingConfig `yaml:"catalog,omitempty"`
	Manifest *ProcessingConfig `yaml:"manifest,omitempty"`
}

// ResizeDefaults matches the timestamp-ordered rename tool.
func ResizeDefaults() ProcessingConfig {
	return ProcessingConfig{
		Root:      "Photos",
		Output:    "Resized_Images",
		MaxWidth:  2048,
		MaxHeight: 2048,
		Quality:   90,
	}
}

// CatalogDefaults matches the category-preserving resize + manifest tool.
func CatalogDefaults() ProcessingConfig {
	return ProcessingConfig{
		Root:       "Photos",
		Output:     "Photos_Resized",
		Manifest:   "images.csv",
		MaxWidth:   1080,
		MaxHeight:  1080,
		Quality:    85,
		PathPrefix: "../",
	}
}

// ManifestDefaults matches the listing-only manifest tool.
func ManifestDefaults() ProcessingConfig {
	return ProcessingConfig{
		Root:       "Photos",
		Manifest:   "images.csv",
		PathPrefix: "../",
	}
}

// Load reads and parses a YAML profile. An empty path yields an empty profile.
func Load(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &p, nil
}

// Merge overlays the non-zero fields of section onto base.
func Merge(base ProcessingConfig, section *ProcessingConfig) ProcessingConfig {
	if section == nil {
		return base
	}
	if section.Root != "" {
		base.Root = section.Root
	}
	if section.Output != "" {
		base.Output = section.Output
	}
	if section.Manifest != "" {
		base.Manifest = section.Manifest
	}
	if section.MaxWidth != 0 {
		base.MaxWidth = section.MaxWidth
	}
	if section.MaxHeight != 0 {
		base.MaxHeight = section.MaxHeight
	}
	if section.Quality != 0 {
		base.Quality = section.Quality
	}
	if section.PathPrefix != "" {
		base.PathPrefix = section.PathPrefix
	}
	base.DryRun = base.DryRun || section.DryRun
	base.AllFiles = base.AllFiles || section.AllFiles
	return base
}

// Validate checks the settings that do not depend on the filesystem.
// Set needsOutput for commands that write an output tree.
func (c ProcessingConfig) Validate(needsOutput bool) error {
	if c.Root == "" {
		return fmt.Errorf("root folder is required")
	}
	if !needsOutput {
		return nil
	}
	if c.Output == "" {
		return fmt.Errorf("output folder is required")
	}
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return fmt.Errorf("max size must be positive, got %dx%d", c.MaxWidth, c.MaxHeight)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}

	same, err := SamePath(c.Root, c.Output)
	if err != nil {
		return err
	}
	if same {
		return ErrSameRootOutput
	}
	return nil
}

// SamePath reports whether a and b resolve to the same absolute location.
// Symlinks are followed when both paths exist.
func SamePath(a, b string) (bool, error) {
	absA, err := resolve(a)
	if err != nil {
		return false, err
	}
	absB, err := resolve(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}

func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return filepath.Clean(abs), nil
}
