package processor

import (
	"os"
	"path/filepath"

	"photoprep/internal/collector"
)

// writeFile persists data at destPath through a temporary file in the same
// directory, so a failed write never leaves a truncated destination.
func writeFile(destPath string, data []byte) (int64, error) {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, err
	}

	tmpFile, err := os.CreateTemp(destDir, ".photoprep-*.tmp")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return 0, err
	}
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return 0, err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return 0, err
	}
	if err := tmpFile.Close(); err != nil {
		return 0, err
	}

	if err := replaceFile(tmpFile.Name(), destPath); err != nil {
		return 0, err
	}
	return int64(len(data)), nil
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

// outputExclusions returns output when it is nested inside root, so the
// walk never picks up files a previous run wrote.
func outputExclusions(root, output string) []string {
	if output == "" {
		return nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil
	}
	absOut, err := filepath.Abs(output)
	if err != nil {
		return nil
	}
	absRoot, absOut = filepath.Clean(absRoot), filepath.Clean(absOut)
	if absOut != absRoot && collector.IsWithin(absOut, absRoot) {
		return []string{absOut}
	}
	return nil
}
