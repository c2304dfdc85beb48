// Package atomicfile writes files through a temp file and a rename, so readers
// never observe a half-written file.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TempFilePrefix is the prefix used for temporary atomic write files.
const TempFilePrefix = "loam-export-tmp-"

// IsTemp reports whether path names a temporary file created by WriteFile.
func IsTemp(path string) bool {
	return strings.HasPrefix(filepath.Base(path), TempFilePrefix)
}

// WriteFile writes data to a file atomically by writing to a temp file
// and then renaming it to the target filename.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	// Create a temporary file in the same directory to ensure atomic rename
	tmpFile, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name()) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", filename, err)
	}

	return nil
}
