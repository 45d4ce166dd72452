// Package download delivers binary response bodies as local files.
package download

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Save writes r to path through a temporary file in the same directory,
// renaming it into place on success. A failed copy or rename leaves no
// partial file behind.
func Save(path string, r io.Reader) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".laudos-download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	_, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpName)
		if copyErr != nil {
			return fmt.Errorf("write download: %w", copyErr)
		}
		return fmt.Errorf("close download: %w", closeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("finalize download: %w", err)
	}
	return nil
}
