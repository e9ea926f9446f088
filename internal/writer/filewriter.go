// Package writer exposes destinations for encoded output.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer receives one complete output buffer.
type Writer interface {
	WriteAll(buf []byte) error
}

// DefaultPerm is applied to files created by FileWriter when Perm is zero.
const DefaultPerm os.FileMode = 0o644

// FileWriter writes output to a filesystem path atomically.
type FileWriter struct {
	Path string
	Perm os.FileMode
}

// WriteAll writes buf to the configured path via temp file + rename.
func (w *FileWriter) WriteAll(buf []byte) error {
	// Same directory so the rename stays on one filesystem
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".ctrkit-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(buf); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}

	if syncErr := tmpFile.Sync(); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}

	perm := w.Perm
	if perm == 0 {
		perm = DefaultPerm
	}
	if chmodErr := tmpFile.Chmod(perm); chmodErr != nil {
		return fmt.Errorf("chmod temp file: %w", chmodErr)
	}

	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil

	if renameErr := os.Rename(tmpPath, w.Path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}

	return nil
}
