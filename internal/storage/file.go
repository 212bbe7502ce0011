// filepath: internal/storage/file.go
// Package storage provides whole-file writes that never leave a
// half-written file behind.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteAtomic streams the output of write into a temporary file next to
// path and renames it over path once everything is flushed to disk.
// On any error the original file is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("could not sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("could not close file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("could not set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("could not replace file: %w", err)
	}
	return nil
}

// SaveFile saves data from a reader to path atomically and returns the
// number of bytes written.
func SaveFile(data io.Reader, path string) (int64, error) {
	var n int64
	err := WriteAtomic(path, func(w io.Writer) error {
		var err error
		n, err = io.Copy(w, data)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
