package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/hupe1980/roadgraph/internal/fs"
	"github.com/hupe1980/roadgraph/resource"
)

// writeFileAtomic writes data to a temporary file and renames it over path.
func writeFileAtomic(fsys fs.FileSystem, rc *resource.Controller, path string, data []byte) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	f, err := fsys.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	w := resource.NewRateLimitedWriter(context.Background(), f, rc)
	if _, err := w.Write(data); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return err
	}
	return nil
}

// readFile reads path completely. It returns os.ErrNotExist (wrapped) if
// the file is missing.
func readFile(fsys fs.FileSystem, rc *resource.Controller, path string) ([]byte, error) {
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(resource.NewRateLimitedReader(context.Background(), f, rc))
}
