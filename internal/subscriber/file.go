package subscriber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend keeps ids in a plain line-delimited text file.
type FileBackend struct {
	Path string
}

// NewFileBackend creates a backend for the given path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (f *FileBackend) Name() string { return f.Path }

// Load reads ids from the file. A missing file is an empty set.
func (f *FileBackend) Load(_ context.Context) ([]int64, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return ParseIDs(f.Path, bytes.NewReader(data))
}

// Save rewrites the whole file through a temp file and rename.
func (f *FileBackend) Save(_ context.Context, ids []int64) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(FormatIDs(ids)); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	return os.Rename(tmp.Name(), f.Path)
}
