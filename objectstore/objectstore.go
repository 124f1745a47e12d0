// Package objectstore archives raw and processed upload artifacts. The
// pipeline only depends on the Sink interface; where the bytes actually
// land is the collaborator's concern.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink stores a named artifact.
type Sink interface {
	Put(ctx context.Context, key string, r io.Reader) error
}

// FilesystemSink writes artifacts under a root directory, creating
// subdirectories from the key as needed (e.g. "raw/products_x.csv").
type FilesystemSink struct {
	root string
}

// NewFilesystemSink creates a sink rooted at dir.
func NewFilesystemSink(dir string) *FilesystemSink {
	return &FilesystemSink{root: dir}
}

// Put writes the artifact to <root>/<key>.
func (s *FilesystemSink) Put(_ context.Context, key string, r io.Reader) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write artifact %s: %w", key, err)
	}
	return f.Close()
}
