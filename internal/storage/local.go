package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"docex/internal/common/fsutil"
	"docex/pkg/types"
)

// LocalStore serves documents out of a directory tree. Keys are paths
// relative to the root, always with forward slashes.
type LocalStore struct {
	root string
}

// NewLocal validates the directory and returns a store rooted at it.
// A leading '~' is expanded.
func NewLocal(dir string) (*LocalStore, error) {
	root, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}
	return &LocalStore{root: abs}, nil
}

func (l *LocalStore) Name() string { return "local" }

// Root reports the absolute root directory.
func (l *LocalStore) Root() string { return l.root }

func (l *LocalStore) List(ctx context.Context) ([]types.Document, error) {
	var docs []types.Document
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		if !isPDF(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(l.root, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		docs = append(docs, types.Document{
			Key:          filepath.ToSlash(rel),
			Name:         d.Name(),
			Size:         info.Size(),
			ModifiedUnix: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", l.root, err)
	}
	return docs, nil
}

func (l *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	p := filepath.Join(l.root, filepath.FromSlash(key))
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return b, nil
}

func (l *LocalStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	p := filepath.Join(l.root, filepath.FromSlash(key))
	if err := fsutil.WriteFileMkdir(p, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}
