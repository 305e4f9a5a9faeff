package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	apperrors "database-manager/internal/errors"
)

// LocalFilesystem stores backups in a directory on the local disk.
type LocalFilesystem struct {
	root        string
	permissions os.FileMode
}

// NewLocalFilesystem creates a LocalFilesystem rooted at root.
func NewLocalFilesystem(root string) (*LocalFilesystem, error) {
	if root == "" {
		return nil, apperrors.NewConfigurationError("local storage root cannot be empty", nil)
	}
	return &LocalFilesystem{root: root, permissions: 0755}, nil
}

// Root returns the directory backing the filesystem.
func (l *LocalFilesystem) Root() string {
	return l.root
}

func (l *LocalFilesystem) ListContents(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir = cleanPath(dir)
	entries, err := os.ReadDir(l.fullPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to list directory %s", dir), err)
	}

	contents := make([]Entry, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		rel := path.Join(dir, e.Name())
		if e.IsDir() {
			contents = append(contents, newDirEntry(rel, info.ModTime()))
			continue
		}
		contents = append(contents, newFileEntry(rel, info.Size(), info.ModTime()))
	}
	return contents, nil
}

func (l *LocalFilesystem) Write(ctx context.Context, p string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := l.fullPath(p)
	if err := os.MkdirAll(filepath.Dir(target), l.permissions); err != nil {
		return apperrors.NewStorageError("failed to create backup directory", err)
	}

	// Stage next to the target and rename into place.
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return apperrors.NewStorageError("failed to create temporary file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", p), err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", p), err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to move %s into place", p), err)
	}
	return nil
}

func (l *LocalFilesystem) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.fullPath(p))
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", cleanPath(p)), err)
	}
	return f, nil
}

func (l *LocalFilesystem) Close() error {
	return nil
}

func (l *LocalFilesystem) fullPath(p string) string {
	return filepath.Join(l.root, filepath.FromSlash(cleanPath(p)))
}
