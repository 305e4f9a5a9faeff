// Package storage implements the filesystems backups are written to and
// read from.
package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"time"
)

// EntryType distinguishes files from directories in a listing.
type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// Entry is one item of a directory listing. Path is relative to the
// filesystem root.
type Entry struct {
	Basename  string    `json:"basename" yaml:"basename"`
	Path      string    `json:"path" yaml:"path"`
	Type      EntryType `json:"type" yaml:"type"`
	Extension string    `json:"extension" yaml:"extension"`
	Size      int64     `json:"size" yaml:"size"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == EntryDir
}

// Filesystem is a storage backend rooted at its configured root. All paths
// are relative to that root and use forward slashes.
type Filesystem interface {
	// ListContents lists the direct children of dir.
	ListContents(ctx context.Context, dir string) ([]Entry, error)
	// Write stores the content of r at p, replacing any existing file.
	Write(ctx context.Context, p string, r io.Reader) error
	// Read opens the file at p.
	Read(ctx context.Context, p string) (io.ReadCloser, error)
	// Close releases connections held by the backend.
	Close() error
}

func newFileEntry(p string, size int64, modified time.Time) Entry {
	p = cleanPath(p)
	base := path.Base(p)
	return Entry{
		Basename:  base,
		Path:      p,
		Type:      EntryFile,
		Extension: strings.TrimPrefix(path.Ext(base), "."),
		Size:      size,
		Timestamp: modified,
	}
}

func newDirEntry(p string, modified time.Time) Entry {
	p = cleanPath(p)
	return Entry{
		Basename:  path.Base(p),
		Path:      p,
		Type:      EntryDir,
		Timestamp: modified,
	}
}

// cleanPath normalises a relative path: forward slashes, no leading or
// trailing slash, "" for the root.
func cleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// objectKey joins an object store prefix and a relative path.
func objectKey(prefix, p string) string {
	prefix = cleanPath(prefix)
	p = cleanPath(p)
	switch {
	case prefix == "":
		return p
	case p == "":
		return prefix
	default:
		return prefix + "/" + p
	}
}

// dirPrefix returns the listing prefix for dir, ending in "/" unless it is
// the bucket root.
func dirPrefix(prefix, dir string) string {
	key := objectKey(prefix, dir)
	if key == "" {
		return ""
	}
	return key + "/"
}

// relativeKey strips the root prefix from an object key.
func relativeKey(prefix, key string) string {
	prefix = cleanPath(prefix)
	key = strings.TrimSuffix(key, "/")
	if prefix == "" {
		return key
	}
	return strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
}
