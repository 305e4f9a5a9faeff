package resolver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	apperrors "database-manager/internal/errors"
	"database-manager/internal/logging"
	"database-manager/internal/storage"
)

// Headers are the columns of a backup listing.
var Headers = []string{"Name", "Extension", "Size", "Created"}

// CreatedLayout formats the Created column.
const CreatedLayout = "Mon 2 2006  15:04:05"

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders a byte count with two decimals at most, using the
// largest unit that keeps the value at or above one.
func FormatBytes(b int64) string {
	if b < 0 {
		b = 0
	}

	pow := 0
	for v := b; v >= 1024 && pow < len(byteUnits)-1; v /= 1024 {
		pow++
	}

	value := float64(b)
	for i := 0; i < pow; i++ {
		value /= 1024
	}
	value = float64(int64(value*100+0.5)) / 100

	return strconv.FormatFloat(value, 'f', -1, 64) + " " + byteUnits[pow]
}

// Files drops directories from a listing.
func Files(entries []storage.Entry) []storage.Entry {
	files := make([]storage.Entry, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, entry)
	}
	return files
}

// Names returns the basenames of entries.
func Names(entries []storage.Entry) []string {
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Basename
	}
	return names
}

// Rows renders the file entries of a listing as table rows.
func Rows(entries []storage.Entry) [][]string {
	files := Files(entries)
	rows := make([][]string, 0, len(files))
	for _, file := range files {
		rows = append(rows, []string{
			file.Basename,
			file.Extension,
			FormatBytes(file.Size),
			formatCreated(file.Timestamp),
		})
	}
	return rows
}

func formatCreated(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format(CreatedLayout)
}

// ListFiles lists dir on a filesystem and keeps only files.
func ListFiles(ctx context.Context, fs storage.Filesystem, logger *logging.Logger, providerName, dir string) ([]storage.Entry, error) {
	start := time.Now()
	entries, err := fs.ListContents(ctx, dir)
	if err != nil {
		logger.LogListing(providerName, dir, 0, 0, time.Since(start), err)
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to list '%s' on provider '%s'", dir, providerName), err)
	}

	files := Files(entries)
	logger.LogListing(providerName, dir, len(files), len(entries)-len(files), time.Since(start), nil)
	return files, nil
}
