package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"database-manager/internal/logging"
	"database-manager/internal/storage"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{bytes: -5, want: "0 B"},
		{bytes: 0, want: "0 B"},
		{bytes: 1, want: "1 B"},
		{bytes: 1023, want: "1023 B"},
		{bytes: 1024, want: "1 KB"},
		{bytes: 1536, want: "1.5 KB"},
		{bytes: 1500, want: "1.46 KB"},
		{bytes: 1048576, want: "1 MB"},
		{bytes: 1073741824, want: "1 GB"},
		{bytes: 1099511627776, want: "1 TB"},
		{bytes: 1024 * 1099511627776, want: "1024 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.bytes))
		})
	}
}

func TestRowsDropDirectories(t *testing.T) {
	entries := []storage.Entry{
		{Basename: "a.sql", Type: storage.EntryFile, Extension: "sql"},
		{Basename: "sub", Type: storage.EntryDir},
	}

	rows := Rows(entries)

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a.sql", "sql", "0 B", ""}, rows[0])
	assert.Equal(t, []string{"a.sql"}, Names(Files(entries)))
}

func TestRowsFormatCreated(t *testing.T) {
	ts := time.Date(2024, 3, 9, 18, 30, 0, 0, time.Local)

	rows := Rows([]storage.Entry{{Basename: "app-latest.sql.gz", Type: storage.EntryFile, Extension: "gz", Size: 2048, Timestamp: ts}})

	assert.Equal(t, [][]string{{"app-latest.sql.gz", "gz", "2 KB", "Sat 9 2024  18:30:00"}}, rows)
}

func TestListFiles(t *testing.T) {
	fs := &listingFS{entries: map[string][]storage.Entry{
		"": {
			{Basename: "a.sql", Type: storage.EntryFile},
			{Basename: "b", Type: storage.EntryDir},
			{Basename: "c.sql", Type: storage.EntryFile},
		},
	}}

	files, err := ListFiles(context.Background(), fs, logging.NewNopLogger(), "local", "")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.sql", "c.sql"}, Names(files))
}

func TestListFilesError(t *testing.T) {
	fs := &listingFS{err: errors.New("timeout")}

	_, err := ListFiles(context.Background(), fs, logging.NewNopLogger(), "ftp", "daily")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list 'daily' on provider 'ftp'")
}
