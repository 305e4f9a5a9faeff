package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
	"database-manager/internal/logging"
)

func TestFactory_Create(t *testing.T) {
	factory := NewFactory(logging.NewNopLogger())

	tests := []struct {
		name     string
		section  config.Tree
		wantType interface{}
		wantErr  bool
	}{
		{
			name:     "local",
			section:  config.Tree{"type": "local", "root": t.TempDir()},
			wantType: &LocalFilesystem{},
		},
		{
			name:     "s3",
			section:  config.Tree{"type": "s3", "bucket": "dumps", "region": "eu-west-1", "key": "k", "secret": "s"},
			wantType: &S3Filesystem{},
		},
		{
			name:     "gcs",
			section:  config.Tree{"type": "gcs", "bucket": "dumps"},
			wantType: &GCSFilesystem{},
		},
		{
			name:     "azure",
			section:  config.Tree{"type": "azure", "account_name": "acct", "account_key": "a2V5", "container": "dumps"},
			wantType: &AzureFilesystem{},
		},
		{
			name:     "ftp",
			section:  config.Tree{"type": "ftp", "host": "ftp.example.com", "username": "u", "password": "p"},
			wantType: &FTPFilesystem{},
		},
		{
			name:     "sftp",
			section:  config.Tree{"type": "sftp", "host": "sftp.example.com", "username": "u", "password": "p"},
			wantType: &SFTPFilesystem{},
		},
		{name: "local without root", section: config.Tree{"type": "local"}, wantErr: true},
		{name: "s3 without bucket", section: config.Tree{"type": "s3", "region": "eu-west-1"}, wantErr: true},
		{name: "gcs without bucket", section: config.Tree{"type": "gcs"}, wantErr: true},
		{name: "azure without key", section: config.Tree{"type": "azure", "account_name": "acct", "container": "c"}, wantErr: true},
		{name: "ftp without host", section: config.Tree{"type": "ftp"}, wantErr: true},
		{name: "sftp without credentials", section: config.Tree{"type": "sftp", "host": "h"}, wantErr: true},
		{name: "unsupported type", section: config.Tree{"type": "dropbox"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := factory.Create(tt.name, tt.section)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrorTypeConfiguration, apperrors.GetErrorType(err))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, fs)
			assert.NoError(t, fs.Close())
		})
	}
}

func TestFactory_UnsupportedTypeNamesProvider(t *testing.T) {
	_, err := NewFactory(nil).Create("offsite", config.Tree{"type": "dropbox"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage type 'dropbox' for provider 'offsite'")
}

func TestNewRegistry(t *testing.T) {
	cfg, err := config.Load(config.Tree{
		"providers": config.Tree{
			"local":   config.Tree{"root": t.TempDir()},
			"archive": config.Tree{"type": "local", "root": t.TempDir()},
		},
	})
	require.NoError(t, err)

	registry, err := NewRegistry(cfg, NewFactory(nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"archive", "local"}, registry.ListAvailable())
	root, err := registry.GetString("archive", "root")
	require.NoError(t, err)
	assert.NotEmpty(t, root)
	assert.NoError(t, CloseAll(registry))
}

func TestNewRegistry_InvalidProvider(t *testing.T) {
	cfg, err := config.Load(config.Tree{
		"providers": config.Tree{"offsite": config.Tree{"type": "dropbox"}},
	})
	require.NoError(t, err)

	_, err = NewRegistry(cfg, NewFactory(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage provider 'offsite'")
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "", cleanPath("/"))
	assert.Equal(t, "", cleanPath(".."))
	assert.Equal(t, "a/b", cleanPath("/a//b/"))
	assert.Equal(t, "a/b", cleanPath(`a\b`))

	assert.Equal(t, "backups/daily/x.sql", objectKey("/backups/", "daily/x.sql"))
	assert.Equal(t, "x.sql", objectKey("", "x.sql"))
	assert.Equal(t, "backups", objectKey("backups", ""))

	assert.Equal(t, "", dirPrefix("", ""))
	assert.Equal(t, "backups/", dirPrefix("backups", ""))
	assert.Equal(t, "backups/daily/", dirPrefix("backups", "daily"))

	assert.Equal(t, "daily/x.sql", relativeKey("backups", "backups/daily/x.sql"))
	assert.Equal(t, "daily", relativeKey("backups", "backups/daily/"))
	assert.Equal(t, "x.sql", relativeKey("", "x.sql"))

	assert.Equal(t, ".", joinRemote("", ""))
	assert.Equal(t, "/srv/backups/a.sql", joinRemote("/srv/backups", "a.sql"))
}

func TestNewEntries(t *testing.T) {
	file := newFileEntry("daily/app-latest.sql.gz", 10, time.Time{})
	assert.Equal(t, "app-latest.sql.gz", file.Basename)
	assert.Equal(t, "gz", file.Extension)
	assert.Equal(t, EntryFile, file.Type)

	dir := newDirEntry("daily/", time.Time{})
	assert.Equal(t, "daily", dir.Basename)
	assert.Equal(t, "daily", dir.Path)
	assert.True(t, dir.IsDir())

	noExt := newFileEntry("README", 1, time.Time{})
	assert.Equal(t, "", noExt.Extension)
}
