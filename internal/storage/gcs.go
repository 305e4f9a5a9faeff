package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
)

// GCSConfig holds the settings of a Google Cloud Storage bucket.
type GCSConfig struct {
	Bucket          string
	CredentialsPath string
	Root            string
}

func gcsConfigFrom(section config.Tree) GCSConfig {
	return GCSConfig{
		Bucket:          section.String("bucket"),
		CredentialsPath: section.String("key_file"),
		Root:            section.String("root"),
	}
}

// GCSFilesystem stores backups in a Google Cloud Storage bucket. The client
// is created on first use, with default credentials unless a key file is
// configured.
type GCSFilesystem struct {
	config GCSConfig

	mu     sync.Mutex
	client *gcs.Client
}

// NewGCSFilesystem creates a GCSFilesystem.
func NewGCSFilesystem(cfg GCSConfig) (*GCSFilesystem, error) {
	if cfg.Bucket == "" {
		return nil, apperrors.NewConfigurationError("invalid GCS storage configuration", errors.New("bucket is required"))
	}
	return &GCSFilesystem{config: cfg}, nil
}

func (g *GCSFilesystem) bucket(ctx context.Context) (*gcs.BucketHandle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		var opts []option.ClientOption
		if g.config.CredentialsPath != "" {
			opts = append(opts, option.WithCredentialsFile(g.config.CredentialsPath))
		}
		client, err := gcs.NewClient(ctx, opts...)
		if err != nil {
			return nil, apperrors.NewStorageError("failed to create GCS client", err)
		}
		g.client = client
	}
	return g.client.Bucket(g.config.Bucket), nil
}

func (g *GCSFilesystem) ListContents(ctx context.Context, dir string) ([]Entry, error) {
	bucket, err := g.bucket(ctx)
	if err != nil {
		return nil, err
	}

	prefix := dirPrefix(g.config.Root, dir)
	it := bucket.Objects(ctx, &gcs.Query{Prefix: prefix, Delimiter: "/"})

	var contents []Entry
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to list gs://%s/%s", g.config.Bucket, prefix), err)
		}

		if attrs.Prefix != "" {
			contents = append(contents, newDirEntry(relativeKey(g.config.Root, attrs.Prefix), time.Time{}))
			continue
		}
		if attrs.Name == prefix {
			continue
		}
		contents = append(contents, newFileEntry(relativeKey(g.config.Root, attrs.Name), attrs.Size, attrs.Updated))
	}
	return contents, nil
}

func (g *GCSFilesystem) Write(ctx context.Context, p string, r io.Reader) error {
	bucket, err := g.bucket(ctx)
	if err != nil {
		return err
	}

	name := objectKey(g.config.Root, p)
	writer := bucket.Object(name).NewWriter(ctx)
	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return apperrors.NewStorageError(fmt.Sprintf("failed to write gs://%s/%s", g.config.Bucket, name), err)
	}
	if err := writer.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to upload gs://%s/%s", g.config.Bucket, name), err)
	}
	return nil
}

func (g *GCSFilesystem) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	bucket, err := g.bucket(ctx)
	if err != nil {
		return nil, err
	}

	name := objectKey(g.config.Root, p)
	reader, err := bucket.Object(name).NewReader(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to download gs://%s/%s", g.config.Bucket, name), err)
	}
	return reader, nil
}

func (g *GCSFilesystem) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}
