package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/Azure/azure-storage-blob-go/azblob"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
)

// AzureConfig holds the settings of an Azure Blob Storage container.
type AzureConfig struct {
	AccountName   string
	AccountKey    string
	ContainerName string
	Endpoint      string
	Root          string
}

func azureConfigFrom(section config.Tree) AzureConfig {
	return AzureConfig{
		AccountName:   section.String("account_name"),
		AccountKey:    section.String("account_key"),
		ContainerName: section.String("container"),
		Endpoint:      section.String("endpoint"),
		Root:          section.String("root"),
	}
}

// Validate checks the required settings.
func (c AzureConfig) Validate() error {
	if c.AccountName == "" {
		return errors.New("account_name is required")
	}
	if c.AccountKey == "" {
		return errors.New("account_key is required")
	}
	if c.ContainerName == "" {
		return errors.New("container is required")
	}
	return nil
}

// AzureFilesystem stores backups in an Azure Blob Storage container.
type AzureFilesystem struct {
	config AzureConfig

	once         sync.Once
	initErr      error
	containerURL azblob.ContainerURL
}

// NewAzureFilesystem creates an AzureFilesystem.
func NewAzureFilesystem(cfg AzureConfig) (*AzureFilesystem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError("invalid Azure storage configuration", err)
	}
	return &AzureFilesystem{config: cfg}, nil
}

func (a *AzureFilesystem) container() (azblob.ContainerURL, error) {
	a.once.Do(func() {
		credential, err := azblob.NewSharedKeyCredential(a.config.AccountName, a.config.AccountKey)
		if err != nil {
			a.initErr = apperrors.NewStorageError("failed to create Azure credentials", err)
			return
		}

		pipeline := azblob.NewPipeline(credential, azblob.PipelineOptions{})

		endpoint := a.config.Endpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("https://%s.blob.core.windows.net", a.config.AccountName)
		}
		serviceURL, err := url.Parse(endpoint)
		if err != nil {
			a.initErr = apperrors.NewStorageError("failed to parse Azure service URL", err)
			return
		}

		a.containerURL = azblob.NewServiceURL(*serviceURL, pipeline).NewContainerURL(a.config.ContainerName)
	})
	return a.containerURL, a.initErr
}

func (a *AzureFilesystem) ListContents(ctx context.Context, dir string) ([]Entry, error) {
	containerURL, err := a.container()
	if err != nil {
		return nil, err
	}

	prefix := dirPrefix(a.config.Root, dir)
	var contents []Entry
	for marker := (azblob.Marker{}); marker.NotDone(); {
		listResponse, err := containerURL.ListBlobsHierarchySegment(ctx, marker, "/", azblob.ListBlobsSegmentOptions{
			Prefix: prefix,
		})
		if err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to list container %s", a.config.ContainerName), err)
		}

		for _, p := range listResponse.Segment.BlobPrefixes {
			contents = append(contents, newDirEntry(relativeKey(a.config.Root, p.Name), time.Time{}))
		}
		for _, blob := range listResponse.Segment.BlobItems {
			if blob.Name == prefix {
				continue
			}
			var size int64
			if blob.Properties.ContentLength != nil {
				size = *blob.Properties.ContentLength
			}
			contents = append(contents, newFileEntry(relativeKey(a.config.Root, blob.Name), size, blob.Properties.LastModified))
		}

		marker = listResponse.NextMarker
	}
	return contents, nil
}

func (a *AzureFilesystem) Write(ctx context.Context, p string, r io.Reader) error {
	containerURL, err := a.container()
	if err != nil {
		return err
	}

	name := objectKey(a.config.Root, p)
	blobURL := containerURL.NewBlockBlobURL(name)
	_, err = azblob.UploadStreamToBlockBlob(ctx, r, blobURL, azblob.UploadStreamToBlockBlobOptions{
		BufferSize: 4 * 1024 * 1024, // 4MB blocks
		MaxBuffers: 4,
	})
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to upload %s to Azure", name), err)
	}
	return nil
}

func (a *AzureFilesystem) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	containerURL, err := a.container()
	if err != nil {
		return nil, err
	}

	name := objectKey(a.config.Root, p)
	blobURL := containerURL.NewBlockBlobURL(name)
	downloadResponse, err := blobURL.Download(ctx, 0, azblob.CountToEnd, azblob.BlobAccessConditions{}, false, azblob.ClientProvidedKeyOptions{})
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to download %s from Azure", name), err)
	}
	return downloadResponse.Body(azblob.RetryReaderOptions{MaxRetryRequests: 3}), nil
}

func (a *AzureFilesystem) Close() error {
	return nil
}
