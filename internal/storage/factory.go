package storage

import (
	"fmt"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
	"database-manager/internal/logging"
	"database-manager/internal/provider"
)

// Type names a storage backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeS3    Type = "s3"
	TypeGCS   Type = "gcs"
	TypeAzure Type = "azure"
	TypeFTP   Type = "ftp"
	TypeSFTP  Type = "sftp"
)

// Factory creates filesystems from provider configuration sections.
type Factory struct {
	logger *logging.Logger
}

// NewFactory creates a new storage factory
func NewFactory(logger *logging.Logger) *Factory {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Factory{logger: logger}
}

// Create builds the filesystem described by section. name is only used in
// error messages.
func (f *Factory) Create(name string, section config.Tree) (Filesystem, error) {
	switch Type(section.String("type")) {
	case TypeLocal:
		return NewLocalFilesystem(section.String("root"))

	case TypeS3:
		return NewS3Filesystem(s3ConfigFrom(section))

	case TypeGCS:
		return NewGCSFilesystem(gcsConfigFrom(section))

	case TypeAzure:
		return NewAzureFilesystem(azureConfigFrom(section))

	case TypeFTP:
		return NewFTPFilesystem(ftpConfigFrom(section))

	case TypeSFTP:
		return NewSFTPFilesystem(sftpConfigFrom(section), f.logger.Warnf)

	default:
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("unsupported storage type '%s' for provider '%s'", section.String("type"), name), nil)
	}
}

// SupportedTypes returns the storage types the factory can build.
func SupportedTypes() []Type {
	return []Type{TypeLocal, TypeS3, TypeGCS, TypeAzure, TypeFTP, TypeSFTP}
}

// NewRegistry builds one filesystem per configured provider and registers
// them in sorted name order.
func NewRegistry(cfg *config.Config, factory *Factory) (*provider.Registry[Filesystem], error) {
	registry := provider.NewRegistry[Filesystem](provider.CapabilityStorage)

	for _, name := range cfg.ProviderNames() {
		section := cfg.Providers[name]
		fs, err := factory.Create(name, section)
		if err != nil {
			return nil, fmt.Errorf("storage provider '%s': %w", name, err)
		}
		if err := registry.Register(name, fs, section); err != nil {
			return nil, err
		}
		factory.logger.LogProviderRegistered(string(provider.CapabilityStorage), name, section.String("type"), section)
	}

	return registry, nil
}

// CloseAll closes every filesystem in the registry and returns the first
// error.
func CloseAll(registry *provider.Registry[Filesystem]) error {
	var first error
	_ = registry.Each(func(d provider.Descriptor[Filesystem]) error {
		if err := d.Instance.Close(); err != nil && first == nil {
			first = err
		}
		return nil
	})
	return first
}
