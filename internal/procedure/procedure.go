// Package procedure runs backups and restores across the database, storage
// and compressor registries.
package procedure

import (
	"fmt"
	"os"

	"database-manager/internal/compression"
	"database-manager/internal/database"
	"database-manager/internal/logging"
	"database-manager/internal/provider"
	"database-manager/internal/storage"
)

// Destination identifies where one backup artifact is written. Path does not
// include the compressor extension.
type Destination struct {
	Provider string `json:"provider" yaml:"provider"`
	Path     string `json:"path" yaml:"path"`
}

func (d Destination) String() string {
	return d.Provider + ":" + d.Path
}

// Registries groups the three provider registries.
type Registries struct {
	Storage     *provider.Registry[storage.Filesystem]
	Databases   *provider.Registry[database.Database]
	Compressors *provider.Registry[compression.Compressor]
}

// NewCompressorRegistry registers every supported compressor under its name.
func NewCompressorRegistry() (*provider.Registry[compression.Compressor], error) {
	registry := provider.NewRegistry[compression.Compressor](provider.CapabilityCompressor)
	for _, c := range compression.All() {
		if err := registry.Register(string(c.Name()), c, nil); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Error reports a failed backup or restore.
type Error struct {
	Op       string
	Database string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the procedures.
type Options struct {
	// TempDir holds intermediate dump files. os.TempDir is used when empty.
	TempDir string
	Logger  *logging.Logger
}

func (o Options) withDefaults() Options {
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	return o
}
