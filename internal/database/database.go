// Package database implements the database backends that produce and load
// SQL dumps.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"database-manager/internal/config"
	apperrors "database-manager/internal/errors"
	"database-manager/internal/logging"
	"database-manager/internal/provider"
)

// Type names a database backend.
type Type string

const (
	TypeMySQL    Type = "mysql"
	TypePostgres Type = "pgsql"
)

// Database dumps and restores one database.
type Database interface {
	// Dump writes a plain SQL dump to w.
	Dump(ctx context.Context, w io.Writer) error
	// Restore loads a plain SQL dump read from r.
	Restore(ctx context.Context, r io.Reader) error
	// Ping checks that the server accepts the configured credentials.
	Ping(ctx context.Context) error
}

// Opener opens a database handle. sql.Open is used unless a test replaces it.
type Opener func(driverName, dataSourceName string) (*sql.DB, error)

// Connection holds the normalised connection settings of one database.
type Connection struct {
	Type         Type
	Host         string
	Port         string
	User         string
	Pass         string
	Database     string
	IgnoreTables []string
	SSLMode      string
}

// ConnectionFrom reads a normalised configuration section.
func ConnectionFrom(section config.Tree) Connection {
	return Connection{
		Type:         Type(section.String("type")),
		Host:         section.String("host"),
		Port:         section.String("port"),
		User:         section.String("user"),
		Pass:         section.String("pass"),
		Database:     section.String("database"),
		IgnoreTables: section.Strings("ignoreTables"),
		SSLMode:      section.String("sslmode"),
	}
}

// Validate checks the required settings.
func (c Connection) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required")
	}
	if c.Database == "" {
		return fmt.Errorf("database is required")
	}
	return nil
}

// Factory creates database backends.
type Factory struct {
	Executor Executor
	Opener   Opener
}

// NewFactory returns a factory running the real client tools.
func NewFactory() *Factory {
	return &Factory{Executor: NewExecExecutor(), Opener: sql.Open}
}

// Create builds the backend described by section.
func (f *Factory) Create(name string, section config.Tree) (Database, error) {
	conn := ConnectionFrom(section)
	if err := conn.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError(fmt.Sprintf("invalid configuration for database '%s'", name), err)
	}

	switch conn.Type {
	case TypeMySQL:
		return NewMySQL(conn, f.Executor, f.Opener), nil
	case TypePostgres:
		return NewPostgres(conn, f.Executor, f.Opener), nil
	default:
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("unsupported database type '%s' for database '%s'", conn.Type, name), nil)
	}
}

// NewRegistry builds one backend per configured database and registers them
// in sorted name order.
func NewRegistry(cfg *config.Config, factory *Factory, logger *logging.Logger) (*provider.Registry[Database], error) {
	registry := provider.NewRegistry[Database](provider.CapabilityDatabase)

	for _, name := range cfg.SkippedDatabases {
		logger.Debugf("Skipping database '%s': only mysql and pgsql drivers are supported", name)
	}

	for _, name := range cfg.DatabaseNames() {
		section := cfg.Databases[name]
		db, err := factory.Create(name, section)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(name, db, section); err != nil {
			return nil, err
		}
		logger.LogProviderRegistered(string(provider.CapabilityDatabase), name, section.String("type"), section)
	}

	return registry, nil
}

func ping(ctx context.Context, open Opener, driverName, dsn string) error {
	db, err := open(driverName, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.PingContext(ctx)
}
