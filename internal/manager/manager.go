// Package manager implements the backup, restore and list commands. Every
// command returns the process exit status and is the only place that
// reports errors to the user.
package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "database-manager/internal/errors"
	"database-manager/internal/logging"
	"database-manager/internal/procedure"
	"database-manager/internal/prompt"
	"database-manager/internal/resolver"
)

// Compression is the compressor every command uses.
const Compression = "gzip"

// TimestampLayout names timestamped backups.
const TimestampLayout = "2006-01-02-15-04-05"

// Exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// BackupRunner runs a backup procedure.
type BackupRunner interface {
	Run(ctx context.Context, databaseName string, destinations []procedure.Destination, compressorName string) error
}

// RestoreRunner runs a restore procedure.
type RestoreRunner interface {
	Run(ctx context.Context, providerName, sourcePath, databaseName, compressorName string) error
}

// Output is the user facing output of the commands.
type Output interface {
	resolver.Output
	Success(message string)
	Warning(message string)
	Error(message string)
}

// Options configure a Manager.
type Options struct {
	Backup      BackupRunner
	Restore     RestoreRunner
	Interactive bool
	Logger      *logging.Logger
	// Now returns the time used to name backups.
	Now func() time.Time
}

// Manager runs commands against the registries.
type Manager struct {
	registries  procedure.Registries
	prompter    prompt.Prompter
	out         Output
	backup      BackupRunner
	restore     RestoreRunner
	interactive bool
	logger      *logging.Logger
	now         func() time.Time
}

// New creates a manager. Procedures default to the real backup and restore
// over registries.
func New(registries procedure.Registries, prompter prompt.Prompter, out Output, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	procOpts := procedure.Options{Logger: logger}

	m := &Manager{
		registries:  registries,
		prompter:    prompter,
		out:         out,
		backup:      opts.Backup,
		restore:     opts.Restore,
		interactive: opts.Interactive,
		logger:      logger,
		now:         opts.Now,
	}
	if m.backup == nil {
		m.backup = procedure.NewBackup(registries, procOpts)
	}
	if m.restore == nil {
		m.restore = procedure.NewRestore(registries, procOpts)
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// BackupDestinations returns the stable and the timestamped destination of
// a backup of databaseName.
func BackupDestinations(databaseName, providerName string, now time.Time) []procedure.Destination {
	return []procedure.Destination{
		{Provider: providerName, Path: databaseName + "-latest.sql"},
		{Provider: providerName, Path: databaseName + "-" + now.Format(TimestampLayout) + ".sql"},
	}
}

func (m *Manager) newResolver() *resolver.Resolver {
	return resolver.New(m.registries.Storage, m.registries.Databases, m.prompter, m.out, resolver.Options{
		Interactive: m.interactive,
		Logger:      m.logger,
	})
}

// fail reports err and returns the failure status.
func (m *Manager) fail(err error) int {
	if errors.Is(err, prompt.ErrAborted) {
		m.out.Warning("Aborted.")
		return ExitFailure
	}

	m.out.Error(err.Error())
	if hint := apperrors.Hint(err); hint != "" {
		m.out.Warning(hint)
	}
	m.logger.WithField("error_type", apperrors.GetErrorType(err)).Debug("Command failed")
	return ExitFailure
}

func (m *Manager) comment(format string, values ...string) string {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = m.out.Comment(v)
	}
	return fmt.Sprintf(format, args...)
}
