// Package application wires configuration, logging, registries and the
// command manager together for one CLI invocation.
package application

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"database-manager/internal/config"
	"database-manager/internal/database"
	"database-manager/internal/display"
	"database-manager/internal/logging"
	"database-manager/internal/manager"
	"database-manager/internal/procedure"
	"database-manager/internal/prompt"
	"database-manager/internal/resolver"
	"database-manager/internal/storage"
)

// Flags are the global command line overrides.
type Flags struct {
	Verbose       bool
	Quiet         bool
	LogFile       string
	LogFormat     string
	NoColor       bool
	NoInteractive bool
	OutputFormat  string
	TableStyle    string
}

// Overlay turns the flags that were set into a configuration tree applied
// over the user configuration.
func (f Flags) Overlay() config.Tree {
	logSection := config.Tree{}
	displaySection := config.Tree{}

	switch {
	case f.Quiet:
		logSection["level"] = string(logging.LogLevelQuiet)
	case f.Verbose:
		logSection["level"] = string(logging.LogLevelVerbose)
	}
	if f.LogFile != "" {
		logSection["file"] = f.LogFile
	}
	if f.LogFormat != "" {
		logSection["format"] = f.LogFormat
	}

	if f.NoColor {
		displaySection["color_enabled"] = false
	}
	if f.NoInteractive {
		displaySection["interactive"] = false
	}
	if f.OutputFormat != "" {
		displaySection["output_format"] = f.OutputFormat
	}
	if f.TableStyle != "" {
		displaySection["table_style"] = f.TableStyle
	}

	overlay := config.Tree{}
	if len(logSection) > 0 {
		overlay["logging"] = logSection
	}
	if len(displaySection) > 0 {
		overlay["display"] = displaySection
	}
	return overlay
}

// Settings configure New.
type Settings struct {
	// User is the user configuration, usually viper.AllSettings.
	User  config.Tree
	Flags Flags

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
	// Prompter replaces the terminal prompter.
	Prompter prompt.Prompter
}

// Application is the wired program.
type Application struct {
	config     *config.Config
	logger     *logging.Logger
	display    *display.Display
	registries procedure.Registries
	manager    *manager.Manager
}

// New loads the configuration and builds every registry.
func New(s Settings) (*Application, error) {
	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}
	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}
	if s.Stderr == nil {
		s.Stderr = os.Stderr
	}

	cfg, err := config.Load(s.User, s.Flags.Overlay())
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:   logging.LogLevel(cfg.Logging.Level),
		Output:  s.Stderr,
		Format:  cfg.Logging.Format,
		LogFile: cfg.Logging.File,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	displayOpts := display.OptionsFromConfig(cfg.Display)
	displayOpts.Writer = s.Stdout
	displayOpts.Quiet = cfg.Logging.Level == string(logging.LogLevelQuiet)
	out := display.New(displayOpts)

	storageRegistry, err := storage.NewRegistry(cfg, storage.NewFactory(logger))
	if err != nil {
		return nil, err
	}
	databaseRegistry, err := database.NewRegistry(cfg, database.NewFactory(), logger)
	if err != nil {
		_ = storage.CloseAll(storageRegistry)
		return nil, err
	}
	compressors, err := procedure.NewCompressorRegistry()
	if err != nil {
		_ = storage.CloseAll(storageRegistry)
		return nil, err
	}

	registries := procedure.Registries{
		Storage:     storageRegistry,
		Databases:   databaseRegistry,
		Compressors: compressors,
	}

	prompter := s.Prompter
	if prompter == nil {
		prompter = prompt.NewInteractive(s.Stdin, s.Stdout)
	}

	app := &Application{
		config:     cfg,
		logger:     logger,
		display:    out,
		registries: registries,
		manager: manager.New(registries, prompter, out, manager.Options{
			Interactive: cfg.Display.Interactive,
			Logger:      logger,
			Now:         s.Now,
		}),
	}

	logger.WithFields(map[string]interface{}{
		"storage":   storageRegistry.ListAvailable(),
		"databases": databaseRegistry.ListAvailable(),
	}).Debug("Application initialized")

	return app, nil
}

// Config returns the effective configuration.
func (a *Application) Config() *config.Config {
	return a.config
}

// Logger returns the invocation logger.
func (a *Application) Logger() *logging.Logger {
	return a.logger
}

// Backup runs the backup command and returns its exit status.
func (a *Application) Backup(ctx context.Context, args resolver.Args) int {
	return a.manager.Backup(ctx, args)
}

// Restore runs the restore command and returns its exit status.
func (a *Application) Restore(ctx context.Context, args resolver.Args) int {
	return a.manager.Restore(ctx, args)
}

// List runs the list command and returns its exit status.
func (a *Application) List(ctx context.Context, args resolver.Args) int {
	return a.manager.List(ctx, args)
}

// Providers prints the registered providers.
func (a *Application) Providers() int {
	return a.manager.Providers()
}

// Close releases storage connections.
func (a *Application) Close() error {
	return storage.CloseAll(a.registries.Storage)
}
