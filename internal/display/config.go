package display

import (
	"io"
	"os"

	"database-manager/internal/config"
)

// OutputFormat selects how tables and messages are rendered.
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatCompact OutputFormat = "compact"
)

// Options holds display settings.
type Options struct {
	ColorEnabled bool
	Theme        string
	OutputFormat OutputFormat
	TableStyle   string
	// Quiet suppresses informational messages. Tables, results and errors
	// are still written.
	Quiet  bool
	Writer io.Writer
}

// DefaultOptions returns colored table output on stdout.
func DefaultOptions() Options {
	return Options{
		ColorEnabled: true,
		Theme:        "dark",
		OutputFormat: FormatTable,
		TableStyle:   "default",
		Writer:       os.Stdout,
	}
}

// OptionsFromConfig converts the display section of the configuration.
func OptionsFromConfig(cfg config.DisplayConfig) Options {
	opts := DefaultOptions()
	opts.ColorEnabled = cfg.ColorEnabled
	if cfg.Theme != "" {
		opts.Theme = cfg.Theme
	}
	if cfg.OutputFormat != "" {
		opts.OutputFormat = OutputFormat(cfg.OutputFormat)
	}
	if cfg.TableStyle != "" {
		opts.TableStyle = cfg.TableStyle
	}
	return opts
}

// Structured reports whether the format is meant for machines.
func (f OutputFormat) Structured() bool {
	return f == FormatJSON || f == FormatYAML || f == FormatCompact
}
