// Package display writes command output: status messages and listing
// tables, either colored for a terminal or in a structured format.
package display

import (
	"fmt"
	"io"
	"os"
)

// Display renders output according to its Options.
type Display struct {
	opts      Options
	writer    io.Writer
	colors    *Colorizer
	theme     ColorTheme
	formatter Formatter
}

// New creates a display. An unknown output format falls back to tables.
func New(opts Options) *Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	d := &Display{
		opts:   opts,
		writer: opts.Writer,
		theme:  GetThemeByName(opts.Theme),
	}

	if opts.OutputFormat.Structured() {
		formatter, err := NewFormatter(opts.OutputFormat)
		if err == nil {
			d.formatter = formatter
		}
	}
	if d.formatter == nil {
		d.opts.OutputFormat = FormatTable
	}
	// Structured output is never colored.
	d.colors = NewColorizer(opts.ColorEnabled && d.formatter == nil, opts.Writer)

	return d
}

// Format returns the effective output format.
func (d *Display) Format() OutputFormat {
	return d.opts.OutputFormat
}

// Writer returns the underlying writer.
func (d *Display) Writer() io.Writer {
	return d.writer
}

// Info prints an informational message.
func (d *Display) Info(message string) {
	if d.opts.Quiet {
		return
	}
	d.status("info", message, d.theme.Info)
}

// Success prints a success message.
func (d *Display) Success(message string) {
	d.status("success", message, d.theme.Success)
}

// Warning prints a warning.
func (d *Display) Warning(message string) {
	d.status("warning", message, d.theme.Warning)
}

// Error prints an error.
func (d *Display) Error(message string) {
	d.status("error", message, d.theme.Error)
}

// Comment highlights a value inside a message.
func (d *Display) Comment(text string) string {
	return d.colors.Colorize(text, d.theme.Comment)
}

// Line prints an empty line in table output.
func (d *Display) Line() {
	if d.formatter != nil || d.opts.Quiet {
		return
	}
	fmt.Fprintln(d.writer)
}

// Table prints rows under headers.
func (d *Display) Table(headers []string, rows [][]string) {
	if d.formatter != nil {
		out, err := d.formatter.FormatTable(headers, rows)
		if err != nil {
			fmt.Fprintf(d.writer, "Error formatting table: %v\n", err)
			return
		}
		fmt.Fprint(d.writer, out)
		return
	}

	table := NewTable(headers, rows, GetTableStyle(d.opts.TableStyle))
	table.colors = d.colors
	table.header = d.theme.Header
	table.RenderTo(d.writer)
}

func (d *Display) status(level, message string, clr Color) {
	if d.formatter != nil {
		out, err := d.formatter.FormatStatus(level, message)
		if err != nil {
			fmt.Fprintf(d.writer, "Error formatting status message: %v\n", err)
			return
		}
		fmt.Fprint(d.writer, out)
		return
	}
	fmt.Fprintln(d.writer, d.colors.Colorize(message, clr))
}
