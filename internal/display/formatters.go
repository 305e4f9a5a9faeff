package display

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formatter renders tables and status messages for a structured format.
type Formatter interface {
	FormatTable(headers []string, rows [][]string) (string, error)
	FormatStatus(level, message string) (string, error)
}

// NewFormatter returns the formatter of a structured format.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatJSON:
		return &JSONFormatter{indent: "  "}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatCompact:
		return &CompactFormatter{separator: "\t", includeHeaders: true}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// tableRecords keys every cell by its header, preserving row order.
func tableRecords(headers []string, rows [][]string) []map[string]string {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				record[header] = row[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records
}

// JSONFormatter renders indented JSON.
type JSONFormatter struct {
	indent string
}

func (f *JSONFormatter) FormatTable(headers []string, rows [][]string) (string, error) {
	data, err := json.MarshalIndent(tableRecords(headers, rows), "", f.indent)
	if err != nil {
		return "", fmt.Errorf("failed to marshal table to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func (f *JSONFormatter) FormatStatus(level, message string) (string, error) {
	data, err := json.Marshal(map[string]string{"level": level, "message": message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal status message to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// YAMLFormatter renders YAML documents.
type YAMLFormatter struct{}

func (f *YAMLFormatter) FormatTable(headers []string, rows [][]string) (string, error) {
	data, err := yaml.Marshal(tableRecords(headers, rows))
	if err != nil {
		return "", fmt.Errorf("failed to marshal table to YAML: %w", err)
	}
	return string(data), nil
}

func (f *YAMLFormatter) FormatStatus(level, message string) (string, error) {
	data, err := yaml.Marshal(map[string]string{"level": level, "message": message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal status message to YAML: %w", err)
	}
	return "---\n" + string(data), nil
}

// CompactFormatter renders separator delimited lines for scripts.
type CompactFormatter struct {
	separator      string
	includeHeaders bool
}

// FormatTable writes one line per row, headers first.
func (f *CompactFormatter) FormatTable(headers []string, rows [][]string) (string, error) {
	var b strings.Builder
	if f.includeHeaders && len(headers) > 0 {
		b.WriteString(strings.Join(headers, f.separator))
		b.WriteString("\n")
	}
	for _, row := range rows {
		padded := make([]string, len(headers))
		copy(padded, row)
		b.WriteString(strings.Join(padded, f.separator))
		b.WriteString("\n")
	}
	return b.String(), nil
}

// FormatStatus writes STATUS:level:message.
func (f *CompactFormatter) FormatStatus(level, message string) (string, error) {
	return fmt.Sprintf("STATUS:%s:%s\n", level, message), nil
}
