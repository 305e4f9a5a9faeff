package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the effective configuration of one invocation. It is built once
// by Load and must be treated as read-only.
type Config struct {
	tree Tree

	// Providers holds one storage section per provider name.
	Providers map[string]Tree
	// Databases holds one normalised connection section per database name.
	Databases map[string]Tree
	// SkippedDatabases lists connections whose driver is not supported.
	SkippedDatabases []string

	Logging LoggingConfig `yaml:"logging"`
	Display DisplayConfig `yaml:"display"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// DisplayConfig controls user-facing output.
type DisplayConfig struct {
	ColorEnabled bool   `yaml:"color_enabled"`
	Theme        string `yaml:"theme"`
	OutputFormat string `yaml:"output_format"`
	TableStyle   string `yaml:"table_style"`
	Interactive  bool   `yaml:"interactive"`
}

var (
	validLogLevels     = []string{"quiet", "normal", "verbose", "debug"}
	validLogFormats    = []string{"text", "json"}
	validOutputFormats = []string{"table", "json", "yaml", "compact"}
	validTableStyles   = []string{"default", "rounded", "compact", "grid"}
)

// New builds a Config from an effective tree.
func New(tree Tree) (*Config, error) {
	cfg := &Config{
		tree:      tree.Clone(),
		Providers: make(map[string]Tree),
		Databases: make(map[string]Tree),
	}

	if err := decodeSection(tree, "logging", &cfg.Logging); err != nil {
		return nil, err
	}
	if err := decodeSection(tree, "display", &cfg.Display); err != nil {
		return nil, err
	}

	for name, section := range tree.Sub("providers") {
		sub, ok := AsTree(section)
		if !ok {
			return nil, fmt.Errorf("providers.%s: expected a section, got %T", name, section)
		}
		cfg.Providers[name] = sub.Clone()
	}

	for name, section := range tree.Sub("databases") {
		sub, ok := AsTree(section)
		if !ok {
			return nil, fmt.Errorf("databases.%s: expected a section, got %T", name, section)
		}
		normalised, ok := NormalizeConnection(sub)
		if !ok {
			cfg.SkippedDatabases = append(cfg.SkippedDatabases, name)
			continue
		}
		cfg.Databases[name] = normalised
	}
	sort.Strings(cfg.SkippedDatabases)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the typed sections.
func (c *Config) Validate() error {
	var errs []string
	if !contains(validLogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s', must be one of: %s", c.Logging.Level, strings.Join(validLogLevels, ", ")))
	}
	if !contains(validLogFormats, c.Logging.Format) {
		errs = append(errs, fmt.Sprintf("invalid log format '%s', must be one of: %s", c.Logging.Format, strings.Join(validLogFormats, ", ")))
	}
	if !contains(validOutputFormats, c.Display.OutputFormat) {
		errs = append(errs, fmt.Sprintf("invalid output format '%s', must be one of: %s", c.Display.OutputFormat, strings.Join(validOutputFormats, ", ")))
	}
	if !contains(validTableStyles, c.Display.TableStyle) {
		errs = append(errs, fmt.Sprintf("invalid table style '%s', must be one of: %s", c.Display.TableStyle, strings.Join(validTableStyles, ", ")))
	}
	for name, section := range c.Providers {
		if section.String("type") == "" {
			errs = append(errs, fmt.Sprintf("provider '%s' has no type", name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Tree returns a copy of the effective configuration tree.
func (c *Config) Tree() Tree {
	return c.tree.Clone()
}

// ProviderNames returns the storage provider names in sorted order.
func (c *Config) ProviderNames() []string {
	return Tree(toAny(c.Providers)).Keys()
}

// DatabaseNames returns the database names in sorted order.
func (c *Config) DatabaseNames() []string {
	return Tree(toAny(c.Databases)).Keys()
}

// NormalizeConnection maps a framework style connection section
// (driver, username, password) onto the shape the database providers read
// (type, user, pass). Sections already carrying a type are kept as they are.
// Drivers other than mysql and pgsql are not supported and report false.
func NormalizeConnection(section Tree) (Tree, bool) {
	if section.String("driver") == "" && section.String("type") != "" {
		return section.Clone(), true
	}

	driver := strings.ToLower(section.String("driver"))
	var port string
	switch driver {
	case "mysql":
		port = "3306"
	case "pgsql":
		port = "5432"
	default:
		return nil, false
	}
	if p := section.String("port"); p != "" {
		port = p
	}

	normalised := Tree{
		"type":     driver,
		"host":     section.String("host"),
		"port":     port,
		"user":     section.String("username"),
		"pass":     section.String("password"),
		"database": section.String("database"),
	}
	if driver == "mysql" {
		normalised["ignoreTables"] = section.Strings("ignore_tables")
	}
	if sslmode := section.String("sslmode"); sslmode != "" {
		normalised["sslmode"] = sslmode
	}
	return normalised, true
}

func decodeSection(tree Tree, key string, out interface{}) error {
	section := tree.Sub(key)
	if section == nil {
		return nil
	}
	data, err := yaml.Marshal(map[string]interface{}(section))
	if err != nil {
		return fmt.Errorf("failed to encode %s section: %w", key, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s section: %w", key, err)
	}
	return nil
}

func toAny(m map[string]Tree) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
