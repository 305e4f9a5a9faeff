package config

import (
	"os"
	"strings"
)

// DefaultTree returns the package defaults. User configuration is merged on
// top of it. Credentials and roots may be supplied through the environment.
func DefaultTree() Tree {
	return Tree{
		"providers": Tree{
			"local": Tree{
				"type": "local",
				"root": getenv("DB_MANAGER_LOCAL_ROOT", "./storage/backups"),
			},
		},
		"databases": Tree{},
		"logging": Tree{
			"level":  getenv("DB_MANAGER_LOG_LEVEL", "normal"),
			"format": getenv("DB_MANAGER_LOG_FORMAT", "text"),
			"file":   "",
		},
		"display": Tree{
			"color_enabled": true,
			"theme":         "dark",
			"output_format": "table",
			"table_style":   "default",
			"interactive":   true,
		},
	}
}

// getenv returns the env var value if set and non-empty, otherwise def.
func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
