package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"database-manager/internal/application"
	"database-manager/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// resetFlags restores every flag to its default between runs of the shared
// root command.
func resetFlags(t *testing.T) {
	t.Helper()
	flags = application.Flags{}
	cfgFile = ""

	restore := func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	}

	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.PersistentFlags().VisitAll(restore)
		c.Flags().VisitAll(restore)
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
}

func writeConfig(t *testing.T, root string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "providers:\n  local:\n    type: local\n    root: " + root + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	resetFlags(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "today", "abc123", "go1.24")
	t.Cleanup(func() { SetVersionInfo("dev", "unknown", "unknown", "unknown") })

	code, stdout, _ := execute(t, "version")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "database-manager version 1.2.3")
	assert.Contains(t, stdout, "Commit: abc123")
}

func TestSampleConfigLoads(t *testing.T) {
	var settings map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(sampleConfig), &settings))

	cfg, err := config.Load(config.FromSettings(settings))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"local", "s3", "gcs", "azure", "ftp", "sftp"}, mapKeys(cfg.Providers))
	assert.ElementsMatch(t, []string{"app", "reporting"}, mapKeys(cfg.Databases))
	assert.Equal(t, "pgsql", cfg.Databases["reporting"].String("type"))
}

func TestConfigCommand(t *testing.T) {
	code, stdout, _ := execute(t, "config")

	assert.Equal(t, 0, code)
	assert.Equal(t, sampleConfig, stdout)
}

func TestProvidersCommand(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	code, stdout, _ := execute(t, "providers", "--config", cfg, "--format", "compact")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Capability\tName\tType")
	assert.Contains(t, stdout, "storage\tlocal\tlocal")
}

func TestListCommand(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nightly"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "nightly", "app-latest.sql.gz"), []byte("dump"), 0o600))
	cfg := writeConfig(t, root)

	code, stdout, _ := execute(t, "list", "--config", cfg, "--provider", "local", "--path", "nightly",
		"--format", "compact", "--no-interactive")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "app-latest.sql.gz\tgz\t4 B")
}

func TestBackupCommand_MissingFlagNonInteractive(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	code, stdout, _ := execute(t, "backup", "--config", cfg, "--database", "app", "--no-interactive", "--no-color")

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "missing required argument --provider")
}

func TestUnknownFlag(t *testing.T) {
	code, _, stderr := execute(t, "backup", "--bogus")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown flag: --bogus")
}

func TestVerboseAndQuietAreExclusive(t *testing.T) {
	code, _, stderr := execute(t, "providers", "-v", "-q")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "none of the others can be")
}

func mapKeys(m map[string]config.Tree) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
