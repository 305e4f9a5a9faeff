package application

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"database-manager/internal/config"
	"database-manager/internal/logging"
	"database-manager/internal/prompt"
	"database-manager/internal/resolver"
)

type noPrompter struct{}

func (noPrompter) Ask(context.Context, prompt.Question) (string, error) {
	return "", errors.New("unexpected prompt")
}

func (noPrompter) Confirm(context.Context, string, bool) (bool, error) {
	return false, errors.New("unexpected confirmation")
}

func newTestApp(t *testing.T, user config.Tree, flags Flags) (*Application, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app, err := New(Settings{
		User:     user,
		Flags:    flags,
		Stdin:    strings.NewReader(""),
		Stdout:   &stdout,
		Stderr:   &stderr,
		Now:      func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
		Prompter: noPrompter{},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		if err := app.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return app, &stdout
}

func localTree(root string) config.Tree {
	return config.Tree{
		"providers": config.Tree{
			"local": config.Tree{"type": "local", "root": root},
		},
		"display": config.Tree{"color_enabled": false},
	}
}

func TestFlagsOverlay(t *testing.T) {
	tests := []struct {
		name     string
		flags    Flags
		expected logging.LogLevel
	}{
		{name: "normal level", flags: Flags{}, expected: logging.LogLevelNormal},
		{name: "verbose level", flags: Flags{Verbose: true}, expected: logging.LogLevelVerbose},
		{name: "quiet level", flags: Flags{Quiet: true}, expected: logging.LogLevelQuiet},
		{name: "quiet takes precedence", flags: Flags{Verbose: true, Quiet: true}, expected: logging.LogLevelQuiet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t, localTree(t.TempDir()), tt.flags)

			if app.Logger().GetLevel() != tt.expected {
				t.Errorf("Expected log level %v, got %v", tt.expected, app.Logger().GetLevel())
			}
		})
	}
}

func TestFlagsOverlay_Display(t *testing.T) {
	flags := Flags{NoColor: true, NoInteractive: true, OutputFormat: "json", TableStyle: "grid", LogFormat: "json"}
	app, _ := newTestApp(t, localTree(t.TempDir()), flags)

	cfg := app.Config()
	if cfg.Display.ColorEnabled {
		t.Error("Expected colors to be disabled")
	}
	if cfg.Display.Interactive {
		t.Error("Expected interactive mode to be disabled")
	}
	if cfg.Display.OutputFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Display.OutputFormat)
	}
	if cfg.Display.TableStyle != "grid" {
		t.Errorf("Expected table style grid, got %s", cfg.Display.TableStyle)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Logging.Format)
	}
}

func TestFlagsOverlay_Empty(t *testing.T) {
	if overlay := (Flags{}).Overlay(); len(overlay) != 0 {
		t.Errorf("Expected empty overlay, got %v", overlay)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	app, err := New(Settings{
		User:   config.Tree{"logging": config.Tree{"level": "loud"}},
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
	})
	if err == nil {
		t.Error("Expected error for invalid config, got nil")
	}
	if app != nil {
		t.Error("Expected nil application on error")
	}
}

func TestProviders(t *testing.T) {
	app, stdout := newTestApp(t, localTree(t.TempDir()), Flags{OutputFormat: "compact"})

	if code := app.Providers(); code != 0 {
		t.Fatalf("Providers() = %d, want 0", code)
	}

	out := stdout.String()
	for _, want := range []string{"storage\tlocal\tlocal", "compressor\tgzip\tgzip"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestList_LocalProvider(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "nightly"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "nightly", "app-latest.sql.gz"), []byte("dump"), 0o644); err != nil {
		t.Fatal(err)
	}

	app, stdout := newTestApp(t, localTree(root), Flags{NoInteractive: true, OutputFormat: "compact"})

	code := app.List(context.Background(), resolver.Args{"source": "local", "path": "nightly"})
	if code != 0 {
		t.Fatalf("List() = %d, want 0; output:\n%s", code, stdout.String())
	}
	if !strings.Contains(stdout.String(), "app-latest.sql.gz\tgz\t4 B") {
		t.Errorf("Expected listing of the dump, got:\n%s", stdout.String())
	}
}

func TestBackup_MissingArgumentsNonInteractive(t *testing.T) {
	app, stdout := newTestApp(t, localTree(t.TempDir()), Flags{NoInteractive: true, NoColor: true})

	if code := app.Backup(context.Background(), resolver.Args{}); code != 1 {
		t.Errorf("Backup() = %d, want 1", code)
	}
	if !strings.Contains(stdout.String(), "missing required argument --database") {
		t.Errorf("Expected missing argument error, got:\n%s", stdout.String())
	}
}
