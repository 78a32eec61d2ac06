package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rsfront.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	if cfg.Output.Path != "AST.txt" {
		t.Errorf("Output.Path = %q, want AST.txt", cfg.Output.Path)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("Output.Format = %q, want text", cfg.Output.Format)
	}
	if cfg.Parse.MaxDepth != 256 {
		t.Errorf("Parse.MaxDepth = %d, want 256", cfg.Parse.MaxDepth)
	}
	if want := filepath.Join(home, ".rsfront_history"); cfg.REPL.HistoryFile != want {
		t.Errorf("REPL.HistoryFile = %q, want %q", cfg.REPL.HistoryFile, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("RSFRONT_TEST_OUT", "/tmp/out")
	path := writeConfig(t, `
[output]
path = "$RSFRONT_TEST_OUT/tree.yaml"
format = "yaml"

[parse]
debug = true
dump_scopes = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Path != "/tmp/out/tree.yaml" {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}
	if cfg.Output.Format != FormatYAML {
		t.Errorf("Output.Format = %q", cfg.Output.Format)
	}
	if !cfg.Parse.Debug || !cfg.Parse.DumpScopes {
		t.Errorf("Parse = %+v, want debug and dump_scopes", cfg.Parse)
	}
	if cfg.Parse.MaxDepth != 256 {
		t.Errorf("Parse.MaxDepth = %d, want default 256", cfg.Parse.MaxDepth)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad toml", "[output\npath = 1", "failed to parse config"},
		{"bad format", "[output]\nformat = \"xml\"", "output.format"},
		{"negative depth", "[parse]\nmax_depth = -1", "max_depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want one containing %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "[repl]\nhistory_file = \"/var/tmp/h\"\n")
	t.Setenv(EnvVar, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.REPL.HistoryFile != "/var/tmp/h" {
		t.Errorf("REPL.HistoryFile = %q", cfg.REPL.HistoryFile)
	}

	// Without the variable and without ./rsfront.toml the defaults are used.
	t.Setenv(EnvVar, "")
	cfg, err = LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Output.Path != "AST.txt" {
		t.Errorf("Output.Path = %q, want the default", cfg.Output.Path)
	}
}
