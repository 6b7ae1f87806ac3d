package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/casewatch/internal/config"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("explicit file and db-path flag", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "casewatch.yaml")
		if err := os.WriteFile(path, []byte("dbPath: from-file.db\nuserAgent: probe/1.0\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--config", path, "--db-path", "from-flag.db", "-v"}); err != nil {
			t.Fatal(err)
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DBPath != "from-flag.db" {
			t.Errorf("expected flag to win, got %q", cfg.DBPath)
		}
		if cfg.UserAgent != "probe/1.0" {
			t.Errorf("expected user agent from file, got %q", cfg.UserAgent)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if cfg.ConfigFilePath != path {
			t.Errorf("expected config path %q, got %q", path, cfg.ConfigFilePath)
		}
		if !cfg.Verbose {
			t.Error("expected verbose")
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}); err != nil {
			t.Fatal(err)
		}
		if _, err := loadConfig(cmd); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestSetupLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr bool
	}{
		{name: "text", format: "text", want: "level=INFO"},
		{name: "json", format: "json", want: `"level":"INFO"`},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewRootCmd()
			if err := cmd.ParseFlags([]string{"--log-format", tt.format}); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			logger, err := setupLogger(cmd, &buf, false)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			logger.Info("hello", "token", "secret-value")
			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("expected %q in %q", tt.want, out)
			}
			if strings.Contains(out, "secret-value") {
				t.Errorf("credential leaked: %q", out)
			}
		})
	}
}
