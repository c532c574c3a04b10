package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestBuildDefaults(t *testing.T) {
	cfg, err := Build("", nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if !cfg.Header {
		t.Error("Header default should be true")
	}
}

func TestBuildFromFile(t *testing.T) {
	content := "output: /tmp/out\nlog-level: debug\nheader: false\n"
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Build(tmpFile, nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.Output != "/tmp/out" || cfg.LogLevel != "debug" || cfg.Header {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestBuildFlagOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	if err := flags.Set("log-level", "warn"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	cfg, err := Build("", flags)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestBuildMissingExplicitFile(t *testing.T) {
	if _, err := Build(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Error("expected error for missing explicit config file, got none")
	}
}
