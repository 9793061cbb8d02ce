package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JustNello/punctual/internal/config"
)

func TestConfigService_GetPath(t *testing.T) {
	svc := NewConfigService("/tmp/test/config.toml", config.DefaultConfig())

	if path := svc.GetPath(); path != "/tmp/test/config.toml" {
		t.Errorf("expected path '/tmp/test/config.toml', got %q", path)
	}
}

func TestConfigService_Exists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	if svc.Exists() {
		t.Error("expected Exists() to return false")
	}

	if err := os.WriteFile(configPath, []byte("online = true"), 0644); err != nil {
		t.Fatal(err)
	}

	if !svc.Exists() {
		t.Error("expected Exists() to return true")
	}
}

func TestConfigService_Effective(t *testing.T) {
	svc := NewConfigService("/tmp/config.toml", config.DefaultConfig())

	online := true
	contingency := 0
	cfg, err := svc.Effective(Overrides{
		Online:       &online,
		Contingency:  &contingency,
		Format:       "CSV",
		SynonymsFile: "/tmp/synonyms.txt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Online {
		t.Error("expected Online override to apply")
	}
	if cfg.AI {
		t.Error("expected AI to keep its configured value")
	}
	if cfg.ContingencyMinutes != 0 {
		t.Errorf("expected contingency 0, got %d", cfg.ContingencyMinutes)
	}
	if cfg.DefaultOutputFormat != "csv" {
		t.Errorf("expected normalized format csv, got %q", cfg.DefaultOutputFormat)
	}
	if cfg.SynonymsFile != "/tmp/synonyms.txt" {
		t.Errorf("expected synonyms file override, got %q", cfg.SynonymsFile)
	}

	// The service config is left untouched
	if svc.Get().Online {
		t.Error("Effective() must not modify the loaded config")
	}
}

func TestConfigService_Effective_Invalid(t *testing.T) {
	svc := NewConfigService("/tmp/config.toml", config.DefaultConfig())

	negative := -4
	_, err := svc.Effective(Overrides{Contingency: &negative})
	if err == nil {
		t.Fatal("expected error for negative contingency")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := svc.Effective(Overrides{Format: "yaml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConfigService_Init(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	svc := NewConfigService(configPath, config.DefaultConfig())

	if err := svc.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "punctual configuration file") {
		t.Error("expected sample config content after Init")
	}

	// The sample only holds comments, so it loads as the defaults
	if err := svc.Reload(); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
}

func TestConfigService_Init_AlreadyExists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("existing = true"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewConfigService(configPath, config.DefaultConfig())
	if err := svc.Init(); err == nil {
		t.Error("expected error when config file already exists")
	}
}

func TestConfigService_Init_WriteError(t *testing.T) {
	svc := NewConfigService("/nonexistent/dir/config.toml", config.DefaultConfig())

	if err := svc.Init(); err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestConfigService_Reload(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("contingency_minutes = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewConfigService(configPath, config.DefaultConfig())
	if err := svc.Reload(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := svc.Get().ContingencyMinutes; got != 7 {
		t.Errorf("expected ContingencyMinutes 7, got %d", got)
	}
}

func TestConfigService_Reload_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("invalid toml {{{"), 0644); err != nil {
		t.Fatal(err)
	}

	svc := NewConfigService(configPath, config.DefaultConfig())
	if err := svc.Reload(); err == nil {
		t.Error("expected error for invalid config file")
	}
}
