package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.ImagesDir != DefaultImagesDir {
		t.Errorf("ImagesDir = %q", cfg.ImagesDir)
	}
	if cfg.OAGIBaseURL != DefaultOAGIBaseURL {
		t.Errorf("OAGIBaseURL = %q", cfg.OAGIBaseURL)
	}
	if cfg.AuthEnabled() {
		t.Error("auth should be off by default")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "port: 9090\nimages_dir: /data/images\ngemini_api_key: yaml-key\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.ImagesDir != "/data/images" {
		t.Errorf("ImagesDir = %q", cfg.ImagesDir)
	}
	if cfg.GeminiAPIKey != "yaml-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: 9090\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("SQLITE_PATH", "/tmp/env.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, env must win", cfg.Port)
	}
	if cfg.GeminiAPIKey != "env-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.SQLitePath != "/tmp/env.db" {
		t.Errorf("SQLitePath = %q", cfg.SQLitePath)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAuthEnabledNeedsBothValues(t *testing.T) {
	cfg := &Config{AuthPassHash: "hash"}
	if cfg.AuthEnabled() {
		t.Error("hash alone must not enable auth")
	}
	cfg.AuthJWTSecret = "secret"
	if !cfg.AuthEnabled() {
		t.Error("hash plus secret should enable auth")
	}
}
