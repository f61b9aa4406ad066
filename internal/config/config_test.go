package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080

[library]
media_path = "/srv/media"
upload_limit_mb = 64

[auth]
password = "hunter2"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Library.MediaPath != "/srv/media" {
		t.Errorf("media_path = %q", cfg.Library.MediaPath)
	}
	if cfg.UploadLimitBytes() != 64*1024*1024 {
		t.Errorf("UploadLimitBytes = %d", cfg.UploadLimitBytes())
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[auth]
password = "hunter2"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default host = %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("default port = %d", cfg.Server.Port)
	}
	if cfg.Server.LogLevel != "info" {
		t.Errorf("default log_level = %q", cfg.Server.LogLevel)
	}
	if cfg.Library.PublicPrefix != "/media" {
		t.Errorf("default public_prefix = %q", cfg.Library.PublicPrefix)
	}
	if cfg.Library.DataPath != "./data/library.json" {
		t.Errorf("default data_path = %q", cfg.Library.DataPath)
	}
	if cfg.Library.UploadLimitMB != 16 {
		t.Errorf("default upload_limit_mb = %d", cfg.Library.UploadLimitMB)
	}
	if cfg.History.Path != "" {
		t.Errorf("history should default to disabled, got %q", cfg.History.Path)
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 8080
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "auth.password") {
		t.Errorf("expected auth.password error, got %v", err)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 99999

[auth]
password = "hunter2"
`)

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "server.port") {
		t.Errorf("expected server.port error, got %v", err)
	}
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("ZONELIB_TEST_PASSWORD", "s3cret")
	path := writeConfig(t, `
[auth]
password = "${ZONELIB_TEST_PASSWORD}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Auth.Password != "s3cret" {
		t.Errorf("password = %q, want s3cret", cfg.Auth.Password)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestDiscover_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
[auth]
password = "hunter2"
`)
	t.Setenv("ZONELIB_CONFIG", path)

	got, err := Discover()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("Discover = %q, want %q", got, path)
	}
}

func TestDiscover_EnvOverrideMustExist(t *testing.T) {
	t.Setenv("ZONELIB_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))

	if _, err := Discover(); err == nil {
		t.Error("expected error for missing ZONELIB_CONFIG target")
	}
}
