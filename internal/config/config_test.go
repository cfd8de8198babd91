package config

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "forgeplan"
  user: "forgeplan"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields populated.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "forgeplan" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "forgeplan")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}
}

// TestEnvOverride verifies that FORGEPLAN_ env vars take precedence over YAML values.
func TestEnvOverride(t *testing.T) {
	t.Setenv("FORGEPLAN_DB_PASSWORD", "env-secret")
	t.Setenv("FORGEPLAN_SERVER_PORT", "9090")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Password != "env-secret" {
		t.Errorf("database.password = %q, want env override", cfg.Database.Password)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestValidateMissingPort verifies server.port is required only when the
// Tailscale listener is disabled.
func TestValidateMissingPort(t *testing.T) {
	yaml := `
database:
  host: "localhost"
  port: 5432
  name: "forgeplan"
  user: "forgeplan"
auth:
  api_key: "k"
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Error("expected error for missing server.port")
	}

	withTS := yaml + `
tailscale:
  enabled: true
  hostname: "forgeplan"
`
	if _, err := Load(writeTemp(t, withTS)); err != nil {
		t.Errorf("port should be optional with tailscale enabled: %v", err)
	}
}

func TestValidateTailscaleHostname(t *testing.T) {
	yaml := validYAML + `
tailscale:
  enabled: true
`
	if _, err := Load(writeTemp(t, yaml)); err == nil {
		t.Error("expected error for tailscale without hostname")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "forgeplan", User: "app", Password: "pw"}
	want := "postgres://app:pw@db:5432/forgeplan?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
