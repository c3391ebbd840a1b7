package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mkrentals/backoffice/internal/model"
)

func validSettings() Settings {
	s := DefaultSettings()
	s.Auth.JWTSecret = strings.Repeat("s", MinSecretLength)
	return s
}

func TestSettingsValidate(t *testing.T) {
	if err := validSettings().Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"missing secret", func(s *Settings) { s.Auth.JWTSecret = "" }},
		{"short secret", func(s *Settings) { s.Auth.JWTSecret = strings.Repeat("s", MinSecretLength-1) }},
		{"empty cookie name", func(s *Settings) { s.Auth.CookieName = "" }},
		{"unknown driver", func(s *Settings) { s.Store.Driver = "snowflake" }},
		{"postgres without dsn", func(s *Settings) { s.Store.Driver = DriverPostgres }},
		{"port zero", func(s *Settings) { s.Server.Port = 0 }},
		{"port too large", func(s *Settings) { s.Server.Port = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("got %v, want ErrInvalidSettings", err)
			}
		})
	}
}

func TestSettingsIsProduction(t *testing.T) {
	s := DefaultSettings()
	if s.IsProduction() {
		t.Error("defaults must not be production")
	}
	s.App.Env = "Production"
	if !s.IsProduction() {
		t.Error("expected case-insensitive production match")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backoffice.yaml")
	if err := WriteDefaultConfig(path); err != nil {
		t.Fatalf("WriteDefaultConfig: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Settings
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", got.Server.Port)
	}
	if got.Auth.CookieName != DefaultCookieName {
		t.Errorf("cookie name = %q, want %q", got.Auth.CookieName, DefaultCookieName)
	}
	if got.Auth.JWTSecret != "" {
		t.Error("default config must not contain a signing secret")
	}
}

func TestLoadSeedFile(t *testing.T) {
	t.Setenv("SEED_TEST_PASSWORD", "from-the-environment")

	path := filepath.Join(t.TempDir(), "admins.yaml")
	content := `admins:
  - username: alice
    password: ${SEED_TEST_PASSWORD}
    full_name: Alice Example
    role: super_admin
  - username: bob
    password: plain-text-pass
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	sf, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile: %v", err)
	}
	if len(sf.Admins) != 2 {
		t.Fatalf("got %d admins, want 2", len(sf.Admins))
	}
	if sf.Admins[0].Password != "from-the-environment" {
		t.Errorf("env var not expanded: %q", sf.Admins[0].Password)
	}
	if sf.Admins[0].Role != model.RoleSuperAdmin {
		t.Errorf("role = %q, want super_admin", sf.Admins[0].Role)
	}
	if sf.Admins[1].Role != "" {
		t.Errorf("unset role = %q, want empty", sf.Admins[1].Role)
	}

	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing seed file")
	}
}
