package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mkrentals/backoffice/internal/model"
)

// MinSecretLength is the minimum accepted length of the token signing secret.
const MinSecretLength = 32

// DefaultCookieName is the session cookie name used when none is configured.
const DefaultCookieName = "admin_session"

// Settings is the process configuration, loaded once at startup from the
// config file, BACKOFFICE_* environment variables, and flags. It is passed by
// value into constructors and never mutated afterwards.
type Settings struct {
	App    AppConfig     `yaml:"app" mapstructure:"app"`
	Server ServerConfig  `yaml:"server" mapstructure:"server"`
	Auth   AuthConfig    `yaml:"auth" mapstructure:"auth"`
	Store  StoreConfig   `yaml:"store" mapstructure:"store"`
	Log    LoggingConfig `yaml:"log" mapstructure:"log"`
}

// AppConfig describes the deployment.
type AppConfig struct {
	// Env is "production" or anything else. Production turns on secure
	// cookies and cross-subdomain cookie scoping.
	Env string `yaml:"env" mapstructure:"env"`
	// BaseURL is the public URL of the admin site, e.g.
	// https://admin.example.com. Used only to derive the cookie domain.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ServerConfig controls the HTTP server behavior.
type ServerConfig struct {
	Host           string   `yaml:"host" mapstructure:"host"`
	Port           int      `yaml:"port" mapstructure:"port"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	LoginRateLimit int      `yaml:"login_rate_limit" mapstructure:"login_rate_limit"` // per IP per minute
}

// AuthConfig controls authentication settings.
type AuthConfig struct {
	JWTSecret  string `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	CookieName string `yaml:"cookie_name" mapstructure:"cookie_name"`
	BcryptCost int    `yaml:"bcrypt_cost" mapstructure:"bcrypt_cost"`
}

// StoreConfig selects the credential database.
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	// DSN is the connection string; for sqlite it is the data directory.
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultSettings returns Settings pre-filled with sensible defaults. The
// signing secret has no default and must be supplied.
func DefaultSettings() Settings {
	return Settings{
		App: AppConfig{
			Env: "development",
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			CORSOrigins:    []string{},
			LoginRateLimit: 10,
		},
		Auth: AuthConfig{
			CookieName: DefaultCookieName,
			BcryptCost: 10,
		},
		Store: StoreConfig{
			Driver: DriverSQLite,
		},
		Log: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// IsProduction reports whether the process runs in production mode.
func (s Settings) IsProduction() bool {
	return strings.EqualFold(s.App.Env, "production")
}

// Validate checks the settings needed to serve requests.
func (s Settings) Validate() error {
	if len(s.Auth.JWTSecret) < MinSecretLength {
		return fmt.Errorf("%w: auth.jwt_secret must be at least %d characters", ErrInvalidSettings, MinSecretLength)
	}
	if s.Auth.CookieName == "" {
		return fmt.Errorf("%w: auth.cookie_name must not be empty", ErrInvalidSettings)
	}
	if _, ok := sqlDriverNames[s.Store.Driver]; !ok {
		return fmt.Errorf("%w: unsupported store.driver %q", ErrInvalidSettings, s.Store.Driver)
	}
	if s.Store.Driver != DriverSQLite && s.Store.DSN == "" {
		return fmt.Errorf("%w: store.dsn is required for driver %q", ErrInvalidSettings, s.Store.Driver)
	}
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidSettings, s.Server.Port)
	}
	return nil
}

// WriteDefaultConfig writes the default configuration to a YAML file.
func WriteDefaultConfig(path string) error {
	data, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SeedFile is the YAML format accepted by "backoffice admin seed".
type SeedFile struct {
	Admins []SeedAdmin `yaml:"admins"`
}

// SeedAdmin is one account entry in a SeedFile.
type SeedAdmin struct {
	Username string     `yaml:"username"`
	Password string     `yaml:"password"`
	FullName string     `yaml:"full_name"`
	Role     model.Role `yaml:"role"`
}

// LoadSeedFile reads and parses an admin seed file. Environment variables
// referenced as ${VAR_NAME} in the file are expanded before parsing, so
// passwords need not be committed in plain text.
func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	content := os.ExpandEnv(string(data))

	var sf SeedFile
	if err := yaml.Unmarshal([]byte(content), &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &sf, nil
}
