package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mkrentals/backoffice/internal/config"
	"github.com/mkrentals/backoffice/internal/server"
	"github.com/mkrentals/backoffice/internal/service"
	"github.com/mkrentals/backoffice/internal/telemetry"
)

// dataDir holds the --data-dir persistent flag value (set on root command).
var dataDir string

// resolveDataDir returns the data directory from --data-dir flag,
// BACKOFFICE_DATA_DIR env var, or ~/.backoffice as fallback.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if envDir := os.Getenv("BACKOFFICE_DATA_DIR"); envDir != "" {
		return envDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".backoffice")
}

// settingsFrom decodes v into Settings without validating them.
func settingsFrom(v *viper.Viper) (config.Settings, error) {
	s := config.DefaultSettings()
	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// loadSettings reads the effective settings and validates them. Commands
// that serve requests or sign tokens use it.
func loadSettings() (config.Settings, error) {
	s, err := settingsFrom(viper.GetViper())
	if err != nil {
		return s, err
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// openStore opens the credential store described by s. The sqlite driver
// keeps its file under the data directory unless store.dsn names one.
func openStore(s config.Settings) (*config.Store, error) {
	if s.Store.Driver == config.DriverSQLite || s.Store.Driver == "" {
		dir := s.Store.DSN
		if dir == "" {
			dir = resolveDataDir()
		}
		return config.NewStore(dir)
	}
	return config.Open(s.Store.Driver, s.Store.DSN)
}

func newLogger(s config.Settings) *slog.Logger {
	return telemetry.NewLogger(s.Log, os.Stderr)
}

// buildServices wires the auth components on top of store.
func buildServices(s config.Settings, store *config.Store, logger *slog.Logger) server.Services {
	hasher := service.NewBcryptHasher(s.Auth.BcryptCost)
	tokens := service.NewTokenService(s.Auth.JWTSecret)
	sessions := service.NewSessionManager(tokens, service.SessionConfig{
		CookieName: s.Auth.CookieName,
		Production: s.IsProduction(),
		BaseURL:    s.App.BaseURL,
	}, logger)

	return server.Services{
		Store:     store,
		Auth:      service.NewAuthService(store, hasher, tokens, logger),
		Bootstrap: service.NewBootstrapCoordinator(store, hasher, logger),
		Sessions:  sessions,
	}
}
