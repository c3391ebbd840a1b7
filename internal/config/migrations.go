package config

import "fmt"

// migrations holds the ordered schema statements per driver. The unique
// constraint on username is load-bearing: it is what guarantees at most one
// concurrent first-run bootstrap succeeds.
var migrations = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS admin_users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'super_admin',
			is_active INTEGER NOT NULL DEFAULT 1,
			last_login_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},

	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS admin_users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'super_admin',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},

	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS admin_users (
			id CHAR(36) PRIMARY KEY,
			username VARCHAR(191) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			full_name VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(64) NOT NULL DEFAULT 'super_admin',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at DATETIME(6) NULL,
			created_at DATETIME(6) NOT NULL,
			updated_at DATETIME(6) NOT NULL,
			UNIQUE KEY uq_admin_users_username (username)
		)`,
	},

	DriverSQLServer: {
		`IF OBJECT_ID(N'admin_users', N'U') IS NULL
		CREATE TABLE admin_users (
			id NVARCHAR(36) PRIMARY KEY,
			username NVARCHAR(255) NOT NULL CONSTRAINT uq_admin_users_username UNIQUE,
			password_hash NVARCHAR(255) NOT NULL,
			full_name NVARCHAR(255) NOT NULL DEFAULT '',
			role NVARCHAR(64) NOT NULL DEFAULT 'super_admin',
			is_active BIT NOT NULL DEFAULT 1,
			last_login_at DATETIME2 NULL,
			created_at DATETIME2 NOT NULL,
			updated_at DATETIME2 NOT NULL
		)`,
	},
}

func (s *Store) migrate() error {
	stmts, ok := migrations[s.driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", s.driver)
	}
	for _, m := range stmts {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
