package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"github.com/mkrentals/backoffice/internal/model"
)

// Supported credential store drivers.
const (
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverMySQL     = "mysql"
	DriverSQLServer = "sqlserver"
)

// sqlDriverNames maps a store driver to the database/sql driver it registers.
var sqlDriverNames = map[string]string{
	DriverSQLite:    "sqlite",
	DriverPostgres:  "pgx",
	DriverMySQL:     "mysql",
	DriverSQLServer: "sqlserver",
}

// Store persists admin accounts. It is a thin repository: no business rules
// live here beyond the unique username constraint enforced by the schema.
type Store struct {
	db     *sqlx.DB
	driver string
}

// NewStore opens the SQLite-backed store. Pass empty string for in-memory.
func NewStore(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == "" {
		dsn = ":memory:?_journal_mode=WAL"
	} else {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		dsn = filepath.Join(dataDir, "backoffice.db") + "?_journal_mode=WAL&_busy_timeout=5000"
	}
	return Open(DriverSQLite, dsn)
}

// Open connects to the credential database for the given driver and applies
// migrations. For sqlite, dsn is a file path or ":memory:".
func Open(driver, dsn string) (*Store, error) {
	sqlDriver, ok := sqlDriverNames[driver]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported store driver %q", ErrInvalidSettings, driver)
	}

	if driver == DriverMySQL {
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		// Timestamps must scan into time.Time.
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		dsn = cfg.FormatDSN()
	}

	db, err := sqlx.Connect(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open credential database: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate credential database: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the store driver name.
func (s *Store) Driver() string {
	return s.driver
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ---------------------------------------------------------------------------
// Admin accounts
// ---------------------------------------------------------------------------

// CreateAdmin inserts a new admin account. ID (when empty), CreatedAt, and
// UpdatedAt are populated before the insert. A username collision returns
// ErrDuplicateUsername.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	if admin.ID == "" {
		admin.ID = uuid.Must(uuid.NewV7()).String()
	}
	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now

	const q = `INSERT INTO admin_users
		(id, username, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES
		(:id, :username, :password_hash, :full_name, :role, :is_active, :created_at, :updated_at)`

	if _, err := s.db.NamedExecContext(ctx, q, admin); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert admin %q: %w", admin.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// FindByUsername returns the active admin with the given username. Inactive
// accounts are reported as ErrNotFound.
func (s *Store) FindByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	q := s.db.Rebind(`SELECT ` + adminColumns + ` FROM admin_users WHERE username = ? AND is_active = ?`)
	if err := s.db.GetContext(ctx, &admin, q, username, true); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return &admin, nil
}

// GetAdmin returns an admin by ID regardless of its active flag.
func (s *Store) GetAdmin(ctx context.Context, id string) (*model.Admin, error) {
	var admin model.Admin
	q := s.db.Rebind(`SELECT ` + adminColumns + ` FROM admin_users WHERE id = ?`)
	if err := s.db.GetContext(ctx, &admin, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &admin, nil
}

// GetAdminByUsername returns an admin by username regardless of its active
// flag. Login must use FindByUsername instead.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	q := s.db.Rebind(`SELECT ` + adminColumns + ` FROM admin_users WHERE username = ?`)
	if err := s.db.GetContext(ctx, &admin, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts ordered by username.
func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	q := `SELECT ` + adminColumns + ` FROM admin_users ORDER BY username`
	if err := s.db.SelectContext(ctx, &admins, q); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// CountAdmins returns the number of admin accounts, active or not. It drives
// first-run detection.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admin_users"); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

// UpdateLastLogin sets the last_login_at timestamp for an admin.
func (s *Store) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	at = at.UTC()
	q := s.db.Rebind("UPDATE admin_users SET last_login_at = ?, updated_at = ? WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, at, at, id)
	if err != nil {
		return fmt.Errorf("update admin last login: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin last login rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAdminActive enables or disables an account. Disabled accounts cannot
// log in but still count toward first-run detection.
func (s *Store) SetAdminActive(ctx context.Context, id string, active bool) error {
	q := s.db.Rebind("UPDATE admin_users SET is_active = ?, updated_at = ? WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, active, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update admin active flag: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin active flag rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

const adminColumns = `id, username, password_hash, full_name, role, is_active,
	last_login_at, created_at, updated_at`
