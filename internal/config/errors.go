package config

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a requested resource does not exist in the store.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername is returned when an insert violates the unique
	// username constraint.
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrInvalidSettings is returned for unusable process configuration.
	ErrInvalidSettings = errors.New("invalid settings")
)

// isUniqueViolation reports whether err is a unique constraint violation from
// any of the supported drivers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		// Without extended result codes only SQLITE_CONSTRAINT is reported;
		// fall through to the message check.
	}

	// go-mssqldb errors expose their server error number.
	var msErr interface{ SQLErrorNumber() int32 }
	if errors.As(err, &msErr) {
		n := msErr.SQLErrorNumber()
		return n == 2627 || n == 2601
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique constraint") ||
		strings.Contains(lower, "duplicate key") ||
		strings.Contains(lower, "duplicate entry")
}
