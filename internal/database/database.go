// Package database opens the local SQLite file that holds ec2kit's audit
// history and applies schema migrations to it.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// PathEnv overrides the database location when set.
const PathEnv = "EC2KIT_AUDIT_DB"

const (
	appDir = "ec2kit"
	dbFile = "audit.db"
)

// dsnPragmas are applied to every connection the driver opens.
const dsnPragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

var pathOverride string

// SetPath overrides the default database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// DefaultPath resolves the database file: SetPath, then $EC2KIT_AUDIT_DB,
// then <user config dir>/ec2kit/audit.db.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	if p := os.Getenv(PathEnv); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("database: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open creates the parent directory if needed and returns a handle to the
// SQLite file at path. The handle holds at most one connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("database: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("database: failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database: %s is not usable: %w", path, err)
	}
	return db, nil
}

// Migrate brings the schema up to date. migrations[i] moves the schema from
// version i to i+1; the current version is kept in PRAGMA user_version.
// Each step runs in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, migrations []string) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("database: reading schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("database: schema version %d is newer than this ec2kit build (%d)", version, len(migrations))
	}

	for next := version; next < len(migrations); next++ {
		if err := applyMigration(ctx, db, next+1, migrations[next]); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, version int, ddl string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("database: migration %d: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("database: migration %d: %w", version, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("database: migration %d: %w", version, err)
	}
	return tx.Commit()
}
