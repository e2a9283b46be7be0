package auditlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nathanbeddoewebdev/ec2kit/internal/database"
)

// Repository stores and queries audit entries.
type Repository interface {
	Save(ctx context.Context, entry *AuditEntry) error
	List(ctx context.Context, f Filter) ([]AuditEntry, error)
	Launches(ctx context.Context, region string, limit int) ([]AuditEntry, error)
	Prune(ctx context.Context, before time.Time, dryRun bool) (int64, error)
	Close() error
}

// Filter narrows List. Zero-valued fields match everything; a Limit of zero
// or less returns every matching entry.
type Filter struct {
	Command      string
	Region       string
	ResourceType string
	Outcome      string
	Since        time.Time
	Limit        int
}

// where renders the filter as a SQL condition and its arguments.
func (f Filter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		conds = append(conds, cond)
		args = append(args, arg)
	}

	if f.Command != "" {
		add("command = ?", f.Command)
	}
	if f.Region != "" {
		add("region = ?", f.Region)
	}
	if f.ResourceType != "" {
		add("resource_type = ?", f.ResourceType)
	}
	if f.Outcome != "" {
		add("outcome = ?", f.Outcome)
	}
	if !f.Since.IsZero() {
		add("timestamp >= ?", formatTime(f.Since))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// migrations is the audit_log schema history; see database.Migrate.
var migrations = []string{
	`CREATE TABLE audit_log (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp     TEXT    NOT NULL,
		command       TEXT    NOT NULL,
		args          TEXT    NOT NULL DEFAULT '',
		region        TEXT    NOT NULL DEFAULT '',
		resource_type TEXT    NOT NULL DEFAULT '',
		resource_id   TEXT    NOT NULL DEFAULT '',
		resource_name TEXT    NOT NULL DEFAULT '',
		outcome       TEXT    NOT NULL DEFAULT '',
		detail        TEXT    NOT NULL DEFAULT '',
		duration_ms   INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX idx_audit_log_timestamp ON audit_log(timestamp);
	CREATE INDEX idx_audit_log_region ON audit_log(region, timestamp);`,

	`ALTER TABLE audit_log ADD COLUMN instance_type TEXT NOT NULL DEFAULT '';
	ALTER TABLE audit_log ADD COLUMN security_group TEXT NOT NULL DEFAULT '';
	CREATE INDEX idx_audit_log_resource ON audit_log(resource_type, outcome, timestamp);`,
}

// entryColumns is the column order shared by insert and scan.
const entryColumns = `timestamp, command, args, region, resource_type, resource_id,
	resource_name, instance_type, security_group, outcome, detail, duration_ms`

// SQLiteRepository keeps audit entries in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

// Open opens the repository at database.DefaultPath.
func Open(ctx context.Context) (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return OpenAt(ctx, path)
}

// OpenAt opens (creating if needed) the repository at path and migrates it.
func OpenAt(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := database.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	if err := database.Migrate(ctx, db, migrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("auditlog: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Save inserts entry and sets its ID. A zero Timestamp is set to now.
func (r *SQLiteRepository) Save(ctx context.Context, entry *AuditEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		formatTime(entry.Timestamp), entry.Command, entry.Args, entry.Region,
		entry.ResourceType, entry.ResourceID, entry.ResourceName,
		entry.InstanceType, entry.SecurityGroup,
		entry.Outcome, entry.Detail, entry.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("auditlog: insert failed: %w", err)
	}

	entry.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("auditlog: reading inserted id: %w", err)
	}
	return nil
}

// List returns entries matching f, newest first.
func (r *SQLiteRepository) List(ctx context.Context, f Filter) ([]AuditEntry, error) {
	where, args := f.where()
	query := `SELECT id, ` + entryColumns + ` FROM audit_log` + where + ` ORDER BY timestamp DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}
	return r.query(ctx, query, args...)
}

// Launches returns successful instance provisions, newest first. An empty
// region matches every region.
func (r *SQLiteRepository) Launches(ctx context.Context, region string, limit int) ([]AuditEntry, error) {
	return r.List(ctx, Filter{
		Region:       region,
		ResourceType: ResourceInstance,
		Outcome:      OutcomeSuccess,
		Limit:        limit,
	})
}

// Prune deletes entries recorded before the cutoff and reports how many
// were removed. With dryRun it only counts them.
func (r *SQLiteRepository) Prune(ctx context.Context, before time.Time, dryRun bool) (int64, error) {
	cutoff := formatTime(before)
	if dryRun {
		var n int64
		err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log WHERE timestamp < ?`, cutoff).Scan(&n)
		if err != nil {
			return 0, fmt.Errorf("auditlog: count failed: %w", err)
		}
		return n, nil
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM audit_log WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("auditlog: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("auditlog: query failed: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e  AuditEntry
			ts string
		)
		if err := rows.Scan(
			&e.ID, &ts, &e.Command, &e.Args, &e.Region,
			&e.ResourceType, &e.ResourceID, &e.ResourceName,
			&e.InstanceType, &e.SecurityGroup,
			&e.Outcome, &e.Detail, &e.DurationMs,
		); err != nil {
			return nil, fmt.Errorf("auditlog: scan failed: %w", err)
		}
		if e.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("auditlog: entry %d has a malformed timestamp %q: %w", e.ID, ts, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// formatTime stores timestamps as fixed-width UTC RFC 3339 so that string
// comparison in SQL orders them chronologically.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
