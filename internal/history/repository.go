// Package history records which programs the user has viewed, so the
// dashboard and the history command can surface recently browsed programs
// across invocations.
//
// Storage is backed by a SQLite database at ~/.config/loanscope/loanscope.db
// (or the platform-equivalent path returned by os.UserConfigDir).
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const (
	appDir = "loanscope"
	dbFile = "loanscope.db"

	// timeLayout keeps a fixed-width fractional second so stored UTC
	// timestamps compare correctly under SQLite's lexical TEXT ordering.
	// RFC3339Nano would trim trailing zeros and misorder whole seconds
	// against fractional ones.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// pathOverride, when non-empty, replaces the default database path.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the database path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// Repository defines the persistence interface for view records.
type Repository interface {
	// Record inserts a view record, assigning its ID and ViewedAt when
	// unset.
	Record(record *ViewRecord) error

	// Recent returns the most recent n view records, newest first, with
	// at most one entry per program number.
	Recent(n int) ([]ViewRecord, error)

	// DeleteOlderThan removes records older than d. Returns the number
	// of records removed.
	DeleteOlderThan(d time.Duration) (int64, error)

	// Close releases database resources.
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// DefaultPath returns the default database path.
func DefaultPath() (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("history: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, dbFile), nil
}

// Open creates or opens the view history at the default path.
func Open() (*SQLiteRepository, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteRepository, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("history: failed to open database: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// migrate creates the program_views table if it doesn't exist.
func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS program_views (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			program_number TEXT NOT NULL,
			program_name   TEXT NOT NULL DEFAULT '',
			agency         TEXT NOT NULL DEFAULT '',
			award_type     TEXT NOT NULL DEFAULT '',
			viewed_at      TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_program_views_number ON program_views(program_number);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("history: migration failed: %w", err)
	}
	return nil
}

// Record inserts a new view record.
func (r *SQLiteRepository) Record(record *ViewRecord) error {
	if record.ViewedAt.IsZero() {
		record.ViewedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(`
		INSERT INTO program_views (program_number, program_name, agency, award_type, viewed_at)
		VALUES (?, ?, ?, ?, ?)`,
		record.ProgramNumber, record.ProgramName, record.Agency, record.AwardType,
		record.ViewedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("history: insert failed: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("history: failed to get last insert ID: %w", err)
	}
	record.ID = id
	return nil
}

// Recent returns the latest view per program, newest first, limited to n.
func (r *SQLiteRepository) Recent(n int) ([]ViewRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, program_number, program_name, agency, award_type, viewed_at
		FROM program_views
		WHERE id IN (
			SELECT MAX(id) FROM program_views GROUP BY program_number
		)
		ORDER BY viewed_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: query failed: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// DeleteOlderThan removes view records older than d.
func (r *SQLiteRepository) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-d).Format(timeLayout)
	result, err := r.db.Exec(`DELETE FROM program_views WHERE viewed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: delete failed: %w", err)
	}
	return result.RowsAffected()
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// scanRows scans multiple rows into ViewRecords.
func scanRows(rows *sql.Rows) ([]ViewRecord, error) {
	var records []ViewRecord
	for rows.Next() {
		var record ViewRecord
		var viewedStr string
		err := rows.Scan(
			&record.ID, &record.ProgramNumber, &record.ProgramName,
			&record.Agency, &record.AwardType, &viewedStr,
		)
		if err != nil {
			return nil, fmt.Errorf("history: scan failed: %w", err)
		}
		record.ViewedAt, _ = time.Parse(time.RFC3339Nano, viewedStr)
		records = append(records, record)
	}
	return records, rows.Err()
}
