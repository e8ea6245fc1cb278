// Package sqlite provides a SQLite-backed docmill.Ledger for scans
// large enough that a flat CSV file becomes unwieldy.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/docmill/docmill"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

var _ docmill.Ledger = (*Ledger)(nil)

// Ledger stores crawl records in a SQLite database. Rows are keyed by
// insertion order; the recorded seq preserves discovery order for
// resumption.
type Ledger struct {
	db   *sql.DB
	path string
}

// OpenLedger opens (or creates) the ledger database at path. Use
// ":memory:" for an in-memory ledger.
func OpenLedger(path string) (*Ledger, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit to one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Wait up to 5 seconds on lock contention instead of failing with
	// "database is locked".
	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL mode is much faster for the ledger's append-heavy workload.
	// Not supported for in-memory databases.
	if path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	l := &Ledger{db: conn, path: path}
	if err := l.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return l, nil
}

func (l *Ledger) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS url_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			parent_url TEXT NOT NULL DEFAULT '',
			depth INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			scope TEXT NOT NULL,
			status TEXT NOT NULL,
			http_code INTEGER NOT NULL DEFAULT 0,
			reason TEXT NOT NULL DEFAULT '',
			priority INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_url_records_url ON url_records(url);
		CREATE INDEX IF NOT EXISTS idx_url_records_status ON url_records(status);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Append writes one record.
func (l *Ledger) Append(ctx context.Context, rec *docmill.URLRecord) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO url_records (url, parent_url, depth, seq, scope, status, http_code, reason, priority)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.URL, rec.ParentURL, rec.Depth, rec.Seq, string(rec.Scope),
		string(rec.Status), rec.HTTPCode, rec.Reason, int(rec.Priority),
	)
	return err
}

// Load returns all records, oldest first.
func (l *Ledger) Load(ctx context.Context) ([]*docmill.URLRecord, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT url, parent_url, depth, seq, scope, status, http_code, reason, priority
		FROM url_records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*docmill.URLRecord{}
	for rows.Next() {
		var rec docmill.URLRecord
		var scope, status string
		var priority int
		if err := rows.Scan(&rec.URL, &rec.ParentURL, &rec.Depth, &rec.Seq,
			&scope, &status, &rec.HTTPCode, &rec.Reason, &priority); err != nil {
			return nil, err
		}
		rec.Scope = docmill.ScopeClass(scope)
		rec.Status = docmill.Status(status)
		rec.Priority = docmill.LinkPriority(priority)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}
