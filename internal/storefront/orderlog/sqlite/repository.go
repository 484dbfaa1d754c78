// Package sqlite provides a SQLite-backed implementation of
// orderlog.Repository. WAL mode is enabled on Open so a status query never
// blocks the handler goroutine that is appending.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/orderlog"

	// Pure-Go SQLite driver; avoids CGO so the service builds on Alpine.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS order_logs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id      TEXT NOT NULL DEFAULT '',
    session_id    TEXT NOT NULL,
    status        TEXT NOT NULL,
    payload       TEXT,
    error_message TEXT NOT NULL DEFAULT '',
    trace_id      TEXT NOT NULL DEFAULT '',
    span_id       TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_logs_session_id ON order_logs(session_id, created_at);
CREATE INDEX IF NOT EXISTS idx_order_logs_trace_id ON order_logs(trace_id);
`

// Repository is the SQLite implementation of orderlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// The modernc driver registers as "sqlite", not "sqlite3".
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends one log entry. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, entry *orderlog.Entry) error {
	const q = `
		INSERT INTO order_logs
			(order_id, session_id, status, payload, error_message, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		entry.SessionID,
		string(entry.Status),
		nullableString(entry.Payload),
		entry.Error,
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save order log for session %q: %w", entry.SessionID, err)
	}
	return nil
}

// Latest returns the most recent entry for a session, for status queries.
func (r *Repository) Latest(ctx context.Context, sessionID string) (*orderlog.Entry, error) {
	const q = `
		SELECT order_id, session_id, status, COALESCE(payload,''), error_message,
		       trace_id, span_id, created_at
		FROM   order_logs
		WHERE  session_id = ?
		ORDER  BY created_at DESC, id DESC
		LIMIT  1`

	row := r.db.QueryRowContext(ctx, q, sessionID)

	var entry orderlog.Entry
	var createdAt string
	err := row.Scan(
		&entry.OrderID,
		&entry.SessionID,
		&entry.Status,
		&entry.Payload,
		&entry.Error,
		&entry.TraceID,
		&entry.SpanID,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sqlite: no order log for session %q", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest for session %q: %w", sessionID, err)
	}

	entry.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: parse time %q: %w", createdAt, err)
	}
	return &entry, nil
}

// nullableString maps empty strings to NULL so the payload column stays
// clean on rows without one.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
