// Package eventlog persists tunneling events in SQLite so runs can be
// queried after the fact.
package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/san-kum/seonet/internal/seo"
	"github.com/san-kum/seonet/internal/sim"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id    TEXT    NOT NULL,
	time      REAL    NOT NULL,
	node      INTEGER NOT NULL,
	direction TEXT    NOT NULL,
	wait_time REAL    NOT NULL,
	voltage   REAL    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_run ON events(run_id, time);
`

// Log is safe for concurrent use.
type Log struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens dir/events.db.
func Open(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return OpenDSN(filepath.Join(dir, "events.db") + "?_pragma=journal_mode(WAL)")
}

// OpenDSN opens an arbitrary SQLite DSN, such as ":memory:".
func OpenDSN(dsn string) (*Log, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Log{db: db}, nil
}

func (l *Log) Close() error {
	return l.db.Close()
}

// Record stores events for runID in one transaction.
func (l *Log) Record(ctx context.Context, runID string, events []sim.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (run_id, time, node, direction, wait_time, voltage) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.ExecContext(ctx, runID, e.Time, e.Node, string(e.Direction), e.WaitTime, e.Voltage); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}
	return tx.Commit()
}

// Events returns the events of runID in time order. A negative node returns
// every node.
func (l *Log) Events(ctx context.Context, runID string, node int) ([]sim.Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	query := `SELECT time, node, direction, wait_time, voltage FROM events WHERE run_id = ?`
	args := []any{runID}
	if node >= 0 {
		query += ` AND node = ?`
		args = append(args, node)
	}
	query += ` ORDER BY time, id`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []sim.Event
	for rows.Next() {
		var (
			e   sim.Event
			dir string
		)
		if err := rows.Scan(&e.Time, &e.Node, &dir, &e.WaitTime, &e.Voltage); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Direction = seo.Direction(dir)
		events = append(events, e)
	}
	return events, rows.Err()
}

type Count struct {
	Node      int
	Direction seo.Direction
	Events    int
}

// Counts aggregates events of runID per node and direction.
func (l *Log) Counts(ctx context.Context, runID string) ([]Count, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.QueryContext(ctx,
		`SELECT node, direction, COUNT(*) FROM events WHERE run_id = ? GROUP BY node, direction ORDER BY node, direction`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var (
			c   Count
			dir string
		)
		if err := rows.Scan(&c.Node, &dir, &c.Events); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		c.Direction = seo.Direction(dir)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Delete removes every event of runID.
func (l *Log) Delete(ctx context.Context, runID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `DELETE FROM events WHERE run_id = ?`, runID)
	return err
}
