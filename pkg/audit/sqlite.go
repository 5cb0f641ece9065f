package audit

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists step events in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed store and ensures the schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Open opens (or creates) a SQLite database at path and returns a store on it.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return NewSQLiteStore(db)
}

// Record stores a single step event.
func (s *SQLiteStore) Record(ctx context.Context, event StepEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_step_events (
			run_id, step_index, intent, subquery, answer, status, error_text, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.RunID,
		event.StepIndex,
		event.Intent,
		event.Subquery,
		event.Answer,
		event.Status,
		event.Error,
		normalizeTime(event.StartedAt),
		normalizeTime(event.FinishedAt),
	)
	return err
}

// List returns step events matching the filter.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]StepEvent, error) {
	query := `
		SELECT run_id, step_index, intent, subquery, answer, status, error_text, started_at, finished_at
		FROM run_step_events
	`
	var args []any
	where := ""
	addFilter := func(clause string, value any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, value)
	}
	if filter.RunID != "" {
		addFilter("run_id = ?", filter.RunID)
	}
	if filter.Intent != "" {
		addFilter("intent = ?", filter.Intent)
	}
	if filter.Status != "" {
		addFilter("status = ?", filter.Status)
	}
	query += where + " ORDER BY started_at ASC, rowid ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StepEvent
	for rows.Next() {
		var (
			event    StepEvent
			started  sql.NullTime
			finished sql.NullTime
		)
		if err := rows.Scan(
			&event.RunID,
			&event.StepIndex,
			&event.Intent,
			&event.Subquery,
			&event.Answer,
			&event.Status,
			&event.Error,
			&started,
			&finished,
		); err != nil {
			return nil, err
		}
		if started.Valid {
			event.StartedAt = started.Time
		}
		if finished.Valid {
			event.FinishedAt = finished.Time
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS run_step_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			step_index INTEGER NOT NULL,
			intent TEXT NOT NULL,
			subquery TEXT,
			answer TEXT,
			status TEXT NOT NULL,
			error_text TEXT,
			started_at TIMESTAMP,
			finished_at TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_run_step_events_run ON run_step_events(run_id);
		CREATE INDEX IF NOT EXISTS idx_run_step_events_intent ON run_step_events(intent);
		CREATE INDEX IF NOT EXISTS idx_run_step_events_status ON run_step_events(status);
	`)
	return err
}
