package threads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deepgram/airelay/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const schema = `
CREATE TABLE IF NOT EXISTS saved_threads (
	thread_id TEXT PRIMARY KEY NOT NULL,
	name TEXT NOT NULL UNIQUE,
	description TEXT,
	created_at TEXT NOT NULL
);
`

// SQLiteStore keeps threads in a single sqlite table keyed by thread_id with a
// unique index on name.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (and creates if needed) the database at path. ":memory:"
// gives a private in-memory database.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite serialises writers anyway, and ":memory:" is per connection
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT thread_id, name, description, created_at FROM saved_threads ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	defer rows.Close()

	threads := []domain.Thread{}
	for rows.Next() {
		thread, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return threads, nil
}

func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Thread, error) {
	name = NormalizeName(name)
	row := s.db.QueryRowContext(ctx,
		`SELECT thread_id, name, description, created_at FROM saved_threads WHERE name = ?`, name)

	thread, err := scanThread(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Thread{}, notFound(name)
	}
	if err != nil {
		return domain.Thread{}, err
	}
	return thread, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, thread domain.Thread) (domain.Thread, error) {
	thread.Name = NormalizeName(thread.Name)
	if err := validate(thread); err != nil {
		return domain.Thread{}, err
	}
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx,
		`INSERT INTO saved_threads (thread_id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		thread.ThreadID, thread.Name, thread.Description, thread.CreatedAt.Format(time.RFC3339Nano))
	if isConstraintViolation(err) {
		return domain.Thread{}, conflict(thread)
	}
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to insert thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Thread{}, fmt.Errorf("failed to commit thread: %w", err)
	}
	return thread, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanThread(row scanner) (domain.Thread, error) {
	var (
		thread      domain.Thread
		description sql.NullString
		createdAt   string
	)
	if err := row.Scan(&thread.ThreadID, &thread.Name, &description, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Thread{}, err
		}
		return domain.Thread{}, fmt.Errorf("failed to scan thread: %w", err)
	}

	if description.Valid {
		thread.Description = &description.String
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("thread %q has malformed created_at %q: %w", thread.Name, createdAt, err)
	}
	thread.CreatedAt = ts
	return thread, nil
}

func isConstraintViolation(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
