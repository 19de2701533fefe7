package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Kind distinguishes ledger entries.
type Kind string

const (
	KindExecution Kind = "execution"
	KindBatchJob  Kind = "batch-job"
)

// Entry is one recorded submission.
type Entry struct {
	ID        int64     `json:"id"`
	Kind      Kind      `json:"kind"`
	Handle    string    `json:"handle"`
	Target    string    `json:"target"`
	Name      string    `json:"name,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists ledger entries in SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open creates or connects to the ledger at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("history path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.prepare(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Record appends an entry. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, entry Entry) (*Entry, error) {
	if strings.TrimSpace(entry.Handle) == "" {
		return nil, fmt.Errorf("record %s: handle is required", entry.Kind)
	}
	if entry.Kind == "" {
		entry.Kind = KindExecution
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (kind, handle, target, name, source, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		string(entry.Kind),
		entry.Handle,
		entry.Target,
		nullableString(entry.Name),
		nullableString(entry.Source),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return &entry, nil
}

// List returns the most recent entries first. A non-positive limit returns
// every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, kind, handle, target, name, source, created_at
              FROM submissions ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var (
		entry     Entry
		kind      string
		name      sql.NullString
		source    sql.NullString
		createdAt string
	)
	if err := row.Scan(&entry.ID, &kind, &entry.Handle, &entry.Target, &name, &source, &createdAt); err != nil {
		return Entry{}, fmt.Errorf("scan submission: %w", err)
	}
	entry.Kind = Kind(kind)
	entry.Name = name.String
	entry.Source = source.String
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Entry{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	entry.CreatedAt = ts
	return entry, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
