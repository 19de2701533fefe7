package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// ledgerVersion is stored in SQLite's user_version header field. Zero means
// the file has never been initialised.
const ledgerVersion = 1

// ErrSchemaMismatch indicates the ledger was written by a different version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// prepare creates the submissions table on a fresh file and refuses files
// stamped with another ledger version.
func (s *Store) prepare(ctx context.Context) error {
	var stamped int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&stamped); err != nil {
		return fmt.Errorf("read ledger version: %w", err)
	}
	switch stamped {
	case ledgerVersion:
		return nil
	case 0:
	default:
		return fmt.Errorf("%w: %s is stamped %d, this build writes %d (move it aside to start a new ledger)",
			ErrSchemaMismatch, s.path, stamped, ledgerVersion)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire ledger connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("lock ledger: %w", err)
	}
	stmts := []string{schemaSQL, fmt.Sprintf("PRAGMA user_version = %d", ledgerVersion)}
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
			return fmt.Errorf("initialise ledger: %w", err)
		}
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit ledger schema: %w", err)
	}
	return nil
}
