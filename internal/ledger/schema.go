package ledger

import (
	"context"
	"errors"
	"fmt"
)

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear or migrate the ledger database to adopt it.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("ledger schema version mismatch")

const schemaSQL = `
CREATE TABLE processed_detections (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    observation TEXT NOT NULL,
    ra_deg REAL NOT NULL,
    dec_deg REAL NOT NULL,
    field TEXT NOT NULL DEFAULT '',
    detected_at TEXT NOT NULL,
    test_statistic REAL NOT NULL DEFAULT 0,
    status TEXT,
    processed_at TEXT NOT NULL
);

CREATE INDEX idx_processed_detections_key ON processed_detections (source, observation);
`

func (s *Store) initSchema(ctx context.Context, preexisting bool) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		// A pre-existing file without our schema is not a fresh ledger.
		if preexisting {
			if populated, err := s.hasAnyTable(ctx); err != nil {
				return err
			} else if populated {
				return fmt.Errorf("%w: existing database has no schema_version table", ErrCorrupt)
			}
		}
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("%w: read schema version: %w", ErrCorrupt, err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'skywatch ledger clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) hasAnyTable(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'",
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("inspect sqlite_master: %w", err)
	}
	return count > 0, nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "CREATE TABLE schema_version (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
