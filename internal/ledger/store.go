package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"skywatch/internal/config"
)

// ErrCorrupt indicates the ledger database exists but cannot be trusted. It is
// never silently treated as an empty ledger: re-running bootstrap against a
// damaged ledger would re-announce the entire historical backlog.
var ErrCorrupt = errors.New("ledger corrupt")

// Store persists announced detections in SQLite. All multi-statement cycles
// are serialized by an in-process mutex; the deduplicator is the only writer.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database. A pre-existing file
// that fails the integrity or schema check surfaces ErrCorrupt rather than
// being recreated.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "ledger.db")
	preexisting := false
	if info, err := os.Stat(dbPath); err == nil && !info.IsDir() {
		preexisting = true
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			if preexisting {
				return nil, fmt.Errorf("%w: apply pragma %q: %w", ErrCorrupt, pragma, execErr)
			}
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if preexisting {
		if err := store.verifyIntegrity(context.Background()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := store.initSchema(context.Background(), preexisting); err != nil {
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

// Path returns the location of the ledger database file.
func (s *Store) Path() string {
	return s.path
}

// Keys returns the identity-key set of every ledger entry. An empty set is the
// positive bootstrap signal.
func (s *Store) Keys(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, observation FROM processed_detections`)
	if err != nil {
		return nil, fmt.Errorf("query ledger keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var source, observation string
		if err := rows.Scan(&source, &observation); err != nil {
			return nil, fmt.Errorf("scan ledger key: %w", err)
		}
		keys[source+"_"+observation] = struct{}{}
	}
	return keys, rows.Err()
}

// Append records entries in a single transaction. Either every entry lands or
// none does, so a failed ingestion run never leaves a partial batch behind.
func (s *Store) Append(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO processed_detections (
        source, observation, ra_deg, dec_deg, field, detected_at, test_statistic, status, processed_at
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare ledger insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(ctx,
			entry.Source,
			entry.Observation,
			entry.RA,
			entry.Dec,
			entry.Field,
			entry.Time.UTC().Format(time.RFC3339Nano),
			entry.TestStatistic,
			nullableString(entry.Status),
			entry.ProcessedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert ledger entry %s: %w", entry.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger append: %w", err)
	}
	return nil
}

// List returns all entries in append order.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, observation, ra_deg, dec_deg, field,
        detected_at, test_statistic, status, processed_at
        FROM processed_detections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry        Entry
			detectedRaw  string
			processedRaw string
			status       sql.NullString
		)
		if err := rows.Scan(
			&entry.Source,
			&entry.Observation,
			&entry.RA,
			&entry.Dec,
			&entry.Field,
			&detectedRaw,
			&entry.TestStatistic,
			&status,
			&processedRaw,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entry.Status = status.String
		if detected, err := parseTimeString(detectedRaw); err == nil {
			entry.Time = detected
		}
		if processed, err := parseTimeString(processedRaw); err == nil {
			entry.ProcessedAt = processed
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Count returns the number of ledger entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM processed_detections`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ledger entries: %w", err)
	}
	return count, nil
}

// Clear truncates the ledger. This is a maintenance escape hatch that forces
// the next ingestion run to reprocess the feed from the bootstrap path.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM processed_detections`)
	if err != nil {
		return 0, fmt.Errorf("clear ledger: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) verifyIntegrity(ctx context.Context) error {
	var result string
	if err := s.db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&result); err != nil {
		return fmt.Errorf("%w: integrity check: %w", ErrCorrupt, err)
	}
	if result != "ok" {
		return fmt.Errorf("%w: integrity check reported %q", ErrCorrupt, result)
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
