package votes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"skywatch/internal/config"
)

// ErrUnknownTransient is returned when a vote query names an identifier the
// engine has never seen. Absent tables themselves are not an error: reads
// against a fresh store return empty results.
var ErrUnknownTransient = errors.New("unknown transient")

// ErrNegativeCount rejects reaction snapshots carrying negative counts.
var ErrNegativeCount = errors.New("reaction count must be non-negative")

// Record pairs an identifier with its tally.
type Record struct {
	TransientID string
	Tally       Tally
}

// Ranked is one priority-queue entry.
type Ranked struct {
	TransientID string
	Tally       Tally
	Score       int
}

// Store is the vote tally engine: it owns the vote and classification tables
// and keeps them consistent. Every update runs in a single transaction, and an
// in-process mutex serializes read-modify-write cycles so concurrent reaction
// events cannot lose updates.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open initializes or connects to the voting database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "voting.db")
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
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
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

// Path returns the location of the voting database file.
func (s *Store) Path() string {
	return s.path
}

// UpdateVoteCounts overwrites the tally for transientID with the reaction
// snapshot and recomputes every classification in the same transaction, so
// the classification table is always fully consistent with the vote table.
// The operation is idempotent.
func (s *Store) UpdateVoteCounts(ctx context.Context, transientID string, reactionCounts map[string]int) error {
	if transientID == "" {
		return errors.New("transient id is required")
	}
	for symbol, count := range reactionCounts {
		if count < 0 {
			return fmt.Errorf("%w: %s=%d", ErrNegativeCount, symbol, count)
		}
	}
	tally := TallyFromReactions(reactionCounts)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin vote tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO vote_counts (transient_id, agn_votes, interesting_votes, star_votes, junk_votes, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(transient_id) DO UPDATE SET
             agn_votes = excluded.agn_votes,
             interesting_votes = excluded.interesting_votes,
             star_votes = excluded.star_votes,
             junk_votes = excluded.junk_votes,
             updated_at = excluded.updated_at`,
		transientID,
		tally.AGN,
		tally.Interesting,
		tally.Star,
		tally.Junk,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("upsert vote counts: %w", err)
	}

	if err := reclassifyAll(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit vote update: %w", err)
	}
	return nil
}

// reclassifyAll recomputes the classification of every known transient inside
// the caller's transaction.
func reclassifyAll(ctx context.Context, tx *sql.Tx) error {
	records, err := scanTallies(ctx, tx)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO classifications (transient_id, classification, confidence)
         VALUES (?, ?, ?)
         ON CONFLICT(transient_id) DO UPDATE SET
             classification = excluded.classification,
             confidence = excluded.confidence`)
	if err != nil {
		return fmt.Errorf("prepare classification upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		label, confidence := Classify(record.Tally)
		if _, err := stmt.ExecContext(ctx, record.TransientID, string(label), confidence); err != nil {
			return fmt.Errorf("upsert classification %s: %w", record.TransientID, err)
		}
	}
	return nil
}

// TransientVotes returns the tally for one identifier.
func (s *Store) TransientVotes(ctx context.Context, transientID string) (Tally, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT agn_votes, interesting_votes, star_votes, junk_votes FROM vote_counts WHERE transient_id = ?`,
		transientID,
	)
	var tally Tally
	if err := row.Scan(&tally.AGN, &tally.Interesting, &tally.Star, &tally.Junk); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tally{}, fmt.Errorf("%w: %s", ErrUnknownTransient, transientID)
		}
		return Tally{}, fmt.Errorf("get votes: %w", err)
	}
	return tally, nil
}

// ClassificationFor returns the derived classification for one identifier.
func (s *Store) ClassificationFor(ctx context.Context, transientID string) (Classification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT transient_id, classification, confidence FROM classifications WHERE transient_id = ?`,
		transientID,
	)
	var (
		c     Classification
		label string
	)
	if err := row.Scan(&c.TransientID, &label, &c.Confidence); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Classification{}, fmt.Errorf("%w: %s", ErrUnknownTransient, transientID)
		}
		return Classification{}, fmt.Errorf("get classification: %w", err)
	}
	c.Label = Category(label)
	return c, nil
}

// Records returns every tally keyed by identifier, in identifier order.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	return scanTallies(ctx, s.db)
}

// Classifications returns every classification record, in identifier order.
func (s *Store) Classifications(ctx context.Context) ([]Classification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transient_id, classification, confidence FROM classifications ORDER BY transient_id`)
	if err != nil {
		return nil, fmt.Errorf("query classifications: %w", err)
	}
	defer rows.Close()

	var out []Classification
	for rows.Next() {
		var (
			c     Classification
			label string
		)
		if err := rows.Scan(&c.TransientID, &label, &c.Confidence); err != nil {
			return nil, fmt.Errorf("scan classification: %w", err)
		}
		c.Label = Category(label)
		out = append(out, c)
	}
	return out, rows.Err()
}

// PriorityQueue returns every known transient ordered by weighted score
// descending, ties broken by ascending identifier so repeated calls are
// deterministic.
func (s *Store) PriorityQueue(ctx context.Context) ([]Ranked, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]Ranked, 0, len(records))
	for _, record := range records {
		ranked = append(ranked, Ranked{
			TransientID: record.TransientID,
			Tally:       record.Tally,
			Score:       record.Tally.PriorityScore(),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].TransientID < ranked[j].TransientID
	})
	return ranked, nil
}

// TopTransients returns the first n entries of the priority queue.
func (s *Store) TopTransients(ctx context.Context, n int) ([]Ranked, error) {
	queue, err := s.PriorityQueue(ctx)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		n = 0
	}
	if n > len(queue) {
		n = len(queue)
	}
	return queue[:n], nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanTallies(ctx context.Context, q querier) ([]Record, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT transient_id, agn_votes, interesting_votes, star_votes, junk_votes
         FROM vote_counts ORDER BY transient_id`)
	if err != nil {
		return nil, fmt.Errorf("query vote counts: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var record Record
		if err := rows.Scan(
			&record.TransientID,
			&record.Tally.AGN,
			&record.Tally.Interesting,
			&record.Tally.Star,
			&record.Tally.Junk,
		); err != nil {
			return nil, fmt.Errorf("scan vote counts: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
