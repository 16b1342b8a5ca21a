// Package testsupport provides shared helpers for package tests: temp-dir
// configs, store constructors, and feed fixtures.
package testsupport

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"skywatch/internal/config"
	"skywatch/internal/ledger"
	"skywatch/internal/votes"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.FeedPath = filepath.Join(base, "transients.txt")
	cfg.Paths.APIBind = "127.0.0.1:0"
	cfg.Notifications.WebhookURL = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBatchSize overrides the announcement batch size on the test config.
func WithBatchSize(n int) ConfigOption {
	return func(c *config.Config) {
		c.Monitor.BatchSize = n
	}
}

// WithWebhookURL points notifications at a test server.
func WithWebhookURL(url string) ConfigOption {
	return func(c *config.Config) {
		c.Notifications.WebhookURL = url
	}
}

// MustOpenLedger opens a ledger store and closes it when the test ends.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("open ledger store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// MustOpenVotes opens a voting store and closes it when the test ends.
func MustOpenVotes(t testing.TB, cfg *config.Config) *votes.Store {
	t.Helper()
	store, err := votes.Open(cfg)
	if err != nil {
		t.Fatalf("open votes store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// FeedHeader is the canonical single-flux detection feed header.
const FeedHeader = "source\tobservation\tra[deg]\tdec[deg]\tcentroid_ra[deg]\tcentroid_dec[deg]\tfield\ttime\ttest_statistic\tpeak_flux[mJy]\tfwhm[days]\tstatus\tmodified"

// WriteFeed writes a tab-separated feed file with the canonical header and the
// provided rows to the config's feed path.
func WriteFeed(t testing.TB, cfg *config.Config, rows ...string) {
	t.Helper()
	content := FeedHeader
	for _, row := range rows {
		content += "\n" + row
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Paths.FeedPath), 0o755); err != nil {
		t.Fatalf("create feed directory: %v", err)
	}
	if err := os.WriteFile(cfg.Paths.FeedPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
}

// CreateForeignSQLite creates a valid sqlite database at path containing an
// unrelated table, simulating a store file this repository does not own.
func CreateForeignSQLite(t testing.TB, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open foreign sqlite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("CREATE TABLE intruder (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("create foreign table: %v", err)
	}
}
