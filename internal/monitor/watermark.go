package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const watermarkFile = "last_check.txt"

// LoadLastCheck reads the timestamp of the last successful ingestion run.
// A missing file is not an error; it simply means no run has completed yet.
func LoadLastCheck(dataDir string) (time.Time, bool, error) {
	raw, err := os.ReadFile(filepath.Join(dataDir, watermarkFile))
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read last-check watermark: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse last-check watermark: %w", err)
	}
	return t, true, nil
}

// SaveLastCheck records the completion time of a successful ingestion run.
func SaveLastCheck(dataDir string, t time.Time) error {
	path := filepath.Join(dataDir, watermarkFile)
	data := []byte(t.UTC().Format(time.RFC3339Nano) + "\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write last-check watermark: %w", err)
	}
	return nil
}
