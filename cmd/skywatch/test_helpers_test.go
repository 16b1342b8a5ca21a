package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// writeTestConfig creates a config file pointing at per-test temp directories
// and returns its path along with the feed path.
func writeTestConfig(t *testing.T) (configPath, feedPath string) {
	t.Helper()
	base := t.TempDir()
	configPath = filepath.Join(base, "config.toml")
	feedPath = filepath.Join(base, "transients.txt")

	content := fmt.Sprintf(`[paths]
data_dir = %q
log_dir = %q
feed_path = %q
api_bind = ""

[notifications]
webhook_url = ""
`, filepath.Join(base, "data"), filepath.Join(base, "logs"), feedPath)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return configPath, feedPath
}

// executeCommand runs the CLI with the given args against the test config and
// returns the combined output.
func executeCommand(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.Execute()
	return buf.String(), err
}
