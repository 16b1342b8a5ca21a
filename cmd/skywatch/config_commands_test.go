package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := executeCommand(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[monitor]") {
		t.Fatalf("sample config missing monitor section:\n%s", data)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# existing\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := executeCommand(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected error for existing config without --overwrite")
	}
	if out, err := executeCommand(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite failed: %v\n%s", err, out)
	}
}
