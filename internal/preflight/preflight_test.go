package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"skywatch/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace_OK(t *testing.T) {
	result := CheckFreeSpace("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckFeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transients.txt")

	result := CheckFeedFile(path)
	if result.Passed {
		t.Fatal("expected failure for missing feed")
	}

	if err := os.WriteFile(path, []byte("source\tobservation\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result = CheckFeedFile(path)
	if !result.Passed {
		t.Fatalf("expected pass for readable feed, got: %s", result.Detail)
	}

	result = CheckFeedFile(dir)
	if result.Passed {
		t.Fatal("expected failure for directory path")
	}
}

func TestCheckWebhook_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckWebhook(context.Background(), srv.URL)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckWebhook_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result := CheckWebhook(context.Background(), srv.URL)
	if result.Passed {
		t.Fatal("expected failure for 500 response")
	}
}

func TestCheckWebhook_InvalidURL(t *testing.T) {
	result := CheckWebhook(context.Background(), "://not-a-url")
	if result.Passed {
		t.Fatal("expected failure for invalid url")
	}
}

func TestRunAllSkipsWebhookWhenUnconfigured(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.FeedPath = filepath.Join(cfg.Paths.DataDir, "transients.txt")
	cfg.Notifications.WebhookURL = ""
	if err := os.WriteFile(cfg.Paths.FeedPath, []byte("header\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), &cfg)
	for _, result := range results {
		if result.Name == "Notification webhook" {
			t.Fatal("webhook check must be skipped when no URL is configured")
		}
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}
}
