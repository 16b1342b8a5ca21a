package preflight

import (
	"context"

	"skywatch/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (always checked)
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckFreeSpace("Data directory free space", cfg.Paths.DataDir))

	// Detection feed (always checked)
	results = append(results, CheckFeedFile(cfg.Paths.FeedPath))

	// Webhook (when configured)
	if cfg.Notifications.WebhookURL != "" {
		results = append(results, CheckWebhook(ctx, cfg.Notifications.WebhookURL))
	}

	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
