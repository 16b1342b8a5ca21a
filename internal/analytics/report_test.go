package analytics_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"skywatch/internal/analytics"
	"skywatch/internal/testsupport"
	"skywatch/internal/votes"
)

func seedStore(t *testing.T) *votes.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenVotes(t, cfg)

	ctx := context.Background()
	seeds := map[string]map[string]int{
		// AGN consensus: 4 of 5 votes, classified.
		"agn-strong": {"milky_way": 4, "wastebasket": 1},
		// Split vote: no consensus, unclassified.
		"split": {"fire": 1, "star": 1},
		// Interesting at threshold.
		"followup": {"fire": 2},
	}
	for id, counts := range seeds {
		if err := store.UpdateVoteCounts(ctx, id, counts); err != nil {
			t.Fatalf("seed %s: %v", id, err)
		}
	}
	return store
}

func TestBuildReportTotals(t *testing.T) {
	store := seedStore(t)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	report, err := analytics.BuildReport(context.Background(), store, now)
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if report.TotalTransients != 3 {
		t.Fatalf("expected 3 voted transients, got %d", report.TotalTransients)
	}
	if report.TotalVotes != 9 {
		t.Fatalf("expected 9 total votes, got %d", report.TotalVotes)
	}
	if report.Distribution[votes.CategoryAGN] != 4 || report.Distribution[votes.CategoryInteresting] != 3 {
		t.Fatalf("unexpected distribution: %v", report.Distribution)
	}
}

func TestBuildReportConsensus(t *testing.T) {
	store := seedStore(t)
	report, err := analytics.BuildReport(context.Background(), store, time.Now())
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if len(report.Consensus) != 1 {
		t.Fatalf("expected 1 consensus entry, got %+v", report.Consensus)
	}
	entry := report.Consensus[0]
	if entry.TransientID != "agn-strong" || entry.Category != votes.CategoryAGN || entry.Votes != 4 || entry.Total != 5 {
		t.Fatalf("unexpected consensus entry: %+v", entry)
	}
}

func TestBuildReportClassificationCounts(t *testing.T) {
	store := seedStore(t)
	report, err := analytics.BuildReport(context.Background(), store, time.Now())
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	if report.ClassificationCounts[votes.CategoryAGN] != 1 {
		t.Fatalf("expected 1 AGN classification, got %v", report.ClassificationCounts)
	}
	if report.ClassificationCounts[votes.CategoryInteresting] != 1 {
		t.Fatalf("expected 1 Interesting classification, got %v", report.ClassificationCounts)
	}
	if report.ClassificationCounts[votes.CategoryUnclassified] != 1 {
		t.Fatalf("expected 1 Unclassified, got %v", report.ClassificationCounts)
	}
	if report.AverageConfidence <= 0 || report.AverageConfidence > 1 {
		t.Fatalf("average confidence out of range: %v", report.AverageConfidence)
	}
	perLabel := map[votes.Category]float64{
		votes.CategoryAGN:          0.8,
		votes.CategoryInteresting:  1.0,
		votes.CategoryUnclassified: 0.5,
	}
	for label, want := range perLabel {
		got := report.ConfidenceByLabel[label]
		if got < want-1e-9 || got > want+1e-9 {
			t.Fatalf("confidence for %s: expected %.2f, got %v", label, want, got)
		}
	}
}

func TestBuildReportPriorityOrder(t *testing.T) {
	store := seedStore(t)
	report, err := analytics.BuildReport(context.Background(), store, time.Now())
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	// agn-strong: 4*4 + 1*2 = 18. followup: 2*5 = 10. split: 5 + 3 = 8.
	want := []string{"agn-strong", "followup", "split"}
	if len(report.Priority) != len(want) {
		t.Fatalf("expected %d priority entries, got %d", len(want), len(report.Priority))
	}
	for i, id := range want {
		if report.Priority[i].TransientID != id {
			t.Fatalf("priority[%d]: expected %s, got %s", i, id, report.Priority[i].TransientID)
		}
	}
}

func TestWriteTextIncludesSections(t *testing.T) {
	store := seedStore(t)
	report, err := analytics.BuildReport(context.Background(), store, time.Now())
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}

	var buf bytes.Buffer
	if err := report.WriteText(&buf); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Transients with votes: 3",
		"Vote distribution:",
		"Team consensus",
		"Follow-up priority:",
		"agn-strong",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestBuildReportEmptyStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenVotes(t, cfg)

	report, err := analytics.BuildReport(context.Background(), store, time.Now())
	if err != nil {
		t.Fatalf("BuildReport failed: %v", err)
	}
	if report.TotalTransients != 0 || report.TotalVotes != 0 || len(report.Consensus) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
