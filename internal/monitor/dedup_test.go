package monitor_test

import (
	"testing"
	"time"

	"skywatch/internal/feed"
	"skywatch/internal/monitor"
)

func detection(source, observation, status string, detected time.Time) feed.Detection {
	return feed.Detection{
		Source:      source,
		Observation: observation,
		Status:      status,
		Time:        detected,
	}
}

func TestSelectNewSteadyStatePreservesFeedOrder(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	detections := []feed.Detection{
		detection("a", "1", "", now),
		detection("b", "2", "processed", now),
		detection("c", "3", feed.StatusNew, now),
		detection("d", "4", "", now),
	}
	processed := map[string]struct{}{"a_1": {}}

	sel := monitor.SelectNew(detections, processed, now, 5, 30*24*time.Hour)
	if sel.Bootstrap {
		t.Fatal("non-empty ledger must not trigger bootstrap")
	}
	if len(sel.Backlog) != 0 {
		t.Fatalf("steady state must not produce a backlog, got %d", len(sel.Backlog))
	}
	if len(sel.Announce) != 2 || sel.Announce[0].Key() != "c_3" || sel.Announce[1].Key() != "d_4" {
		t.Fatalf("unexpected announce selection: %#v", sel.Announce)
	}
}

func TestSelectNewCapsBatch(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	var detections []feed.Detection
	for _, obs := range []string{"1", "2", "3", "4"} {
		detections = append(detections, detection("s", obs, feed.StatusNew, now))
	}
	processed := map[string]struct{}{"other_0": {}}

	sel := monitor.SelectNew(detections, processed, now, 2, 30*24*time.Hour)
	if len(sel.Announce) != 2 || sel.Announce[0].Key() != "s_1" || sel.Announce[1].Key() != "s_2" {
		t.Fatalf("expected first two rows, got %#v", sel.Announce)
	}
}

func TestSelectNewBootstrapPolicy(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * 24 * time.Hour)
	stale := now.Add(-45 * 24 * time.Hour)
	detections := []feed.Detection{
		detection("h", "1", feed.StatusNew, stale),
		detection("h", "2", feed.StatusNew, recent),
		detection("u", "1", "", recent),
		detection("u", "2", "", stale),
		detection("r", "1", "rejected", recent),
	}

	sel := monitor.SelectNew(detections, nil, now, 5, 30*24*time.Hour)
	if !sel.Bootstrap {
		t.Fatal("empty ledger must trigger bootstrap")
	}
	// Reviewed rows are recorded silently regardless of age.
	if len(sel.Backlog) != 2 {
		t.Fatalf("expected 2 backlog rows, got %d", len(sel.Backlog))
	}
	// Only the recent unreviewed row is announced.
	if len(sel.Announce) != 1 || sel.Announce[0].Key() != "u_1" {
		t.Fatalf("unexpected bootstrap announcements: %#v", sel.Announce)
	}
}
