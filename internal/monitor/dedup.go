package monitor

import (
	"time"

	"skywatch/internal/feed"
)

// Selection is the outcome of deduplicating one feed snapshot against the
// processed ledger.
type Selection struct {
	// Announce holds detections to announce this run, in feed order, capped
	// at the configured batch size.
	Announce []feed.Detection
	// Backlog holds historical reviewed detections recorded without
	// announcement. It is only populated on the bootstrap run.
	Backlog []feed.Detection
	// Bootstrap reports whether this selection ran against an empty ledger.
	Bootstrap bool
}

// SelectNew partitions the feed into detections to announce and detections to
// silently record, given the set of already-processed identity keys.
//
// Steady state announces every unprocessed row whose status permits
// announcement, oldest feed position first, up to batchSize. An empty key set
// switches to the bootstrap policy: only unreviewed rows detected within
// bootstrapWindow of now are announced, while every historical row already
// marked reviewed is recorded so it can never be announced later.
func SelectNew(detections []feed.Detection, processed map[string]struct{}, now time.Time, batchSize int, bootstrapWindow time.Duration) Selection {
	if batchSize <= 0 {
		batchSize = 1
	}

	if len(processed) > 0 {
		sel := Selection{}
		for _, d := range detections {
			if len(sel.Announce) >= batchSize {
				break
			}
			if !d.EligibleStatus() {
				continue
			}
			if _, seen := processed[d.Key()]; seen {
				continue
			}
			sel.Announce = append(sel.Announce, d)
		}
		return sel
	}

	sel := Selection{Bootstrap: true}
	cutoff := now.Add(-bootstrapWindow)
	for _, d := range detections {
		switch {
		case d.Status == feed.StatusNew:
			sel.Backlog = append(sel.Backlog, d)
		case d.Status == "" && d.Time.After(cutoff):
			if len(sel.Announce) < batchSize {
				sel.Announce = append(sel.Announce, d)
			}
		}
	}
	return sel
}
