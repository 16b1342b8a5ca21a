package ledger

import (
	"time"

	"skywatch/internal/feed"
)

// Entry is one announced (or bootstrap-recorded) detection in the processed
// ledger. Entries are append-only; the store never mutates them after write.
type Entry struct {
	Source        string
	Observation   string
	RA            float64
	Dec           float64
	Field         string
	Time          time.Time
	TestStatistic float64
	Status        string
	ProcessedAt   time.Time
}

// Key returns the identity key shared with the detection feed.
func (e Entry) Key() string {
	return e.Source + "_" + e.Observation
}

// EntryFromDetection builds a ledger entry for a detection selected at now.
func EntryFromDetection(d feed.Detection, now time.Time) Entry {
	return Entry{
		Source:        d.Source,
		Observation:   d.Observation,
		RA:            d.RA,
		Dec:           d.Dec,
		Field:         d.Field,
		Time:          d.Time,
		TestStatistic: d.TestStatistic,
		Status:        d.Status,
		ProcessedAt:   now.UTC(),
	}
}
