package analytics

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"skywatch/internal/votes"
)

// consensusMinVotes is the participation floor before a majority counts as
// team consensus.
const consensusMinVotes = 3

// ConsensusEntry marks a transient where a majority of at least
// consensusMinVotes votes agrees on one category.
type ConsensusEntry struct {
	TransientID string
	Category    votes.Category
	Votes       int
	Total       int
}

// Report is a point-in-time summary of the voting state.
type Report struct {
	GeneratedAt          time.Time
	TotalTransients      int
	TotalVotes           int
	Distribution         map[votes.Category]int
	MostVoted            []votes.Record
	Consensus            []ConsensusEntry
	ClassificationCounts map[votes.Category]int
	ConfidenceByLabel    map[votes.Category]float64
	AverageConfidence    float64
	Priority             []votes.Ranked
}

// BuildReport assembles a report from the current voting store contents.
func BuildReport(ctx context.Context, store *votes.Store, now time.Time) (*Report, error) {
	records, err := store.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vote records: %w", err)
	}
	classifications, err := store.Classifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("load classifications: %w", err)
	}
	priority, err := store.TopTransients(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("load priority queue: %w", err)
	}

	report := &Report{
		GeneratedAt:          now.UTC(),
		TotalTransients:      len(records),
		Distribution:         make(map[votes.Category]int, len(votes.Categories)),
		ClassificationCounts: make(map[votes.Category]int),
		Priority:             priority,
	}

	for _, record := range records {
		report.TotalVotes += record.Tally.Total()
		for _, category := range votes.Categories {
			report.Distribution[category] += record.Tally.Count(category)
		}
		if entry, ok := consensusFor(record); ok {
			report.Consensus = append(report.Consensus, entry)
		}
	}

	report.MostVoted = topVoted(records, 5)

	var confidenceSum float64
	confidenceSums := make(map[votes.Category]float64)
	for _, c := range classifications {
		report.ClassificationCounts[c.Label]++
		confidenceSums[c.Label] += c.Confidence
		confidenceSum += c.Confidence
	}
	report.ConfidenceByLabel = make(map[votes.Category]float64, len(confidenceSums))
	for label, sum := range confidenceSums {
		report.ConfidenceByLabel[label] = sum / float64(report.ClassificationCounts[label])
	}
	if len(classifications) > 0 {
		report.AverageConfidence = confidenceSum / float64(len(classifications))
	}

	return report, nil
}

// consensusFor reports whether one category holds a strict majority of a
// sufficiently voted tally.
func consensusFor(record votes.Record) (ConsensusEntry, bool) {
	total := record.Tally.Total()
	if total < consensusMinVotes {
		return ConsensusEntry{}, false
	}
	for _, category := range votes.Categories {
		count := record.Tally.Count(category)
		if count*2 > total {
			return ConsensusEntry{
				TransientID: record.TransientID,
				Category:    category,
				Votes:       count,
				Total:       total,
			}, true
		}
	}
	return ConsensusEntry{}, false
}

// topVoted returns up to n records ordered by total votes descending, ties
// broken by ascending identifier.
func topVoted(records []votes.Record, n int) []votes.Record {
	sorted := make([]votes.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		ti, tj := sorted[i].Tally.Total(), sorted[j].Tally.Total()
		if ti != tj {
			return ti > tj
		}
		return sorted[i].TransientID < sorted[j].TransientID
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// WriteText renders the report for terminal output. Numbers are formatted
// with locale-aware grouping so large vote totals stay readable.
func (r *Report) WriteText(w io.Writer) error {
	p := message.NewPrinter(language.English)

	if _, err := p.Fprintf(w, "Voting Report (generated %s)\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC")); err != nil {
		return err
	}
	p.Fprintf(w, "\nTransients with votes: %d\n", r.TotalTransients)
	p.Fprintf(w, "Total votes cast:      %d\n", r.TotalVotes)

	p.Fprintf(w, "\nVote distribution:\n")
	for _, category := range votes.Categories {
		count := r.Distribution[category]
		percent := 0.0
		if r.TotalVotes > 0 {
			percent = float64(count) / float64(r.TotalVotes) * 100
		}
		p.Fprintf(w, "  %-12s %d (%.1f%%)\n", category, count, percent)
	}

	if len(r.MostVoted) > 0 {
		p.Fprintf(w, "\nMost voted transients:\n")
		for _, record := range r.MostVoted {
			p.Fprintf(w, "  %-24s %d votes\n", record.TransientID, record.Tally.Total())
		}
	}

	if len(r.Consensus) > 0 {
		p.Fprintf(w, "\nTeam consensus (majority of %d+ votes):\n", consensusMinVotes)
		for _, entry := range r.Consensus {
			p.Fprintf(w, "  %-24s %s (%d of %d)\n", entry.TransientID, entry.Category, entry.Votes, entry.Total)
		}
	}

	p.Fprintf(w, "\nClassifications:\n")
	for _, category := range append(append([]votes.Category{}, votes.Categories...), votes.CategoryUnclassified) {
		if count, ok := r.ClassificationCounts[category]; ok {
			p.Fprintf(w, "  %-12s %d (avg confidence %.2f)\n", category, count, r.ConfidenceByLabel[category])
		}
	}
	p.Fprintf(w, "Average confidence: %.2f\n", r.AverageConfidence)

	if len(r.Priority) > 0 {
		p.Fprintf(w, "\nFollow-up priority:\n")
		for i, ranked := range r.Priority {
			p.Fprintf(w, "  %2d. %-24s score %d\n", i+1, ranked.TransientID, ranked.Score)
		}
	}
	return nil
}
