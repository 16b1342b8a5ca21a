package analytics

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"skywatch/internal/votes"
)

// ExportDetailed writes one CSV row per voted transient, ordered by priority
// score descending so the most actionable targets lead the file.
func ExportDetailed(ctx context.Context, store *votes.Store, w io.Writer) error {
	queue, err := store.PriorityQueue(ctx)
	if err != nil {
		return fmt.Errorf("load priority queue: %w", err)
	}

	writer := csv.NewWriter(w)
	header := []string{
		"transient_id", "agn_votes", "interesting_votes", "star_votes", "junk_votes",
		"total_votes", "classification", "confidence", "priority_score",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}

	for _, ranked := range queue {
		label := votes.CategoryUnclassified
		confidence := 0.0
		if c, err := store.ClassificationFor(ctx, ranked.TransientID); err == nil {
			label = c.Label
			confidence = c.Confidence
		}
		row := []string{
			ranked.TransientID,
			strconv.Itoa(ranked.Tally.AGN),
			strconv.Itoa(ranked.Tally.Interesting),
			strconv.Itoa(ranked.Tally.Star),
			strconv.Itoa(ranked.Tally.Junk),
			strconv.Itoa(ranked.Tally.Total()),
			string(label),
			strconv.FormatFloat(confidence, 'f', 3, 64),
			strconv.Itoa(ranked.Score),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write export row %s: %w", ranked.TransientID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}
