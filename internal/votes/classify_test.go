package votes_test

import (
	"testing"

	"skywatch/internal/votes"
)

func TestClassifyThresholds(t *testing.T) {
	tests := []struct {
		name           string
		tally          votes.Tally
		wantLabel      votes.Category
		wantConfidence float64
	}{
		{
			name:           "agn at threshold",
			tally:          votes.Tally{AGN: 3},
			wantLabel:      votes.CategoryAGN,
			wantConfidence: 1.0,
		},
		{
			name:           "agn below threshold",
			tally:          votes.Tally{AGN: 2},
			wantLabel:      votes.CategoryUnclassified,
			wantConfidence: 1.0,
		},
		{
			name:           "interesting at threshold",
			tally:          votes.Tally{Interesting: 2},
			wantLabel:      votes.CategoryInteresting,
			wantConfidence: 1.0,
		},
		{
			name:           "star at threshold",
			tally:          votes.Tally{Star: 2, Junk: 1},
			wantLabel:      votes.CategoryStar,
			wantConfidence: 2.0 / 3.0,
		},
		{
			name:           "junk below threshold",
			tally:          votes.Tally{Junk: 2},
			wantLabel:      votes.CategoryUnclassified,
			wantConfidence: 1.0,
		},
		{
			name:           "no votes",
			tally:          votes.Tally{},
			wantLabel:      votes.CategoryUnclassified,
			wantConfidence: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			label, confidence := votes.Classify(tc.tally)
			if label != tc.wantLabel {
				t.Fatalf("expected label %s, got %s", tc.wantLabel, label)
			}
			if confidence != tc.wantConfidence {
				t.Fatalf("expected confidence %v, got %v", tc.wantConfidence, confidence)
			}
		})
	}
}

func TestClassifyTieBreakUsesCategoryOrder(t *testing.T) {
	// AGN and Star tie at 3; AGN wins because it precedes Star in the fixed
	// enumeration order.
	label, confidence := votes.Classify(votes.Tally{AGN: 3, Star: 3})
	if label != votes.CategoryAGN {
		t.Fatalf("expected AGN to win the tie, got %s", label)
	}
	if confidence != 0.5 {
		t.Fatalf("expected confidence 0.5, got %v", confidence)
	}

	// Interesting and Junk tie at 2: Interesting precedes Junk and meets its
	// threshold, so the tally classifies.
	label, _ = votes.Classify(votes.Tally{Interesting: 2, Junk: 2})
	if label != votes.CategoryInteresting {
		t.Fatalf("expected Interesting to win the tie, got %s", label)
	}
}

func TestConfidenceIndependentOfLabel(t *testing.T) {
	// Below-threshold winner still reports its vote share.
	label, confidence := votes.Classify(votes.Tally{Junk: 2, Star: 1})
	if label != votes.CategoryUnclassified {
		t.Fatalf("expected Unclassified, got %s", label)
	}
	if confidence != 2.0/3.0 {
		t.Fatalf("expected confidence 2/3, got %v", confidence)
	}
}

func TestPriorityScoreWeights(t *testing.T) {
	tally := votes.Tally{AGN: 1, Interesting: 1, Star: 1, Junk: 1}
	if got := tally.PriorityScore(); got != 5+4+3+2 {
		t.Fatalf("expected score 14, got %d", got)
	}
}

func TestTallyFromReactionsIgnoresUnknownSymbols(t *testing.T) {
	tally := votes.TallyFromReactions(map[string]int{
		"fire":        2,
		"milky_way":   1,
		"thumbsup":    7,
		"star":        0,
		"wastebasket": 3,
	})
	want := votes.Tally{AGN: 1, Interesting: 2, Junk: 3}
	if tally != want {
		t.Fatalf("expected %+v, got %+v", want, tally)
	}
}
