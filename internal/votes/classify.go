package votes

// Classification is the derived label for one transient.
type Classification struct {
	TransientID string
	Label       Category
	Confidence  float64
}

// Classify derives a label and confidence from a tally. The winning category
// is the first in Categories order to reach the maximum count; the label is
// only assigned when the winner meets its threshold, otherwise the transient
// stays Unclassified. Confidence is the winner's share of all votes and is
// reported even for unclassified tallies.
func Classify(tally Tally) (Category, float64) {
	winner := Categories[0]
	for _, category := range Categories[1:] {
		if tally.Count(category) > tally.Count(winner) {
			winner = category
		}
	}

	confidence := 0.0
	if total := tally.Total(); total > 0 {
		confidence = float64(tally.Count(winner)) / float64(total)
	}

	if tally.Count(winner) >= classificationThresholds[winner] {
		return winner, confidence
	}
	return CategoryUnclassified, confidence
}
