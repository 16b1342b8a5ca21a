package votes

// Category is one of the fixed vote categories team members assign by
// reacting to an announcement.
type Category string

const (
	CategoryAGN          Category = "AGN"
	CategoryInteresting  Category = "Interesting"
	CategoryStar         Category = "Star"
	CategoryJunk         Category = "Junk"
	CategoryUnclassified Category = "Unclassified"
)

// Categories enumerates the votable categories. The order is significant: it
// is the tie-break precedence used by Classify.
var Categories = []Category{CategoryAGN, CategoryInteresting, CategoryStar, CategoryJunk}

// classificationThresholds holds the minimum winning vote count per category
// for a transient to be classified rather than left Unclassified.
var classificationThresholds = map[Category]int{
	CategoryAGN:         3,
	CategoryInteresting: 2,
	CategoryStar:        2,
	CategoryJunk:        3,
}

// priorityWeights rank follow-up interest. These deliberately differ from the
// classification thresholds; the two orderings serve different purposes and
// are not to be unified.
var priorityWeights = map[Category]int{
	CategoryInteresting: 5,
	CategoryAGN:         4,
	CategoryStar:        3,
	CategoryJunk:        2,
}

// reactionSymbols maps chat reaction names to vote categories. Reactions
// outside this map never count as votes.
var reactionSymbols = map[string]Category{
	"milky_way":   CategoryAGN,
	"fire":        CategoryInteresting,
	"star":        CategoryStar,
	"wastebasket": CategoryJunk,
}

// ReactionSymbols returns a copy of the reaction-name to category mapping.
func ReactionSymbols() map[string]Category {
	out := make(map[string]Category, len(reactionSymbols))
	for symbol, category := range reactionSymbols {
		out[symbol] = category
	}
	return out
}

// Tally holds the absolute vote counts for one transient. Counts mirror the
// live reaction counts on the announcement message, so updates overwrite
// rather than accumulate.
type Tally struct {
	AGN         int
	Interesting int
	Star        int
	Junk        int
}

// TallyFromReactions builds a tally from a reaction-name snapshot. Missing
// symbols count as zero; unknown symbols are ignored.
func TallyFromReactions(counts map[string]int) Tally {
	var tally Tally
	for symbol, count := range counts {
		category, ok := reactionSymbols[symbol]
		if !ok || count <= 0 {
			continue
		}
		tally = tally.withCount(category, count)
	}
	return tally
}

func (t Tally) withCount(category Category, count int) Tally {
	switch category {
	case CategoryAGN:
		t.AGN = count
	case CategoryInteresting:
		t.Interesting = count
	case CategoryStar:
		t.Star = count
	case CategoryJunk:
		t.Junk = count
	}
	return t
}

// Count returns the votes recorded for a category.
func (t Tally) Count(category Category) int {
	switch category {
	case CategoryAGN:
		return t.AGN
	case CategoryInteresting:
		return t.Interesting
	case CategoryStar:
		return t.Star
	case CategoryJunk:
		return t.Junk
	}
	return 0
}

// Total returns the sum over all categories.
func (t Tally) Total() int {
	return t.AGN + t.Interesting + t.Star + t.Junk
}

// PriorityScore weights the tally for follow-up ranking.
func (t Tally) PriorityScore() int {
	score := 0
	for _, category := range Categories {
		score += t.Count(category) * priorityWeights[category]
	}
	return score
}
