package validate

import (
	"trendvet/pkg/source"
)

// combinedBonusWeight scales the shared-vocabulary bonus added on top
// of the weighted title/description similarity.
const combinedBonusWeight = 0.2

// Similarity scores how likely two items describe the same trend,
// in [0, 1]. Title overlap weighs more than description overlap
// because titles are short and higher-signal; a bonus on the combined
// token sets rewards vocabulary shared across the title/description
// boundary.
func Similarity(a, b source.Item, cfg Config) float64 {
	cfg = cfg.withDefaults()

	titleA := tokenSet(a.Title)
	titleB := tokenSet(b.Title)
	descA := tokenSet(a.Description)
	descB := tokenSet(b.Description)

	titleSim := jaccard(titleA, titleB)
	descSim := jaccard(descA, descB)

	combinedA := unionSet(titleA, descA)
	combinedB := unionSet(titleB, descB)
	combinedSim := jaccard(combinedA, combinedB)

	weighted := titleSim*cfg.TitleWeight + descSim*cfg.DescriptionWeight
	bonus := combinedSim * combinedBonusWeight

	score := weighted + bonus
	if score > 1 {
		score = 1
	}
	return score
}

// jaccard returns |A intersection B| / |A union B|. Comparisons
// against an empty set score 0, not NaN.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for t := range a {
		if b[t] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func unionSet(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for t := range a {
		out[t] = true
	}
	for t := range b {
		out[t] = true
	}
	return out
}
