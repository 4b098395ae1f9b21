package validate

import (
	"sort"

	"trendvet/pkg/source"
)

// Cluster groups items judged to describe the same underlying trend.
// Canonical is fixed at creation and never reconsidered, even if a
// more central item joins later; downstream consumers key off its ID.
type Cluster struct {
	Canonical     source.Item
	Members       []source.Item
	Sources       map[source.SourceType]bool
	MaxSimilarity float64
}

// ClusterItems greedily assigns each item to the best existing cluster
// whose canonical item it matches at or above the similarity threshold,
// or starts a new cluster. Items are processed in descending title
// length order so that longer, more descriptive titles become the
// canonical representatives. Clusters are returned in creation order.
func ClusterItems(items []source.Item, cfg Config) []*Cluster {
	cfg = cfg.withDefaults()

	sorted := make([]source.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Title) > len(sorted[j].Title)
	})

	var clusters []*Cluster

	// Guards against reprocessing; redundant for a single pass but
	// kept as an explicit invariant.
	processed := make(map[string]bool, len(sorted))

	for _, item := range sorted {
		if processed[item.ID] {
			continue
		}
		processed[item.ID] = true

		var best *Cluster
		bestSim := 0.0

		// Scan in creation order; strict > keeps the earliest cluster
		// on ties.
		for _, c := range clusters {
			sim := Similarity(item, c.Canonical, cfg)
			if sim >= cfg.SimilarityThreshold && sim > bestSim {
				best = c
				bestSim = sim
			}
		}

		if best != nil {
			best.Members = append(best.Members, item)
			best.Sources[item.Source] = true
			if bestSim > best.MaxSimilarity {
				best.MaxSimilarity = bestSim
			}
			continue
		}

		clusters = append(clusters, &Cluster{
			Canonical:     item,
			Members:       []source.Item{item},
			Sources:       map[source.SourceType]bool{item.Source: true},
			MaxSimilarity: 1,
		})
	}

	return clusters
}
