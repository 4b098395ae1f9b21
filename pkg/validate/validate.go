package validate

import (
	"math"
	"sort"

	"trendvet/pkg/source"
)

// Defaults for Config fields left at their zero value.
const (
	DefaultMinSources          = 2
	DefaultSimilarityThreshold = 0.35
	DefaultTitleWeight         = 0.6
	DefaultDescriptionWeight   = 0.4
)

// Config tunes the validation pipeline. The zero value is usable:
// zero fields are replaced by the defaults above.
type Config struct {
	MinSources          int     `json:"min_sources"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	TitleWeight         float64 `json:"title_weight"`
	DescriptionWeight   float64 `json:"description_weight"`
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		MinSources:          DefaultMinSources,
		SimilarityThreshold: DefaultSimilarityThreshold,
		TitleWeight:         DefaultTitleWeight,
		DescriptionWeight:   DefaultDescriptionWeight,
	}
}

func (c Config) withDefaults() Config {
	if c.MinSources < 1 {
		c.MinSources = DefaultMinSources
	}
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if c.TitleWeight == 0 {
		c.TitleWeight = DefaultTitleWeight
	}
	if c.DescriptionWeight == 0 {
		c.DescriptionWeight = DefaultDescriptionWeight
	}
	return c
}

// SourceMention is one cluster member's contribution to a validated
// trend, with its similarity to the canonical item scaled to 0-100.
type SourceMention struct {
	Source      source.SourceType `json:"source"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	URL         string            `json:"url,omitempty"`
	Date        string            `json:"date,omitempty"`
	MatchScore  float64           `json:"match_score"`
}

// ValidatedTrend is the pipeline output: one candidate trend with its
// cross-source corroboration evidence and confidence score.
type ValidatedTrend struct {
	ID               string          `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Sources          []SourceMention `json:"sources"`
	SourceCount      int             `json:"source_count"`
	ValidationScore  int             `json:"validation_score"`
	IsValidated      bool            `json:"is_validated"`
	CombinedMetadata map[string]any  `json:"combined_metadata,omitempty"`
	FirstSeen        string          `json:"first_seen,omitempty"`
	LastSeen         string          `json:"last_seen,omitempty"`
	Intent           source.Intent   `json:"intent"`
}

// intentPriority orders intent tags by business value: a single
// product-tagged mention outranks any number of generic trend tags.
var intentPriority = []source.Intent{
	source.IntentProduct,
	source.IntentUseCase,
	source.IntentPainPoint,
	source.IntentOutcome,
	source.IntentPersona,
	source.IntentIndustry,
	source.IntentOpportunity,
	source.IntentLocal,
	source.IntentCompetitor,
}

// ValidateTrends clusters raw items and converts each cluster into a
// ValidatedTrend. A trend is validated when its cluster spans at least
// cfg.MinSources distinct sources. Results are sorted validated-first,
// then by validation score descending.
func ValidateTrends(items []source.Item, cfg Config) []ValidatedTrend {
	cfg = cfg.withDefaults()

	clusters := ClusterItems(items, cfg)

	trends := make([]ValidatedTrend, 0, len(clusters))
	for _, c := range clusters {
		trends = append(trends, buildTrend(c, cfg))
	}

	sort.SliceStable(trends, func(i, j int) bool {
		if trends[i].IsValidated != trends[j].IsValidated {
			return trends[i].IsValidated
		}
		return trends[i].ValidationScore > trends[j].ValidationScore
	})

	return trends
}

func buildTrend(c *Cluster, cfg Config) ValidatedTrend {
	sourceCount := len(c.Sources)

	mentions := make([]SourceMention, 0, len(c.Members))
	totalMatch := 0.0
	combined := make(map[string]any)
	var dates []string
	intentCounts := make(map[source.Intent]int)

	for _, m := range c.Members {
		// Recomputed against the canonical rather than cached from
		// clustering, so mentions and clustering share one metric.
		matchScore := Similarity(m, c.Canonical, cfg) * 100
		totalMatch += matchScore

		mentions = append(mentions, SourceMention{
			Source:      m.Source,
			Title:       m.Title,
			Description: m.Description,
			URL:         m.URL,
			Date:        m.Date,
			MatchScore:  matchScore,
		})

		for k, v := range m.Metadata {
			combined[k] = v
		}
		if m.Date != "" {
			dates = append(dates, m.Date)
		}
		if m.Intent != "" {
			intentCounts[m.Intent]++
		}
	}

	avgMatch := totalMatch / float64(len(c.Members))

	sourceBonus := float64(sourceCount-1) * 20
	if sourceBonus > 50 {
		sourceBonus = 50
	}

	score := math.Round(avgMatch + sourceBonus)
	if score > 100 {
		score = 100
	}

	trend := ValidatedTrend{
		ID:              "validated-" + c.Canonical.ID,
		Title:           c.Canonical.Title,
		Description:     c.Canonical.Description,
		Sources:         mentions,
		SourceCount:     sourceCount,
		ValidationScore: int(score),
		IsValidated:     sourceCount >= cfg.MinSources,
		Intent:          dominantIntent(intentCounts),
	}

	if len(combined) > 0 {
		trend.CombinedMetadata = combined
	}

	if len(dates) > 0 {
		// Lexicographic order; dates must be RFC3339 or an equally
		// sortable string format.
		sort.Strings(dates)
		trend.FirstSeen = dates[0]
		trend.LastSeen = dates[len(dates)-1]
	}

	return trend
}

// dominantIntent picks the highest-priority intent present among the
// members, regardless of count magnitude, defaulting to trend.
func dominantIntent(counts map[source.Intent]int) source.Intent {
	for _, intent := range intentPriority {
		if counts[intent] > 0 {
			return intent
		}
	}
	return source.IntentTrend
}
