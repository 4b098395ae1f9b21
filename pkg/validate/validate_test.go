package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendvet/pkg/source"
)

func TestValidateTrendsCrossSourceCorroboration(t *testing.T) {
	items := []source.Item{
		{
			ID:          "a",
			Source:      "reddit",
			Title:       "AI chatbots transform customer service",
			Description: "businesses adopt AI chat",
			Date:        "2025-06-02T09:00:00Z",
		},
		{
			ID:          "b",
			Source:      "news",
			Title:       "AI chatbots are transforming customer service operations",
			Description: "companies adopt AI chat systems",
			Date:        "2025-06-01T18:00:00Z",
		},
		{
			ID:          "c",
			Source:      "blog",
			Title:       "Local bakery wins award",
			Description: "small business recognition",
			Date:        "2025-06-03T12:00:00Z",
		},
	}

	trends := ValidateTrends(items, DefaultConfig())
	require.Len(t, trends, 2)

	// The corroborated trend sorts first regardless of raw score.
	chatbots := trends[0]
	assert.Equal(t, "validated-b", chatbots.ID)
	assert.Equal(t, "AI chatbots are transforming customer service operations", chatbots.Title)
	assert.Equal(t, 2, chatbots.SourceCount)
	assert.True(t, chatbots.IsValidated)
	assert.Len(t, chatbots.Sources, 2)
	assert.Equal(t, "2025-06-01T18:00:00Z", chatbots.FirstSeen)
	assert.Equal(t, "2025-06-02T09:00:00Z", chatbots.LastSeen)

	bakery := trends[1]
	assert.Equal(t, "validated-c", bakery.ID)
	assert.Equal(t, 1, bakery.SourceCount)
	assert.False(t, bakery.IsValidated)
}

func TestValidateTrendsMinSources(t *testing.T) {
	items := []source.Item{
		item("a", "referral programs drive signups", "word of mouth growth channels", "reddit"),
		item("b", "referral programs driving signups fast", "word of mouth growth channel wins", "rss"),
	}

	cfg := DefaultConfig()
	cfg.MinSources = 3
	trends := ValidateTrends(items, cfg)
	require.Len(t, trends, 1)
	assert.False(t, trends[0].IsValidated)

	trends = ValidateTrends(items, DefaultConfig())
	require.Len(t, trends, 1)
	assert.True(t, trends[0].IsValidated)
}

func TestValidateTrendsScoreBounds(t *testing.T) {
	items := []source.Item{
		item("a", "short form video dominates marketing budgets", "tiktok reels spend grows", "reddit"),
		item("b", "short form video dominating marketing budgets", "tiktok reels spending grows", "rss"),
		item("c", "short form video now dominates marketing budgets everywhere", "tiktok reels spend keeps growing", "youtube"),
		item("d", "Local bakery wins award", "small business recognition", "blog"),
	}

	for _, trend := range ValidateTrends(items, DefaultConfig()) {
		assert.GreaterOrEqual(t, trend.ValidationScore, 0)
		assert.LessOrEqual(t, trend.ValidationScore, 100)
		for _, m := range trend.Sources {
			assert.GreaterOrEqual(t, m.MatchScore, 0.0)
			assert.LessOrEqual(t, m.MatchScore, 100.0)
		}
	}
}

func TestValidateTrendsSortOrder(t *testing.T) {
	items := []source.Item{
		item("a1", "loyalty apps boost repeat purchases", "retention spend pays off", "reddit"),
		item("a2", "loyalty apps boosting repeat purchases", "retention spending pays off", "rss"),
		item("b1", "quantum computing milestone reached", "qubit counts rise again", "hackernews"),
		item("c1", "podcast advertising revenue surges", "audio ad budgets expand", "youtube"),
	}

	trends := ValidateTrends(items, DefaultConfig())
	require.NotEmpty(t, trends)

	for i := 1; i < len(trends); i++ {
		prev, cur := trends[i-1], trends[i]
		if prev.IsValidated == cur.IsValidated {
			assert.GreaterOrEqual(t, prev.ValidationScore, cur.ValidationScore)
		} else {
			assert.True(t, prev.IsValidated)
		}
	}
}

func TestValidateTrendsMetadataMerge(t *testing.T) {
	// Members are visited longest title first, so the shorter item's
	// metadata overwrites on key collision.
	long := item("long", "customer churn prediction models gain adoption widely", "ml models flag churn risk", "rss")
	long.Metadata = map[string]any{"x": 1}

	short := item("short", "customer churn prediction models gain adoption", "ml model flags churn risks", "reddit")
	short.Metadata = map[string]any{"x": 2, "y": 3}

	trends := ValidateTrends([]source.Item{long, short}, DefaultConfig())
	require.Len(t, trends, 1)

	assert.Equal(t, map[string]any{"x": 2, "y": 3}, trends[0].CombinedMetadata)
}

func TestValidateTrendsIntentPriority(t *testing.T) {
	a := item("a", "creators launch paid community platforms", "membership tools for creators", "reddit")
	a.Intent = source.IntentTrend
	b := item("b", "creators launching paid community platforms", "membership tooling for creators", "rss")
	b.Intent = source.IntentTrend
	c := item("c", "creators now launch paid community platforms too", "membership tools built for creators", "youtube")
	c.Intent = source.IntentProduct

	trends := ValidateTrends([]source.Item{a, b, c}, DefaultConfig())
	require.Len(t, trends, 1)

	// One product tag beats two trend tags.
	assert.Equal(t, source.IntentProduct, trends[0].Intent)
}

func TestValidateTrendsIntentDefault(t *testing.T) {
	trends := ValidateTrends([]source.Item{
		item("a", "Local bakery wins award", "small business recognition", "blog"),
	}, DefaultConfig())
	require.Len(t, trends, 1)
	assert.Equal(t, source.IntentTrend, trends[0].Intent)
}

func TestValidateTrendsZeroConfig(t *testing.T) {
	items := []source.Item{
		item("a", "referral programs drive signups", "word of mouth growth channels", "reddit"),
		item("b", "referral programs driving signups fast", "word of mouth growth channel wins", "rss"),
	}

	// The zero Config falls back to the defaults instead of clustering
	// everything at threshold 0 or requiring 0 sources.
	trends := ValidateTrends(items, Config{})
	require.Len(t, trends, 1)
	assert.True(t, trends[0].IsValidated)
	assert.Equal(t, 2, trends[0].SourceCount)
}

func TestValidateTrendsEmptyInput(t *testing.T) {
	assert.Empty(t, ValidateTrends(nil, DefaultConfig()))
}

func TestComputeStatsEmpty(t *testing.T) {
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestComputeStats(t *testing.T) {
	trends := []ValidatedTrend{
		{IsValidated: true, SourceCount: 3, ValidationScore: 90},
		{IsValidated: false, SourceCount: 1, ValidationScore: 40},
	}

	stats := ComputeStats(trends)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Validated)
	assert.Equal(t, 1, stats.Unvalidated)
	assert.Equal(t, 50, stats.ValidationRate)
	assert.Equal(t, 2.0, stats.AvgSourceCount)
	assert.Equal(t, 65, stats.AvgValidationScore)
}

func TestValidatedOnly(t *testing.T) {
	trends := []ValidatedTrend{
		{ID: "v", IsValidated: true},
		{ID: "u", IsValidated: false},
	}

	got := ValidatedOnly(trends)
	require.Len(t, got, 1)
	assert.Equal(t, "v", got[0].ID)
}
