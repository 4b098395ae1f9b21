package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trendvet/pkg/source"
)

func item(id, title, desc string, src source.SourceType) source.Item {
	return source.Item{
		ID:          id,
		Title:       title,
		Description: desc,
		Source:      src,
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	a := item("a", "AI chatbots transform customer service", "businesses adopt AI chat", "reddit")
	b := item("b", "AI chatbots are transforming customer service operations", "companies adopt AI chat systems", "news")

	cfg := DefaultConfig()
	assert.Equal(t, Similarity(a, b, cfg), Similarity(b, a, cfg))
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]source.Item{
		{
			item("1", "local coffee shops embrace loyalty apps", "retention push", "rss"),
			item("2", "coffee shops launch loyalty app programs", "customer retention", "reddit"),
		},
		{
			item("3", "video marketing budgets grow", "short form video spend", "rss"),
			item("4", "quantum computing milestone", "qubit counts rise", "hackernews"),
		},
		{
			item("5", "", "", "rss"),
			item("6", "anything at all", "words here", "reddit"),
		},
	}

	cfg := DefaultConfig()
	for _, p := range pairs {
		sim := Similarity(p[0], p[1], cfg)
		assert.GreaterOrEqual(t, sim, 0.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestSimilarityIdentical(t *testing.T) {
	a := item("a", "influencer marketing spend doubles", "brands shift budgets to creators", "rss")
	assert.Equal(t, 1.0, Similarity(a, a, DefaultConfig()))
}

func TestSimilarityEmptyFields(t *testing.T) {
	empty := item("e", "", "", "rss")
	other := item("o", "some real trend title", "with a description", "reddit")

	cfg := DefaultConfig()
	assert.Equal(t, 0.0, Similarity(empty, other, cfg))
	assert.Equal(t, 0.0, Similarity(empty, empty, cfg))
}

func TestSimilarityWeightedComponents(t *testing.T) {
	a := item("a", "AI chatbots transform customer service", "businesses adopt AI chat", "reddit")
	b := item("b", "AI chatbots are transforming customer service operations", "companies adopt AI chat systems", "news")

	// titleSim 3/6, descSim 2/5, combinedSim 5/11:
	// 0.5*0.6 + 0.4*0.4 + (5/11)*0.2
	assert.InDelta(t, 0.5509, Similarity(a, b, DefaultConfig()), 0.001)
}

func TestSimilarityCrossFieldBonus(t *testing.T) {
	// No shared title or description tokens alone would score low,
	// but the combined sets overlap.
	a := item("a", "loyalty programs", "coffee retention apps", "rss")
	b := item("b", "retention apps", "loyalty programs coffee", "reddit")

	sim := Similarity(a, b, DefaultConfig())
	assert.Greater(t, sim, 0.0)
}
