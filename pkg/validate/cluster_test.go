package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendvet/pkg/source"
)

func TestClusterItemsMergesNearDuplicates(t *testing.T) {
	items := []source.Item{
		item("a", "AI chatbots transform customer service", "businesses adopt AI chat", "reddit"),
		item("b", "AI chatbots are transforming customer service operations", "companies adopt AI chat systems", "news"),
	}

	clusters := ClusterItems(items, DefaultConfig())
	require.Len(t, clusters, 1)

	c := clusters[0]
	assert.Len(t, c.Members, 2)
	assert.Len(t, c.Sources, 2)
	assert.True(t, c.Sources["reddit"])
	assert.True(t, c.Sources["news"])
}

func TestClusterItemsCanonicalHasLongestTitle(t *testing.T) {
	items := []source.Item{
		item("short", "AI chatbots transform customer service", "businesses adopt AI chat", "reddit"),
		item("long", "AI chatbots are transforming customer service operations", "companies adopt AI chat systems", "news"),
	}

	clusters := ClusterItems(items, DefaultConfig())
	require.Len(t, clusters, 1)
	assert.Equal(t, "long", clusters[0].Canonical.ID)
}

func TestClusterItemsSeparatesUnrelated(t *testing.T) {
	items := []source.Item{
		item("a", "AI chatbots transform customer service", "businesses adopt AI chat", "reddit"),
		item("c", "Local bakery wins award", "small business recognition", "blog"),
	}

	clusters := ClusterItems(items, DefaultConfig())
	assert.Len(t, clusters, 2)
}

func TestClusterItemsThreshold(t *testing.T) {
	items := []source.Item{
		item("a", "email marketing conversion rates climb", "newsletters outperform social", "rss"),
		item("b", "email marketing conversion rates keep climbing", "newsletters beat social channels", "reddit"),
	}

	// A threshold above their similarity keeps them apart.
	strict := DefaultConfig()
	strict.SimilarityThreshold = 0.95
	assert.Len(t, ClusterItems(items, strict), 2)

	assert.Len(t, ClusterItems(items, DefaultConfig()), 1)
}

func TestClusterItemsEmptyInput(t *testing.T) {
	assert.Empty(t, ClusterItems(nil, DefaultConfig()))
}

func TestClusterItemsCreationOrderAndMaxSimilarity(t *testing.T) {
	items := []source.Item{
		item("a", "subscription fatigue hits streaming services hard", "consumers cancel subscriptions", "rss"),
		item("b", "subscription fatigue hits streaming services", "users cancel subscriptions", "reddit"),
		item("c", "Local bakery wins award", "small business recognition", "blog"),
	}

	clusters := ClusterItems(items, DefaultConfig())
	require.Len(t, clusters, 2)

	// Longest-title cluster is created first.
	assert.Equal(t, "a", clusters[0].Canonical.ID)
	assert.Equal(t, 1.0, clusters[0].MaxSimilarity)
	assert.Equal(t, "c", clusters[1].Canonical.ID)
}
