package source

import (
	"context"
	"time"
)

// SourceType identifies which platform an item came from.
type SourceType string

const (
	SourceRSS        SourceType = "rss"
	SourceReddit     SourceType = "reddit"
	SourceHackerNews SourceType = "hackernews"
	SourceYouTube    SourceType = "youtube"
)

// Intent classifies the kind of discovery query that produced an item.
type Intent string

const (
	IntentProduct     Intent = "product"
	IntentIndustry    Intent = "industry"
	IntentPainPoint   Intent = "pain_point"
	IntentOpportunity Intent = "opportunity"
	IntentTrend       Intent = "trend"
	IntentLocal       Intent = "local"
	IntentCompetitor  Intent = "competitor"
	IntentUseCase     Intent = "use_case"
	IntentOutcome     Intent = "outcome"
	IntentPersona     Intent = "persona"
)

// Item is the standardized candidate-trend model for all sources.
// Date is the published timestamp as an RFC3339 string so that
// lexicographic order matches chronological order. It may be empty
// when the source provides no timestamp.
type Item struct {
	ID           string         `json:"id" db:"id"`
	Source       SourceType     `json:"source" db:"source"`
	ExternalID   string         `json:"external_id" db:"external_id"`
	Title        string         `json:"title" db:"title"`
	Description  string         `json:"description" db:"description"`
	URL          string         `json:"url" db:"url"`
	Date         string         `json:"date,omitempty" db:"date"`
	Intent       Intent         `json:"intent,omitempty" db:"intent"`
	Metadata     map[string]any `json:"metadata,omitempty" db:"-"`
	CollectedAt  time.Time      `json:"collected_at" db:"collected_at"`
	MetadataJSON string         `json:"-" db:"metadata"`
}

// Source is the interface every collector must implement.
type Source interface {
	Name() SourceType
	Collect(ctx context.Context) ([]Item, error)
}

// AllSourceTypes returns all known source types.
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceRSS,
		SourceReddit,
		SourceHackerNews,
		SourceYouTube,
	}
}
