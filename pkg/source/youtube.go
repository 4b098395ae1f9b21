package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Query is a YouTube search query tagged with the intent of the search.
type Query struct {
	Text   string
	Intent Intent
}

// YouTube collects candidate trend items from YouTube search.
type YouTube struct {
	client  *http.Client
	apiKey  string
	queries []Query
}

// NewYouTube creates a new YouTube collector.
func NewYouTube(apiKey string, queries []Query) *YouTube {
	if len(queries) == 0 {
		queries = []Query{
			{Text: "marketing trends", Intent: IntentTrend},
			{Text: "small business marketing", Intent: IntentPainPoint},
			{Text: "new marketing tools", Intent: IntentProduct},
		}
	}
	return &YouTube{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		queries: queries,
	}
}

func (y *YouTube) Name() SourceType { return SourceYouTube }

func (y *YouTube) Collect(ctx context.Context) ([]Item, error) {
	if y.apiKey == "" {
		return nil, fmt.Errorf("youtube: API key required (set YOUTUBE_API_KEY)")
	}

	var allItems []Item
	for _, query := range y.queries {
		items, err := y.search(ctx, query)
		if err != nil {
			fmt.Printf("  youtube query %q error: %v\n", query.Text, err)
			continue
		}
		allItems = append(allItems, items...)
	}

	return allItems, nil
}

func (y *YouTube) search(ctx context.Context, query Query) ([]Item, error) {
	publishedAfter := time.Now().Add(-24 * time.Hour).Format(time.RFC3339)

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query.Text)
	params.Set("type", "video")
	params.Set("order", "viewCount")
	params.Set("publishedAfter", publishedAfter)
	params.Set("maxResults", "20")
	params.Set("key", y.apiKey)

	reqURL := "https://www.googleapis.com/youtube/v3/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create youtube search request: %w", err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch youtube search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search status %d", resp.StatusCode)
	}

	var result ytSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode youtube search: %w", err)
	}

	intent := query.Intent
	if intent == "" {
		intent = IntentTrend
	}

	var items []Item
	for _, item := range result.Items {
		videoID := item.ID.VideoID
		if videoID == "" {
			continue
		}

		date := ""
		if !item.Snippet.PublishedAt.IsZero() {
			date = item.Snippet.PublishedAt.UTC().Format(time.RFC3339)
		}

		items = append(items, Item{
			ID:          fmt.Sprintf("youtube:%s", videoID),
			Source:      SourceYouTube,
			ExternalID:  videoID,
			Title:       item.Snippet.Title,
			URL:         fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID),
			Description: truncate(item.Snippet.Description, 500),
			Date:        date,
			Intent:      intent,
			CollectedAt: time.Now().UTC(),
			Metadata: map[string]any{
				"channel":    item.Snippet.ChannelTitle,
				"channel_id": item.Snippet.ChannelID,
				"query":      query.Text,
			},
		})
	}

	return items, nil
}

type ytSearchResult struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet ytSnippet `json:"snippet"`
	} `json:"items"`
}

type ytSnippet struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channelTitle"`
	ChannelID    string    `json:"channelId"`
	PublishedAt  time.Time `json:"publishedAt"`
}
