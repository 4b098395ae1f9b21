package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trendvet/pkg/source"
	"trendvet/pkg/validate"
)

// Config is the root configuration.
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Sources    SourcesConfig    `yaml:"sources"`
	Validation ValidationConfig `yaml:"validation"`
	Alerts     AlertsConfig     `yaml:"alerts"`
	Server     ServerConfig     `yaml:"server"`
	Filter     FilterConfig     `yaml:"filter"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// ScheduleConfig configures collection and validation intervals.
type ScheduleConfig struct {
	CollectInterval  string `yaml:"collect_interval"`
	ValidateInterval string `yaml:"validate_interval"`
}

// ParseCollectInterval returns the collect interval as time.Duration.
func (s ScheduleConfig) ParseCollectInterval() time.Duration {
	d, err := time.ParseDuration(s.CollectInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// ParseValidateInterval returns the validation interval as time.Duration.
func (s ScheduleConfig) ParseValidateInterval() time.Duration {
	d, err := time.ParseDuration(s.ValidateInterval)
	if err != nil {
		return time.Hour
	}
	return d
}

// SourcesConfig holds configuration for all data sources.
type SourcesConfig struct {
	RSS        RSSConfig        `yaml:"rss"`
	Reddit     RedditConfig     `yaml:"reddit"`
	HackerNews HackerNewsConfig `yaml:"hackernews"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
}

// RSSConfig for the RSS feed collector.
type RSSConfig struct {
	Enabled bool       `yaml:"enabled"`
	Feeds   []FeedItem `yaml:"feeds"`
}

// FeedItem is a single RSS feed entry.
type FeedItem struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Intent string `yaml:"intent"`
}

// RedditConfig for the Reddit collector.
type RedditConfig struct {
	Enabled      bool            `yaml:"enabled"`
	ClientID     string          `yaml:"client_id"`
	ClientSecret string          `yaml:"client_secret"`
	Subreddits   []SubredditItem `yaml:"subreddits"`
}

// SubredditItem is a single watched subreddit.
type SubredditItem struct {
	Name   string `yaml:"name"`
	Intent string `yaml:"intent"`
}

// HackerNewsConfig for the Hacker News collector.
type HackerNewsConfig struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// YouTubeConfig for the YouTube collector.
type YouTubeConfig struct {
	Enabled bool        `yaml:"enabled"`
	APIKey  string      `yaml:"api_key"`
	Queries []QueryItem `yaml:"queries"`
}

// QueryItem is a single YouTube search query.
type QueryItem struct {
	Text   string `yaml:"text"`
	Intent string `yaml:"intent"`
}

// ValidationConfig tunes the trend validation pipeline.
type ValidationConfig struct {
	MinSources          int     `yaml:"min_sources"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	TitleWeight         float64 `yaml:"title_weight"`
	DescriptionWeight   float64 `yaml:"description_weight"`
}

// ToValidate converts the YAML section into a pipeline Config.
// Zero fields fall through to the pipeline defaults.
func (v ValidationConfig) ToValidate() validate.Config {
	return validate.Config{
		MinSources:          v.MinSources,
		SimilarityThreshold: v.SimilarityThreshold,
		TitleWeight:         v.TitleWeight,
		DescriptionWeight:   v.DescriptionWeight,
	}
}

// AlertsConfig configures alert destinations.
type AlertsConfig struct {
	MinScore int           `yaml:"min_score"`
	Slack    SlackConfig   `yaml:"slack"`
	Discord  DiscordConfig `yaml:"discord"`
	Webhook  WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhook alerts.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// FilterConfig configures content filtering.
type FilterConfig struct {
	ExtraKeywords   []string `yaml:"extra_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./trendvet.db"},
		Schedule: ScheduleConfig{
			CollectInterval:  "30m",
			ValidateInterval: "1h",
		},
		Sources: SourcesConfig{
			RSS: RSSConfig{
				Enabled: true,
				Feeds: []FeedItem{
					{Name: "Marketing Dive", URL: "https://www.marketingdive.com/feeds/news/", Intent: string(source.IntentIndustry)},
					{Name: "Social Media Today", URL: "https://www.socialmediatoday.com/feeds/news/", Intent: string(source.IntentTrend)},
					{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Intent: string(source.IntentProduct)},
				},
			},
			Reddit: RedditConfig{
				Enabled: false,
				Subreddits: []SubredditItem{
					{Name: "marketing", Intent: string(source.IntentIndustry)},
					{Name: "smallbusiness", Intent: string(source.IntentPainPoint)},
					{Name: "Entrepreneur", Intent: string(source.IntentOpportunity)},
					{Name: "socialmedia", Intent: string(source.IntentTrend)},
				},
			},
			HackerNews: HackerNewsConfig{Enabled: true, Limit: 100},
			YouTube: YouTubeConfig{
				Enabled: false,
				Queries: []QueryItem{
					{Text: "marketing trends", Intent: string(source.IntentTrend)},
					{Text: "small business marketing", Intent: string(source.IntentPainPoint)},
					{Text: "new marketing tools", Intent: string(source.IntentProduct)},
				},
			},
		},
		Validation: ValidationConfig{
			MinSources:          validate.DefaultMinSources,
			SimilarityThreshold: validate.DefaultSimilarityThreshold,
			TitleWeight:         validate.DefaultTitleWeight,
			DescriptionWeight:   validate.DefaultDescriptionWeight,
		},
		Alerts: AlertsConfig{MinScore: 70},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRENDVET_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		cfg.Sources.Reddit.ClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		cfg.Sources.Reddit.ClientSecret = v
	}
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.Sources.YouTube.APIKey = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Discord.WebhookURL = v
		cfg.Alerts.Discord.Enabled = true
	}
}
