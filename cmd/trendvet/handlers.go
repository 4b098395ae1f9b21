package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"trendvet/internal/config"
	"trendvet/internal/scheduler"
	"trendvet/internal/store"
	"trendvet/pkg/alert"
	"trendvet/pkg/server"
	"trendvet/pkg/source"
	"trendvet/pkg/validate"
)

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func buildSources(cfg *config.Config, filter *source.Filter) []source.Source {
	var sources []source.Source

	if cfg.Sources.RSS.Enabled {
		feeds := make([]source.RSSFeed, len(cfg.Sources.RSS.Feeds))
		for i, f := range cfg.Sources.RSS.Feeds {
			feeds[i] = source.RSSFeed{Name: f.Name, URL: f.URL, Intent: source.Intent(f.Intent)}
		}
		sources = append(sources, source.NewRSS(feeds, filter))
	}
	if cfg.Sources.Reddit.Enabled {
		subs := make([]source.Subreddit, len(cfg.Sources.Reddit.Subreddits))
		for i, sub := range cfg.Sources.Reddit.Subreddits {
			subs[i] = source.Subreddit{Name: sub.Name, Intent: source.Intent(sub.Intent)}
		}
		sources = append(sources, source.NewReddit(
			cfg.Sources.Reddit.ClientID,
			cfg.Sources.Reddit.ClientSecret,
			subs,
		))
	}
	if cfg.Sources.HackerNews.Enabled {
		sources = append(sources, source.NewHackerNews(cfg.Sources.HackerNews.Limit, filter))
	}
	if cfg.Sources.YouTube.Enabled {
		queries := make([]source.Query, len(cfg.Sources.YouTube.Queries))
		for i, q := range cfg.Sources.YouTube.Queries {
			queries[i] = source.Query{Text: q.Text, Intent: source.Intent(q.Intent)}
		}
		sources = append(sources, source.NewYouTube(cfg.Sources.YouTube.APIKey, queries))
	}

	return sources
}

func buildAlertManager(cfg *config.Config) *alert.Manager {
	var notifiers []alert.Notifier

	if cfg.Alerts.Slack.Enabled && cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewSlack(cfg.Alerts.Slack.WebhookURL))
	}
	if cfg.Alerts.Discord.Enabled && cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, alert.NewDiscord(cfg.Alerts.Discord.WebhookURL))
	}
	if cfg.Alerts.Webhook.Enabled && cfg.Alerts.Webhook.URL != "" {
		notifiers = append(notifiers, alert.NewWebhook(cfg.Alerts.Webhook.URL, cfg.Alerts.Webhook.Secret))
	}

	return alert.NewManager(notifiers)
}

func runCollect(filterSources []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	filter := source.NewFilter(cfg.Filter.ExtraKeywords, cfg.Filter.ExcludeKeywords)
	allSources := buildSources(cfg, filter)

	// Filter to requested sources only.
	var sources []source.Source
	if len(filterSources) > 0 {
		wanted := make(map[string]bool)
		for _, s := range filterSources {
			wanted[strings.ToLower(strings.TrimSpace(s))] = true
		}
		for _, s := range allSources {
			name := string(s.Name())
			short := shortName(s.Name())
			if wanted[name] || wanted[short] {
				sources = append(sources, s)
			}
		}
		if len(sources) == 0 {
			return fmt.Errorf("no matching sources for: %s", strings.Join(filterSources, ", "))
		}
	} else {
		sources = allSources
	}

	ctx := context.Background()
	totalItems := 0

	for _, src := range sources {
		fmt.Fprintf(os.Stderr, "collecting from %s...\n", src.Name())
		items, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  error: %v\n", err)
			continue
		}

		if err := db.UpsertItems(ctx, items); err != nil {
			fmt.Fprintf(os.Stderr, "  store error: %v\n", err)
			continue
		}

		fmt.Fprintf(os.Stderr, "  collected %d items\n", len(items))
		totalItems += len(items)
	}

	fmt.Fprintf(os.Stderr, "\ntotal: %d items from %d sources\n", totalItems, len(sources))
	return nil
}

func runTrends(jsonOutput, validatedOnly bool, minScore, limit int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Run validation over the recent item window first.
	items, err := db.ListItems(ctx, store.ListOpts{
		Since: time.Now().Add(-48 * time.Hour),
		Limit: 2000,
	})
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	trends := validate.ValidateTrends(items, cfg.Validation.ToValidate())
	if err := db.ReplaceTrends(ctx, trends); err != nil {
		return fmt.Errorf("store trends: %w", err)
	}

	records, err := db.ListTrends(ctx, store.TrendListOpts{
		ValidatedOnly: validatedOnly,
		MinScore:      minScore,
		Limit:         limit,
	})
	if err != nil {
		return fmt.Errorf("list trends: %w", err)
	}

	if jsonOutput {
		out := make([]validate.ValidatedTrend, 0, len(records))
		for _, rec := range records {
			out = append(out, rec.Trend)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(records) == 0 {
		fmt.Println("no trends found (try collecting data first: trendvet collect)")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tVALIDATED\tSOURCES\tINTENT\tTITLE")
	for _, rec := range records {
		t := rec.Trend
		fmt.Fprintf(w, "%d\t%v\t%d\t%s\t%s\n",
			t.ValidationScore, t.IsValidated, t.SourceCount, t.Intent, t.Title)
	}
	return w.Flush()
}

func runServe(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	filter := source.NewFilter(cfg.Filter.ExtraKeywords, cfg.Filter.ExcludeKeywords)
	sources := buildSources(cfg, filter)

	srv := server.New(db, cfg.Validation.ToValidate(), sources, port)
	return srv.ListenAndServe()
}

func runDaemon(port int) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	filter := source.NewFilter(cfg.Filter.ExtraKeywords, cfg.Filter.ExcludeKeywords)
	sources := buildSources(cfg, filter)
	alertMgr := buildAlertManager(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched := scheduler.New(db, sources, cfg.Validation.ToValidate(), alertMgr,
		cfg.Schedule.ParseCollectInterval(),
		cfg.Schedule.ParseValidateInterval(),
		cfg.Alerts.MinScore,
	)

	// Start scheduler in background.
	go func() {
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "scheduler error: %v\n", err)
		}
	}()

	// Start HTTP server.
	srv := server.New(db, cfg.Validation.ToValidate(), sources, port)
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nshutting down...")
	}()

	return srv.ListenAndServe()
}

func shortName(st source.SourceType) string {
	switch st {
	case source.SourceRSS:
		return "rss"
	case source.SourceReddit:
		return "reddit"
	case source.SourceHackerNews:
		return "hn"
	case source.SourceYouTube:
		return "youtube"
	}
	return string(st)
}
