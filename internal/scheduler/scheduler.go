package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"trendvet/internal/store"
	"trendvet/pkg/alert"
	"trendvet/pkg/source"
	"trendvet/pkg/validate"
)

// Scheduler runs periodic collection and trend validation.
type Scheduler struct {
	store       store.Store
	sources     []source.Source
	cfg         validate.Config
	alertMgr    *alert.Manager
	collectInt  time.Duration
	validateInt time.Duration
	minScore    int
}

// New creates a new scheduler.
func New(
	s store.Store,
	sources []source.Source,
	cfg validate.Config,
	alertMgr *alert.Manager,
	collectInt, validateInt time.Duration,
	minScore int,
) *Scheduler {
	if collectInt == 0 {
		collectInt = 30 * time.Minute
	}
	if validateInt == 0 {
		validateInt = time.Hour
	}
	return &Scheduler{
		store:       s,
		sources:     sources,
		cfg:         cfg,
		alertMgr:    alertMgr,
		collectInt:  collectInt,
		validateInt: validateInt,
		minScore:    minScore,
	}
}

// Run starts the scheduler loop. Blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	collectTicker := time.NewTicker(s.collectInt)
	validateTicker := time.NewTicker(s.validateInt)
	defer collectTicker.Stop()
	defer validateTicker.Stop()

	// Run immediately on start.
	fmt.Fprintln(os.Stderr, "scheduler: initial collection...")
	s.collectAll(ctx)
	fmt.Fprintln(os.Stderr, "scheduler: initial validation...")
	s.validateAndAlert(ctx)

	fmt.Fprintf(os.Stderr, "scheduler: running (collect every %s, validate every %s)\n",
		s.collectInt, s.validateInt)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(os.Stderr, "scheduler: stopped")
			return ctx.Err()
		case <-collectTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: collecting...")
			s.collectAll(ctx)
		case <-validateTicker.C:
			fmt.Fprintln(os.Stderr, "scheduler: validating...")
			s.validateAndAlert(ctx)
		}
	}
}

func (s *Scheduler) collectAll(ctx context.Context) {
	totalItems := 0
	for _, src := range s.sources {
		items, err := src.Collect(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  %s error: %v\n", src.Name(), err)
			continue
		}

		if err := s.store.UpsertItems(ctx, items); err != nil {
			fmt.Fprintf(os.Stderr, "  %s store error: %v\n", src.Name(), err)
			continue
		}

		fmt.Fprintf(os.Stderr, "  %s: %d items\n", src.Name(), len(items))
		totalItems += len(items)
	}
	fmt.Fprintf(os.Stderr, "  total: %d items\n", totalItems)
}

func (s *Scheduler) validateAndAlert(ctx context.Context) {
	items, err := s.store.ListItems(ctx, store.ListOpts{
		Since: time.Now().Add(-48 * time.Hour),
		Limit: 2000,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "  list items error: %v\n", err)
		return
	}
	if len(items) == 0 {
		return
	}

	trends := validate.ValidateTrends(items, s.cfg)
	if err := s.store.ReplaceTrends(ctx, trends); err != nil {
		fmt.Fprintf(os.Stderr, "  store trends error: %v\n", err)
		return
	}

	stats := validate.ComputeStats(trends)
	fmt.Fprintf(os.Stderr, "  %d trends (%d validated, rate %d%%)\n",
		stats.Total, stats.Validated, stats.ValidationRate)

	if !s.alertMgr.HasNotifiers() {
		return
	}

	// Alert once per newly validated, high-scoring trend.
	records, err := s.store.ListTrends(ctx, store.TrendListOpts{
		ValidatedOnly: true,
		MinScore:      s.minScore,
		Unalerted:     true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "  list trends error: %v\n", err)
		return
	}

	for _, rec := range records {
		notification := &alert.Notification{
			Trend: rec.Trend,
			Body: fmt.Sprintf("Corroborated by %d sources with score %d",
				rec.Trend.SourceCount, rec.Trend.ValidationScore),
		}

		if err := s.alertMgr.Broadcast(ctx, notification); err != nil {
			fmt.Fprintf(os.Stderr, "  alert error for %q: %v\n", rec.Trend.Title, err)
			continue
		}

		_ = s.store.MarkAlerted(ctx, rec.ID)
		fmt.Fprintf(os.Stderr, "  alerted: %s (score: %d)\n", rec.Trend.Title, rec.Trend.ValidationScore)
	}
}
