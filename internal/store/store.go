package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"trendvet/pkg/source"
	"trendvet/pkg/validate"
)

// TrendRecord is a persisted ValidatedTrend plus alerting state.
type TrendRecord struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	ValidationScore int       `db:"validation_score"`
	SourceCount     int       `db:"source_count"`
	IsValidated     bool      `db:"is_validated"`
	Intent          string    `db:"intent"`
	FirstSeen       string    `db:"first_seen"`
	LastSeen        string    `db:"last_seen"`
	PayloadJSON     string    `db:"payload"`
	Alerted         bool      `db:"alerted"`
	DetectedAt      time.Time `db:"detected_at"`

	Trend validate.ValidatedTrend `db:"-"`
}

// ListOpts controls item listing.
type ListOpts struct {
	Source source.SourceType
	Since  time.Time
	Limit  int
}

// TrendListOpts controls trend listing.
type TrendListOpts struct {
	ValidatedOnly bool
	MinScore      int
	Unalerted     bool
	Limit         int
}

// Store is the persistence interface.
type Store interface {
	UpsertItem(ctx context.Context, item *source.Item) error
	UpsertItems(ctx context.Context, items []source.Item) error
	ListItems(ctx context.Context, opts ListOpts) ([]source.Item, error)
	CountItemsBySource(ctx context.Context) (map[source.SourceType]int, error)

	ReplaceTrends(ctx context.Context, trends []validate.ValidatedTrend) error
	ListTrends(ctx context.Context, opts TrendListOpts) ([]TrendRecord, error)
	MarkAlerted(ctx context.Context, trendID string) error

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertItem(ctx context.Context, item *source.Item) error {
	metadataJSON, _ := json.Marshal(item.Metadata)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (id, source, external_id, title, description, url, date, intent, metadata, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			date = excluded.date,
			intent = excluded.intent,
			metadata = excluded.metadata,
			collected_at = excluded.collected_at
	`, item.ID, item.Source, item.ExternalID, item.Title, item.Description,
		item.URL, item.Date, item.Intent, string(metadataJSON), item.CollectedAt)
	if err != nil {
		return fmt.Errorf("upsert item %s: %w", item.ID, err)
	}
	return nil
}

func (s *SQLiteStore) UpsertItems(ctx context.Context, items []source.Item) error {
	for i := range items {
		if err := s.UpsertItem(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) ListItems(ctx context.Context, opts ListOpts) ([]source.Item, error) {
	query := "SELECT * FROM items WHERE 1=1"
	var args []any

	if opts.Source != "" {
		query += " AND source = ?"
		args = append(args, opts.Source)
	}
	if !opts.Since.IsZero() {
		query += " AND collected_at >= ?"
		args = append(args, opts.Since)
	}

	query += " ORDER BY collected_at DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var items []source.Item
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	for i := range items {
		json.Unmarshal([]byte(items[i].MetadataJSON), &items[i].Metadata)
	}
	return items, nil
}

func (s *SQLiteStore) CountItemsBySource(ctx context.Context) (map[source.SourceType]int, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT source, COUNT(*) as cnt FROM items GROUP BY source")
	if err != nil {
		return nil, fmt.Errorf("count items by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[source.SourceType]int)
	for rows.Next() {
		var src string
		var cnt int
		if err := rows.Scan(&src, &cnt); err != nil {
			return nil, err
		}
		counts[source.SourceType(src)] = cnt
	}
	return counts, nil
}

// ReplaceTrends clears the trends table and inserts the latest
// validation run. Trend IDs are stable across runs (derived from the
// canonical item), so alerted state is carried over.
func (s *SQLiteStore) ReplaceTrends(ctx context.Context, trends []validate.ValidatedTrend) error {
	alerted, err := s.alertedIDs(ctx)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace trends: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trends"); err != nil {
		return fmt.Errorf("clear trends: %w", err)
	}

	now := time.Now().UTC()
	for _, t := range trends {
		payload, _ := json.Marshal(t)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trends (id, title, validation_score, source_count, is_validated, intent, first_seen, last_seen, payload, alerted, detected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.Title, t.ValidationScore, t.SourceCount, t.IsValidated,
			string(t.Intent), t.FirstSeen, t.LastSeen, string(payload), alerted[t.ID], now)
		if err != nil {
			return fmt.Errorf("insert trend %s: %w", t.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) alertedIDs(ctx context.Context) (map[string]bool, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, "SELECT id FROM trends WHERE alerted = 1"); err != nil {
		return nil, fmt.Errorf("list alerted trends: %w", err)
	}
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (s *SQLiteStore) ListTrends(ctx context.Context, opts TrendListOpts) ([]TrendRecord, error) {
	query := "SELECT * FROM trends WHERE 1=1"
	var args []any

	if opts.ValidatedOnly {
		query += " AND is_validated = 1"
	}
	if opts.MinScore > 0 {
		query += " AND validation_score >= ?"
		args = append(args, opts.MinScore)
	}
	if opts.Unalerted {
		query += " AND alerted = 0"
	}

	query += " ORDER BY is_validated DESC, validation_score DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var records []TrendRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list trends: %w", err)
	}

	for i := range records {
		if err := json.Unmarshal([]byte(records[i].PayloadJSON), &records[i].Trend); err != nil {
			return nil, fmt.Errorf("decode trend %s: %w", records[i].ID, err)
		}
	}
	return records, nil
}

func (s *SQLiteStore) MarkAlerted(ctx context.Context, trendID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE trends SET alerted = 1 WHERE id = ?", trendID)
	if err != nil {
		return fmt.Errorf("mark alerted %s: %w", trendID, err)
	}
	return nil
}
