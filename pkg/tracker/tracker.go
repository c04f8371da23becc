// Package tracker records per-provider usage: call counts, token
// consumption, latency, and cost estimates.
package tracker

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// Tracker records and queries usage. Implementations are safe for
// concurrent use by parallel agent invocations.
type Tracker interface {
	// Record stores a usage record.
	Record(ctx context.Context, rec models.UsageRecord) error
	// Query returns usage records for a provider since a given time.
	// An empty provider matches all.
	Query(ctx context.Context, provider string, since time.Time) ([]models.UsageRecord, error)
	// TotalTokens returns total tokens consumed since a given time,
	// filtered by provider and/or task when non-empty.
	TotalTokens(ctx context.Context, provider string, task models.TaskKind, since time.Time) (int64, error)
	// Summary returns aggregated usage grouped by provider and model.
	Summary(ctx context.Context, provider string) ([]models.ProviderSummary, error)
	// Close releases resources.
	Close() error
}

// SQLiteTracker implements Tracker with a SQLite database.
type SQLiteTracker struct {
	db      *sql.DB
	pricing map[string]models.ModelPricing
}

const createTable = `
CREATE TABLE IF NOT EXISTS usage_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	task TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	total_tokens INTEGER NOT NULL,
	latency_ms INTEGER NOT NULL,
	cache_hit INTEGER NOT NULL DEFAULT 0,
	failed INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_usage_provider_time ON usage_records(provider, created_at);
`

// New creates a SQLiteTracker and runs auto-migration. Pricing rows are
// used for cost estimation in summaries; unknown models cost zero.
func New(dbPath string, pricing []models.ModelPricing) (*SQLiteTracker, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open tracker db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate tracker db: %w", err)
	}

	pm := make(map[string]models.ModelPricing, len(pricing))
	for _, p := range pricing {
		pm[p.Model] = p
	}

	return &SQLiteTracker{db: db, pricing: pm}, nil
}

// Record stores a usage record.
func (t *SQLiteTracker) Record(ctx context.Context, rec models.UsageRecord) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO usage_records
		 (provider, model, task, prompt_tokens, completion_tokens, total_tokens, latency_ms, cache_hit, failed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Provider, rec.Model, string(rec.Task),
		rec.PromptTokens, rec.CompletionTokens, rec.TotalTokens,
		rec.LatencyMs, rec.CacheHit, rec.Failed, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// Query returns usage records for a provider since a given time.
func (t *SQLiteTracker) Query(ctx context.Context, provider string, since time.Time) ([]models.UsageRecord, error) {
	query := `SELECT id, provider, model, task, prompt_tokens, completion_tokens, total_tokens, latency_ms, cache_hit, failed, created_at
		 FROM usage_records WHERE created_at >= ?`
	args := []any{since}
	if provider != "" {
		query += ` AND provider = ?`
		args = append(args, provider)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var records []models.UsageRecord
	for rows.Next() {
		var r models.UsageRecord
		var task string
		if err := rows.Scan(&r.ID, &r.Provider, &r.Model, &task,
			&r.PromptTokens, &r.CompletionTokens, &r.TotalTokens,
			&r.LatencyMs, &r.CacheHit, &r.Failed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		r.Task = models.TaskKind(task)
		records = append(records, r)
	}
	return records, rows.Err()
}

// TotalTokens returns total tokens consumed since a given time. Cache
// hits do not count: no tokens were bought for them.
func (t *SQLiteTracker) TotalTokens(ctx context.Context, provider string, task models.TaskKind, since time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(total_tokens), 0) FROM usage_records WHERE created_at >= ? AND cache_hit = 0`
	args := []any{since}
	if provider != "" {
		query += ` AND provider = ?`
		args = append(args, provider)
	}
	if task != "" {
		query += ` AND task = ?`
		args = append(args, string(task))
	}

	var total int64
	if err := t.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("total usage: %w", err)
	}
	return total, nil
}

// Summary returns aggregated usage grouped by provider and model.
func (t *SQLiteTracker) Summary(ctx context.Context, provider string) ([]models.ProviderSummary, error) {
	query := `SELECT provider, model, COUNT(*),
		 SUM(cache_hit), SUM(failed),
		 SUM(prompt_tokens), SUM(completion_tokens), SUM(total_tokens),
		 AVG(latency_ms)
		 FROM usage_records`
	var args []any
	if provider != "" {
		query += ` WHERE provider = ?`
		args = append(args, provider)
	}
	query += ` GROUP BY provider, model ORDER BY provider, model`

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.ProviderSummary
	for rows.Next() {
		var s models.ProviderSummary
		if err := rows.Scan(&s.Provider, &s.Model, &s.RequestCount,
			&s.CacheHits, &s.Errors,
			&s.TotalPrompt, &s.TotalCompletion, &s.TotalTokens,
			&s.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if p, ok := t.pricing[s.Model]; ok {
			s.EstimatedCostUSD = p.Cost(models.Usage{
				PromptTokens:     int(s.TotalPrompt),
				CompletionTokens: int(s.TotalCompletion),
			})
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close releases the database connection.
func (t *SQLiteTracker) Close() error {
	return t.db.Close()
}
