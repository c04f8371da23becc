// Package sqlite provides a persistent cache store for collaborators
// that want entries to survive the process.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// Cache is a fingerprint-keyed response cache backed by SQLite.
type Cache struct {
	db     *sql.DB
	hits   atomic.Int64
	misses atomic.Int64
}

// Timestamps and TTLs are stored as integer unix milliseconds so that
// expiry is plain arithmetic, independent of driver time formatting.
const createCacheTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	fingerprint TEXT PRIMARY KEY,
	content TEXT NOT NULL,
	provider TEXT NOT NULL,
	model TEXT NOT NULL,
	prompt_tokens INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	total_tokens INTEGER NOT NULL,
	created_at_ms INTEGER NOT NULL,
	ttl_ms INTEGER NOT NULL
);
`

// New opens the cache database and creates the schema.
func New(dbPath string) (*Cache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(createCacheTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get retrieves a cached entry. Expired entries are treated as absent.
func (c *Cache) Get(fingerprint string) (*models.CacheEntry, bool) {
	var e models.CacheEntry
	var createdAtMs, ttlMs int64

	err := c.db.QueryRow(
		`SELECT content, provider, model, prompt_tokens, completion_tokens, total_tokens, created_at_ms, ttl_ms
		 FROM cache_entries WHERE fingerprint = ?`,
		fingerprint,
	).Scan(&e.Content, &e.Provider, &e.Model,
		&e.Usage.PromptTokens, &e.Usage.CompletionTokens, &e.Usage.TotalTokens,
		&createdAtMs, &ttlMs)

	if err != nil {
		c.misses.Add(1)
		return nil, false
	}

	e.Fingerprint = fingerprint
	e.CreatedAt = time.UnixMilli(createdAtMs).UTC()
	e.TTL = time.Duration(ttlMs) * time.Millisecond
	if e.Expired(time.Now()) {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return &e, true
}

// Put stores an entry, replacing any previous entry for the fingerprint.
func (c *Cache) Put(entry models.CacheEntry) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO cache_entries
		 (fingerprint, content, provider, model, prompt_tokens, completion_tokens, total_tokens, created_at_ms, ttl_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Fingerprint, entry.Content, entry.Provider, entry.Model,
		entry.Usage.PromptTokens, entry.Usage.CompletionTokens, entry.Usage.TotalTokens,
		entry.CreatedAt.UnixMilli(), entry.TTL.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (c *Cache) Clear() error {
	if _, err := c.db.Exec(`DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

// Purge removes only entries past their time-to-live.
func (c *Cache) Purge() error {
	_, err := c.db.Exec(
		`DELETE FROM cache_entries WHERE ? - created_at_ms > ttl_ms`,
		time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("cache purge: %w", err)
	}
	return nil
}

// Stats returns cache performance metrics.
func (c *Cache) Stats() (models.CacheStats, error) {
	var count int64
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM cache_entries`).Scan(&count); err != nil {
		return models.CacheStats{}, fmt.Errorf("cache stats: %w", err)
	}
	return models.CacheStats{
		Entries: count,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}
