package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func entry(fingerprint string, ttl time.Duration) models.CacheEntry {
	return models.CacheEntry{
		Fingerprint: fingerprint,
		Content:     "fn main() {}",
		Provider:    "openrouter",
		Model:       "gpt-4o-mini",
		Usage:       models.Usage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20},
		CreatedAt:   time.Now(),
		TTL:         ttl,
	}
}

func TestCachePutGet(t *testing.T) {
	c := newTestCache(t)

	if err := c.Put(entry("fp-1", time.Hour)); err != nil {
		t.Fatalf("put: %v", err)
	}

	e, ok := c.Get("fp-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if e.Content != "fn main() {}" {
		t.Errorf("content = %q", e.Content)
	}
	if e.Provider != "openrouter" || e.Model != "gpt-4o-mini" {
		t.Errorf("attribution = %s/%s", e.Provider, e.Model)
	}
	if e.Usage.TotalTokens != 20 {
		t.Errorf("total tokens = %d, want 20", e.Usage.TotalTokens)
	}
}

func TestCacheMiss(t *testing.T) {
	c := newTestCache(t)
	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent fingerprint")
	}
}

func TestCacheExpiredEntryAbsent(t *testing.T) {
	c := newTestCache(t)

	e := entry("fp-old", time.Minute)
	e.CreatedAt = time.Now().Add(-time.Hour)
	if err := c.Put(e); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := c.Get("fp-old"); ok {
		t.Error("expired entry should be treated as absent")
	}
}

func TestCacheSubSecondTTL(t *testing.T) {
	c := newTestCache(t)

	if err := c.Put(entry("fp-short", 500*time.Millisecond)); err != nil {
		t.Fatalf("put: %v", err)
	}

	e, ok := c.Get("fp-short")
	if !ok {
		t.Fatal("entry with a sub-second TTL should be servable before it elapses")
	}
	if e.TTL != 500*time.Millisecond {
		t.Errorf("ttl = %s, want 500ms preserved", e.TTL)
	}
}

func TestCacheReplace(t *testing.T) {
	c := newTestCache(t)

	c.Put(entry("fp-1", time.Hour))
	e := entry("fp-1", time.Hour)
	e.Content = "fn main() { println!(\"v2\") }"
	if err := c.Put(e); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok := c.Get("fp-1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Content != e.Content {
		t.Errorf("content = %q, want replacement", got.Content)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 1 {
		t.Errorf("entries = %d, want 1 after replace", stats.Entries)
	}
}

func TestCachePurge(t *testing.T) {
	c := newTestCache(t)

	c.Put(entry("fp-live", time.Hour))
	old := entry("fp-dead", time.Minute)
	old.CreatedAt = time.Now().Add(-time.Hour)
	c.Put(old)

	if err := c.Purge(); err != nil {
		t.Fatalf("purge: %v", err)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 1 {
		t.Errorf("entries = %d, want 1 after purge", stats.Entries)
	}
	if _, ok := c.Get("fp-live"); !ok {
		t.Error("live entry should survive purge")
	}
}

func TestCacheClear(t *testing.T) {
	c := newTestCache(t)

	c.Put(entry("fp-1", time.Hour))
	c.Put(entry("fp-2", time.Hour))
	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	stats, err := c.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 0 {
		t.Errorf("entries = %d, want 0 after clear", stats.Entries)
	}
}

func TestCachePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	c, err := New(path)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	if err := c.Put(entry("fp-persist", time.Hour)); err != nil {
		t.Fatalf("put: %v", err)
	}
	c.Close()

	c2, err := New(path)
	if err != nil {
		t.Fatalf("reopen cache: %v", err)
	}
	defer c2.Close()

	if _, ok := c2.Get("fp-persist"); !ok {
		t.Error("entry should survive reopen")
	}
}
