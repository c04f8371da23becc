package models

import "time"

// CacheEntry stores a completed response keyed by request fingerprint.
// The cache owns entries; callers receive copies.
type CacheEntry struct {
	Fingerprint string        `json:"fingerprint"`
	Content     string        `json:"content"`
	Provider    string        `json:"provider"`
	Model       string        `json:"model"`
	Usage       Usage         `json:"usage"`
	CreatedAt   time.Time     `json:"created_at"`
	TTL         time.Duration `json:"ttl"`
}

// Expired reports whether the entry is past its time-to-live at now.
// A non-positive TTL means the entry is never servable.
func (e CacheEntry) Expired(now time.Time) bool {
	if e.TTL <= 0 {
		return true
	}
	return now.Sub(e.CreatedAt) > e.TTL
}

// CacheStats reports cache performance metrics.
type CacheStats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
