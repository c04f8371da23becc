// Package cache stores completed responses keyed by request fingerprint.
package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// Store is the response cache contract. Absence of an entry is always a
// legal outcome; the cache is logically volatile.
type Store interface {
	// Get returns the entry for a fingerprint. Entries past their TTL
	// are treated as absent.
	Get(fingerprint string) (*models.CacheEntry, bool)
	// Put stores an entry under its fingerprint, replacing any previous
	// entry for the same fingerprint.
	Put(entry models.CacheEntry) error
	// Clear removes all entries.
	Clear() error
	// Stats returns cache performance metrics.
	Stats() (models.CacheStats, error)
	// Close releases resources.
	Close() error
}

const shardCount = 16

// purgeInterval bounds memory: every Nth write to a shard sweeps that
// shard's expired entries.
const purgeInterval = 64

type shard struct {
	mu      sync.Mutex
	entries map[string]models.CacheEntry
	writes  int
}

// Memory is an in-process sharded Store. Shards keep unrelated
// fingerprints from contending on one lock.
type Memory struct {
	shards [shardCount]*shard
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	m := &Memory{}
	for i := range m.shards {
		m.shards[i] = &shard{entries: make(map[string]models.CacheEntry)}
	}
	return m
}

func (m *Memory) shardFor(fingerprint string) *shard {
	h := fnv.New32a()
	h.Write([]byte(fingerprint))
	return m.shards[h.Sum32()%shardCount]
}

// Get returns a copy of the cached entry, expiring lazily on read.
func (m *Memory) Get(fingerprint string) (*models.CacheEntry, bool) {
	s := m.shardFor(fingerprint)
	s.mu.Lock()
	e, ok := s.entries[fingerprint]
	if ok && e.Expired(time.Now()) {
		delete(s.entries, fingerprint)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		m.misses.Add(1)
		return nil, false
	}
	m.hits.Add(1)
	return &e, true
}

// Put stores an entry, sweeping the shard's expired entries every
// purgeInterval writes.
func (m *Memory) Put(entry models.CacheEntry) error {
	s := m.shardFor(entry.Fingerprint)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Fingerprint] = entry
	s.writes++
	if s.writes%purgeInterval == 0 {
		now := time.Now()
		for k, e := range s.entries {
			if e.Expired(now) {
				delete(s.entries, k)
			}
		}
	}
	return nil
}

// Clear removes all entries.
func (m *Memory) Clear() error {
	for _, s := range m.shards {
		s.mu.Lock()
		s.entries = make(map[string]models.CacheEntry)
		s.mu.Unlock()
	}
	return nil
}

// Stats returns cache performance metrics.
func (m *Memory) Stats() (models.CacheStats, error) {
	var entries int64
	for _, s := range m.shards {
		s.mu.Lock()
		entries += int64(len(s.entries))
		s.mu.Unlock()
	}
	return models.CacheStats{
		Entries: entries,
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }
