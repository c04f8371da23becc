package tracker

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// MemoryTracker keeps usage records in process memory, for runs without
// a database.
type MemoryTracker struct {
	mu      sync.RWMutex
	records []models.UsageRecord
	nextID  int64
	pricing map[string]models.ModelPricing
}

// NewMemory creates an empty in-memory tracker.
func NewMemory(pricing []models.ModelPricing) *MemoryTracker {
	pm := make(map[string]models.ModelPricing, len(pricing))
	for _, p := range pricing {
		pm[p.Model] = p
	}
	return &MemoryTracker{pricing: pm}
}

// Record stores a usage record.
func (t *MemoryTracker) Record(ctx context.Context, rec models.UsageRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	rec.ID = t.nextID
	t.records = append(t.records, rec)
	return nil
}

// Query returns usage records for a provider since a given time, newest
// first.
func (t *MemoryTracker) Query(ctx context.Context, provider string, since time.Time) ([]models.UsageRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []models.UsageRecord
	for i := len(t.records) - 1; i >= 0; i-- {
		r := t.records[i]
		if r.CreatedAt.Before(since) {
			continue
		}
		if provider != "" && r.Provider != provider {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// TotalTokens returns total tokens consumed since a given time,
// excluding cache hits.
func (t *MemoryTracker) TotalTokens(ctx context.Context, provider string, task models.TaskKind, since time.Time) (int64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var total int64
	for _, r := range t.records {
		if r.CacheHit || r.CreatedAt.Before(since) {
			continue
		}
		if provider != "" && r.Provider != provider {
			continue
		}
		if task != "" && r.Task != task {
			continue
		}
		total += int64(r.TotalTokens)
	}
	return total, nil
}

// Summary returns aggregated usage grouped by provider and model.
func (t *MemoryTracker) Summary(ctx context.Context, provider string) ([]models.ProviderSummary, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	type key struct{ provider, model string }
	groups := make(map[key]*models.ProviderSummary)
	latencies := make(map[key]int64)

	for _, r := range t.records {
		if provider != "" && r.Provider != provider {
			continue
		}
		k := key{r.Provider, r.Model}
		s, ok := groups[k]
		if !ok {
			s = &models.ProviderSummary{Provider: r.Provider, Model: r.Model}
			groups[k] = s
		}
		s.RequestCount++
		if r.CacheHit {
			s.CacheHits++
		}
		if r.Failed {
			s.Errors++
		}
		s.TotalPrompt += int64(r.PromptTokens)
		s.TotalCompletion += int64(r.CompletionTokens)
		s.TotalTokens += int64(r.TotalTokens)
		latencies[k] += r.LatencyMs
	}

	out := make([]models.ProviderSummary, 0, len(groups))
	for k, s := range groups {
		if s.RequestCount > 0 {
			s.AvgLatencyMs = float64(latencies[k]) / float64(s.RequestCount)
		}
		if p, ok := t.pricing[s.Model]; ok {
			s.EstimatedCostUSD = p.Cost(models.Usage{
				PromptTokens:     int(s.TotalPrompt),
				CompletionTokens: int(s.TotalCompletion),
			})
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].Model < out[j].Model
	})
	return out, nil
}

// Close is a no-op for the in-memory tracker.
func (t *MemoryTracker) Close() error { return nil }
