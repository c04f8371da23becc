package models

import "time"

// Usage represents token usage from a provider response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// UsageRecord tracks one agent invocation's cost.
type UsageRecord struct {
	ID               int64     `json:"id"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Task             TaskKind  `json:"task"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	LatencyMs        int64     `json:"latency_ms"`
	CacheHit         bool      `json:"cache_hit"`
	Failed           bool      `json:"failed"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProviderSummary aggregates usage per provider and model.
type ProviderSummary struct {
	Provider         string  `json:"provider"`
	Model            string  `json:"model"`
	RequestCount     int     `json:"request_count"`
	CacheHits        int     `json:"cache_hits"`
	Errors           int     `json:"errors"`
	TotalPrompt      int64   `json:"total_prompt"`
	TotalCompletion  int64   `json:"total_completion"`
	TotalTokens      int64   `json:"total_tokens"`
	AvgLatencyMs     float64 `json:"avg_latency_ms"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
}

// ModelPricing defines per-1K token costs for a model.
type ModelPricing struct {
	Model          string  `json:"model" yaml:"model"`
	PromptCost     float64 `json:"prompt_cost_per_1k" yaml:"prompt_cost_per_1k"`
	CompletionCost float64 `json:"completion_cost_per_1k" yaml:"completion_cost_per_1k"`
}

// Cost estimates the dollar cost of a usage sample under this pricing.
func (p ModelPricing) Cost(u Usage) float64 {
	return float64(u.PromptTokens)/1000*p.PromptCost +
		float64(u.CompletionTokens)/1000*p.CompletionCost
}
