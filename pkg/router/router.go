// Package router dispatches completion requests across configured
// providers with sequential failover.
package router

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/config"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"github.com/droidpilot-ai/droidpilot/pkg/provider"
)

// Cause is the final error recorded for one provider during a dispatch.
type Cause struct {
	Provider string
	Kind     models.ErrorKind
	Err      error
}

// AllFailedError aggregates the last error per provider after every
// candidate exhausted its attempt budget.
type AllFailedError struct {
	Causes []Cause
}

// Error implements the error interface.
func (e *AllFailedError) Error() string {
	parts := make([]string, 0, len(e.Causes))
	for _, c := range e.Causes {
		parts = append(parts, fmt.Sprintf("%s: %s", c.Provider, c.Kind))
	}
	return "all providers failed: " + strings.Join(parts, "; ")
}

// Attempt records one provider call made during a dispatch.
type Attempt struct {
	Provider  string
	Kind      models.ErrorKind // ErrKindNone on success
	LatencyMs int64
}

// Result is a successful dispatch with provider attribution.
type Result struct {
	Provider   string
	Completion *models.CompletionResult
	Attempts   []Attempt
}

// Router holds the ordered provider list and retry policy. Failover is
// strictly sequential: at most one attempt is in flight per dispatch,
// keeping cost and ordering deterministic.
type Router struct {
	providers   []config.ProviderConfig
	registry    *provider.Registry
	maxAttempts int
	backoff     time.Duration
}

// New creates a Router from the config and a client registry.
func New(cfg *config.Config, reg *provider.Registry) *Router {
	return &Router{
		providers:   cfg.EnabledProviders(),
		registry:    reg,
		maxAttempts: cfg.Router.MaxAttempts,
		backoff:     cfg.Router.Backoff,
	}
}

// candidates resolves the provider order for a dispatch. A preference
// pins dispatch to that single provider when it is enabled; an unknown
// or disabled preference falls back to priority order.
func (r *Router) candidates(preferred string) []config.ProviderConfig {
	if preferred != "" {
		for _, p := range r.providers {
			if p.Name == preferred {
				return []config.ProviderConfig{p}
			}
		}
	}
	return r.providers
}

// Dispatch tries each candidate provider in order until one succeeds.
// Transient failures (rate limiting, network) are retried within the
// per-provider attempt budget with exponential backoff; configuration
// defects (auth, invalid response) move straight to the next provider.
// A cancelled context aborts the whole dispatch immediately.
func (r *Router) Dispatch(ctx context.Context, req models.CompletionRequest, preferred string) (*Result, error) {
	cands := r.candidates(preferred)
	if len(cands) == 0 {
		return nil, &AllFailedError{}
	}

	var attempts []Attempt
	var causes []Cause

	for _, pc := range cands {
		client, ok := r.registry.Get(pc.Name)
		if !ok {
			causes = append(causes, Cause{
				Provider: pc.Name,
				Kind:     models.ErrKindInvalidRequest,
				Err:      fmt.Errorf("no client registered for provider %q", pc.Name),
			})
			continue
		}

		dispatchReq := req
		if dispatchReq.Model == "" {
			dispatchReq.Model = pc.Model
		}

		var lastErr error
		for attempt := 1; attempt <= r.maxAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return nil, &provider.Error{
					Provider: pc.Name,
					Kind:     models.ErrKindCancelled,
					Message:  "dispatch cancelled",
					Err:      err,
				}
			}

			start := time.Now()
			res, err := client.Complete(ctx, dispatchReq)
			elapsed := time.Since(start).Milliseconds()

			if err == nil {
				attempts = append(attempts, Attempt{Provider: pc.Name, LatencyMs: elapsed})
				return &Result{Provider: pc.Name, Completion: res, Attempts: attempts}, nil
			}

			kind := provider.KindOf(err)
			attempts = append(attempts, Attempt{Provider: pc.Name, Kind: kind, LatencyMs: elapsed})
			lastErr = err

			if kind == models.ErrKindCancelled {
				return nil, err
			}
			if !kind.Retryable() {
				break
			}
			if attempt < r.maxAttempts {
				log.Printf("provider %s failed (%s), retrying in %s", pc.Name, kind, r.delay(attempt))
				if err := sleep(ctx, r.delay(attempt)); err != nil {
					return nil, &provider.Error{
						Provider: pc.Name,
						Kind:     models.ErrKindCancelled,
						Message:  "dispatch cancelled during backoff",
						Err:      err,
					}
				}
			}
		}

		log.Printf("provider %s exhausted (%v), trying next", pc.Name, provider.KindOf(lastErr))
		causes = append(causes, Cause{Provider: pc.Name, Kind: provider.KindOf(lastErr), Err: lastErr})
	}

	return nil, &AllFailedError{Causes: causes}
}

// delay returns the backoff before retry n+1, doubling per retry.
func (r *Router) delay(attempt int) time.Duration {
	d := r.backoff
	for i := 1; i < attempt; i++ {
		d *= 2
	}
	return d
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
