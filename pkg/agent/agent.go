// Package agent implements the task agents: validate a request, build a
// prompt, consult the cache, dispatch to a provider, post-process, and
// account for usage. Process always returns a response value; no error
// or panic crosses the agent boundary.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/droidpilot-ai/droidpilot/pkg/audit"
	"github.com/droidpilot-ai/droidpilot/pkg/budget"
	"github.com/droidpilot-ai/droidpilot/pkg/cache"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"github.com/droidpilot-ai/droidpilot/pkg/provider"
	"github.com/droidpilot-ai/droidpilot/pkg/router"
	"github.com/droidpilot-ai/droidpilot/pkg/tracker"
)

// Agent is the capability contract every task agent satisfies.
type Agent interface {
	// Kind returns the task kind this agent serves.
	Kind() models.TaskKind
	// Process runs one request to completion. The returned response
	// fully describes the outcome, success or failure.
	Process(ctx context.Context, req models.AgentRequest) models.AgentResponse
}

// Deps bundles the collaborators shared by all agents. Cache, Tracker,
// Budget, and Audit may each be nil to disable that concern.
type Deps struct {
	Router   *router.Router
	Cache    cache.Store
	CacheTTL time.Duration
	Tracker  tracker.Tracker
	Budget   *budget.Enforcer
	Audit    *audit.Logger
}

// runner carries the shared processing sequence. Task variants compose
// it with their own prompt building and post-processing.
type runner struct {
	kind models.TaskKind
	deps Deps
}

// process executes the full agent sequence for one request. buildPrompt
// returns the provider-agnostic prompt or a validation error;
// postProcess shapes the raw completion text for the caller.
func (r *runner) process(
	ctx context.Context,
	req models.AgentRequest,
	buildPrompt func(models.AgentRequest) (string, error),
	postProcess func(string) string,
) (out models.AgentResponse) {
	start := time.Now()
	resp := models.AgentResponse{
		RequestID: uuid.NewString(),
		CreatedAt: start,
	}

	// No panic crosses the agent boundary.
	defer func() {
		if p := recover(); p != nil {
			log.Printf("agent %s panicked: %v", r.kind, p)
			out = r.fail(resp, start, models.ErrKindInvalidRequest, fmt.Errorf("internal error: %v", p))
		}
	}()

	if err := r.validate(req); err != nil {
		return r.fail(resp, start, models.ErrKindInvalidRequest, err)
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return r.fail(resp, start, models.ErrKindInvalidRequest, err)
	}

	fp := cache.Fingerprint(req.Task, prompt, req.Provider, req.Model, req.Sampling)

	if r.deps.Cache != nil {
		if entry, ok := r.deps.Cache.Get(fp); ok {
			resp.Success = true
			resp.Content = entry.Content
			resp.Provider = entry.Provider
			resp.Model = entry.Model
			resp.Usage = entry.Usage
			resp.CacheHit = true
			resp.Latency = time.Since(start)
			r.record(ctx, resp, req.Task)
			return resp
		}
	}

	if r.deps.Budget != nil {
		if err := r.deps.Budget.Check(ctx, req.Provider, req.Task); err != nil {
			if errors.Is(err, budget.ErrBudgetExceeded) {
				return r.fail(resp, start, models.ErrKindBudgetExceeded, err)
			}
			return r.fail(resp, start, models.ErrKindInvalidRequest, err)
		}
	}

	result, err := r.deps.Router.Dispatch(ctx, models.CompletionRequest{
		Prompt:   prompt,
		Model:    req.Model,
		Sampling: req.Sampling,
	}, req.Provider)
	if err != nil {
		kind := dispatchErrorKind(err)
		resp = r.fail(resp, start, kind, err)
		// A cancelled dispatch is abandoned work: no accounting either.
		if kind != models.ErrKindCancelled {
			r.record(ctx, resp, req.Task)
			r.auditLog(ctx, resp, req.Task, prompt)
		}
		return resp
	}

	resp.Success = true
	resp.Content = postProcess(result.Completion.Content)
	resp.Provider = result.Provider
	resp.Model = result.Completion.Model
	resp.Usage = result.Completion.Usage
	resp.Latency = time.Since(start)

	if r.deps.Cache != nil && r.deps.CacheTTL > 0 {
		err := r.deps.Cache.Put(models.CacheEntry{
			Fingerprint: fp,
			Content:     resp.Content,
			Provider:    resp.Provider,
			Model:       resp.Model,
			Usage:       resp.Usage,
			CreatedAt:   time.Now(),
			TTL:         r.deps.CacheTTL,
		})
		if err != nil {
			log.Printf("cache put failed: %v", err)
		}
	}

	r.record(ctx, resp, req.Task)
	r.auditLog(ctx, resp, req.Task, prompt)
	return resp
}

// validate rejects caller misuse before any work happens.
func (r *runner) validate(req models.AgentRequest) error {
	if !req.Task.Valid() {
		return fmt.Errorf("unsupported task kind %q", req.Task)
	}
	if req.Task != r.kind {
		return fmt.Errorf("task %q routed to %q agent", req.Task, r.kind)
	}
	if req.Instruction == "" {
		return errors.New("instruction is required")
	}
	return nil
}

// fail finalizes a failed response.
func (r *runner) fail(resp models.AgentResponse, start time.Time, kind models.ErrorKind, err error) models.AgentResponse {
	resp.Success = false
	resp.ErrorKind = kind
	resp.Error = err.Error()
	resp.Latency = time.Since(start)
	return resp
}

// record writes a usage record; a cache hit records zero tokens since
// no provider call was paid for.
func (r *runner) record(ctx context.Context, resp models.AgentResponse, task models.TaskKind) {
	if r.deps.Tracker == nil {
		return
	}
	rec := models.UsageRecord{
		Provider:  resp.Provider,
		Model:     resp.Model,
		Task:      task,
		LatencyMs: resp.Latency.Milliseconds(),
		CacheHit:  resp.CacheHit,
		Failed:    !resp.Success,
		CreatedAt: time.Now().UTC(),
	}
	if !resp.CacheHit {
		rec.PromptTokens = resp.Usage.PromptTokens
		rec.CompletionTokens = resp.Usage.CompletionTokens
		rec.TotalTokens = resp.Usage.TotalTokens
	}
	if err := r.deps.Tracker.Record(ctx, rec); err != nil {
		log.Printf("usage record failed: %v", err)
	}
}

// auditLog writes an audit entry for a non-cached invocation.
func (r *runner) auditLog(ctx context.Context, resp models.AgentResponse, task models.TaskKind, prompt string) {
	if r.deps.Audit == nil {
		return
	}
	err := r.deps.Audit.Log(ctx, models.AuditEntry{
		RequestID:        resp.RequestID,
		Task:             task,
		Provider:         resp.Provider,
		Model:            resp.Model,
		Prompt:           prompt,
		Response:         resp.Content,
		ErrorKind:        resp.ErrorKind,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		LatencyMs:        resp.Latency.Milliseconds(),
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil {
		log.Printf("audit log failed: %v", err)
	}
}

// dispatchErrorKind classifies a router failure for the response.
func dispatchErrorKind(err error) models.ErrorKind {
	var all *router.AllFailedError
	if errors.As(err, &all) {
		return models.ErrKindAllProvidersFailed
	}
	return provider.KindOf(err)
}
