package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/config"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"github.com/droidpilot-ai/droidpilot/pkg/provider"
)

func failWith(kind models.ErrorKind) func(context.Context, models.CompletionRequest) (*models.CompletionResult, error) {
	return func(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error) {
		return nil, &provider.Error{Kind: kind, Message: "scripted failure"}
	}
}

func succeedWith(content string) func(context.Context, models.CompletionRequest) (*models.CompletionResult, error) {
	return func(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error) {
		return &models.CompletionResult{
			Content: content,
			Model:   req.Model,
			Usage:   models.Usage{PromptTokens: 5, CompletionTokens: 5, TotalTokens: 10},
		}, nil
	}
}

// newTestRouter wires a router over the given mocks at ascending priority.
func newTestRouter(t *testing.T, maxAttempts int, mocks ...*provider.Mock) *Router {
	t.Helper()
	cfg := config.Default()
	cfg.Router.MaxAttempts = maxAttempts
	cfg.Router.Backoff = time.Millisecond

	reg := provider.NewRegistry()
	for i, m := range mocks {
		cfg.Providers = append(cfg.Providers, config.ProviderConfig{
			Name:     m.ProviderName,
			Type:     "openai",
			Model:    "default-model",
			Enabled:  true,
			Priority: i,
		})
		reg.Register(m)
	}
	return New(cfg, reg)
}

func TestDispatchFirstProviderSucceeds(t *testing.T) {
	first := &provider.Mock{ProviderName: "alpha", CompleteFunc: succeedWith("from alpha")}
	second := &provider.Mock{ProviderName: "beta", CompleteFunc: succeedWith("from beta")}
	r := newTestRouter(t, 1, first, second)

	res, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Provider != "alpha" {
		t.Errorf("provider = %s, want alpha", res.Provider)
	}
	if res.Completion.Content != "from alpha" {
		t.Errorf("content = %q", res.Completion.Content)
	}
	if second.Calls() != 0 {
		t.Errorf("beta called %d times, want 0", second.Calls())
	}
}

func TestDispatchFailsOverInOrder(t *testing.T) {
	first := &provider.Mock{ProviderName: "alpha", CompleteFunc: failWith(models.ErrKindNetworkFailure)}
	second := &provider.Mock{ProviderName: "beta", CompleteFunc: failWith(models.ErrKindAuthFailure)}
	third := &provider.Mock{ProviderName: "gamma", CompleteFunc: succeedWith("from gamma")}
	r := newTestRouter(t, 1, first, second, third)

	res, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Provider != "gamma" {
		t.Errorf("provider = %s, want gamma", res.Provider)
	}
	if first.Calls() != 1 || second.Calls() != 1 || third.Calls() != 1 {
		t.Errorf("calls = %d/%d/%d, want 1/1/1", first.Calls(), second.Calls(), third.Calls())
	}
	if len(res.Attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(res.Attempts))
	}
	if res.Attempts[2].Kind != models.ErrKindNone {
		t.Errorf("final attempt kind = %s, want none", res.Attempts[2].Kind)
	}
}

func TestDispatchExhaustionAggregatesCauses(t *testing.T) {
	first := &provider.Mock{ProviderName: "alpha", CompleteFunc: failWith(models.ErrKindAuthFailure)}
	second := &provider.Mock{ProviderName: "beta", CompleteFunc: failWith(models.ErrKindInvalidResponse)}
	third := &provider.Mock{ProviderName: "gamma", CompleteFunc: failWith(models.ErrKindAuthFailure)}
	r := newTestRouter(t, 3, first, second, third)

	_, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, "")
	var all *AllFailedError
	if !errors.As(err, &all) {
		t.Fatalf("err = %v, want AllFailedError", err)
	}
	if len(all.Causes) != 3 {
		t.Fatalf("causes = %d, want one per provider", len(all.Causes))
	}
	if all.Causes[0].Provider != "alpha" || all.Causes[0].Kind != models.ErrKindAuthFailure {
		t.Errorf("cause[0] = %s/%s", all.Causes[0].Provider, all.Causes[0].Kind)
	}
	if all.Causes[1].Kind != models.ErrKindInvalidResponse {
		t.Errorf("cause[1] kind = %s", all.Causes[1].Kind)
	}

	// Non-retryable failures must not burn the attempt budget.
	if first.Calls() != 1 || second.Calls() != 1 || third.Calls() != 1 {
		t.Errorf("calls = %d/%d/%d, want 1/1/1", first.Calls(), second.Calls(), third.Calls())
	}
}

func TestDispatchRetriesTransientFailures(t *testing.T) {
	var n int
	flaky := &provider.Mock{ProviderName: "alpha"}
	flaky.CompleteFunc = func(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error) {
		n++
		if n < 3 {
			return nil, &provider.Error{Kind: models.ErrKindRateLimited, Message: "429"}
		}
		return &models.CompletionResult{Content: "eventually"}, nil
	}
	r := newTestRouter(t, 3, flaky)

	res, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, "")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Completion.Content != "eventually" {
		t.Errorf("content = %q", res.Completion.Content)
	}
	if flaky.Calls() != 3 {
		t.Errorf("calls = %d, want 3", flaky.Calls())
	}
}

func TestDispatchRespectsAttemptBudget(t *testing.T) {
	limited := &provider.Mock{ProviderName: "alpha", CompleteFunc: failWith(models.ErrKindRateLimited)}
	r := newTestRouter(t, 2, limited)

	_, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, "")
	var all *AllFailedError
	if !errors.As(err, &all) {
		t.Fatalf("err = %v, want AllFailedError", err)
	}
	if limited.Calls() != 2 {
		t.Errorf("calls = %d, want attempt budget of 2", limited.Calls())
	}
}

func TestDispatchPreferredProviderPins(t *testing.T) {
	first := &provider.Mock{ProviderName: "alpha", CompleteFunc: succeedWith("from alpha")}
	second := &provider.Mock{ProviderName: "beta", CompleteFunc: failWith(models.ErrKindNetworkFailure)}
	r := newTestRouter(t, 1, first, second)

	// A pinned provider that fails must not fail over.
	_, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, "beta")
	var all *AllFailedError
	if !errors.As(err, &all) {
		t.Fatalf("err = %v, want AllFailedError", err)
	}
	if len(all.Causes) != 1 || all.Causes[0].Provider != "beta" {
		t.Errorf("causes = %+v, want single beta cause", all.Causes)
	}
	if first.Calls() != 0 {
		t.Errorf("alpha called %d times while pinned to beta", first.Calls())
	}
}

func TestDispatchUnknownPreferenceFallsBack(t *testing.T) {
	first := &provider.Mock{ProviderName: "alpha", CompleteFunc: succeedWith("from alpha")}
	r := newTestRouter(t, 1, first)

	res, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, "nonexistent")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Provider != "alpha" {
		t.Errorf("provider = %s, want alpha via fallback", res.Provider)
	}
}

func TestDispatchCancelledContext(t *testing.T) {
	untouched := &provider.Mock{ProviderName: "alpha", CompleteFunc: succeedWith("never")}
	r := newTestRouter(t, 1, untouched)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Dispatch(ctx, models.CompletionRequest{Prompt: "hi"}, "")
	if provider.KindOf(err) != models.ErrKindCancelled {
		t.Fatalf("kind = %s, want cancelled", provider.KindOf(err))
	}
	if untouched.Calls() != 0 {
		t.Errorf("provider called %d times after cancellation", untouched.Calls())
	}
}

func TestDispatchCancelledDuringBackoff(t *testing.T) {
	limited := &provider.Mock{ProviderName: "alpha", CompleteFunc: failWith(models.ErrKindRateLimited)}
	cfg := config.Default()
	cfg.Router.MaxAttempts = 5
	cfg.Router.Backoff = time.Hour
	cfg.Providers = []config.ProviderConfig{{Name: "alpha", Type: "openai", Enabled: true}}
	reg := provider.NewRegistry()
	reg.Register(limited)
	r := New(cfg, reg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.Dispatch(ctx, models.CompletionRequest{Prompt: "hi"}, "")
	if provider.KindOf(err) != models.ErrKindCancelled {
		t.Fatalf("kind = %s, want cancelled during backoff", provider.KindOf(err))
	}
	if limited.Calls() != 1 {
		t.Errorf("calls = %d, want 1 before cancellation", limited.Calls())
	}
}

func TestDispatchNoProviders(t *testing.T) {
	cfg := config.Default()
	r := New(cfg, provider.NewRegistry())

	_, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, "")
	var all *AllFailedError
	if !errors.As(err, &all) {
		t.Fatalf("err = %v, want AllFailedError", err)
	}
}

func TestDispatchDefaultsModelFromConfig(t *testing.T) {
	var seen string
	m := &provider.Mock{ProviderName: "alpha"}
	m.CompleteFunc = func(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error) {
		seen = req.Model
		return &models.CompletionResult{Content: "ok", Model: req.Model}, nil
	}
	r := newTestRouter(t, 1, m)

	if _, err := r.Dispatch(context.Background(), models.CompletionRequest{Prompt: "hi"}, ""); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if seen != "default-model" {
		t.Errorf("model = %q, want config default", seen)
	}
}
