package provider

import (
	"context"
	"sync/atomic"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// Mock is a scripted provider client for tests.
type Mock struct {
	ProviderName string
	CompleteFunc func(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error)

	calls atomic.Int64
}

// Name returns the mock's provider identifier.
func (m *Mock) Name() string { return m.ProviderName }

// Complete invokes the scripted function and counts the call.
func (m *Mock) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error) {
	m.calls.Add(1)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return &models.CompletionResult{Content: "ok", Model: req.Model}, nil
}

// Calls returns how many times Complete has been invoked.
func (m *Mock) Calls() int64 { return m.calls.Load() }
