// Package provider contains LLM provider abstractions and adapters.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/config"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// DefaultTimeout bounds a single completion call when the provider
// config does not set one.
const DefaultTimeout = 60 * time.Second

// Client is the capability contract every provider adapter satisfies.
// Implementations apply a bounded per-call timeout, surface failures
// through the taxonomy in this package, and never retry internally;
// retry policy belongs to the router.
type Client interface {
	// Name returns the configured provider identifier.
	Name() string

	// Complete sends a prompt and returns the completion.
	Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error)
}

// New builds a client for a single provider config.
func New(cfg config.ProviderConfig) (Client, error) {
	switch cfg.Type {
	case "openai":
		return newOpenAI(cfg), nil
	case "openrouter":
		return newOpenRouter(cfg), nil
	case "gemini":
		return newGemini(cfg), nil
	default:
		return nil, fmt.Errorf("provider %q: unknown type %q", cfg.Name, cfg.Type)
	}
}

// Registry maps provider names to constructed clients.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// FromConfig builds a registry holding a client for every enabled
// provider in the config.
func FromConfig(cfg *config.Config) (*Registry, error) {
	r := NewRegistry()
	for _, pc := range cfg.EnabledProviders() {
		c, err := New(pc)
		if err != nil {
			return nil, err
		}
		r.Register(c)
	}
	return r, nil
}

// Register adds a client to the registry, replacing any client with the
// same name.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.Name()] = c
}

// Get retrieves a client by name.
func (r *Registry) Get(name string) (Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[name]
	return c, ok
}

// timeoutFor returns the per-call timeout for a provider config.
func timeoutFor(cfg config.ProviderConfig) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return DefaultTimeout
}

// httpClient is shared by all adapters. Timeouts are applied per call
// via context so they remain caller-cancellable.
var httpClient = &http.Client{}
