package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/agent"
	"github.com/droidpilot-ai/droidpilot/pkg/audit"
	"github.com/droidpilot-ai/droidpilot/pkg/budget"
	"github.com/droidpilot-ai/droidpilot/pkg/cache"
	cachesqlite "github.com/droidpilot-ai/droidpilot/pkg/cache/sqlite"
	"github.com/droidpilot-ai/droidpilot/pkg/config"
	"github.com/droidpilot-ai/droidpilot/pkg/logcat"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"github.com/droidpilot-ai/droidpilot/pkg/provider"
	"github.com/droidpilot-ai/droidpilot/pkg/router"
	"github.com/droidpilot-ai/droidpilot/pkg/tracker"
)

// app wires an agent and its collaborators from configuration.
type app struct {
	cfg      *config.Config
	deps     agent.Deps
	pipeline *logcat.Pipeline

	closers []func() error
}

// loadConfig reads the config file, or returns defaults when no path is
// given.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// newApp constructs all collaborators for a run.
func newApp(configPath string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}

	registry, err := provider.FromConfig(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		pipeline: logcat.New(cfg.Logcat),
	}

	a.deps.Router = router.New(cfg, registry)

	if cfg.Cache.Enabled {
		if cfg.Cache.DBPath != "" {
			c, err := cachesqlite.New(cfg.Cache.DBPath)
			if err != nil {
				a.close()
				return nil, err
			}
			a.deps.Cache = c
			a.closers = append(a.closers, c.Close)
		} else {
			a.deps.Cache = cache.NewMemory()
		}
		a.deps.CacheTTL = cfg.Cache.TTL
	}

	var tr tracker.Tracker
	if cfg.DBPath != "" {
		st, err := tracker.New(cfg.DBPath, cfg.Pricing)
		if err != nil {
			a.close()
			return nil, err
		}
		tr = st
	} else {
		tr = tracker.NewMemory(cfg.Pricing)
	}
	a.deps.Tracker = tr
	a.closers = append(a.closers, tr.Close)

	if cfg.Budget.Enabled {
		a.deps.Budget = budget.New(cfg.Budget.Policies, tr)
	}

	if cfg.Audit.Enabled {
		al, err := audit.New(cfg.Audit)
		if err != nil {
			a.close()
			return nil, err
		}
		a.deps.Audit = al
		a.closers = append(a.closers, al.Close)
	}

	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// renderResponse prints a response the way a terminal user wants it:
// content on stdout, accounting on stderr. A failed response becomes
// the command's error.
func renderResponse(resp models.AgentResponse) error {
	if !resp.Success {
		return fmt.Errorf("%s: %s", resp.ErrorKind, resp.Error)
	}
	fmt.Println(resp.Content)
	source := resp.Provider
	if resp.CacheHit {
		source = "cache"
	}
	fmt.Fprintf(os.Stderr, "[%s] %s, %d tokens, %s\n",
		resp.RequestID[:8], source, resp.Usage.TotalTokens, resp.Latency.Round(time.Millisecond))
	return nil
}

// readArtifact loads an artifact from file, or stdin when path is "-".
func readArtifact(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read artifact: %w", err)
	}
	return string(data), nil
}
