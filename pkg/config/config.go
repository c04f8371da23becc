package config

import (
	"fmt"
	"os"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
	"gopkg.in/yaml.v3"
)

// Config holds all droidpilot configuration.
type Config struct {
	DBPath    string                `yaml:"db_path"`
	Providers []ProviderConfig      `yaml:"providers"`
	Router    RouterConfig          `yaml:"router"`
	Cache     CacheConfig           `yaml:"cache"`
	Budget    BudgetConfig          `yaml:"budget"`
	Audit     models.AuditConfig    `yaml:"audit"`
	Logcat    LogcatConfig          `yaml:"logcat"`
	Pricing   []models.ModelPricing `yaml:"pricing"`
}

// ProviderConfig defines an upstream LLM provider.
// Type is "openai", "openrouter", or "gemini".
type ProviderConfig struct {
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"`
	URL      string        `yaml:"url"`
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Enabled  bool          `yaml:"enabled"`
	Priority int           `yaml:"priority"` // lower tries first
	Timeout  time.Duration `yaml:"timeout"`
}

// RouterConfig controls failover dispatch.
type RouterConfig struct {
	// MaxAttempts is the per-provider attempt budget. Retries apply only
	// to transient failures.
	MaxAttempts int           `yaml:"max_attempts"`
	Backoff     time.Duration `yaml:"backoff"` // base delay, doubled per retry
}

// CacheConfig controls the response cache. An empty DBPath keeps the
// cache in memory only.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	DBPath  string        `yaml:"db_path"`
}

// BudgetConfig controls token budget enforcement.
type BudgetConfig struct {
	Enabled  bool                  `yaml:"enabled"`
	Policies []models.BudgetPolicy `yaml:"policies"`
}

// LogcatConfig bounds log ingestion output.
type LogcatConfig struct {
	MaxDigestLines int `yaml:"max_digest_lines"` // most recent lines kept for digesting
	MaxFrames      int `yaml:"max_frames"`       // stack frames kept per crash cluster
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		DBPath: "droidpilot.db",
		Router: RouterConfig{
			MaxAttempts: 1,
			Backoff:     500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Budget: BudgetConfig{
			Enabled: false,
		},
		Logcat: LogcatConfig{
			MaxDigestLines: 500,
			MaxFrames:      20,
		},
	}
}

// Load reads a YAML config file and expands environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks provider entries for the mistakes a config file can
// actually contain. An empty provider list is legal here; dispatch
// reports it when a request arrives.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Providers))
	for i, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider %q: duplicate name", p.Name)
		}
		seen[p.Name] = true
		switch p.Type {
		case "openai", "openrouter", "gemini":
		case "":
			return fmt.Errorf("provider %q: type is required", p.Name)
		default:
			return fmt.Errorf("provider %q: unknown type %q", p.Name, p.Type)
		}
	}
	if c.Router.MaxAttempts < 1 {
		return fmt.Errorf("router: max_attempts must be at least 1")
	}
	return nil
}

// EnabledProviders returns enabled providers sorted by priority, lowest
// first. Order among equal priorities follows config file order.
func (c *Config) EnabledProviders() []ProviderConfig {
	out := make([]ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.Enabled {
			out = append(out, p)
		}
	}
	// insertion sort keeps config order stable for equal priorities
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Priority < out[j-1].Priority; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
