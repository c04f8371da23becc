package models

import "time"

// AuditEntry records a single non-cached agent invocation end to end.
type AuditEntry struct {
	RequestID        string    `json:"request_id"`
	Task             TaskKind  `json:"task"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Prompt           string    `json:"prompt,omitempty"`
	Response         string    `json:"response,omitempty"`
	ErrorKind        ErrorKind `json:"error_kind,omitempty"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	LatencyMs        int64     `json:"latency_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuditConfig controls the audit logging subsystem.
type AuditConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"`
	MaxBodySize   int    `yaml:"max_body_size"` // bytes, applied to prompt and response
}

// AuditQueryOpts specifies filters for querying audit entries.
type AuditQueryOpts struct {
	Task      TaskKind
	Provider  string
	Since     time.Time
	RequestID string
	Limit     int
}
