package models

import "time"

// TaskKind identifies the kind of work an agent performs.
type TaskKind string

const (
	TaskGenerate   TaskKind = "generate"
	TaskFix        TaskKind = "fix"
	TaskAnalyzeLog TaskKind = "analyze-log"
)

// Valid reports whether the task kind is one an agent can serve.
func (k TaskKind) Valid() bool {
	switch k {
	case TaskGenerate, TaskFix, TaskAnalyzeLog:
		return true
	}
	return false
}

// SamplingParams controls text generation settings. They are part of the
// cache fingerprint: responses produced under different settings are
// never reused for one another.
type SamplingParams struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// AgentRequest is a fully-populated task for an agent. It is immutable
// once constructed; agents read it and never write back.
type AgentRequest struct {
	Task        TaskKind       `json:"task"`
	Instruction string         `json:"instruction"`
	Artifact    string         `json:"artifact,omitempty"` // source code or raw log text
	Language    string         `json:"language,omitempty"`
	Provider    string         `json:"provider,omitempty"` // preferred provider, empty = router order
	Model       string         `json:"model,omitempty"`
	Sampling    SamplingParams `json:"sampling"`
}

// ErrorKind classifies a failed agent or provider call.
type ErrorKind string

const (
	ErrKindNone               ErrorKind = ""
	ErrKindInvalidRequest     ErrorKind = "invalid_request"
	ErrKindRateLimited        ErrorKind = "rate_limited"
	ErrKindNetworkFailure     ErrorKind = "network_failure"
	ErrKindAuthFailure        ErrorKind = "auth_failure"
	ErrKindInvalidResponse    ErrorKind = "invalid_response"
	ErrKindCancelled          ErrorKind = "cancelled"
	ErrKindBudgetExceeded     ErrorKind = "budget_exceeded"
	ErrKindAllProvidersFailed ErrorKind = "all_providers_failed"
)

// Retryable reports whether a failure of this kind is transient and may
// be retried under router policy. Configuration defects never are.
func (k ErrorKind) Retryable() bool {
	return k == ErrKindRateLimited || k == ErrKindNetworkFailure
}

// AgentResponse is the complete outcome of one agent invocation. Process
// always returns one; no error value crosses the agent boundary.
type AgentResponse struct {
	RequestID string        `json:"request_id"`
	Success   bool          `json:"success"`
	Content   string        `json:"content,omitempty"`
	ErrorKind ErrorKind     `json:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	Provider  string        `json:"provider,omitempty"`
	Model     string        `json:"model,omitempty"`
	Usage     Usage         `json:"usage"`
	Latency   time.Duration `json:"latency"`
	CacheHit  bool          `json:"cache_hit"`
	CreatedAt time.Time     `json:"created_at"`
}
