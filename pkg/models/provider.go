package models

// CompletionRequest is a provider-agnostic text completion request.
type CompletionRequest struct {
	Prompt   string         `json:"prompt"`
	Model    string         `json:"model"`
	Sampling SamplingParams `json:"sampling"`
}

// CompletionResult is what a provider client returns on success.
type CompletionResult struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}
