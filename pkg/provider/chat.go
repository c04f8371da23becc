package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// chatMessage is a single message in an OpenAI-style chat request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is an OpenAI-compatible chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

// chatResponse is an OpenAI-compatible chat completion response body.
type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// chatClient talks to any OpenAI-compatible chat completion endpoint.
// Both the OpenAI and OpenRouter adapters are instances of it.
type chatClient struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
	headers map[string]string
}

// Name returns the configured provider identifier.
func (c *chatClient) Name() string { return c.name }

// Complete sends one chat completion request. No internal retries.
func (c *chatClient) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = c.model
	}

	body := chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: req.Prompt}},
	}
	if req.Sampling.Temperature > 0 {
		t := req.Sampling.Temperature
		body.Temperature = &t
	}
	if req.Sampling.MaxTokens > 0 {
		m := req.Sampling.MaxTokens
		body.MaxTokens = &m
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Provider: c.name, Kind: models.ErrKindInvalidRequest, Message: "marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.baseURL, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Provider: c.name, Kind: models.ErrKindInvalidRequest, Message: "create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(c.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(c.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Provider: c.name,
			Kind:     classifyStatus(resp.StatusCode),
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(raw, 512)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &Error{Provider: c.name, Kind: models.ErrKindInvalidResponse, Message: "decode response", Err: err}
	}
	if len(parsed.Choices) == 0 {
		return nil, &Error{Provider: c.name, Kind: models.ErrKindInvalidResponse, Message: "response has no choices"}
	}

	result := &models.CompletionResult{
		Content: parsed.Choices[0].Message.Content,
		Model:   parsed.Model,
	}
	if result.Model == "" {
		result.Model = model
	}
	if parsed.Usage != nil {
		result.Usage = models.Usage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
			TotalTokens:      parsed.Usage.TotalTokens,
		}
	}
	return result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
