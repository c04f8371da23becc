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

	"github.com/droidpilot-ai/droidpilot/pkg/config"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

const geminiDefaultURL = "https://generativelanguage.googleapis.com/v1beta"

// gemini is an adapter for the Google Gemini generateContent API.
type gemini struct {
	name    string
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration
}

// newGemini creates a Gemini adapter.
func newGemini(cfg config.ProviderConfig) Client {
	url := cfg.URL
	if url == "" {
		url = geminiDefaultURL
	}
	return &gemini{
		name:    cfg.Name,
		baseURL: url,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: timeoutFor(cfg),
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiGenConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata *struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// Name returns the configured provider identifier.
func (g *gemini) Name() string { return g.name }

// Complete sends one generateContent request. No internal retries.
func (g *gemini) Complete(ctx context.Context, req models.CompletionRequest) (*models.CompletionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = g.model
	}

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: req.Prompt}}}},
	}
	if req.Sampling.Temperature > 0 || req.Sampling.MaxTokens > 0 {
		cfg := &geminiGenConfig{}
		if req.Sampling.Temperature > 0 {
			t := req.Sampling.Temperature
			cfg.Temperature = &t
		}
		if req.Sampling.MaxTokens > 0 {
			m := req.Sampling.MaxTokens
			cfg.MaxOutputTokens = &m
		}
		body.GenerationConfig = cfg
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Provider: g.name, Kind: models.ErrKindInvalidRequest, Message: "marshal request", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimRight(g.baseURL, "/"), model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{Provider: g.name, Kind: models.ErrKindInvalidRequest, Message: "create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(g.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(g.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Provider: g.name,
			Kind:     classifyStatus(resp.StatusCode),
			Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(raw, 512)),
		}
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, &Error{Provider: g.name, Kind: models.ErrKindInvalidResponse, Message: "decode response", Err: err}
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, &Error{Provider: g.name, Kind: models.ErrKindInvalidResponse, Message: "response has no candidates"}
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	content := sb.String()

	result := &models.CompletionResult{Content: content, Model: model}
	if parsed.UsageMetadata != nil {
		result.Usage = models.Usage{
			PromptTokens:     parsed.UsageMetadata.PromptTokenCount,
			CompletionTokens: parsed.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      parsed.UsageMetadata.TotalTokenCount,
		}
	} else {
		// Older API versions omit usage metadata; estimate from word counts.
		result.Usage = estimateUsage(req.Prompt, content)
	}
	return result, nil
}

// estimateUsage approximates token counts at 1.3 tokens per word.
func estimateUsage(prompt, completion string) models.Usage {
	p := int(float64(len(strings.Fields(prompt))) * 1.3)
	c := int(float64(len(strings.Fields(completion))) * 1.3)
	return models.Usage{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c}
}
