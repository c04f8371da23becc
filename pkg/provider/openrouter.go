package provider

import "github.com/droidpilot-ai/droidpilot/pkg/config"

const openRouterDefaultURL = "https://openrouter.ai/api/v1"

// newOpenRouter creates an adapter for the OpenRouter API. The wire
// format is OpenAI-compatible; OpenRouter additionally wants referer
// attribution headers.
func newOpenRouter(cfg config.ProviderConfig) Client {
	url := cfg.URL
	if url == "" {
		url = openRouterDefaultURL
	}
	return &chatClient{
		name:    cfg.Name,
		baseURL: url,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: timeoutFor(cfg),
		headers: map[string]string{
			"HTTP-Referer": "https://github.com/droidpilot-ai/droidpilot",
			"X-Title":      "droidpilot",
		},
	}
}
