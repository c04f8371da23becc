package provider

import "github.com/droidpilot-ai/droidpilot/pkg/config"

const openAIDefaultURL = "https://api.openai.com/v1"

// newOpenAI creates an adapter for the OpenAI chat completion API.
func newOpenAI(cfg config.ProviderConfig) Client {
	url := cfg.URL
	if url == "" {
		url = openAIDefaultURL
	}
	return &chatClient{
		name:    cfg.Name,
		baseURL: url,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: timeoutFor(cfg),
	}
}
