package cache

import (
	"testing"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

func TestFingerprintDeterministic(t *testing.T) {
	sp := models.SamplingParams{Temperature: 0.2, MaxTokens: 2000}
	f1 := Fingerprint(models.TaskGenerate, "write a parser", "openai", "gpt-4", sp)
	f2 := Fingerprint(models.TaskGenerate, "write a parser", "openai", "gpt-4", sp)
	if f1 != f2 {
		t.Error("same input should produce same fingerprint")
	}
}

func TestFingerprintFieldSensitivity(t *testing.T) {
	base := func() string {
		return Fingerprint(models.TaskGenerate, "write a parser", "openai", "gpt-4",
			models.SamplingParams{Temperature: 0.2, MaxTokens: 2000})
	}

	variants := map[string]string{
		"task": Fingerprint(models.TaskFix, "write a parser", "openai", "gpt-4",
			models.SamplingParams{Temperature: 0.2, MaxTokens: 2000}),
		"prompt": Fingerprint(models.TaskGenerate, "write a lexer", "openai", "gpt-4",
			models.SamplingParams{Temperature: 0.2, MaxTokens: 2000}),
		"provider": Fingerprint(models.TaskGenerate, "write a parser", "gemini", "gpt-4",
			models.SamplingParams{Temperature: 0.2, MaxTokens: 2000}),
		"model": Fingerprint(models.TaskGenerate, "write a parser", "openai", "gpt-4o",
			models.SamplingParams{Temperature: 0.2, MaxTokens: 2000}),
		"temperature": Fingerprint(models.TaskGenerate, "write a parser", "openai", "gpt-4",
			models.SamplingParams{Temperature: 0.7, MaxTokens: 2000}),
		"max_tokens": Fingerprint(models.TaskGenerate, "write a parser", "openai", "gpt-4",
			models.SamplingParams{Temperature: 0.2, MaxTokens: 1000}),
	}

	for field, fp := range variants {
		if fp == base() {
			t.Errorf("changing %s should change the fingerprint", field)
		}
	}
}

func TestFingerprintNormalizesPrompt(t *testing.T) {
	sp := models.SamplingParams{Temperature: 0.2}
	f1 := Fingerprint(models.TaskGenerate, "line one\r\nline two", "", "", sp)
	f2 := Fingerprint(models.TaskGenerate, "line one\nline two\n", "", "", sp)
	if f1 != f2 {
		t.Error("line ending and trailing whitespace differences should not change the fingerprint")
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	sp := models.SamplingParams{}
	// Field content must not bleed across field boundaries.
	f1 := Fingerprint(models.TaskGenerate, "ab", "c", "", sp)
	f2 := Fingerprint(models.TaskGenerate, "a", "bc", "", sp)
	if f1 == f2 {
		t.Error("field boundaries should be part of the hash")
	}
}
