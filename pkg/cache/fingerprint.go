package cache

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// Fingerprint derives the deterministic cache key for a request. Every
// field that influences the produced text participates: task kind,
// normalized prompt, provider preference, model, and sampling
// parameters. Two requests with equal fingerprints belong to the same
// response class.
func Fingerprint(task models.TaskKind, prompt, provider, model string, sp models.SamplingParams) string {
	h := sha256.New()
	for _, field := range []string{
		string(task),
		NormalizePrompt(prompt),
		provider,
		model,
		strconv.FormatFloat(sp.Temperature, 'f', -1, 64),
		strconv.Itoa(sp.MaxTokens),
	} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NormalizePrompt canonicalizes a prompt before hashing: line endings
// become \n and surrounding whitespace is dropped.
func NormalizePrompt(prompt string) string {
	prompt = strings.ReplaceAll(prompt, "\r\n", "\n")
	return strings.TrimSpace(prompt)
}
