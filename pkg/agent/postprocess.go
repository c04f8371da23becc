package agent

import "strings"

// leadInArtifacts are conversational prefixes models emit despite being
// asked for code only.
var leadInArtifacts = []string{
	"Here's the code:",
	"Here is the code:",
	"Here's the fixed code:",
	"Here is the fixed code:",
	"The code is:",
}

// extractCode strips markdown fences and lead-in chatter from model
// output that should be bare code. When the output contains a fenced
// block, only the block content survives.
func extractCode(content string) string {
	content = strings.TrimSpace(content)
	for _, artifact := range leadInArtifacts {
		if strings.HasPrefix(content, artifact) {
			content = strings.TrimSpace(content[len(artifact):])
		}
	}

	if !strings.Contains(content, "```") {
		return content
	}

	var kept []string
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inBlock = !inBlock
			continue
		}
		if inBlock {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
