package agent

import (
	"context"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// Generator is the code-generation agent.
type Generator struct {
	run runner
}

// NewGenerator creates a code-generation agent.
func NewGenerator(deps Deps) *Generator {
	return &Generator{run: runner{kind: models.TaskGenerate, deps: deps}}
}

// Kind returns the task kind this agent serves.
func (g *Generator) Kind() models.TaskKind { return models.TaskGenerate }

// Process runs one generation request to completion.
func (g *Generator) Process(ctx context.Context, req models.AgentRequest) models.AgentResponse {
	return g.run.process(ctx, req, func(r models.AgentRequest) (string, error) {
		lang := r.Language
		if lang == "" {
			lang = "python"
		}
		return buildGeneratePrompt(lang, r.Instruction, r.Artifact), nil
	}, extractCode)
}
