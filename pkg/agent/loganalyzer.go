package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/droidpilot-ai/droidpilot/pkg/logcat"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// LogAnalyzer is the log-analysis agent. The raw log flows through the
// ingestion pipeline first; only the condensed evidence digest reaches
// the prompt, which bounds prompt size regardless of log size.
type LogAnalyzer struct {
	run      runner
	pipeline *logcat.Pipeline
}

// NewLogAnalyzer creates a log-analysis agent over the given pipeline.
func NewLogAnalyzer(deps Deps, pipeline *logcat.Pipeline) *LogAnalyzer {
	return &LogAnalyzer{
		run:      runner{kind: models.TaskAnalyzeLog, deps: deps},
		pipeline: pipeline,
	}
}

// Kind returns the task kind this agent serves.
func (a *LogAnalyzer) Kind() models.TaskKind { return models.TaskAnalyzeLog }

// Process runs one analysis request to completion.
func (a *LogAnalyzer) Process(ctx context.Context, req models.AgentRequest) models.AgentResponse {
	return a.run.process(ctx, req, func(r models.AgentRequest) (string, error) {
		if strings.TrimSpace(r.Artifact) == "" {
			return "", errors.New("analyze-log request has no log artifact")
		}
		digest := a.pipeline.Run(r.Artifact)
		return buildAnalysisPrompt(r.Instruction, logcat.Render(digest)), nil
	}, strings.TrimSpace)
}
