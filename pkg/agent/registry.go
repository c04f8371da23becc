package agent

import (
	"fmt"

	"github.com/droidpilot-ai/droidpilot/pkg/logcat"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// New builds the agent serving a task kind. The pipeline is only used
// by the log-analysis agent and may be nil for the others.
func New(kind models.TaskKind, deps Deps, pipeline *logcat.Pipeline) (Agent, error) {
	switch kind {
	case models.TaskGenerate:
		return NewGenerator(deps), nil
	case models.TaskFix:
		return NewFixer(deps), nil
	case models.TaskAnalyzeLog:
		if pipeline == nil {
			return nil, fmt.Errorf("analyze-log agent requires a log pipeline")
		}
		return NewLogAnalyzer(deps, pipeline), nil
	default:
		return nil, fmt.Errorf("unsupported task kind %q", kind)
	}
}
