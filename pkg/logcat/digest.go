package logcat

import (
	"fmt"
	"strings"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// severityOrder fixes rendering order for level counts.
var severityOrder = []models.Severity{
	models.SeverityVerbose,
	models.SeverityDebug,
	models.SeverityInfo,
	models.SeverityWarning,
	models.SeverityError,
	models.SeverityFatal,
}

// Render formats a digest as the evidence block embedded in an analysis
// prompt. The output size is bounded by the pipeline's caps, never by
// the raw log size.
func Render(d models.LogDigest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Lines analyzed: %d\n", d.TotalLines)

	var levels []string
	for _, sev := range severityOrder {
		if n := d.LevelCounts[sev]; n > 0 {
			levels = append(levels, fmt.Sprintf("%s=%d", sev, n))
		}
	}
	if len(levels) > 0 {
		fmt.Fprintf(&sb, "Severity counts: %s\n", strings.Join(levels, " "))
	}
	fmt.Fprintf(&sb, "Errors: %d, warnings: %d\n",
		d.ClassCounts[models.ClassError], d.ClassCounts[models.ClassWarning])

	if len(d.Indicators) > 0 {
		fmt.Fprintf(&sb, "Indicators: %s\n", strings.Join(d.Indicators, ", "))
	}

	if len(d.Clusters) == 0 {
		sb.WriteString("No crash clusters detected.\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "Crash clusters: %d\n", len(d.Clusters))
	for i, c := range d.Clusters {
		fmt.Fprintf(&sb, "\nCrash %d (line %d", i+1, c.StartLine)
		if c.Timestamp != "" {
			fmt.Fprintf(&sb, ", %s", c.Timestamp)
		}
		fmt.Fprintf(&sb, "): %s\n", c.Exception)
		for _, frame := range c.Frames {
			fmt.Fprintf(&sb, "  %s\n", frame)
		}
		if c.Truncated {
			sb.WriteString("  ... (frames truncated)\n")
		}
	}
	return sb.String()
}
