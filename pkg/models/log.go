package models

// Severity is an Android logcat priority level.
type Severity string

const (
	SeverityVerbose Severity = "V"
	SeverityDebug   Severity = "D"
	SeverityInfo    Severity = "I"
	SeverityWarning Severity = "W"
	SeverityError   Severity = "E"
	SeverityFatal   Severity = "F"
)

// LineClass is the pipeline's classification of a single log line.
type LineClass string

const (
	ClassNormal     LineClass = "normal"
	ClassWarning    LineClass = "warning"
	ClassError      LineClass = "error"
	ClassCrashFrame LineClass = "crash_frame"
)

// LogRecord is one parsed log line, ordered by appearance in the stream.
type LogRecord struct {
	Line      int       `json:"line"` // 1-based source line number
	Timestamp string    `json:"timestamp,omitempty"`
	PID       int       `json:"pid,omitempty"`
	TID       int       `json:"tid,omitempty"`
	Level     Severity  `json:"level,omitempty"`
	Tag       string    `json:"tag,omitempty"`
	Message   string    `json:"message"`
	Class     LineClass `json:"class"`
}

// CrashCluster is a contiguous run of crash-frame lines recognized as
// one exception event.
type CrashCluster struct {
	StartLine int      `json:"start_line"`
	Timestamp string   `json:"timestamp,omitempty"`
	Exception string   `json:"exception"`
	Frames    []string `json:"frames"`
	Truncated bool     `json:"truncated"` // frame list hit the depth cap
}

// LogDigest is the condensed, size-bounded summary of a log that
// reaches an analysis prompt in place of the raw text.
type LogDigest struct {
	TotalLines  int               `json:"total_lines"`
	LevelCounts map[Severity]int  `json:"level_counts"`
	ClassCounts map[LineClass]int `json:"class_counts"`
	Clusters    []CrashCluster    `json:"clusters"`
	Indicators  []string          `json:"indicators,omitempty"` // ANR, OOM and similar markers
}
