// Package logcat parses raw Android log text into structured records
// and condenses them into a size-bounded digest for analysis prompts.
package logcat

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/droidpilot-ai/droidpilot/pkg/config"
	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// threadtimeRe matches the logcat threadtime format:
// "08-30 14:21:05.123  1234  5678 E ActivityManager: message".
var threadtimeRe = regexp.MustCompile(
	`^(\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d{3})\s+(\d+)\s+(\d+)\s+([VDIWEF])\s+(\S+?)\s*:\s?(.*)$`)

var (
	fatalExceptionRe = regexp.MustCompile(`FATAL EXCEPTION`)
	stackFrameRe     = regexp.MustCompile(`^\s*at\s+\S+\(.*\)\s*$`)
	causedByRe       = regexp.MustCompile(`^\s*Caused by:`)
	exceptionLineRe  = regexp.MustCompile(`^(?:[\w$]+\.)+[\w$]+(?:Exception|Error)\b.*$`)
	processLineRe    = regexp.MustCompile(`^\s*Process:\s+\S+`)
)

// crashIndicators are coarse markers scanned across the whole log, in
// addition to stack-trace clustering.
var crashIndicators = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`ANR in`), "application not responding"},
	{regexp.MustCompile(`SIGSEGV|SIGABRT|SIGILL`), "native crash"},
	{regexp.MustCompile(`OutOfMemoryError`), "out of memory"},
	{regexp.MustCompile(`StackOverflowError`), "stack overflow"},
	{regexp.MustCompile(`Process .*\(pid \d+\) has died`), "process death"},
}

// Pipeline turns raw log text into records and digests. All bounds are
// fixed at construction.
type Pipeline struct {
	maxLines  int
	maxFrames int
}

// New creates a Pipeline with the given bounds.
func New(cfg config.LogcatConfig) *Pipeline {
	maxLines := cfg.MaxDigestLines
	if maxLines <= 0 {
		maxLines = 500
	}
	maxFrames := cfg.MaxFrames
	if maxFrames <= 0 {
		maxFrames = 20
	}
	return &Pipeline{maxLines: maxLines, maxFrames: maxFrames}
}

// Parse classifies every line of raw log text in order of appearance.
// Lines that match no known pattern are Normal; that is never an error.
func (p *Pipeline) Parse(raw string) []models.LogRecord {
	lines := strings.Split(strings.TrimRight(raw, "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}

	records := make([]models.LogRecord, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		rec := models.LogRecord{Line: i + 1, Message: line}

		if m := threadtimeRe.FindStringSubmatch(line); m != nil {
			rec.Timestamp = m[1]
			rec.PID, _ = strconv.Atoi(m[2])
			rec.TID, _ = strconv.Atoi(m[3])
			rec.Level = models.Severity(m[4])
			rec.Tag = m[5]
			rec.Message = m[6]
		}

		rec.Class = classify(rec)
		records = append(records, rec)
	}
	return records
}

// classify assigns the line class from the crash-frame patterns first,
// then the severity level.
func classify(rec models.LogRecord) models.LineClass {
	msg := rec.Message
	switch {
	case fatalExceptionRe.MatchString(msg),
		stackFrameRe.MatchString(msg),
		causedByRe.MatchString(msg),
		exceptionLineRe.MatchString(msg),
		processLineRe.MatchString(msg):
		return models.ClassCrashFrame
	case rec.Level == models.SeverityError || rec.Level == models.SeverityFatal:
		return models.ClassError
	case rec.Level == models.SeverityWarning:
		return models.ClassWarning
	default:
		return models.ClassNormal
	}
}

// Digest condenses parsed records: line and severity counts, crash
// clusters, and coarse crash indicators. Only the most recent maxLines
// records participate, bounding the output for prompt embedding.
func (p *Pipeline) Digest(records []models.LogRecord) models.LogDigest {
	if len(records) > p.maxLines {
		records = records[len(records)-p.maxLines:]
	}

	d := models.LogDigest{
		TotalLines:  len(records),
		LevelCounts: make(map[models.Severity]int),
		ClassCounts: make(map[models.LineClass]int),
	}

	var cluster *models.CrashCluster
	flush := func() {
		if cluster != nil {
			d.Clusters = append(d.Clusters, *cluster)
			cluster = nil
		}
	}

	for _, rec := range records {
		if rec.Level != "" {
			d.LevelCounts[rec.Level]++
		}
		d.ClassCounts[rec.Class]++

		if rec.Class != models.ClassCrashFrame {
			flush()
			continue
		}

		if cluster == nil {
			cluster = &models.CrashCluster{
				StartLine: rec.Line,
				Timestamp: rec.Timestamp,
				Exception: exceptionType(rec.Message),
			}
		}
		if len(cluster.Frames) < p.maxFrames {
			cluster.Frames = append(cluster.Frames, rec.Message)
		} else {
			cluster.Truncated = true
		}
	}
	flush()

	d.Indicators = indicators(records)
	return d
}

// Run parses raw text and digests it in one step.
func (p *Pipeline) Run(raw string) models.LogDigest {
	return p.Digest(p.Parse(raw))
}

// exceptionType extracts the exception identity from a cluster's first
// line. For a "FATAL EXCEPTION" header the type is the text following
// the marker; otherwise the leading exception class name is used.
func exceptionType(msg string) string {
	if idx := strings.Index(msg, "FATAL EXCEPTION"); idx >= 0 {
		rest := msg[idx+len("FATAL EXCEPTION"):]
		rest = strings.TrimLeft(rest, ": ")
		return strings.TrimSpace(rest)
	}
	if m := exceptionLineRe.FindString(strings.TrimSpace(msg)); m != "" {
		if cut := strings.IndexAny(m, ": "); cut > 0 {
			return m[:cut]
		}
		return m
	}
	return strings.TrimSpace(msg)
}

// indicators returns the distinct coarse crash markers present.
func indicators(records []models.LogRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		for _, ind := range crashIndicators {
			if seen[ind.name] {
				continue
			}
			if ind.re.MatchString(rec.Message) {
				seen[ind.name] = true
				out = append(out, ind.name)
			}
		}
	}
	return out
}
