package agent

import (
	"strings"
	"testing"
)

func TestBuildGeneratePrompt(t *testing.T) {
	p := buildGeneratePrompt("kotlin", "a retry helper", "")
	if !strings.Contains(p, "Generate kotlin code") {
		t.Errorf("prompt missing language framing:\n%s", p)
	}
	if !strings.Contains(p, "a retry helper") {
		t.Error("prompt missing instruction")
	}
	if !strings.Contains(p, "Kotlin coding conventions") {
		t.Error("prompt missing language guidance")
	}
	if strings.Contains(p, "Existing code context") {
		t.Error("prompt should omit code context without an artifact")
	}
}

func TestBuildGeneratePromptWithArtifact(t *testing.T) {
	p := buildGeneratePrompt("python", "extend this", "def base(): pass")
	if !strings.Contains(p, "```python\ndef base(): pass\n```") {
		t.Errorf("artifact not embedded verbatim:\n%s", p)
	}
}

func TestBuildGeneratePromptUnknownLanguage(t *testing.T) {
	p := buildGeneratePrompt("cobol", "a report writer", "")
	if !strings.Contains(p, "PEP 8") {
		t.Error("unknown language should fall back to python guidance")
	}
}

func TestBuildFixPromptIncludesIssues(t *testing.T) {
	p := buildFixPrompt("python", "it crashes", "except:\n    pass", []string{"Bare except clauses"})
	if !strings.Contains(p, "Detected issues:") || !strings.Contains(p, "- Bare except clauses") {
		t.Errorf("prompt missing pre-scanned issues:\n%s", p)
	}
	if !strings.Contains(p, "it crashes") {
		t.Error("prompt missing problem description")
	}
}

func TestBuildFixPromptNoIssues(t *testing.T) {
	p := buildFixPrompt("go", "slow", "package main", nil)
	if strings.Contains(p, "Detected issues:") {
		t.Error("prompt should omit issues section when none detected")
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"fun main() {\n    val x = 1\n}", "kotlin"},
		{"def main():\n    pass", "python"},
		{"public class Main {\n}", "java"},
		{"package main\n\nfunc main() {}", "go"},
		{"const x = () => {}", "javascript"},
		{"#!/bin/sh\nls", "unknown"},
	}
	for _, tc := range cases {
		if got := detectLanguage(tc.code); got != tc.want {
			t.Errorf("detectLanguage(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestScanIssues(t *testing.T) {
	issues := scanIssues("def f(x):\n    try:\n        pass\n    except:\n        pass\nprint(f(1))", "python")

	joined := strings.Join(issues, "\n")
	for _, want := range []string{"docstrings", "Bare except", "debug print"} {
		if !strings.Contains(joined, want) {
			t.Errorf("issues %v missing %q", issues, want)
		}
	}
}

func TestScanIssuesCleanCode(t *testing.T) {
	code := "def f(x):\n    \"\"\"Doubles x.\"\"\"\n    return x * 2"
	if issues := scanIssues(code, "python"); len(issues) != 0 {
		t.Errorf("issues = %v, want none for clean code", issues)
	}
}

func TestExtractCode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare code", "def f(): pass", "def f(): pass"},
		{"fenced", "```python\ndef f(): pass\n```", "def f(): pass"},
		{"fenced with chatter", "Here's the code:\n```python\ndef f(): pass\n```\nLet me know!", "def f(): pass"},
		{"lead-in only", "Here is the fixed code: def f(): pass", "def f(): pass"},
		{"multiple blocks", "```go\npackage a\n```\ntext\n```go\npackage b\n```", "package a\npackage b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractCode(tc.in); got != tc.want {
				t.Errorf("extractCode(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
