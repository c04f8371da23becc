package agent

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/droidpilot-ai/droidpilot/pkg/models"
)

// Fixer is the code-fixing agent. It detects the language when the
// request carries no hint and pre-scans the code for common issues so
// the prompt can point the model at them.
type Fixer struct {
	run runner
}

// NewFixer creates a code-fixing agent.
func NewFixer(deps Deps) *Fixer {
	return &Fixer{run: runner{kind: models.TaskFix, deps: deps}}
}

// Kind returns the task kind this agent serves.
func (f *Fixer) Kind() models.TaskKind { return models.TaskFix }

// Process runs one fix request to completion.
func (f *Fixer) Process(ctx context.Context, req models.AgentRequest) models.AgentResponse {
	return f.run.process(ctx, req, func(r models.AgentRequest) (string, error) {
		if strings.TrimSpace(r.Artifact) == "" {
			return "", errors.New("fix request has no code artifact")
		}
		lang := r.Language
		if lang == "" {
			lang = detectLanguage(r.Artifact)
		}
		issues := scanIssues(r.Artifact, lang)
		return buildFixPrompt(lang, r.Instruction, r.Artifact, issues), nil
	}, extractCode)
}

// detectLanguage guesses the language from code content.
func detectLanguage(code string) string {
	switch {
	case strings.Contains(code, "fun main(") || strings.Contains(code, "fun ") && strings.Contains(code, "val "):
		return "kotlin"
	case strings.Contains(code, "def ") || strings.Contains(code, "import ") && strings.Contains(code, "from "):
		return "python"
	case strings.Contains(code, "public class") || strings.Contains(code, "private "):
		return "java"
	case strings.Contains(code, "package ") && strings.Contains(code, "func "):
		return "go"
	case strings.Contains(code, "interface ") && strings.Contains(code, ": ") || strings.Contains(code, "type "):
		return "typescript"
	case strings.Contains(code, "function") || strings.Contains(code, "const ") || strings.Contains(code, "let "):
		return "javascript"
	}
	return "unknown"
}

var (
	bareExceptRe  = regexp.MustCompile(`except:`)
	wildcardImpRe = regexp.MustCompile(`import \*`)
	pyDocstringRe = regexp.MustCompile(`"""`)
	pyFuncRe      = regexp.MustCompile(`def\s+\w+\(.*\)\s*:`)
	javaGenericRe = regexp.MustCompile(`catch \(Exception`)
	looseEqualRe  = regexp.MustCompile(`[^=!<>]==[^=]`)
	strictEqualRe = regexp.MustCompile(`===`)
	nullAssertRe  = regexp.MustCompile(`!!`)
)

// scanIssues performs a cheap static pre-scan so the prompt can name
// concrete problems alongside the caller's description.
func scanIssues(code, language string) []string {
	var issues []string

	switch language {
	case "python":
		if pyFuncRe.MatchString(code) && !pyDocstringRe.MatchString(code) {
			issues = append(issues, "Missing docstrings in function definitions")
		}
		if bareExceptRe.MatchString(code) {
			issues = append(issues, "Bare except clauses (should specify exception type)")
		}
		if wildcardImpRe.MatchString(code) {
			issues = append(issues, "Wildcard imports (import *) should be avoided")
		}
	case "kotlin":
		if nullAssertRe.MatchString(code) {
			issues = append(issues, "Avoid null assertion operator (!!) where possible")
		}
		if strings.Contains(code, "findViewById") && !strings.Contains(code, "ViewBinding") {
			issues = append(issues, "Consider using ViewBinding instead of findViewById")
		}
	case "java":
		if strings.Contains(code, "System.out.print") {
			issues = append(issues, "Use proper logging instead of System.out.print")
		}
		if javaGenericRe.MatchString(code) {
			issues = append(issues, "Catching generic Exception is too broad")
		}
	case "javascript", "typescript":
		if strings.Contains(code, "var ") {
			issues = append(issues, "Use 'let' or 'const' instead of 'var'")
		}
		if looseEqualRe.MatchString(code) && !strictEqualRe.MatchString(code) {
			issues = append(issues, "Use strict equality (===) instead of loose equality (==)")
		}
	}

	if strings.Contains(code, "TODO") || strings.Contains(code, "FIXME") {
		issues = append(issues, "Contains TODO or FIXME comments")
	}
	if strings.Contains(code, "print(") || strings.Contains(code, "console.log(") {
		issues = append(issues, "Contains debug print statements")
	}
	return issues
}
