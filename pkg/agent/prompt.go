package agent

import (
	"fmt"
	"strings"
)

// languageGuidance carries the per-language requirements embedded in
// code prompts. Unknown languages fall back to the python entry.
var languageGuidance = map[string][]string{
	"python": {
		"Follow PEP 8 style guide",
		"Use standard library when possible, add imports at the top",
		"Include docstrings for functions and classes",
		"Use try-except blocks for error handling",
	},
	"kotlin": {
		"Follow Kotlin coding conventions",
		"Use appropriate Android/Kotlin imports",
		"Include KDoc comments for public APIs",
		"Use Result types or exception handling",
	},
	"java": {
		"Follow Google Java Style Guide",
		"Organize imports properly",
		"Include JavaDoc for public methods",
		"Use proper exception handling",
	},
	"javascript": {
		"Use modern ES6+ syntax",
		"Use ES6 imports/exports",
		"Include JSDoc comments",
		"Use try-catch and proper error handling",
	},
	"typescript": {
		"Use TypeScript best practices with strict types",
		"Use proper TypeScript imports with types",
		"Include TSDoc comments with type information",
		"Use proper error handling with types",
	},
	"go": {
		"Follow standard Go style and gofmt formatting",
		"Keep imports grouped and minimal",
		"Document exported identifiers",
		"Return errors explicitly, wrapping with context",
	},
}

func guidanceFor(language string) []string {
	if g, ok := languageGuidance[language]; ok {
		return g
	}
	return languageGuidance["python"]
}

// buildGeneratePrompt builds a code-generation prompt: instruction,
// per-language requirements, and any existing code embedded verbatim
// inside fenced delimiters.
func buildGeneratePrompt(language, instruction, artifact string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate %s code for the following request:\n\n%s\n\nRequirements:\n", language, instruction)
	for i, g := range guidanceFor(language) {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, g)
	}
	sb.WriteString("Include error handling and edge cases.\nMake the code production-ready and maintainable.\n")

	if artifact != "" {
		fmt.Fprintf(&sb, "\nExisting code context:\n```%s\n%s\n```\n", language, artifact)
	}

	fmt.Fprintf(&sb, "\nGenerate only the %s code without explanations. The code should be complete and ready to use.", language)
	return sb.String()
}

// buildFixPrompt builds a code-fixing prompt: the broken code verbatim
// inside fenced delimiters, any pre-scanned issues, and the caller's
// instruction.
func buildFixPrompt(language, instruction, artifact string, issues []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Fix the following %s code.\n\nProblem description: %s\n", language, instruction)

	if len(issues) > 0 {
		sb.WriteString("\nDetected issues:\n")
		for _, issue := range issues {
			fmt.Fprintf(&sb, "- %s\n", issue)
		}
	}

	fmt.Fprintf(&sb, "\nCode to fix:\n```%s\n%s\n```\n", language, artifact)
	fmt.Fprintf(&sb, "\nReturn only the corrected %s code without explanations. Preserve the original structure where it is not broken.", language)
	return sb.String()
}

// buildAnalysisPrompt builds a log-analysis prompt around the evidence
// digest. Raw log text never reaches the prompt; the digest bounds its
// size.
func buildAnalysisPrompt(instruction, digest string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following Android log evidence and identify the root cause of any problems.\n\n")
	fmt.Fprintf(&sb, "Request: %s\n", instruction)
	fmt.Fprintf(&sb, "\nLog evidence digest:\n%s\n", digest)
	sb.WriteString("\nProvide: the most likely root cause, the component at fault, and concrete next debugging steps. Be specific and reference the evidence above.")
	return sb.String()
}
