// Package validation checks stacks in three passes:
//   - builder validation: references, conditions, mappings, cycles
//   - offline schema: required properties, types and allowed values
//   - cfn-lint-go: CloudFormation schema and best-practice rules on the
//     rendered template
package validation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/schema"
	"github.com/lex00/ecs-stack-go/internal/template"
)

// CfnLintResult contains the result of running cfn-lint.
type CfnLintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r CfnLintResult) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// Options configures ValidateStack.
type Options struct {
	// Strict reports properties missing from the offline schema.
	Strict bool
}

// Result contains all validation results for a stack.
type Result struct {
	Resources      int            `json:"resources"`
	BuildErrors    []string       `json:"build_errors,omitempty"`
	SchemaErrors   []string       `json:"schema_errors,omitempty"`
	SchemaWarnings []string       `json:"schema_warnings,omitempty"`
	CfnLintResult  *CfnLintResult `json:"cfn_lint_result,omitempty"`
}

// Passed reports whether the stack built, matched the schema and
// cfn-lint found no errors.
func (r *Result) Passed() bool {
	return len(r.BuildErrors) == 0 && len(r.SchemaErrors) == 0 &&
		r.CfnLintResult != nil && r.CfnLintResult.Passed
}

// RunCfnLint runs cfn-lint-go on the given template file.
func RunCfnLint(templatePath string) (*CfnLintResult, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Template file not found: %s", templatePath)},
		}, nil
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Linter error: %v", err)},
		}, nil
	}

	return classify(matches), nil
}

// LintTemplate renders t to a temporary YAML file and lints it.
func LintTemplate(t *ecsstack.Template) (*CfnLintResult, error) {
	data, err := template.ToYAML(t)
	if err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}

	dir, err := os.MkdirTemp("", "ecs-stack-lint-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}

	return RunCfnLint(path)
}

// ValidateStack builds the stack and, if it builds, checks the result
// against the schema and lints it.
func ValidateStack(b *template.Builder, opts Options) (*Result, error) {
	result := &Result{}

	tmpl, err := b.Build()
	if err != nil {
		result.BuildErrors = SplitErrors(err)
		return result, nil
	}
	result.Resources = len(tmpl.Resources)

	schemaResult := schema.ValidateTemplate(tmpl, schema.Options{Strict: opts.Strict})
	for _, e := range schemaResult.Errors {
		result.SchemaErrors = append(result.SchemaErrors, e.Error())
	}
	for _, w := range schemaResult.Warnings {
		result.SchemaWarnings = append(result.SchemaWarnings, w.Error())
	}

	cfnResult, err := LintTemplate(tmpl)
	if err != nil {
		return nil, fmt.Errorf("running cfn-lint: %w", err)
	}
	result.CfnLintResult = cfnResult

	return result, nil
}

// classify sorts matches by level. Warnings do not fail validation.
func classify(matches []lint.Match) *CfnLintResult {
	result := &CfnLintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}

	for _, match := range matches {
		formatted := formatMatch(match)

		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	result.Passed = len(result.Errors) == 0
	return result
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	pathStr := ""
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		pathStr = strings.Join(parts, "/")
	}

	if pathStr != "" {
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, pathStr)
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}

// SplitErrors unwraps an errors.Join result into one message per error.
func SplitErrors(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, SplitErrors(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}
