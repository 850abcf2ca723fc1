package validation

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lex00/cfn-lint-go/pkg/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/stack/webtask"
	"github.com/lex00/ecs-stack-go/internal/template"
	"github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/resources/logs"
)

func TestCfnLintResult_TotalIssues(t *testing.T) {
	tests := []struct {
		name     string
		result   CfnLintResult
		expected int
	}{
		{"empty result", CfnLintResult{}, 0},
		{"errors only", CfnLintResult{Errors: []string{"error1", "error2"}}, 2},
		{"warnings only", CfnLintResult{Warnings: []string{"warning1"}}, 1},
		{
			"mixed issues",
			CfnLintResult{
				Errors:        []string{"error1"},
				Warnings:      []string{"warning1", "warning2"},
				Informational: []string{"info1"},
			},
			4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.TotalIssues())
		})
	}
}

func TestFormatMatch(t *testing.T) {
	tests := []struct {
		name     string
		match    lint.Match
		expected string
	}{
		{
			name: "simple match",
			match: lint.Match{
				Rule:    lint.MatchRule{ID: "E1234"},
				Message: "Something is wrong",
			},
			expected: "E1234: Something is wrong",
		},
		{
			name: "match with path",
			match: lint.Match{
				Rule:    lint.MatchRule{ID: "W5678"},
				Message: "Warning message",
				Location: lint.MatchLocation{
					Path: []any{"Resources", "WebTask", "Properties"},
				},
			},
			expected: "W5678: Warning message (at Resources/WebTask/Properties)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMatch(tt.match))
		})
	}
}

func TestClassify(t *testing.T) {
	result := classify([]lint.Match{
		{Rule: lint.MatchRule{ID: "E3012"}, Level: "Error", Message: "bad type"},
		{Rule: lint.MatchRule{ID: "W2001"}, Level: "Warning", Message: "unused parameter"},
		{Rule: lint.MatchRule{ID: "I3011"}, Level: "Informational", Message: "consider"},
	})

	assert.False(t, result.Passed)
	assert.Equal(t, []string{"E3012: bad type"}, result.Errors)
	assert.Equal(t, []string{"W2001: unused parameter"}, result.Warnings)
	assert.Equal(t, []string{"I3011: consider"}, result.Informational)

	warningsOnly := classify([]lint.Match{{Rule: lint.MatchRule{ID: "W2001"}, Level: "Warning"}})
	assert.True(t, warningsOnly.Passed)

	assert.True(t, classify(nil).Passed)
}

func TestRunCfnLint_FileNotFound(t *testing.T) {
	result, err := RunCfnLint("/nonexistent/template.yaml")
	require.NoError(t, err)
	assert.False(t, result.Passed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Template file not found")
}

func TestRunCfnLint_ValidTemplate(t *testing.T) {
	templatePath := filepath.Join(t.TempDir(), "template.yaml")

	validTemplate := `AWSTemplateFormatVersion: '2010-09-09'
Description: Test template
Resources:
  WebLogs:
    Type: AWS::Logs::LogGroup
    Properties:
      RetentionInDays: 365
`
	require.NoError(t, os.WriteFile(templatePath, []byte(validTemplate), 0644))

	result, err := RunCfnLint(templatePath)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestLintTemplate(t *testing.T) {
	tmpl, err := webtask.Build(config.Default()).Build()
	require.NoError(t, err)

	result, err := LintTemplate(tmpl)
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestValidateStack_BuildErrors(t *testing.T) {
	b := template.NewBuilder("broken")
	b.Resource("WebLogs", logs.LogGroup{LogGroupName: intrinsics.Ref{LogicalName: "Missing"}})
	b.Resource("bad-name", logs.LogGroup{})

	result, err := ValidateStack(b, Options{})
	require.NoError(t, err)

	assert.False(t, result.Passed())
	assert.Nil(t, result.CfnLintResult)
	all := strings.Join(result.BuildErrors, "\n")
	assert.Contains(t, all, `Ref to unknown "Missing"`)
	assert.Contains(t, all, `"bad-name"`)
}

func TestValidateStack(t *testing.T) {
	result, err := ValidateStack(webtask.Build(config.Default()), Options{})
	require.NoError(t, err)

	assert.Empty(t, result.BuildErrors)
	assert.Empty(t, result.SchemaErrors)
	assert.Equal(t, 1, result.Resources)
	require.NotNil(t, result.CfnLintResult)
}

func TestValidateStack_SchemaErrors(t *testing.T) {
	b := template.NewBuilder("retention")
	b.Resource("WebLogs", logs.LogGroup{RetentionInDays: "forever"})

	result, err := ValidateStack(b, Options{})
	require.NoError(t, err)

	assert.Empty(t, result.BuildErrors)
	assert.Equal(t, []string{"WebLogs.RetentionInDays: expected type Integer, got string"}, result.SchemaErrors)
	assert.False(t, result.Passed())
}

func TestSplitErrors(t *testing.T) {
	err := errors.Join(errors.New("a"), errors.Join(errors.New("b"), errors.New("c")))
	assert.Equal(t, []string{"a", "b", "c"}, SplitErrors(err))
	assert.Equal(t, []string{"single"}, SplitErrors(errors.New("single")))
}

func TestResult_Passed(t *testing.T) {
	assert.False(t, (&Result{}).Passed())
	assert.True(t, (&Result{CfnLintResult: &CfnLintResult{Passed: true}}).Passed())
	assert.False(t, (&Result{BuildErrors: []string{"x"}, CfnLintResult: &CfnLintResult{Passed: true}}).Passed())
	assert.False(t, (&Result{SchemaErrors: []string{"x"}, CfnLintResult: &CfnLintResult{Passed: true}}).Passed())
	assert.True(t, (&Result{SchemaWarnings: []string{"x"}, CfnLintResult: &CfnLintResult{Passed: true}}).Passed())
}
