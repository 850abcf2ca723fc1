package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/stack/platform"
	"github.com/lex00/ecs-stack-go/internal/stack/webtask"
)

func TestValidateTemplate_Stacks(t *testing.T) {
	platformTmpl, err := platform.Build(config.Default()).Build()
	require.NoError(t, err)
	taskTmpl, err := webtask.Build(config.Default()).Build()
	require.NoError(t, err)

	for name, tmpl := range map[string]*ecsstack.Template{"platform": platformTmpl, "webtask": taskTmpl} {
		t.Run(name, func(t *testing.T) {
			result := ValidateTemplate(tmpl, Options{})
			assert.True(t, result.Valid, "errors: %v", result.Errors)
			assert.Empty(t, result.Warnings)
		})
	}
}

func TestValidateTemplate_MissingRequired(t *testing.T) {
	tmpl := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"DatabaseSecurityGroup": {Type: "AWS::EC2::SecurityGroup", Properties: map[string]any{}},
	}}

	result := ValidateTemplate(tmpl, Options{})
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, Error{
		Resource: "DatabaseSecurityGroup",
		Property: "GroupDescription",
		Message:  "missing required property: GroupDescription",
	}, result.Errors[0])
	assert.Equal(t, "DatabaseSecurityGroup.GroupDescription: missing required property: GroupDescription", result.Errors[0].Error())
}

func TestValidateTemplate_AllowedValues(t *testing.T) {
	tmpl := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"AutoScalingGroup": {Type: "AWS::AutoScaling::AutoScalingGroup", Properties: map[string]any{
			"MinSize":         "1",
			"MaxSize":         map[string]any{"Ref": "MaxScale"},
			"HealthCheckType": "HTTP",
		}},
	}}

	result := ValidateTemplate(tmpl, Options{})
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "HealthCheckType", result.Errors[0].Property)
	assert.Contains(t, result.Errors[0].Message, `"HTTP" not in allowed values`)
}

func TestValidateTemplate_Types(t *testing.T) {
	tmpl := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"WebLogs": {Type: "AWS::Logs::LogGroup", Properties: map[string]any{
			"RetentionInDays": "a week",
		}},
	}}

	result := ValidateTemplate(tmpl, Options{})
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "expected type Integer, got string", result.Errors[0].Message)
}

func TestValidateTemplate_ResourceTypes(t *testing.T) {
	tmpl := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"Bad":    {Type: "ECS::Service"},
		"Custom": {Type: "Custom::AMILookup"},
		"Queue":  {Type: "AWS::SQS::Queue"},
	}}

	result := ValidateTemplate(tmpl, Options{})
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Bad", result.Errors[0].Resource)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "Custom", result.Warnings[0].Resource)
	assert.Equal(t, "Queue", result.Warnings[1].Resource)
}

func TestValidateTemplate_Strict(t *testing.T) {
	tmpl := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"Cluster": {Type: "AWS::ECS::Cluster", Properties: map[string]any{"CapacityProviders": []any{"FARGATE"}}},
	}}

	assert.Empty(t, ValidateTemplate(tmpl, Options{}).Warnings)

	result := ValidateTemplate(tmpl, Options{Strict: true})
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "unknown property: CapacityProviders", result.Warnings[0].Message)
}

func TestIsValidType(t *testing.T) {
	tests := []struct {
		value    any
		typeName string
		want     bool
	}{
		{"x", "String", true},
		{int64(3), "String", false},
		{int64(3), "Integer", true},
		{float64(3), "Integer", true},
		{"443", "Integer", true},
		{"443/tcp", "Integer", false},
		{true, "Boolean", true},
		{"false", "Boolean", true},
		{"yes", "Boolean", false},
		{[]any{}, "List", true},
		{map[string]any{}, "List", false},
		{map[string]any{}, "Map", true},
		{"anything", "Json", true},
	}

	for _, tt := range tests {
		if got := isValidType(tt.value, tt.typeName); got != tt.want {
			t.Errorf("isValidType(%#v, %s) = %v, want %v", tt.value, tt.typeName, got, tt.want)
		}
	}
}
