package differ

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/stack/platform"
	"github.com/lex00/ecs-stack-go/internal/template"
)

func TestCompare(t *testing.T) {
	t1 := &ecsstack.Template{
		Resources: map[string]ecsstack.ResourceDef{
			"WebLogs":   {Type: "AWS::Logs::LogGroup", Properties: map[string]any{"RetentionInDays": 365}},
			"OldBucket": {Type: "AWS::S3::Bucket"},
			"Cluster":   {Type: "AWS::ECS::Cluster"},
		},
	}
	t2 := &ecsstack.Template{
		Resources: map[string]ecsstack.ResourceDef{
			"WebLogs":      {Type: "AWS::Logs::LogGroup", Properties: map[string]any{"RetentionInDays": 30}},
			"AssetsBucket": {Type: "AWS::S3::Bucket"},
			"Cluster":      {Type: "AWS::ECS::Cluster"},
		},
	}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	assert.Equal(t, []ecsstack.DiffEntry{{Resource: "AssetsBucket", Type: "AWS::S3::Bucket"}}, result.Diff.Added)
	assert.Equal(t, []ecsstack.DiffEntry{{Resource: "OldBucket", Type: "AWS::S3::Bucket"}}, result.Diff.Removed)
	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, "WebLogs", result.Diff.Modified[0].Resource)
	assert.Equal(t, []string{"RetentionInDays modified"}, result.Diff.Modified[0].Changes)

	assert.Equal(t, ecsstack.DiffSummary{Added: 1, Removed: 1, Modified: 1, Total: 3}, result.Summary)
	assert.False(t, result.Empty())
}

func TestCompareIdentical(t *testing.T) {
	tmpl := &ecsstack.Template{
		Resources: map[string]ecsstack.ResourceDef{
			"Cluster": {Type: "AWS::ECS::Cluster"},
		},
	}

	result, err := Compare(tmpl, tmpl, Options{})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestCompareAttributes(t *testing.T) {
	t1 := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"WebTask": {Type: "AWS::ECS::TaskDefinition"},
		"WebLogs": {Type: "AWS::Logs::LogGroup"},
		"Service": {Type: "AWS::ECS::Service", DependsOn: []string{"AutoScalingGroup"}},
	}}
	t2 := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"WebTask": {Type: "AWS::ECS::TaskDefinition", Condition: "Deploy"},
		"WebLogs": {Type: "AWS::Logs::LogGroup", DeletionPolicy: "Retain"},
		"Service": {Type: "AWS::ECS::Service", DependsOn: []string{"AutoScalingGroup", "ApplicationListener"}},
	}}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)
	require.Len(t, result.Diff.Modified, 3)

	changes := map[string][]string{}
	for _, m := range result.Diff.Modified {
		changes[m.Resource] = m.Changes
	}
	assert.Equal(t, []string{`Condition changed: "" → "Deploy"`}, changes["WebTask"])
	assert.Equal(t, []string{`DeletionPolicy changed: "" → "Retain"`}, changes["WebLogs"])
	assert.Equal(t, []string{"DependsOn changed"}, changes["Service"])
}

func TestCompareTypeChange(t *testing.T) {
	t1 := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{"Repo": {Type: "AWS::ECR::Repository"}}}
	t2 := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{"Repo": {Type: "AWS::S3::Bucket"}}}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)
	require.Len(t, result.Diff.Modified, 1)
	assert.Contains(t, result.Diff.Modified[0].Changes, "Type changed: AWS::ECR::Repository → AWS::S3::Bucket")
}

func TestCompareParametersAndOutputs(t *testing.T) {
	t1 := &ecsstack.Template{
		Parameters: map[string]ecsstack.Parameter{
			"MaxScale": {Type: "Number", Default: "3"},
			"Old":      {Type: "String"},
		},
		Outputs: map[string]ecsstack.Output{
			"WebLogsGroup": {Value: map[string]any{"Fn::GetAtt": []any{"WebLogs", "Arn"}}},
		},
	}
	t2 := &ecsstack.Template{
		Parameters: map[string]ecsstack.Parameter{
			"MaxScale": {Type: "Number", Default: "6"},
		},
		Outputs: map[string]ecsstack.Output{
			"WebLogsGroup":        {Value: map[string]any{"Fn::GetAtt": []any{"WebLogs", "Arn"}}},
			"LoadBalancerDNSName": {Value: "x"},
		},
	}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	assert.Equal(t, []ecsstack.DiffEntry{{Resource: "LoadBalancerDNSName", Type: TypeOutput}}, result.Diff.Added)
	assert.Equal(t, []ecsstack.DiffEntry{{Resource: "Old", Type: TypeParameter}}, result.Diff.Removed)
	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, "MaxScale", result.Diff.Modified[0].Resource)
	assert.Equal(t, TypeParameter, result.Diff.Modified[0].Type)
}

func TestCompareMappings(t *testing.T) {
	t1 := &ecsstack.Template{
		Mappings: map[string]any{
			"ECSRegionMap": map[string]any{
				"us-east-1": map[string]any{"AMI": "ami-eca289fb"},
				"us-west-2": map[string]any{"AMI": "ami-7abc111a"},
			},
			"Retired": map[string]any{"x": map[string]any{"y": "z"}},
		},
	}
	t2 := &ecsstack.Template{
		Mappings: map[string]any{
			"ECSRegionMap": map[string]any{
				"us-east-1": map[string]any{"AMI": "ami-0fe5f366c083f59ca"},
				"us-west-2": map[string]any{"AMI": "ami-7abc111a"},
			},
		},
	}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	assert.Equal(t, []ecsstack.DiffEntry{{Resource: "Retired", Type: TypeMapping}}, result.Diff.Removed)
	assert.Equal(t, []ecsstack.DiffEntry{{
		Resource: "ECSRegionMap",
		Type:     TypeMapping,
		Changes:  []string{"definition modified"},
	}}, result.Diff.Modified)
	assert.Equal(t, 2, result.Summary.Total)
}

func TestCompareConditions(t *testing.T) {
	deploy := func(value string) map[string]any {
		return map[string]any{"Fn::Not": []any{map[string]any{"Fn::Equals": []any{map[string]any{"Ref": "WebAppRevision"}, value}}}}
	}
	t1 := &ecsstack.Template{Conditions: map[string]any{"Deploy": deploy("")}}
	t2 := &ecsstack.Template{Conditions: map[string]any{
		"Deploy":        deploy("none"),
		"HasRepository": map[string]any{"Fn::Not": []any{map[string]any{"Fn::Equals": []any{map[string]any{"Ref": "Repository"}, ""}}}},
	}}

	result, err := Compare(t1, t2, Options{})
	require.NoError(t, err)

	assert.Equal(t, []ecsstack.DiffEntry{{Resource: "HasRepository", Type: TypeCondition}}, result.Diff.Added)
	require.Len(t, result.Diff.Modified, 1)
	assert.Equal(t, "Deploy", result.Diff.Modified[0].Resource)
	assert.Equal(t, TypeCondition, result.Diff.Modified[0].Type)

	same, err := Compare(t1, &ecsstack.Template{Conditions: map[string]any{"Deploy": deploy("")}}, Options{})
	require.NoError(t, err)
	assert.True(t, same.Empty())
}

func TestCompare_AMIRefresh(t *testing.T) {
	cfg := config.Default()
	before, err := platform.Build(cfg).Build()
	require.NoError(t, err)

	cfg.Cluster.AMIs["us-east-1"] = "ami-0fe5f366c083f59ca"
	after, err := platform.Build(cfg).Build()
	require.NoError(t, err)

	result, err := Compare(before, after, Options{})
	require.NoError(t, err)
	assert.Equal(t, []ecsstack.DiffEntry{{
		Resource: "ECSRegionMap",
		Type:     TypeMapping,
		Changes:  []string{"definition modified"},
	}}, result.Diff.Modified)
}

func TestCompareProperties(t *testing.T) {
	tests := []struct {
		name   string
		props1 map[string]any
		props2 map[string]any
		want   []string
	}{
		{"identical", map[string]any{"Key": "value"}, map[string]any{"Key": "value"}, nil},
		{"added property", map[string]any{}, map[string]any{"Key": "value"}, []string{"Key added"}},
		{"removed property", map[string]any{"Key": "value"}, map[string]any{}, []string{"Key removed"}},
		{"modified property", map[string]any{"Key": "value1"}, map[string]any{"Key": "value2"}, []string{"Key modified"}},
		{
			"nested property",
			map[string]any{"DeploymentConfiguration": map[string]any{"MaximumPercent": 135, "MinimumHealthyPercent": 30}},
			map[string]any{"DeploymentConfiguration": map[string]any{"MaximumPercent": 200, "MinimumHealthyPercent": 30}},
			[]string{"DeploymentConfiguration.MaximumPercent modified"},
		},
		{
			"intrinsic compared whole",
			map[string]any{"Cluster": map[string]any{"Ref": "Cluster"}},
			map[string]any{"Cluster": map[string]any{"Ref": "OtherCluster"}},
			[]string{"Cluster modified"},
		},
		{
			"numeric types are equivalent",
			map[string]any{"Port": int64(443)},
			map[string]any{"Port": float64(443)},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes, err := compareProperties("", tt.props1, tt.props2, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, changes)
		})
	}
}

func TestCompareIgnoreOrder(t *testing.T) {
	t1 := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"LB": {Type: "AWS::ElasticLoadBalancingV2::LoadBalancer", Properties: map[string]any{
			"Subnets": []any{map[string]any{"Ref": "A"}, map[string]any{"Ref": "B"}},
		}},
	}}
	t2 := &ecsstack.Template{Resources: map[string]ecsstack.ResourceDef{
		"LB": {Type: "AWS::ElasticLoadBalancingV2::LoadBalancer", Properties: map[string]any{
			"Subnets": []any{map[string]any{"Ref": "B"}, map[string]any{"Ref": "A"}},
		}},
	}}

	ordered, err := Compare(t1, t2, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, ordered.Summary.Modified)

	unordered, err := Compare(t1, t2, Options{IgnoreOrder: true})
	require.NoError(t, err)
	assert.True(t, unordered.Empty())
}

func TestCompareFiles_BuiltTemplateRoundTrip(t *testing.T) {
	tmpl, err := platform.Build(config.Default()).Build()
	require.NoError(t, err)

	dir := t.TempDir()
	yamlData, err := template.ToYAML(tmpl)
	require.NoError(t, err)
	jsonData, err := template.ToJSON(tmpl)
	require.NoError(t, err)

	yamlPath := filepath.Join(dir, "platform.yaml")
	jsonPath := filepath.Join(dir, "platform.json")
	require.NoError(t, os.WriteFile(yamlPath, yamlData, 0644))
	require.NoError(t, os.WriteFile(jsonPath, jsonData, 0644))

	result, err := CompareFiles(yamlPath, jsonPath, Options{})
	require.NoError(t, err)
	assert.True(t, result.Empty(), "diff: %+v", result.Diff)

	loaded, err := LoadTemplate(jsonPath)
	require.NoError(t, err)
	result, err = Compare(tmpl, loaded, Options{})
	require.NoError(t, err)
	assert.True(t, result.Empty(), "diff: %+v", result.Diff)
}

func TestLoadTemplate_Errors(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Resources: ["), 0644))
	_, err = LoadTemplate(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse as JSON or YAML")

	_, err = CompareFiles(path, path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}
