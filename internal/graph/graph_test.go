package graph

import (
	"strings"
	"testing"

	ecsstack "github.com/lex00/ecs-stack-go"
)

func serviceGraph() []ecsstack.RegisteredResource {
	return []ecsstack.RegisteredResource{
		{Name: "Cluster", Type: "AWS::ECS::Cluster"},
		{Name: "WebLogs", Type: "AWS::Logs::LogGroup"},
		{
			Name:          "WebTask",
			Type:          "AWS::ECS::TaskDefinition",
			Condition:     "Deploy",
			Dependencies:  []string{"WebLogs"},
			ParameterRefs: []string{"WebWorkerCPU"},
		},
		{
			Name:         "ApplicationService",
			Type:         "AWS::ECS::Service",
			Condition:    "Deploy",
			Dependencies: []string{"Cluster", "WebTask"},
		},
	}
}

func TestGenerator_Generate_SimpleGraph(t *testing.T) {
	gen := &Generator{}
	var sb strings.Builder
	if err := gen.Generate(serviceGraph(), nil, &sb); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := sb.String()

	if !strings.Contains(output, "digraph") {
		t.Error("expected digraph declaration")
	}
	for _, name := range []string{"Cluster", "WebLogs", "WebTask", "ApplicationService"} {
		if !strings.Contains(output, name) {
			t.Errorf("expected %s node", name)
		}
	}
	if !strings.Contains(output, "[AWS::ECS::Service]") {
		t.Error("expected CloudFormation type in node label")
	}
	if !strings.Contains(output, "->") {
		t.Error("expected dependency edges")
	}
}

func TestGenerator_Generate_ConditionalResourcesDashed(t *testing.T) {
	gen := &Generator{}
	output, err := gen.GenerateString([]ecsstack.RegisteredResource{
		{Name: "WebTask", Type: "AWS::ECS::TaskDefinition", Condition: "Deploy"},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "dashed") {
		t.Errorf("expected dashed style for conditional resource, got:\n%s", output)
	}
}

func TestGenerator_Generate_WithGetAtt(t *testing.T) {
	resources := []ecsstack.RegisteredResource{
		{Name: "WebLogs", Type: "AWS::Logs::LogGroup"},
		{
			Name:          "LogReader",
			Type:          "AWS::IAM::Role",
			Dependencies:  []string{"WebLogs"},
			AttrRefUsages: []ecsstack.AttrRefUsage{{ResourceName: "WebLogs", Attribute: "Arn"}},
		},
	}

	gen := &Generator{}
	output, err := gen.GenerateString(resources, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "blue") {
		t.Error("expected blue color for GetAtt edge")
	}
}

func TestGenerator_Generate_WithParameters(t *testing.T) {
	gen := &Generator{IncludeParameters: true}
	output, err := gen.GenerateString(serviceGraph(), []string{"WebWorkerCPU"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "WebWorkerCPU") {
		t.Error("expected WebWorkerCPU parameter node")
	}
	if !strings.Contains(output, "ellipse") {
		t.Error("expected ellipse shape for parameter")
	}
}

func TestGenerator_Generate_ParametersOmittedByDefault(t *testing.T) {
	gen := &Generator{}
	output, err := gen.GenerateString(serviceGraph(), []string{"WebWorkerCPU"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, "WebWorkerCPU") {
		t.Error("parameters should only be drawn with IncludeParameters")
	}
}

func TestGenerator_Generate_SkipsUnknownDependencies(t *testing.T) {
	gen := &Generator{}
	output, err := gen.GenerateString([]ecsstack.RegisteredResource{
		{Name: "WebTask", Type: "AWS::ECS::TaskDefinition", Dependencies: []string{"Elsewhere"}},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, "Elsewhere") {
		t.Error("expected no node for an unregistered dependency")
	}
}

func TestGenerator_Generate_ClusterByType(t *testing.T) {
	gen := &Generator{ClusterByType: true}
	output, err := gen.GenerateString(serviceGraph(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, `label="ECS"`) {
		t.Errorf("expected ECS cluster subgraph, got:\n%s", output)
	}
	if strings.Contains(output, `label="Logs"`) {
		t.Error("single-resource services should not be clustered")
	}
	if got := strings.Count(output, "subgraph"); got != 1 {
		t.Errorf("expected 1 subgraph, got %d:\n%s", got, output)
	}
}

func TestGenerator_Generate_ClusterByTypeNodesDrawnOnce(t *testing.T) {
	gen := &Generator{ClusterByType: true}
	output, err := gen.GenerateString(serviceGraph(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"Cluster", "WebTask", "ApplicationService", "WebLogs"} {
		if got := strings.Count(output, `label="`+name); got != 1 {
			t.Errorf("expected one %s node, got %d:\n%s", name, got, output)
		}
	}
	if got := strings.Count(output, "->"); got != 3 {
		t.Errorf("expected 3 dependency edges, got %d:\n%s", got, output)
	}
	if strings.Contains(output, `label=""`) {
		t.Errorf("expected no unlabeled nodes, got:\n%s", output)
	}
}

func TestGenerator_Generate_MermaidFormat(t *testing.T) {
	gen := &Generator{Format: FormatMermaid}
	output, err := gen.GenerateString(serviceGraph(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(output, "graph") && !strings.Contains(output, "flowchart") {
		t.Errorf("expected mermaid graph/flowchart, got:\n%s", output)
	}
	if strings.Contains(output, "digraph") {
		t.Error("expected mermaid format, not DOT")
	}
}

func TestServiceOf(t *testing.T) {
	tests := map[string]string{
		"AWS::ECS::Service":                     "ECS",
		"AWS::ElasticLoadBalancingV2::Listener": "ElasticLoadBalancingV2",
		"Custom::Thing":                         "Other",
	}
	for in, want := range tests {
		if got := serviceOf(in); got != want {
			t.Errorf("serviceOf(%q) = %q, want %q", in, got, want)
		}
	}
}
