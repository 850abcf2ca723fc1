// Package ecsstack provides the shared types for building CloudFormation
// templates for an ECS application platform.
//
// Stacks are declared in Go against a template builder:
//
//	b := template.NewBuilder("ECS application platform")
//	cluster := b.Resource("Cluster", ecs.Cluster{})
//	b.Resource("ApplicationService", ecs.Service{
//	    Cluster: cluster, // {"Ref": "Cluster"}
//	})
//
// The ecs-stack CLI builds the declared stacks and prints CloudFormation
// YAML or JSON.
package ecsstack

// Resource represents a CloudFormation resource.
// All resource types (ecs.Cluster, iam.Role, etc.) implement this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::ECS::Cluster")
	ResourceType() string
}

// AttrRefUsage records a GetAtt from one resource to another.
type AttrRefUsage struct {
	// ResourceName is the logical name of the referenced resource
	ResourceName string
	// Attribute is the referenced attribute
	Attribute string
}

// RegisteredResource describes a resource added to a template builder.
type RegisteredResource struct {
	// Name is the logical ID
	Name string
	// Type is the CloudFormation type (e.g., "AWS::ECS::Service")
	Type string
	// Condition is the name of the condition gating the resource, if any
	Condition string
	// Dependencies are logical names of referenced resources and DependsOn targets
	Dependencies []string
	// ParameterRefs are logical names of referenced parameters
	ParameterRefs []string
	// AttrRefUsages are the GetAtt references made by this resource
	AttrRefUsages []AttrRefUsage
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Mappings                 map[string]any         `json:"Mappings,omitempty" yaml:"Mappings,omitempty"`
	Conditions               map[string]any         `json:"Conditions,omitempty" yaml:"Conditions,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type           string         `json:"Type" yaml:"Type"`
	Condition      string         `json:"Condition,omitempty" yaml:"Condition,omitempty"`
	DependsOn      []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
	DeletionPolicy string         `json:"DeletionPolicy,omitempty" yaml:"DeletionPolicy,omitempty"`
	Metadata       map[string]any `json:"Metadata,omitempty" yaml:"Metadata,omitempty"`
	Properties     map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type                  string   `json:"Type" yaml:"Type"`
	Description           string   `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default               any      `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues         []any    `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
	AllowedPattern        string   `json:"AllowedPattern,omitempty" yaml:"AllowedPattern,omitempty"`
	ConstraintDescription string   `json:"ConstraintDescription,omitempty" yaml:"ConstraintDescription,omitempty"`
	MinLength             *int     `json:"MinLength,omitempty" yaml:"MinLength,omitempty"`
	MaxLength             *int     `json:"MaxLength,omitempty" yaml:"MaxLength,omitempty"`
	MinValue              *float64 `json:"MinValue,omitempty" yaml:"MinValue,omitempty"`
	MaxValue              *float64 `json:"MaxValue,omitempty" yaml:"MaxValue,omitempty"`
	NoEcho                bool     `json:"NoEcho,omitempty" yaml:"NoEcho,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string        `json:"Description,omitempty" yaml:"Description,omitempty"`
	Condition   string        `json:"Condition,omitempty" yaml:"Condition,omitempty"`
	Value       any           `json:"Value" yaml:"Value"`
	Export      *OutputExport `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// OutputExport names a cross-stack export.
type OutputExport struct {
	Name any `json:"Name" yaml:"Name"`
}

// BuildResult is the outcome of `ecs-stack build`.
type BuildResult struct {
	Success   bool     `json:"success"`
	Template  Template `json:"template,omitempty"`
	Resources []string `json:"resources,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

// ValidateResult is the JSON output from `ecs-stack validate`.
type ValidateResult struct {
	Success   bool     `json:"success"`
	Resources int      `json:"resources"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ListResult is the JSON output from `ecs-stack list`.
type ListResult struct {
	Stack     string         `json:"stack"`
	Resources []ListResource `json:"resources"`
}

// ListResource is a single resource in the list output.
type ListResource struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Condition    string   `json:"condition,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// TemplateDiff groups the resource-level differences between two templates.
type TemplateDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
}

// DiffEntry is a single changed resource, parameter or output.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type"`
	Changes  []string `json:"changes,omitempty"`
}

// DiffSummary counts the entries of a TemplateDiff.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// OptimizeSuggestion is a single improvement suggested for a template.
type OptimizeSuggestion struct {
	Rule        string `json:"rule"`
	Resource    string `json:"resource"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

// OptimizeSummary counts suggestions by category.
type OptimizeSummary struct {
	Security    int `json:"security"`
	Cost        int `json:"cost"`
	Performance int `json:"performance"`
	Reliability int `json:"reliability"`
	Total       int `json:"total"`
}
