// Package intrinsics provides CloudFormation intrinsic functions.
//
// The core intrinsic types are re-exported from cloudformation-schema-go;
// this package adds template parameters, mappings and IAM policy types.
//
//	Ref{"Cluster"} → {"Ref": "Cluster"}
//	Join{"", []any{"arn:aws:s3:::", Ref{"AssetsBucket"}}} → {"Fn::Join": ["", [...]]}
//	FindInMap{"ECSRegionMap", AWS_REGION, "AMI"} → {"Fn::FindInMap": [...]}
//
// Pseudo-parameters:
//
//	AWS_REGION, AWS_ACCOUNT_ID, AWS_STACK_NAME, etc.
package intrinsics

import (
	"encoding/json"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join

	// Select represents a CloudFormation Fn::Select intrinsic function.
	Select = intrinsics.Select

	// GetAZs represents a CloudFormation Fn::GetAZs intrinsic function.
	GetAZs = intrinsics.GetAZs

	// If represents a CloudFormation Fn::If intrinsic function.
	If = intrinsics.If

	// Equals represents a CloudFormation Fn::Equals condition function.
	Equals = intrinsics.Equals

	// And represents a CloudFormation Fn::And condition function.
	And = intrinsics.And

	// Or represents a CloudFormation Fn::Or condition function.
	Or = intrinsics.Or

	// Not represents a CloudFormation Fn::Not condition function.
	Not = intrinsics.Not

	// Base64 represents a CloudFormation Fn::Base64 intrinsic function.
	Base64 = intrinsics.Base64

	// ImportValue represents a CloudFormation Fn::ImportValue intrinsic function.
	ImportValue = intrinsics.ImportValue

	// FindInMap represents a CloudFormation Fn::FindInMap intrinsic function.
	FindInMap = intrinsics.FindInMap

	// Split represents a CloudFormation Fn::Split intrinsic function.
	Split = intrinsics.Split

	// Cidr represents a CloudFormation Fn::Cidr intrinsic function.
	Cidr = intrinsics.Cidr

	// Tag represents a CloudFormation resource tag.
	Tag = intrinsics.Tag
)

// Parameter defines a CloudFormation template parameter.
// Once registered with a template builder it serializes to {"Ref": "Name"}
// wherever it is used as a property value.
//
//	var port = b.Parameter("WebWorkerPort", Parameter{
//	    Type:        "Number",
//	    Description: "Web worker container exposed port",
//	    Default:     "8000",
//	})
//
//	ecs.TaskDefinition_PortMapping{ContainerPort: port}
type Parameter struct {
	// Type is the CloudFormation parameter type (String, Number, List<Number>, etc.)
	Type string
	// Description is optional documentation for the parameter
	Description string
	// Default is the default value if none is provided
	Default any
	// AllowedValues restricts the parameter to specific values
	AllowedValues []any
	// AllowedPattern is a regex pattern for String type validation
	AllowedPattern string
	// ConstraintDescription explains validation failures
	ConstraintDescription string
	// MinLength is minimum string length (for String type)
	MinLength *int
	// MaxLength is maximum string length (for String type)
	MaxLength *int
	// MinValue is minimum numeric value (for Number type)
	MinValue *float64
	// MaxValue is maximum numeric value (for Number type)
	MaxValue *float64
	// NoEcho masks the parameter value in console/logs
	NoEcho bool

	name string
}

// Named returns a copy of the parameter bound to the given logical name.
func (p Parameter) Named(name string) Parameter {
	p.name = name
	return p
}

// Name returns the parameter's logical name, or "" if it is unbound.
func (p Parameter) Name() string {
	return p.name
}

// Ref returns the Ref intrinsic for the parameter.
func (p Parameter) Ref() Ref {
	return Ref{LogicalName: p.name}
}

// MarshalJSON serializes Parameter as a CloudFormation Ref when used as a value.
func (p Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": p.name})
}

// Mapping represents a CloudFormation Mappings table.
// It maps a top-level key to a second-level key to values.
//
//	var ECSRegionMap = Mapping{
//	    "us-east-1": {"AMI": "ami-eca289fb"},
//	    "us-west-2": {"AMI": "ami-7abc111a"},
//	}
type Mapping map[string]map[string]any

// IntPtr returns a pointer to the given int value.
func IntPtr(i int) *int {
	return &i
}

// Float64Ptr returns a pointer to the given float64 value.
func Float64Ptr(f float64) *float64 {
	return &f
}
