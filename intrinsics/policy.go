package intrinsics

import (
	"encoding/json"
)

// PolicyVersion is the IAM policy language version used by every document.
const PolicyVersion = "2012-10-17"

// Json is a shorthand for map[string]any.
// Used for inline JSON objects like Condition blocks.
type Json = map[string]any

// List creates a typed slice from the given items.
//
//	Statement: List(ListBucketStatement, ObjectAccessStatement)
func List[T any](items ...T) []T {
	return items
}

// Any creates a []any slice from the given items.
// Use for fields typed as []any that accept mixed types or intrinsics.
//
//	Subnets: Any(LoadBalancerSubnetA, LoadBalancerSubnetB),
func Any(items ...any) []any {
	return items
}

// PolicyDocument represents an IAM policy document.
type PolicyDocument struct {
	Version   string `json:"Version,omitempty"`
	Statement []any  `json:"Statement"`
}

// NewPolicyDocument creates a PolicyDocument with the default version.
func NewPolicyDocument(statements ...any) PolicyDocument {
	return PolicyDocument{Version: PolicyVersion, Statement: statements}
}

// PolicyStatement represents an IAM policy statement.
//
//	var AssumeRole = PolicyStatement{
//	    Effect:    "Allow",
//	    Principal: ServicePrincipal{"ecs.amazonaws.com"},
//	    Action:    []any{"sts:AssumeRole"},
//	}
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
	Condition Json   `json:"Condition,omitempty"`
}

// Allow returns an Allow statement for the given actions on resource.
func Allow(resource any, actions ...string) PolicyStatement {
	acts := make([]any, len(actions))
	for i, a := range actions {
		acts[i] = a
	}
	return PolicyStatement{Effect: "Allow", Action: acts, Resource: resource}
}

// AssumeRoleDocument returns a trust policy letting the given services
// assume a role.
func AssumeRoleDocument(services ...string) PolicyDocument {
	principal := make(ServicePrincipal, len(services))
	for i, s := range services {
		principal[i] = s
	}
	return NewPolicyDocument(PolicyStatement{
		Effect:    "Allow",
		Principal: principal,
		Action:    []any{"sts:AssumeRole"},
	})
}

// ServicePrincipal represents a service principal (e.g., ecs.amazonaws.com).
// Serializes to {"Service": [...]}.
type ServicePrincipal []any

// MarshalJSON serializes to {"Service": [...]} format.
func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"Service": []any(p)})
}

// AWSPrincipal represents an AWS account/role/user principal.
// Serializes to {"AWS": ...} format.
type AWSPrincipal []any

// MarshalJSON serializes to {"AWS": ...} format.
func (p AWSPrincipal) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(map[string]any{"AWS": p[0]})
	}
	return json.Marshal(map[string]any{"AWS": []any(p)})
}
