// Package iam provides AWS::IAM resource types.
//
// Policy documents are built with intrinsics.PolicyDocument and
// intrinsics.PolicyStatement.
package iam

// Role represents AWS::IAM::Role.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-iam-role.html
type Role struct {
	RoleName                 any   `json:"RoleName,omitempty"`
	AssumeRolePolicyDocument any   `json:"AssumeRolePolicyDocument,omitempty"`
	Path                     any   `json:"Path,omitempty"`
	ManagedPolicyArns        []any `json:"ManagedPolicyArns,omitempty"`
	Policies                 []any `json:"Policies,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Role) ResourceType() string {
	return "AWS::IAM::Role"
}

// Role_Policy represents AWS::IAM::Role.Policy, an inline role policy.
type Role_Policy struct {
	PolicyName     any `json:"PolicyName,omitempty"`
	PolicyDocument any `json:"PolicyDocument,omitempty"`
}

// InstanceProfile represents AWS::IAM::InstanceProfile.
type InstanceProfile struct {
	InstanceProfileName any   `json:"InstanceProfileName,omitempty"`
	Path                any   `json:"Path,omitempty"`
	Roles               []any `json:"Roles,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r InstanceProfile) ResourceType() string {
	return "AWS::IAM::InstanceProfile"
}
