// Package ecr provides AWS::ECR resource types.
package ecr

// Repository represents AWS::ECR::Repository.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ecr-repository.html
type Repository struct {
	RepositoryName       any `json:"RepositoryName,omitempty"`
	ImageTagMutability   any `json:"ImageTagMutability,omitempty"`
	LifecyclePolicy      any `json:"LifecyclePolicy,omitempty"`
	RepositoryPolicyText any `json:"RepositoryPolicyText,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Repository) ResourceType() string {
	return "AWS::ECR::Repository"
}

// Repository_LifecyclePolicy represents AWS::ECR::Repository.LifecyclePolicy.
type Repository_LifecyclePolicy struct {
	LifecyclePolicyText any `json:"LifecyclePolicyText,omitempty"`
}
