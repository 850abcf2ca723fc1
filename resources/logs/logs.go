// Package logs provides AWS::Logs resource types.
package logs

// LogGroup represents AWS::Logs::LogGroup.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-logs-loggroup.html
type LogGroup struct {
	LogGroupName    any   `json:"LogGroupName,omitempty"`
	RetentionInDays any   `json:"RetentionInDays,omitempty"`
	KmsKeyId        any   `json:"KmsKeyId,omitempty"`
	Tags            []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r LogGroup) ResourceType() string {
	return "AWS::Logs::LogGroup"
}
