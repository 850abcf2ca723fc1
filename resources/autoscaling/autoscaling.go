// Package autoscaling provides AWS::AutoScaling resource types.
package autoscaling

// LaunchConfiguration represents AWS::AutoScaling::LaunchConfiguration.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-autoscaling-launchconfiguration.html
type LaunchConfiguration struct {
	ImageId                  any   `json:"ImageId,omitempty"`
	InstanceType             any   `json:"InstanceType,omitempty"`
	IamInstanceProfile       any   `json:"IamInstanceProfile,omitempty"`
	KeyName                  any   `json:"KeyName,omitempty"`
	SecurityGroups           []any `json:"SecurityGroups,omitempty"`
	AssociatePublicIpAddress any   `json:"AssociatePublicIpAddress,omitempty"`
	UserData                 any   `json:"UserData,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r LaunchConfiguration) ResourceType() string {
	return "AWS::AutoScaling::LaunchConfiguration"
}

// AutoScalingGroup represents AWS::AutoScaling::AutoScalingGroup.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-autoscaling-autoscalinggroup.html
type AutoScalingGroup struct {
	VPCZoneIdentifier       []any `json:"VPCZoneIdentifier,omitempty"`
	MinSize                 any   `json:"MinSize,omitempty"`
	MaxSize                 any   `json:"MaxSize,omitempty"`
	DesiredCapacity         any   `json:"DesiredCapacity,omitempty"`
	LaunchConfigurationName any   `json:"LaunchConfigurationName,omitempty"`
	HealthCheckType         any   `json:"HealthCheckType,omitempty"`
	HealthCheckGracePeriod  any   `json:"HealthCheckGracePeriod,omitempty"`
	Tags                    []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r AutoScalingGroup) ResourceType() string {
	return "AWS::AutoScaling::AutoScalingGroup"
}

// AutoScalingGroup_TagProperty represents AWS::AutoScaling::AutoScalingGroup.TagProperty.
type AutoScalingGroup_TagProperty struct {
	Key               any `json:"Key,omitempty"`
	Value             any `json:"Value,omitempty"`
	PropagateAtLaunch any `json:"PropagateAtLaunch,omitempty"`
}
