// Package ecs provides AWS::ECS resource types.
package ecs

// Cluster represents AWS::ECS::Cluster.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ecs-cluster.html
type Cluster struct {
	ClusterName any   `json:"ClusterName,omitempty"`
	Tags        []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Cluster) ResourceType() string {
	return "AWS::ECS::Cluster"
}

// TaskDefinition represents AWS::ECS::TaskDefinition.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ecs-taskdefinition.html
type TaskDefinition struct {
	Family                  any   `json:"Family,omitempty"`
	ContainerDefinitions    []any `json:"ContainerDefinitions,omitempty"`
	Cpu                     any   `json:"Cpu,omitempty"`
	Memory                  any   `json:"Memory,omitempty"`
	NetworkMode             any   `json:"NetworkMode,omitempty"`
	RequiresCompatibilities []any `json:"RequiresCompatibilities,omitempty"`
	ExecutionRoleArn        any   `json:"ExecutionRoleArn,omitempty"`
	TaskRoleArn             any   `json:"TaskRoleArn,omitempty"`
	Volumes                 []any `json:"Volumes,omitempty"`
	Tags                    []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r TaskDefinition) ResourceType() string {
	return "AWS::ECS::TaskDefinition"
}

// TaskDefinition_ContainerDefinition represents AWS::ECS::TaskDefinition.ContainerDefinition.
type TaskDefinition_ContainerDefinition struct {
	Name              any   `json:"Name,omitempty"`
	Image             any   `json:"Image,omitempty"`
	Cpu               any   `json:"Cpu,omitempty"`
	Memory            any   `json:"Memory,omitempty"`
	MemoryReservation any   `json:"MemoryReservation,omitempty"`
	Essential         any   `json:"Essential,omitempty"`
	Command           []any `json:"Command,omitempty"`
	EntryPoint        []any `json:"EntryPoint,omitempty"`
	PortMappings      []any `json:"PortMappings,omitempty"`
	Environment       []any `json:"Environment,omitempty"`
	LogConfiguration  any   `json:"LogConfiguration,omitempty"`
}

// TaskDefinition_PortMapping represents AWS::ECS::TaskDefinition.PortMapping.
// HostPort 0 asks ECS for a dynamic host port.
type TaskDefinition_PortMapping struct {
	ContainerPort any `json:"ContainerPort,omitempty"`
	HostPort      any `json:"HostPort,omitempty"`
	Protocol      any `json:"Protocol,omitempty"`
}

// TaskDefinition_KeyValuePair represents AWS::ECS::TaskDefinition.KeyValuePair.
type TaskDefinition_KeyValuePair struct {
	Name  any `json:"Name,omitempty"`
	Value any `json:"Value,omitempty"`
}

// TaskDefinition_LogConfiguration represents AWS::ECS::TaskDefinition.LogConfiguration.
type TaskDefinition_LogConfiguration struct {
	LogDriver any            `json:"LogDriver,omitempty"`
	Options   map[string]any `json:"Options,omitempty"`
}

// Service represents AWS::ECS::Service.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ecs-service.html
type Service struct {
	ServiceName                   any   `json:"ServiceName,omitempty"`
	Cluster                       any   `json:"Cluster,omitempty"`
	TaskDefinition                any   `json:"TaskDefinition,omitempty"`
	DesiredCount                  any   `json:"DesiredCount,omitempty"`
	LaunchType                    any   `json:"LaunchType,omitempty"`
	Role                          any   `json:"Role,omitempty"`
	LoadBalancers                 []any `json:"LoadBalancers,omitempty"`
	DeploymentConfiguration       any   `json:"DeploymentConfiguration,omitempty"`
	HealthCheckGracePeriodSeconds any   `json:"HealthCheckGracePeriodSeconds,omitempty"`
	Tags                          []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Service) ResourceType() string {
	return "AWS::ECS::Service"
}

// Service_LoadBalancer represents AWS::ECS::Service.LoadBalancer.
type Service_LoadBalancer struct {
	ContainerName  any `json:"ContainerName,omitempty"`
	ContainerPort  any `json:"ContainerPort,omitempty"`
	TargetGroupArn any `json:"TargetGroupArn,omitempty"`
}

// Service_DeploymentConfiguration represents AWS::ECS::Service.DeploymentConfiguration.
type Service_DeploymentConfiguration struct {
	MaximumPercent        any `json:"MaximumPercent,omitempty"`
	MinimumHealthyPercent any `json:"MinimumHealthyPercent,omitempty"`
}
