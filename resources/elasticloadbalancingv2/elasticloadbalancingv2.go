// Package elasticloadbalancingv2 provides AWS::ElasticLoadBalancingV2 resource types.
package elasticloadbalancingv2

// LoadBalancer represents AWS::ElasticLoadBalancingV2::LoadBalancer.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-elasticloadbalancingv2-loadbalancer.html
type LoadBalancer struct {
	Name                   any   `json:"Name,omitempty"`
	Scheme                 any   `json:"Scheme,omitempty"`
	Type                   any   `json:"Type,omitempty"`
	Subnets                []any `json:"Subnets,omitempty"`
	SecurityGroups         []any `json:"SecurityGroups,omitempty"`
	LoadBalancerAttributes []any `json:"LoadBalancerAttributes,omitempty"`
	Tags                   []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r LoadBalancer) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::LoadBalancer"
}

// LoadBalancer_LoadBalancerAttribute represents AWS::ElasticLoadBalancingV2::LoadBalancer.LoadBalancerAttribute.
type LoadBalancer_LoadBalancerAttribute struct {
	Key   any `json:"Key,omitempty"`
	Value any `json:"Value,omitempty"`
}

// TargetGroup represents AWS::ElasticLoadBalancingV2::TargetGroup.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-elasticloadbalancingv2-targetgroup.html
type TargetGroup struct {
	Name                       any   `json:"Name,omitempty"`
	VpcId                      any   `json:"VpcId,omitempty"`
	Port                       any   `json:"Port,omitempty"`
	Protocol                   any   `json:"Protocol,omitempty"`
	TargetType                 any   `json:"TargetType,omitempty"`
	Matcher                    any   `json:"Matcher,omitempty"`
	HealthCheckIntervalSeconds any   `json:"HealthCheckIntervalSeconds,omitempty"`
	HealthCheckPath            any   `json:"HealthCheckPath,omitempty"`
	HealthCheckProtocol        any   `json:"HealthCheckProtocol,omitempty"`
	HealthCheckTimeoutSeconds  any   `json:"HealthCheckTimeoutSeconds,omitempty"`
	HealthyThresholdCount      any   `json:"HealthyThresholdCount,omitempty"`
	UnhealthyThresholdCount    any   `json:"UnhealthyThresholdCount,omitempty"`
	TargetGroupAttributes      []any `json:"TargetGroupAttributes,omitempty"`
	Tags                       []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r TargetGroup) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::TargetGroup"
}

// TargetGroup_Matcher represents AWS::ElasticLoadBalancingV2::TargetGroup.Matcher.
type TargetGroup_Matcher struct {
	HttpCode any `json:"HttpCode,omitempty"`
}

// TargetGroup_TargetGroupAttribute represents AWS::ElasticLoadBalancingV2::TargetGroup.TargetGroupAttribute.
type TargetGroup_TargetGroupAttribute struct {
	Key   any `json:"Key,omitempty"`
	Value any `json:"Value,omitempty"`
}

// Listener represents AWS::ElasticLoadBalancingV2::Listener.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-elasticloadbalancingv2-listener.html
type Listener struct {
	LoadBalancerArn any   `json:"LoadBalancerArn,omitempty"`
	Port            any   `json:"Port,omitempty"`
	Protocol        any   `json:"Protocol,omitempty"`
	SslPolicy       any   `json:"SslPolicy,omitempty"`
	Certificates    []any `json:"Certificates,omitempty"`
	DefaultActions  []any `json:"DefaultActions,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Listener) ResourceType() string {
	return "AWS::ElasticLoadBalancingV2::Listener"
}

// Listener_Certificate represents AWS::ElasticLoadBalancingV2::Listener.Certificate.
type Listener_Certificate struct {
	CertificateArn any `json:"CertificateArn,omitempty"`
}

// Listener_Action represents AWS::ElasticLoadBalancingV2::Listener.Action.
type Listener_Action struct {
	Type           any `json:"Type,omitempty"`
	TargetGroupArn any `json:"TargetGroupArn,omitempty"`
}
