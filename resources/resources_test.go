package resources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/serialize"
	"github.com/lex00/ecs-stack-go/resources/autoscaling"
	"github.com/lex00/ecs-stack-go/resources/certificatemanager"
	"github.com/lex00/ecs-stack-go/resources/cloudformation"
	"github.com/lex00/ecs-stack-go/resources/cloudfront"
	"github.com/lex00/ecs-stack-go/resources/ec2"
	"github.com/lex00/ecs-stack-go/resources/ecr"
	"github.com/lex00/ecs-stack-go/resources/ecs"
	"github.com/lex00/ecs-stack-go/resources/elasticloadbalancingv2"
	"github.com/lex00/ecs-stack-go/resources/iam"
	"github.com/lex00/ecs-stack-go/resources/logs"
	"github.com/lex00/ecs-stack-go/resources/rds"
	"github.com/lex00/ecs-stack-go/resources/s3"
)

// TestResourceTypes verifies every resource returns its CloudFormation type.
func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource ecsstack.Resource
		expected string
	}{
		{"VPC", ec2.VPC{}, "AWS::EC2::VPC"},
		{"Subnet", ec2.Subnet{}, "AWS::EC2::Subnet"},
		{"InternetGateway", ec2.InternetGateway{}, "AWS::EC2::InternetGateway"},
		{"VPCGatewayAttachment", ec2.VPCGatewayAttachment{}, "AWS::EC2::VPCGatewayAttachment"},
		{"RouteTable", ec2.RouteTable{}, "AWS::EC2::RouteTable"},
		{"Route", ec2.Route{}, "AWS::EC2::Route"},
		{"SubnetRouteTableAssociation", ec2.SubnetRouteTableAssociation{}, "AWS::EC2::SubnetRouteTableAssociation"},
		{"EIP", ec2.EIP{}, "AWS::EC2::EIP"},
		{"NatGateway", ec2.NatGateway{}, "AWS::EC2::NatGateway"},
		{"SecurityGroup", ec2.SecurityGroup{}, "AWS::EC2::SecurityGroup"},
		{"Cluster", ecs.Cluster{}, "AWS::ECS::Cluster"},
		{"TaskDefinition", ecs.TaskDefinition{}, "AWS::ECS::TaskDefinition"},
		{"Service", ecs.Service{}, "AWS::ECS::Service"},
		{"LoadBalancer", elasticloadbalancingv2.LoadBalancer{}, "AWS::ElasticLoadBalancingV2::LoadBalancer"},
		{"TargetGroup", elasticloadbalancingv2.TargetGroup{}, "AWS::ElasticLoadBalancingV2::TargetGroup"},
		{"Listener", elasticloadbalancingv2.Listener{}, "AWS::ElasticLoadBalancingV2::Listener"},
		{"LaunchConfiguration", autoscaling.LaunchConfiguration{}, "AWS::AutoScaling::LaunchConfiguration"},
		{"AutoScalingGroup", autoscaling.AutoScalingGroup{}, "AWS::AutoScaling::AutoScalingGroup"},
		{"Role", iam.Role{}, "AWS::IAM::Role"},
		{"InstanceProfile", iam.InstanceProfile{}, "AWS::IAM::InstanceProfile"},
		{"LogGroup", logs.LogGroup{}, "AWS::Logs::LogGroup"},
		{"Bucket", s3.Bucket{}, "AWS::S3::Bucket"},
		{"Distribution", cloudfront.Distribution{}, "AWS::CloudFront::Distribution"},
		{"Repository", ecr.Repository{}, "AWS::ECR::Repository"},
		{"DBInstance", rds.DBInstance{}, "AWS::RDS::DBInstance"},
		{"DBSubnetGroup", rds.DBSubnetGroup{}, "AWS::RDS::DBSubnetGroup"},
		{"Certificate", certificatemanager.Certificate{}, "AWS::CertificateManager::Certificate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestContainerDefinitionSerialization(t *testing.T) {
	task := ecs.TaskDefinition{
		ContainerDefinitions: []any{
			ecs.TaskDefinition_ContainerDefinition{
				Name:      "WebWorker",
				Cpu:       8,
				Memory:    2048,
				Essential: true,
				PortMappings: []any{
					ecs.TaskDefinition_PortMapping{ContainerPort: 8000, HostPort: 0},
				},
				Environment: []any{
					ecs.TaskDefinition_KeyValuePair{Name: "AWS_STORAGE_BUCKET_NAME", Value: "blah"},
				},
			},
		},
	}

	props, err := serialize.Resource(task)
	require.NoError(t, err)

	containers := props["ContainerDefinitions"].([]any)
	require.Len(t, containers, 1)
	container := containers[0].(map[string]any)
	assert.Equal(t, "WebWorker", container["Name"])
	assert.Equal(t, int64(8), container["Cpu"])
	assert.Equal(t, true, container["Essential"])
	assert.NotContains(t, container, "LogConfiguration")

	pm := container["PortMappings"].([]any)[0].(map[string]any)
	assert.Equal(t, int64(0), pm["HostPort"])
	assert.NotContains(t, pm, "Protocol")
}

func TestInitMetadata(t *testing.T) {
	cfnInit := cloudformation.Init{
		"config": {
			Commands: map[string]cloudformation.InitCommand{
				"register_cluster": {Command: "echo ECS_CLUSTER=x >> /etc/ecs/ecs.config"},
			},
			Files: map[string]cloudformation.InitFile{
				"/etc/cfn/cfn-hup.conf": {Content: "[main]\n", Mode: "000400", Owner: "root", Group: "root"},
			},
			Services: map[string]map[string]cloudformation.InitService{
				"sysvinit": {
					"cfn-hup": {Enabled: true, EnsureRunning: true, Files: []any{"/etc/cfn/cfn-hup.conf"}},
				},
			},
		},
	}

	val, err := serialize.Value(cfnInit.Metadata())
	require.NoError(t, err)

	md := val.(map[string]any)
	config := md[cloudformation.InitKey].(map[string]any)["config"].(map[string]any)

	cmd := config["commands"].(map[string]any)["register_cluster"].(map[string]any)
	assert.Contains(t, cmd["command"], "ECS_CLUSTER")

	file := config["files"].(map[string]any)["/etc/cfn/cfn-hup.conf"].(map[string]any)
	assert.Equal(t, "000400", file["mode"])
	assert.Equal(t, "root", file["owner"])

	svc := config["services"].(map[string]any)["sysvinit"].(map[string]any)["cfn-hup"].(map[string]any)
	assert.Equal(t, true, svc["enabled"])
	assert.Equal(t, true, svc["ensureRunning"])
	assert.NotContains(t, config, "packages")
}
