package schema

var (
	str      = PropertySchema{Type: "String"}
	num      = PropertySchema{Type: "Integer"}
	flag     = PropertySchema{Type: "Boolean"}
	list     = PropertySchema{Type: "List"}
	object   = PropertySchema{Type: "Map"}
	document = PropertySchema{Type: "Json"}
)

func oneOf(values ...string) PropertySchema {
	return PropertySchema{Type: "String", AllowedValues: values}
}

var protocols = oneOf("HTTP", "HTTPS", "TCP", "TLS", "UDP", "TCP_UDP", "GENEVE")

var resourceSchemas = map[string]ResourceSchema{
	// EC2 networking
	"AWS::EC2::VPC": {
		Properties: map[string]PropertySchema{
			"CidrBlock": str, "EnableDnsSupport": flag, "EnableDnsHostnames": flag, "Tags": list,
		},
	},
	"AWS::EC2::InternetGateway": {
		Properties: map[string]PropertySchema{"Tags": list},
	},
	"AWS::EC2::VPCGatewayAttachment": {
		Required:   []string{"VpcId"},
		Properties: map[string]PropertySchema{"VpcId": str, "InternetGatewayId": str},
	},
	"AWS::EC2::Subnet": {
		Required: []string{"VpcId"},
		Properties: map[string]PropertySchema{
			"VpcId": str, "CidrBlock": str, "AvailabilityZone": str, "MapPublicIpOnLaunch": flag, "Tags": list,
		},
	},
	"AWS::EC2::EIP": {
		Properties: map[string]PropertySchema{"Domain": oneOf("vpc", "standard"), "Tags": list},
	},
	"AWS::EC2::NatGateway": {
		Required:   []string{"SubnetId"},
		Properties: map[string]PropertySchema{"AllocationId": str, "SubnetId": str, "Tags": list},
	},
	"AWS::EC2::RouteTable": {
		Required:   []string{"VpcId"},
		Properties: map[string]PropertySchema{"VpcId": str, "Tags": list},
	},
	"AWS::EC2::Route": {
		Required: []string{"RouteTableId"},
		Properties: map[string]PropertySchema{
			"RouteTableId": str, "DestinationCidrBlock": str, "GatewayId": str, "NatGatewayId": str,
		},
	},
	"AWS::EC2::SubnetRouteTableAssociation": {
		Required:   []string{"RouteTableId", "SubnetId"},
		Properties: map[string]PropertySchema{"RouteTableId": str, "SubnetId": str},
	},
	"AWS::EC2::SecurityGroup": {
		Required: []string{"GroupDescription"},
		Properties: map[string]PropertySchema{
			"GroupDescription": str, "VpcId": str, "SecurityGroupIngress": list, "SecurityGroupEgress": list, "Tags": list,
		},
	},

	// Load balancing
	"AWS::ElasticLoadBalancingV2::LoadBalancer": {
		Properties: map[string]PropertySchema{
			"Name": str, "Scheme": oneOf("internet-facing", "internal"), "Subnets": list, "SecurityGroups": list,
			"LoadBalancerAttributes": list,
			"Type": oneOf("application", "network", "gateway"), "Tags": list,
		},
	},
	"AWS::ElasticLoadBalancingV2::TargetGroup": {
		Properties: map[string]PropertySchema{
			"Name": str, "Port": num, "Protocol": protocols, "VpcId": str, "Matcher": object,
			"TargetType": oneOf("instance", "ip", "lambda", "alb"), "Tags": list,
			"HealthCheckIntervalSeconds": num, "HealthCheckPath": str, "HealthCheckProtocol": protocols,
			"HealthCheckTimeoutSeconds": num, "HealthyThresholdCount": num, "UnhealthyThresholdCount": num,
			"TargetGroupAttributes": list,
		},
	},
	"AWS::ElasticLoadBalancingV2::Listener": {
		Required: []string{"DefaultActions", "LoadBalancerArn"},
		Properties: map[string]PropertySchema{
			"Certificates": list, "DefaultActions": list, "LoadBalancerArn": str, "Port": num,
			"Protocol": protocols, "SslPolicy": str,
		},
	},

	// Container instances
	"AWS::AutoScaling::LaunchConfiguration": {
		Required: []string{"ImageId", "InstanceType"},
		Properties: map[string]PropertySchema{
			"ImageId": str, "InstanceType": str, "SecurityGroups": list, "IamInstanceProfile": str,
			"UserData": str, "KeyName": str, "AssociatePublicIpAddress": flag,
		},
	},
	"AWS::AutoScaling::AutoScalingGroup": {
		Required: []string{"MaxSize", "MinSize"},
		Properties: map[string]PropertySchema{
			"MinSize": num, "MaxSize": num, "DesiredCapacity": num, "VPCZoneIdentifier": list,
			"LaunchConfigurationName": str, "HealthCheckType": oneOf("EC2", "ELB"),
			"HealthCheckGracePeriod": num, "TargetGroupARNs": list, "Tags": list,
		},
	},
	"AWS::IAM::Role": {
		Required: []string{"AssumeRolePolicyDocument"},
		Properties: map[string]PropertySchema{
			"RoleName": str, "AssumeRolePolicyDocument": document, "Path": str, "Policies": list,
			"ManagedPolicyArns": list, "Tags": list,
		},
	},
	"AWS::IAM::InstanceProfile": {
		Required:   []string{"Roles"},
		Properties: map[string]PropertySchema{"InstanceProfileName": str, "Path": str, "Roles": list},
	},

	// ECS
	"AWS::ECS::Cluster": {
		Properties: map[string]PropertySchema{"ClusterName": str, "Tags": list},
	},
	"AWS::ECS::TaskDefinition": {
		Properties: map[string]PropertySchema{
			"ContainerDefinitions": list, "Family": str, "Volumes": list, "Cpu": document, "Memory": document,
			"RequiresCompatibilities": list, "ExecutionRoleArn": str, "TaskRoleArn": str, "Tags": list,
			"NetworkMode": oneOf("bridge", "host", "awsvpc", "none"),
		},
	},
	"AWS::ECS::Service": {
		Properties: map[string]PropertySchema{
			"ServiceName": str, "Cluster": str, "TaskDefinition": str, "DesiredCount": num, "LoadBalancers": list,
			"HealthCheckGracePeriodSeconds": num, "Tags": list,
			"Role": str, "DeploymentConfiguration": object, "LaunchType": oneOf("EC2", "FARGATE", "EXTERNAL"),
		},
	},
	"AWS::Logs::LogGroup": {
		Properties: map[string]PropertySchema{"LogGroupName": str, "RetentionInDays": num, "KmsKeyId": str, "Tags": list},
	},

	// Storage, delivery and data
	"AWS::S3::Bucket": {
		Properties: map[string]PropertySchema{
			"BucketName": str, "CorsConfiguration": object, "Tags": list,
			"AccessControl": oneOf("Private", "PublicRead", "PublicReadWrite", "AuthenticatedRead",
				"LogDeliveryWrite", "BucketOwnerRead", "BucketOwnerFullControl", "AwsExecRead"),
		},
	},
	"AWS::CloudFront::Distribution": {
		Required:   []string{"DistributionConfig"},
		Properties: map[string]PropertySchema{"DistributionConfig": object, "Tags": list},
	},
	"AWS::ECR::Repository": {
		Properties: map[string]PropertySchema{
			"RepositoryName": str, "LifecyclePolicy": object, "RepositoryPolicyText": document,
			"ImageTagMutability": oneOf("MUTABLE", "IMMUTABLE"),
		},
	},
	"AWS::CertificateManager::Certificate": {
		Required: []string{"DomainName"},
		Properties: map[string]PropertySchema{
			"DomainName": str, "DomainValidationOptions": list, "SubjectAlternativeNames": list,
			"ValidationMethod": oneOf("DNS", "EMAIL"),
		},
	},
	"AWS::RDS::DBSubnetGroup": {
		Required:   []string{"DBSubnetGroupDescription", "SubnetIds"},
		Properties: map[string]PropertySchema{"DBSubnetGroupDescription": str, "SubnetIds": list, "Tags": list},
	},
	"AWS::RDS::DBInstance": {
		Required: []string{"DBInstanceClass"},
		Properties: map[string]PropertySchema{
			"DBName": str, "Engine": str, "EngineVersion": str, "DBInstanceClass": str,
			"AllocatedStorage": num, "StorageType": oneOf("standard", "gp2", "gp3", "io1", "io2"),
			"MasterUsername": str, "MasterUserPassword": str, "DBSubnetGroupName": str,
			"VPCSecurityGroups": list, "MultiAZ": flag, "BackupRetentionPeriod": num, "Tags": list,
		},
	},
}
