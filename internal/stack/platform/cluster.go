package platform

import (
	"strconv"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/template"
	. "github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/resources/autoscaling"
	"github.com/lex00/ecs-stack-go/resources/cloudformation"
	"github.com/lex00/ecs-stack-go/resources/ec2"
	"github.com/lex00/ecs-stack-go/resources/ecs"
	"github.com/lex00/ecs-stack-go/resources/elasticloadbalancingv2"
	"github.com/lex00/ecs-stack-go/resources/iam"
)

const (
	launchConfigurationName = "ContainerLaunchConfiguration"
	autoScalingGroupName    = "AutoScalingGroup"
)

// cluster holds what the application service attaches to.
type cluster struct {
	Cluster          template.Handle
	TargetGroup      template.Handle
	Listener         template.Handle
	AutoScalingGroup template.Handle
	WebWorkerPort    Parameter
}

func declareCluster(b *template.Builder, cfg config.Cluster, net network, assets assets, certificate template.Handle) cluster {
	var c cluster

	// ----------------------------------------------------------------------------
	// Parameters
	// ----------------------------------------------------------------------------

	allowed := make([]any, len(cfg.AllowedInstanceTypes))
	for i, t := range cfg.AllowedInstanceTypes {
		allowed[i] = t
	}

	instanceType := b.Parameter("ContainerInstanceType", Parameter{
		Description:   "The container instance type",
		Type:          "String",
		Default:       cfg.InstanceType,
		AllowedValues: allowed,
	})

	c.WebWorkerPort = b.Parameter("WebWorkerPort", Parameter{
		Description: "Web worker container exposed port",
		Type:        "Number",
		Default:     strconv.Itoa(cfg.WebWorkerPort),
	})

	maxScale := b.Parameter("MaxScale", Parameter{
		Description: "Maximum container instances count",
		Type:        "Number",
		Default:     strconv.Itoa(cfg.MaxScale),
	})

	desiredScale := b.Parameter("DesiredScale", Parameter{
		Description: "Desired container instances count",
		Type:        "Number",
		Default:     strconv.Itoa(cfg.DesiredScale),
	})

	regionMap := Mapping{}
	for region, ami := range cfg.AMIs {
		regionMap[region] = map[string]any{"AMI": ami}
	}
	b.Mapping("ECSRegionMap", regionMap)

	// ----------------------------------------------------------------------------
	// Load balancer
	// ----------------------------------------------------------------------------

	c.TargetGroup = b.Resource("ApplicationTargetGroup", elasticloadbalancingv2.TargetGroup{
		VpcId: net.VPC,
		Matcher: elasticloadbalancingv2.TargetGroup_Matcher{
			HttpCode: cfg.SuccessCodes,
		},
		Port:                       80,
		Protocol:                   "HTTP",
		HealthCheckIntervalSeconds: cfg.HealthCheckInterval,
		HealthCheckPath:            cfg.HealthCheckPath,
		HealthCheckProtocol:        "HTTP",
		HealthCheckTimeoutSeconds:  cfg.HealthCheckTimeout,
		HealthyThresholdCount:      cfg.HealthyThreshold,
		UnhealthyThresholdCount:    cfg.UnhealthyThreshold,
		TargetGroupAttributes: []any{
			elasticloadbalancingv2.TargetGroup_TargetGroupAttribute{
				Key:   "stickiness.enabled",
				Value: strconv.FormatBool(cfg.Stickiness),
			},
		},
	})

	loadBalancerSecurityGroup := b.Resource("LoadBalancerSecurityGroup", ec2.SecurityGroup{
		GroupDescription: "Web load balancer security group.",
		VpcId:            net.VPC,
		SecurityGroupIngress: []any{
			ec2.SecurityGroup_Ingress{
				IpProtocol: "tcp",
				FromPort:   "443",
				ToPort:     "443",
				CidrIp:     "0.0.0.0/0",
			},
		},
	})

	loadBalancer := b.Resource("ApplicationLoadBalancer", elasticloadbalancingv2.LoadBalancer{
		Subnets:        Any(net.LoadBalancerSubnets[0], net.LoadBalancerSubnets[1]),
		SecurityGroups: Any(loadBalancerSecurityGroup),
	})

	b.Output("LoadBalancerDNSName", ecsstack.Output{
		Description: "Loadbalancer DNS",
		Value:       loadBalancer.GetAtt("DNSName"),
	})

	c.Listener = b.Resource("ApplicationListener", elasticloadbalancingv2.Listener{
		Certificates: []any{
			elasticloadbalancingv2.Listener_Certificate{CertificateArn: certificate},
		},
		LoadBalancerArn: loadBalancer,
		Protocol:        "HTTPS",
		Port:            443,
		DefaultActions: []any{
			elasticloadbalancingv2.Listener_Action{
				TargetGroupArn: c.TargetGroup,
				Type:           "forward",
			},
		},
	})

	// ----------------------------------------------------------------------------
	// ECS cluster and container instances
	// ----------------------------------------------------------------------------

	c.Cluster = b.Resource("Cluster", ecs.Cluster{})

	instanceRole := b.Resource("ContainerInstanceRole", iam.Role{
		AssumeRolePolicyDocument: AssumeRoleDocument("ec2.amazonaws.com"),
		Path:                     "/",
		Policies: []any{
			iam.Role_Policy{
				PolicyName: "AssetsManagementPolicy",
				PolicyDocument: NewPolicyDocument(
					Allow(Join{Delimiter: "", Values: []any{"arn:aws:s3:::", assets.Bucket}},
						"s3:ListBucket"),
					Allow(Join{Delimiter: "", Values: []any{"arn:aws:s3:::", assets.Bucket, "/*"}},
						"s3:*"),
				),
			},
			iam.Role_Policy{
				PolicyName: "ECSManagementPolicy",
				PolicyDocument: NewPolicyDocument(
					Allow("*", "ecs:*", "elasticloadbalancing:*"),
				),
			},
			iam.Role_Policy{
				PolicyName: "ECRManagementPolicy",
				PolicyDocument: NewPolicyDocument(
					Allow("*",
						"ecr:GetAuthorizationToken",
						"ecr:GetDownloadUrlForLayer",
						"ecr:BatchGetImage",
						"ecr:BatchCheckLayerAvailability",
					),
				),
			},
			iam.Role_Policy{
				PolicyName: "LoggingPolicy",
				PolicyDocument: NewPolicyDocument(
					Allow("arn:aws:logs:*:*:*", "logs:Create*", "logs:PutLogEvents"),
				),
			},
		},
	})

	instanceProfile := b.Resource("ContainerInstanceProfile", iam.InstanceProfile{
		Path:  "/",
		Roles: Any(instanceRole),
	})

	// HTTP from the load balancer subnets only.
	ingress := make([]any, 0, len(net.LoadBalancerSubnetCIDRs))
	for _, cidr := range net.LoadBalancerSubnetCIDRs {
		ingress = append(ingress, ec2.SecurityGroup_Ingress{
			IpProtocol: "tcp",
			FromPort:   c.WebWorkerPort,
			ToPort:     c.WebWorkerPort,
			CidrIp:     cidr,
		})
	}

	containerSecurityGroup := b.Resource("ContainerSecurityGroup", ec2.SecurityGroup{
		GroupDescription:     "Container security group.",
		VpcId:                net.VPC,
		SecurityGroupIngress: ingress,
	})

	launchConfiguration := b.Resource(launchConfigurationName, autoscaling.LaunchConfiguration{
		SecurityGroups:     Any(containerSecurityGroup),
		InstanceType:       instanceType,
		ImageId:            FindInMap{MapName: "ECSRegionMap", TopKey: AWS_REGION, SecondKey: "AMI"},
		IamInstanceProfile: instanceProfile,
		UserData:           Base64{Value: bootstrapScript()},
	}, template.WithMetadata(containerInit(c.Cluster).Metadata()))

	c.AutoScalingGroup = b.Resource(autoScalingGroupName, autoscaling.AutoScalingGroup{
		VPCZoneIdentifier:       Any(net.ContainerSubnets[0], net.ContainerSubnets[1]),
		MinSize:                 desiredScale,
		MaxSize:                 maxScale,
		DesiredCapacity:         desiredScale,
		LaunchConfigurationName: launchConfiguration,
		HealthCheckType:         "EC2",
		HealthCheckGracePeriod:  cfg.HealthCheckGracePeriod,
	})

	b.Resource("AppServiceRole", iam.Role{
		AssumeRolePolicyDocument: AssumeRoleDocument("ecs.amazonaws.com"),
		Path:                     "/",
		Policies: []any{
			iam.Role_Policy{
				PolicyName: "WebServicePolicy",
				PolicyDocument: NewPolicyDocument(
					Allow("*",
						"elasticloadbalancing:Describe*",
						"elasticloadbalancing:DeregisterInstancesFromLoadBalancer",
						"elasticloadbalancing:RegisterInstancesWithLoadBalancer",
						"ec2:Describe*",
						"ec2:AuthorizeSecurityGroupIngress",
					),
				),
			},
		},
	})

	return c
}

// containerInit registers the instance with the cluster and keeps cfn-hup
// reapplying the metadata on stack updates.
func containerInit(cluster template.Handle) cloudformation.Init {
	return cloudformation.Init{
		"config": {
			Commands: map[string]cloudformation.InitCommand{
				"register_cluster": {
					Command: Join{Delimiter: "", Values: []any{
						"#!/bin/bash\n",
						"echo ECS_CLUSTER=",
						cluster,
						" >> /etc/ecs/ecs.config\n",
						"echo 'ECS_AVAILABLE_LOGGING_DRIVERS=",
						`["json-file","awslogs"]'`,
						" >> /etc/ecs/ecs.config\n",
					}},
				},
			},
			Files: map[string]cloudformation.InitFile{
				"/etc/cfn/cfn-hup.conf": {
					Content: Join{Delimiter: "", Values: []any{
						"[main]\n",
						"stack=", AWS_STACK_ID, "\n",
						"region=", AWS_REGION, "\n",
					}},
					Mode:  "000400",
					Owner: "root",
					Group: "root",
				},
				"/etc/cfn/hooks.d/cfn-auto-reloader.conf": {
					Content: Join{Delimiter: "", Values: []any{
						"[cfn-auto-reloader-hook]\n",
						"triggers=post.update\n",
						"path=Resources." + launchConfigurationName + ".",
						"Metadata." + cloudformation.InitKey + "\n",
						"action=/opt/aws/bin/cfn-init -v ",
						"         --stack ", AWS_STACK_NAME,
						"         --resource " + launchConfigurationName,
						"         --region ", AWS_REGION, "\n",
						"runas=root\n",
					}},
				},
			},
			Services: map[string]map[string]cloudformation.InitService{
				"sysvinit": {
					"cfn-hup": {
						Enabled:       true,
						EnsureRunning: true,
						Files: []any{
							"/etc/cfn/cfn-hup.conf",
							"/etc/cfn/hooks.d/cfn-auto-reloader.conf",
						},
					},
				},
			},
		},
	}
}

// bootstrapScript installs the cfn helpers, runs cfn-init and signals the result.
func bootstrapScript() Join {
	return Join{Delimiter: "", Values: []any{
		"#!/bin/bash -xe\n",
		"yum install -y aws-cfn-bootstrap\n",
		"/opt/aws/bin/cfn-init -v ",
		"         --stack ", AWS_STACK_NAME,
		"         --resource " + launchConfigurationName + " ",
		"         --region ", AWS_REGION, "\n",
		"/opt/aws/bin/cfn-signal -e $? ",
		"         --stack ", AWS_STACK_NAME,
		"         --resource " + launchConfigurationName + " ",
		"         --region ", AWS_REGION, "\n",
	}}
}
