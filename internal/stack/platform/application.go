package platform

import (
	"strconv"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/template"
	. "github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/resources/ecs"
	"github.com/lex00/ecs-stack-go/resources/iam"
	"github.com/lex00/ecs-stack-go/resources/logs"
)

// DeployCondition gates the web task and service on a revision being set.
const DeployCondition = "Deploy"

const webWorkerName = "WebWorker"

func declareApplication(b *template.Builder, cfg config.Application, c cluster, assets assets,
	repository template.Handle, domain Parameter, db database) {

	// ----------------------------------------------------------------------------
	// Parameters
	// ----------------------------------------------------------------------------

	revision := b.Parameter("WebAppRevision", Parameter{
		Description: "An optional docker app revision to deploy",
		Type:        "String",
		Default:     "",
	})

	secretKey := b.Parameter("SecretKey", Parameter{
		Description: "Application secret key",
		Type:        "String",
		NoEcho:      true,
	})

	cpu := b.Parameter("WebWorkerCPU", Parameter{
		Description: "Web worker CPU units",
		Type:        "Number",
		Default:     strconv.Itoa(cfg.CPU),
	})

	memory := b.Parameter("WebWorkerMemory", Parameter{
		Description: "Web worker memory",
		Type:        "Number",
		Default:     strconv.Itoa(cfg.Memory),
	})

	desiredCount := b.Parameter("WebWorkerDesiredCount", Parameter{
		Description: "Web worker task instance count",
		Type:        "Number",
		Default:     strconv.Itoa(cfg.DesiredCount),
	})

	deploy := b.Condition(DeployCondition, Not{Condition: Equals{Value1: revision, Value2: ""}})

	// ----------------------------------------------------------------------------
	// Logging
	// ----------------------------------------------------------------------------

	webLogs := b.Resource("WebLogs", logs.LogGroup{
		RetentionInDays: cfg.LogRetentionDays,
	}, template.WithDeletionPolicy("Retain"))

	b.Output("WebLogsGroup", ecsstack.Output{
		Description: "Web application log group",
		Value:       webLogs.GetAtt("Arn"),
	})

	// ----------------------------------------------------------------------------
	// Task and service
	// ----------------------------------------------------------------------------

	// 1024 is a full CPU.
	webWorker := ecs.TaskDefinition_ContainerDefinition{
		Name:      webWorkerName,
		Cpu:       cpu,
		Memory:    memory,
		Essential: true,
		Image: Join{Delimiter: "", Values: []any{
			AWS_ACCOUNT_ID,
			".dkr.ecr.",
			AWS_REGION,
			".amazonaws.com/",
			repository,
			":",
			revision,
		}},
		PortMappings: []any{
			ecs.TaskDefinition_PortMapping{
				HostPort:      0,
				ContainerPort: c.WebWorkerPort,
			},
		},
		LogConfiguration: ecs.TaskDefinition_LogConfiguration{
			LogDriver: "awslogs",
			Options: map[string]any{
				"awslogs-group":  webLogs,
				"awslogs-region": AWS_REGION,
			},
		},
		Environment: []any{
			env("AWS_STORAGE_BUCKET_NAME", assets.Bucket),
			env("CDN_DOMAIN_NAME", assets.Distribution.GetAtt("DomainName")),
			env("DOMAIN_NAME", domain),
			env("PORT", c.WebWorkerPort),
			env("SECRET_KEY", secretKey),
			env("DATABASE_URL", db.URL()),
		},
	}

	webTask := b.Resource("WebTask", ecs.TaskDefinition{
		ContainerDefinitions: []any{webWorker},
	}, template.WithCondition(deploy))

	serviceRole := b.Resource("ApplicationServiceRole", iam.Role{
		AssumeRolePolicyDocument: AssumeRoleDocument("ecs.amazonaws.com"),
		Path:                     "/",
		Policies: []any{
			iam.Role_Policy{
				PolicyName: "WebServicePolicy",
				PolicyDocument: NewPolicyDocument(
					Allow("*",
						"elasticloadbalancing:Describe*",
						"elasticloadbalancing:RegisterTargets",
						"elasticloadbalancing:DeregisterTargets",
						"elasticloadbalancing:DeregisterInstancesFromLoadBalancer",
						"elasticloadbalancing:RegisterInstancesWithLoadBalancer",
						"ec2:Describe*",
						"ec2:AuthorizeSecurityGroupIngress",
					),
				),
			},
		},
	})

	// Tasks need container instances and a listener to register with.
	b.Resource("ApplicationService", ecs.Service{
		Cluster: c.Cluster,
		DeploymentConfiguration: ecs.Service_DeploymentConfiguration{
			MaximumPercent:        cfg.MaximumPercent,
			MinimumHealthyPercent: cfg.MinimumHealthyPercent,
		},
		DesiredCount: desiredCount,
		LoadBalancers: []any{
			ecs.Service_LoadBalancer{
				ContainerName:  webWorkerName,
				ContainerPort:  c.WebWorkerPort,
				TargetGroupArn: c.TargetGroup,
			},
		},
		TaskDefinition: webTask,
		Role:           serviceRole,
	},
		template.WithCondition(deploy),
		template.WithDependsOn(c.AutoScalingGroup.Name(), c.Listener.Name()),
	)
}

func env(name string, value any) ecs.TaskDefinition_KeyValuePair {
	return ecs.TaskDefinition_KeyValuePair{Name: name, Value: value}
}
