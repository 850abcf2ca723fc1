// Package webtask declares the standalone ECS task definition example: a
// single WebTask running the WebWorker container.
package webtask

import (
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/template"
	. "github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/resources/ecs"
)

// Build declares the task definition template.
func Build(cfg config.Config) *template.Builder {
	b := template.NewBuilder("ECS web task definition")
	task := cfg.Task

	// ----------------------------------------------------------------------------
	// Parameters and conditions
	// ----------------------------------------------------------------------------

	repository := b.Parameter("Repository", Parameter{
		Type:        "String",
		Description: "ECR repository holding the web worker image",
		Default:     task.Repository,
	})

	hasRepository := b.Condition("HasRepository", Not{Condition: Equals{Value1: repository, Value2: ""}})

	// ----------------------------------------------------------------------------
	// Task definition
	// ----------------------------------------------------------------------------

	// 1024 is a full CPU.
	webWorker := ecs.TaskDefinition_ContainerDefinition{
		Name:      "WebWorker",
		Cpu:       task.CPU,
		Memory:    task.Memory,
		Essential: true,
		Image: Join{Delimiter: "", Values: []any{
			AWS_ACCOUNT_ID,
			".dkr.ecr.",
			AWS_REGION,
			".amazonaws.com/",
			repository,
			":",
			task.Revision,
		}},
		PortMappings: []any{
			ecs.TaskDefinition_PortMapping{
				ContainerPort: task.ContainerPort,
				HostPort:      task.HostPort,
			},
		},
		Environment: []any{
			ecs.TaskDefinition_KeyValuePair{Name: "AWS_STORAGE_BUCKET_NAME", Value: task.BucketName},
			ecs.TaskDefinition_KeyValuePair{Name: "CDN_DOMAIN_NAME", Value: task.CDNDomainName},
		},
	}

	b.Resource("WebTask", ecs.TaskDefinition{
		ContainerDefinitions: []any{webWorker},
	}, template.WithCondition(hasRepository))

	return b
}
