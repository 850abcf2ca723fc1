package platform

import (
	"github.com/lex00/ecs-stack-go/internal/template"
	"github.com/lex00/ecs-stack-go/resources/ecr"
)

// untaggedImageExpiry is the ECR lifecycle policy expiring untagged images
// after 14 days.
const untaggedImageExpiry = `{
  "rules": [
    {
      "rulePriority": 1,
      "description": "Expire untagged images",
      "selection": {
        "tagStatus": "untagged",
        "countType": "sinceImagePushed",
        "countUnit": "days",
        "countNumber": 14
      },
      "action": {"type": "expire"}
    }
  ]
}`

func declareRepository(b *template.Builder) template.Handle {
	return b.Resource("Repository", ecr.Repository{
		LifecyclePolicy: ecr.Repository_LifecyclePolicy{
			LifecyclePolicyText: untaggedImageExpiry,
		},
	})
}
