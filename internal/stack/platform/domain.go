package platform

import (
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/template"
	. "github.com/lex00/ecs-stack-go/intrinsics"
)

func declareDomain(b *template.Builder, cfg config.Application) Parameter {
	p := Parameter{
		Type:        "String",
		Description: "The application domain name",
	}
	if cfg.DomainName != "" {
		p.Default = cfg.DomainName
	}
	return b.Parameter("DomainName", p)
}
