package platform

import (
	"github.com/lex00/ecs-stack-go/internal/template"
	. "github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/resources/certificatemanager"
)

// declareCertificate requests the TLS certificate the HTTPS listener serves.
// Validation mail goes to the domain's own administrative contacts.
func declareCertificate(b *template.Builder, domain Parameter) template.Handle {
	return b.Resource("ApplicationCertificate", certificatemanager.Certificate{
		DomainName: domain,
		DomainValidationOptions: []any{
			certificatemanager.Certificate_DomainValidationOption{
				DomainName:       domain,
				ValidationDomain: domain,
			},
		},
	})
}
