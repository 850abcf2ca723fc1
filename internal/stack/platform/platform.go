// Package platform declares the ECS application platform: network, assets,
// database, the ECS cluster behind an HTTPS load balancer, and the web
// application service running on it.
//
// Cluster and application share one template, so the application refers to
// cluster resources directly.
package platform

import (
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/template"
)

// Build declares the platform template.
func Build(cfg config.Config) *template.Builder {
	b := template.NewBuilder("ECS application platform")

	domain := declareDomain(b, cfg.Application)
	net := declareNetwork(b, cfg.Network)
	assets := declareAssets(b, domain)
	certificate := declareCertificate(b, domain)
	repository := declareRepository(b)
	db := declareDatabase(b, cfg.Database, net)
	c := declareCluster(b, cfg.Cluster, net, assets, certificate)
	declareApplication(b, cfg.Application, c, assets, repository, domain, db)

	return b
}
