package platform

import (
	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/template"
	. "github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/resources/cloudfront"
	"github.com/lex00/ecs-stack-go/resources/s3"
)

// assets is the static file bucket and the CDN serving it.
type assets struct {
	Bucket       template.Handle
	Distribution template.Handle
}

const assetsOriginID = "Assets"

func declareAssets(b *template.Builder, domain Parameter) assets {
	var a assets

	a.Bucket = b.Resource("AssetsBucket", s3.Bucket{
		AccessControl: "PublicRead",
		CorsConfiguration: s3.Bucket_CorsConfiguration{
			CorsRules: []any{
				s3.Bucket_CorsRule{
					AllowedHeaders: []any{"*"},
					AllowedMethods: []any{"GET"},
					AllowedOrigins: []any{
						Join{Delimiter: "", Values: []any{"https://", domain}},
					},
					MaxAge: 3000,
				},
			},
		},
	})

	a.Distribution = b.Resource("AssetsDistribution", cloudfront.Distribution{
		DistributionConfig: cloudfront.Distribution_DistributionConfig{
			Enabled: true,
			Origins: []any{
				cloudfront.Distribution_Origin{
					Id:         assetsOriginID,
					DomainName: a.Bucket.GetAtt("DomainName"),
					S3OriginConfig: cloudfront.Distribution_S3OriginConfig{
						OriginAccessIdentity: "",
					},
				},
			},
			DefaultCacheBehavior: cloudfront.Distribution_DefaultCacheBehavior{
				TargetOriginId:       assetsOriginID,
				ViewerProtocolPolicy: "allow-all",
				ForwardedValues: cloudfront.Distribution_ForwardedValues{
					QueryString: false,
					Headers:     []any{"Origin"},
				},
			},
			ViewerCertificate: cloudfront.Distribution_ViewerCertificate{
				CloudFrontDefaultCertificate: true,
			},
		},
	})

	b.Output("AssetsDistributionDomainName", ecsstack.Output{
		Description: "Assets CDN domain name",
		Value:       a.Distribution.GetAtt("DomainName"),
	})

	return a
}
