// Package cloudfront provides AWS::CloudFront resource types.
package cloudfront

// Distribution represents AWS::CloudFront::Distribution.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-cloudfront-distribution.html
type Distribution struct {
	DistributionConfig any   `json:"DistributionConfig,omitempty"`
	Tags               []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Distribution) ResourceType() string {
	return "AWS::CloudFront::Distribution"
}

// Distribution_DistributionConfig represents AWS::CloudFront::Distribution.DistributionConfig.
type Distribution_DistributionConfig struct {
	Enabled              any   `json:"Enabled,omitempty"`
	Comment              any   `json:"Comment,omitempty"`
	Aliases              []any `json:"Aliases,omitempty"`
	Origins              []any `json:"Origins,omitempty"`
	DefaultCacheBehavior any   `json:"DefaultCacheBehavior,omitempty"`
	PriceClass           any   `json:"PriceClass,omitempty"`
	ViewerCertificate    any   `json:"ViewerCertificate,omitempty"`
}

// Distribution_Origin represents AWS::CloudFront::Distribution.Origin.
type Distribution_Origin struct {
	Id             any `json:"Id,omitempty"`
	DomainName     any `json:"DomainName,omitempty"`
	S3OriginConfig any `json:"S3OriginConfig,omitempty"`
}

// Distribution_S3OriginConfig represents AWS::CloudFront::Distribution.S3OriginConfig.
type Distribution_S3OriginConfig struct {
	OriginAccessIdentity any `json:"OriginAccessIdentity"`
}

// Distribution_DefaultCacheBehavior represents AWS::CloudFront::Distribution.DefaultCacheBehavior.
type Distribution_DefaultCacheBehavior struct {
	TargetOriginId       any   `json:"TargetOriginId,omitempty"`
	ViewerProtocolPolicy any   `json:"ViewerProtocolPolicy,omitempty"`
	AllowedMethods       []any `json:"AllowedMethods,omitempty"`
	ForwardedValues      any   `json:"ForwardedValues,omitempty"`
	Compress             any   `json:"Compress,omitempty"`
}

// Distribution_ForwardedValues represents AWS::CloudFront::Distribution.ForwardedValues.
type Distribution_ForwardedValues struct {
	QueryString any   `json:"QueryString,omitempty"`
	Headers     []any `json:"Headers,omitempty"`
}

// Distribution_ViewerCertificate represents AWS::CloudFront::Distribution.ViewerCertificate.
type Distribution_ViewerCertificate struct {
	CloudFrontDefaultCertificate any `json:"CloudFrontDefaultCertificate,omitempty"`
	AcmCertificateArn            any `json:"AcmCertificateArn,omitempty"`
	SslSupportMethod             any `json:"SslSupportMethod,omitempty"`
}
