// Package s3 provides AWS::S3 resource types.
package s3

// Bucket represents AWS::S3::Bucket.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-s3-bucket.html
type Bucket struct {
	BucketName        any   `json:"BucketName,omitempty"`
	AccessControl     any   `json:"AccessControl,omitempty"`
	CorsConfiguration any   `json:"CorsConfiguration,omitempty"`
	Tags              []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Bucket) ResourceType() string {
	return "AWS::S3::Bucket"
}

// Bucket_CorsConfiguration represents AWS::S3::Bucket.CorsConfiguration.
type Bucket_CorsConfiguration struct {
	CorsRules []any `json:"CorsRules,omitempty"`
}

// Bucket_CorsRule represents AWS::S3::Bucket.CorsRule.
type Bucket_CorsRule struct {
	AllowedHeaders []any `json:"AllowedHeaders,omitempty"`
	AllowedMethods []any `json:"AllowedMethods,omitempty"`
	AllowedOrigins []any `json:"AllowedOrigins,omitempty"`
	MaxAge         any   `json:"MaxAge,omitempty"`
}
