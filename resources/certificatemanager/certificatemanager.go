// Package certificatemanager provides AWS::CertificateManager resource types.
package certificatemanager

// Certificate represents AWS::CertificateManager::Certificate.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-certificatemanager-certificate.html
type Certificate struct {
	DomainName              any   `json:"DomainName,omitempty"`
	SubjectAlternativeNames []any `json:"SubjectAlternativeNames,omitempty"`
	ValidationMethod        any   `json:"ValidationMethod,omitempty"`
	DomainValidationOptions []any `json:"DomainValidationOptions,omitempty"`
	Tags                    []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Certificate) ResourceType() string {
	return "AWS::CertificateManager::Certificate"
}

// Certificate_DomainValidationOption represents AWS::CertificateManager::Certificate.DomainValidationOption.
type Certificate_DomainValidationOption struct {
	DomainName       any `json:"DomainName,omitempty"`
	ValidationDomain any `json:"ValidationDomain,omitempty"`
}
