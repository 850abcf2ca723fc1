package intrinsics

import (
	"strings"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

// Pseudo-parameters are predefined by CloudFormation and available in every
// template. They need no Parameters entry.
//
//	region := AWS_REGION // {"Ref": "AWS::Region"}
//	image := Join{"", []any{AWS_ACCOUNT_ID, ".dkr.ecr.", AWS_REGION, ".amazonaws.com/app"}}
var (
	AWS_ACCOUNT_ID        = intrinsics.AWS_ACCOUNT_ID
	AWS_NOTIFICATION_ARNS = intrinsics.AWS_NOTIFICATION_ARNS
	AWS_NO_VALUE          = intrinsics.AWS_NO_VALUE
	AWS_PARTITION         = intrinsics.AWS_PARTITION
	AWS_REGION            = intrinsics.AWS_REGION
	AWS_STACK_ID          = intrinsics.AWS_STACK_ID
	AWS_STACK_NAME        = intrinsics.AWS_STACK_NAME
	AWS_URL_SUFFIX        = intrinsics.AWS_URL_SUFFIX
)

var pseudoNames = map[string]bool{
	"AWS::AccountId":        true,
	"AWS::NotificationARNs": true,
	"AWS::NoValue":          true,
	"AWS::Partition":        true,
	"AWS::Region":           true,
	"AWS::StackId":          true,
	"AWS::StackName":        true,
	"AWS::URLSuffix":        true,
}

// IsPseudo reports whether name is a CloudFormation pseudo-parameter
// such as "AWS::Region".
func IsPseudo(name string) bool {
	if !strings.HasPrefix(name, "AWS::") {
		return false
	}
	return pseudoNames[name]
}
