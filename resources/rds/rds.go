// Package rds provides AWS::RDS resource types.
package rds

// DBInstance represents AWS::RDS::DBInstance.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-rds-dbinstance.html
type DBInstance struct {
	DBName                any   `json:"DBName,omitempty"`
	Engine                any   `json:"Engine,omitempty"`
	EngineVersion         any   `json:"EngineVersion,omitempty"`
	DBInstanceClass       any   `json:"DBInstanceClass,omitempty"`
	AllocatedStorage      any   `json:"AllocatedStorage,omitempty"`
	StorageType           any   `json:"StorageType,omitempty"`
	MasterUsername        any   `json:"MasterUsername,omitempty"`
	MasterUserPassword    any   `json:"MasterUserPassword,omitempty"`
	DBSubnetGroupName     any   `json:"DBSubnetGroupName,omitempty"`
	VPCSecurityGroups     []any `json:"VPCSecurityGroups,omitempty"`
	MultiAZ               any   `json:"MultiAZ,omitempty"`
	BackupRetentionPeriod any   `json:"BackupRetentionPeriod,omitempty"`
	Tags                  []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBInstance) ResourceType() string {
	return "AWS::RDS::DBInstance"
}

// DBSubnetGroup represents AWS::RDS::DBSubnetGroup.
type DBSubnetGroup struct {
	DBSubnetGroupDescription any   `json:"DBSubnetGroupDescription,omitempty"`
	SubnetIds                []any `json:"SubnetIds,omitempty"`
	Tags                     []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r DBSubnetGroup) ResourceType() string {
	return "AWS::RDS::DBSubnetGroup"
}
