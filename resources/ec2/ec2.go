// Package ec2 provides AWS::EC2 resource types for VPC networking.
package ec2

// VPC represents AWS::EC2::VPC.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-vpc.html
type VPC struct {
	CidrBlock          any   `json:"CidrBlock,omitempty"`
	EnableDnsSupport   any   `json:"EnableDnsSupport,omitempty"`
	EnableDnsHostnames any   `json:"EnableDnsHostnames,omitempty"`
	Tags               []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPC) ResourceType() string {
	return "AWS::EC2::VPC"
}

// Subnet represents AWS::EC2::Subnet.
type Subnet struct {
	VpcId               any   `json:"VpcId,omitempty"`
	CidrBlock           any   `json:"CidrBlock,omitempty"`
	AvailabilityZone    any   `json:"AvailabilityZone,omitempty"`
	MapPublicIpOnLaunch any   `json:"MapPublicIpOnLaunch,omitempty"`
	Tags                []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Subnet) ResourceType() string {
	return "AWS::EC2::Subnet"
}

// InternetGateway represents AWS::EC2::InternetGateway.
type InternetGateway struct {
	Tags []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r InternetGateway) ResourceType() string {
	return "AWS::EC2::InternetGateway"
}

// VPCGatewayAttachment represents AWS::EC2::VPCGatewayAttachment.
type VPCGatewayAttachment struct {
	VpcId             any `json:"VpcId,omitempty"`
	InternetGatewayId any `json:"InternetGatewayId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r VPCGatewayAttachment) ResourceType() string {
	return "AWS::EC2::VPCGatewayAttachment"
}

// RouteTable represents AWS::EC2::RouteTable.
type RouteTable struct {
	VpcId any   `json:"VpcId,omitempty"`
	Tags  []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r RouteTable) ResourceType() string {
	return "AWS::EC2::RouteTable"
}

// Route represents AWS::EC2::Route.
type Route struct {
	RouteTableId         any `json:"RouteTableId,omitempty"`
	DestinationCidrBlock any `json:"DestinationCidrBlock,omitempty"`
	GatewayId            any `json:"GatewayId,omitempty"`
	NatGatewayId         any `json:"NatGatewayId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r Route) ResourceType() string {
	return "AWS::EC2::Route"
}

// SubnetRouteTableAssociation represents AWS::EC2::SubnetRouteTableAssociation.
type SubnetRouteTableAssociation struct {
	SubnetId     any `json:"SubnetId,omitempty"`
	RouteTableId any `json:"RouteTableId,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SubnetRouteTableAssociation) ResourceType() string {
	return "AWS::EC2::SubnetRouteTableAssociation"
}

// EIP represents AWS::EC2::EIP.
type EIP struct {
	Domain any   `json:"Domain,omitempty"`
	Tags   []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r EIP) ResourceType() string {
	return "AWS::EC2::EIP"
}

// NatGateway represents AWS::EC2::NatGateway.
type NatGateway struct {
	AllocationId any   `json:"AllocationId,omitempty"`
	SubnetId     any   `json:"SubnetId,omitempty"`
	Tags         []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r NatGateway) ResourceType() string {
	return "AWS::EC2::NatGateway"
}

// SecurityGroup represents AWS::EC2::SecurityGroup.
//
// See: https://docs.aws.amazon.com/AWSCloudFormation/latest/UserGuide/aws-resource-ec2-securitygroup.html
type SecurityGroup struct {
	GroupDescription     any   `json:"GroupDescription,omitempty"`
	VpcId                any   `json:"VpcId,omitempty"`
	SecurityGroupIngress []any `json:"SecurityGroupIngress,omitempty"`
	SecurityGroupEgress  []any `json:"SecurityGroupEgress,omitempty"`
	Tags                 []any `json:"Tags,omitempty"`
}

// ResourceType returns the CloudFormation resource type.
func (r SecurityGroup) ResourceType() string {
	return "AWS::EC2::SecurityGroup"
}

// SecurityGroup_Ingress represents AWS::EC2::SecurityGroup.Ingress.
type SecurityGroup_Ingress struct {
	IpProtocol            any `json:"IpProtocol,omitempty"`
	FromPort              any `json:"FromPort,omitempty"`
	ToPort                any `json:"ToPort,omitempty"`
	CidrIp                any `json:"CidrIp,omitempty"`
	SourceSecurityGroupId any `json:"SourceSecurityGroupId,omitempty"`
	Description           any `json:"Description,omitempty"`
}
