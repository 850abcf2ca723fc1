package platform

import (
	"strings"

	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/template"
	. "github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/resources/ec2"
)

// network is the VPC layout the rest of the platform is placed in.
//
//	VPC
//	|
//	+-- LoadBalancerASubnet (public, AZ 0) -- NAT
//	+-- LoadBalancerBSubnet (public, AZ 1)
//	|
//	+-- ContainerASubnet (private, AZ 0)
//	+-- ContainerBSubnet (private, AZ 1)
type network struct {
	VPC template.Handle

	LoadBalancerSubnets     [2]template.Handle
	LoadBalancerSubnetCIDRs [2]string

	ContainerSubnets     [2]template.Handle
	ContainerSubnetCIDRs [2]string
}

func declareNetwork(b *template.Builder, cfg config.Network) network {
	var n network
	copy(n.LoadBalancerSubnetCIDRs[:], cfg.LoadBalancerSubnetCIDRs)
	copy(n.ContainerSubnetCIDRs[:], cfg.ContainerSubnetCIDRs)

	// ----------------------------------------------------------------------------
	// VPC and Internet Gateway
	// ----------------------------------------------------------------------------

	n.VPC = b.Resource("VPC", ec2.VPC{
		CidrBlock:          cfg.VPCCIDR,
		EnableDnsHostnames: true,
		EnableDnsSupport:   true,
		Tags:               nameTag("vpc"),
	})

	gateway := b.Resource("InternetGateway", ec2.InternetGateway{
		Tags: nameTag("igw"),
	})

	attachment := b.Resource("GatewayAttachment", ec2.VPCGatewayAttachment{
		InternetGatewayId: gateway,
		VpcId:             n.VPC,
	})

	// ----------------------------------------------------------------------------
	// Subnets
	// ----------------------------------------------------------------------------

	for i, zone := range []string{"A", "B"} {
		n.LoadBalancerSubnets[i] = b.Resource("LoadBalancer"+zone+"Subnet", ec2.Subnet{
			VpcId:               n.VPC,
			CidrBlock:           n.LoadBalancerSubnetCIDRs[i],
			AvailabilityZone:    Select{Index: i, List: GetAZs{}},
			MapPublicIpOnLaunch: true,
			Tags:                nameTag("loadbalancer-" + strings.ToLower(zone)),
		})
	}

	for i, zone := range []string{"A", "B"} {
		n.ContainerSubnets[i] = b.Resource("Container"+zone+"Subnet", ec2.Subnet{
			VpcId:            n.VPC,
			CidrBlock:        n.ContainerSubnetCIDRs[i],
			AvailabilityZone: Select{Index: i, List: GetAZs{}},
			Tags:             nameTag("container-" + strings.ToLower(zone)),
		})
	}

	// ----------------------------------------------------------------------------
	// NAT Gateway
	// ----------------------------------------------------------------------------

	natIP := b.Resource("NatIP", ec2.EIP{
		Domain: "vpc",
	}, template.WithDependsOn(attachment.Name()))

	nat := b.Resource("NAT", ec2.NatGateway{
		AllocationId: natIP.GetAtt("AllocationId"),
		SubnetId:     n.LoadBalancerSubnets[0],
		Tags:         nameTag("nat"),
	})

	// ----------------------------------------------------------------------------
	// Routing
	// ----------------------------------------------------------------------------

	publicRoutes := b.Resource("PublicRouteTable", ec2.RouteTable{
		VpcId: n.VPC,
		Tags:  nameTag("public"),
	})

	b.Resource("PublicRoute", ec2.Route{
		RouteTableId:         publicRoutes,
		DestinationCidrBlock: "0.0.0.0/0",
		GatewayId:            gateway,
	}, template.WithDependsOn(attachment.Name()))

	privateRoutes := b.Resource("PrivateRouteTable", ec2.RouteTable{
		VpcId: n.VPC,
		Tags:  nameTag("private"),
	})

	b.Resource("PrivateNatRoute", ec2.Route{
		RouteTableId:         privateRoutes,
		DestinationCidrBlock: "0.0.0.0/0",
		NatGatewayId:         nat,
	})

	for _, subnet := range n.LoadBalancerSubnets {
		b.Resource(subnet.Name()+"RouteTableAssociation", ec2.SubnetRouteTableAssociation{
			SubnetId:     subnet,
			RouteTableId: publicRoutes,
		})
	}
	for _, subnet := range n.ContainerSubnets {
		b.Resource(subnet.Name()+"RouteTableAssociation", ec2.SubnetRouteTableAssociation{
			SubnetId:     subnet,
			RouteTableId: privateRoutes,
		})
	}

	return n
}

// nameTag tags a resource "<stack name>-<suffix>".
func nameTag(suffix string) []any {
	return []any{
		Tag{Key: "Name", Value: Sub{String: "${AWS::StackName}-" + suffix}},
	}
}
