package platform

import (
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/template"
	. "github.com/lex00/ecs-stack-go/intrinsics"
	"github.com/lex00/ecs-stack-go/resources/ec2"
	"github.com/lex00/ecs-stack-go/resources/rds"
)

const postgresPort = "5432"

// database is the PostgreSQL instance and the parameters needed to build
// a connection URL for it.
type database struct {
	Instance template.Handle
	Name     Parameter
	User     Parameter
	Password Parameter
}

func declareDatabase(b *template.Builder, cfg config.Database, net network) database {
	var db database

	db.Name = b.Parameter("DatabaseName", Parameter{
		Type:           "String",
		Description:    "Database name",
		Default:        cfg.Name,
		MinLength:      IntPtr(1),
		MaxLength:      IntPtr(64),
		AllowedPattern: "[a-zA-Z][a-zA-Z0-9]*",
	})

	db.User = b.Parameter("DatabaseUser", Parameter{
		Type:           "String",
		Description:    "Database admin account name",
		Default:        cfg.User,
		MinLength:      IntPtr(1),
		MaxLength:      IntPtr(16),
		AllowedPattern: "[a-zA-Z][a-zA-Z0-9]*",
	})

	db.Password = b.Parameter("DatabasePassword", Parameter{
		Type:                  "String",
		Description:           "Database admin account password",
		NoEcho:                true,
		MinLength:             IntPtr(10),
		MaxLength:             IntPtr(41),
		AllowedPattern:        "[a-zA-Z0-9]*",
		ConstraintDescription: "must contain only alphanumeric characters",
	})

	// Only the container subnets reach the database.
	ingress := make([]any, 0, len(net.ContainerSubnetCIDRs))
	for _, cidr := range net.ContainerSubnetCIDRs {
		ingress = append(ingress, ec2.SecurityGroup_Ingress{
			IpProtocol: "tcp",
			FromPort:   postgresPort,
			ToPort:     postgresPort,
			CidrIp:     cidr,
		})
	}

	securityGroup := b.Resource("DatabaseSecurityGroup", ec2.SecurityGroup{
		GroupDescription:     "Database security group.",
		VpcId:                net.VPC,
		SecurityGroupIngress: ingress,
	})

	subnetGroup := b.Resource("DatabaseSubnetGroup", rds.DBSubnetGroup{
		DBSubnetGroupDescription: "Subnets available for the RDS DB Instance",
		SubnetIds:                Any(net.ContainerSubnets[0], net.ContainerSubnets[1]),
	})

	db.Instance = b.Resource("PostgreSQL", rds.DBInstance{
		DBName:             db.Name,
		Engine:             cfg.Engine,
		DBInstanceClass:    cfg.InstanceClass,
		AllocatedStorage:   cfg.AllocatedStorage,
		MasterUsername:     db.User,
		MasterUserPassword: db.Password,
		DBSubnetGroupName:  subnetGroup,
		VPCSecurityGroups:  Any(securityGroup),
		MultiAZ:            false,
	}, template.WithDeletionPolicy("Snapshot"))

	return db
}

// URL is the postgres:// connection URL of the instance.
func (db database) URL() Join {
	return Join{Delimiter: "", Values: []any{
		"postgres://",
		db.User,
		":",
		db.Password,
		"@",
		db.Instance.GetAtt("Endpoint.Address"),
		"/",
		db.Name,
	}}
}
