// Package config holds the values the stacks are declared from.
//
// Defaults describe the reference platform. A YAML, TOML or JSON file can
// override any subset of them:
//
//	cluster:
//	  instance_type: t2.small
//	  max_scale: 6
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Config is the full stack configuration.
type Config struct {
	Network     Network     `json:"network" yaml:"network"`
	Cluster     Cluster     `json:"cluster" yaml:"cluster"`
	Application Application `json:"application" yaml:"application"`
	Database    Database    `json:"database" yaml:"database"`
	Task        Task        `json:"task" yaml:"task"`
	Deploy      Deploy      `json:"deploy" yaml:"deploy"`
}

// Network describes the VPC and its two pairs of subnets.
type Network struct {
	VPCCIDR                 string   `json:"vpc_cidr" yaml:"vpc_cidr"`
	LoadBalancerSubnetCIDRs []string `json:"load_balancer_subnet_cidrs" yaml:"load_balancer_subnet_cidrs"`
	ContainerSubnetCIDRs    []string `json:"container_subnet_cidrs" yaml:"container_subnet_cidrs"`
}

// Cluster describes the container instances and the load balancer in front of them.
type Cluster struct {
	InstanceType           string            `json:"instance_type" yaml:"instance_type"`
	AllowedInstanceTypes   []string          `json:"allowed_instance_types" yaml:"allowed_instance_types"`
	WebWorkerPort          int               `json:"web_worker_port" yaml:"web_worker_port"`
	MaxScale               int               `json:"max_scale" yaml:"max_scale"`
	DesiredScale           int               `json:"desired_scale" yaml:"desired_scale"`
	AMIs                   map[string]string `json:"amis" yaml:"amis"`
	HealthCheckPath        string            `json:"health_check_path" yaml:"health_check_path"`
	HealthCheckInterval    int               `json:"health_check_interval" yaml:"health_check_interval"`
	HealthCheckTimeout     int               `json:"health_check_timeout" yaml:"health_check_timeout"`
	HealthyThreshold       int               `json:"healthy_threshold" yaml:"healthy_threshold"`
	UnhealthyThreshold     int               `json:"unhealthy_threshold" yaml:"unhealthy_threshold"`
	SuccessCodes           string            `json:"success_codes" yaml:"success_codes"`
	Stickiness             bool              `json:"stickiness" yaml:"stickiness"`
	HealthCheckGracePeriod int               `json:"health_check_grace_period" yaml:"health_check_grace_period"`
}

// Application describes the web application service.
type Application struct {
	DomainName            string `json:"domain_name" yaml:"domain_name"`
	CPU                   int    `json:"cpu" yaml:"cpu"`
	Memory                int    `json:"memory" yaml:"memory"`
	DesiredCount          int    `json:"desired_count" yaml:"desired_count"`
	LogRetentionDays      int    `json:"log_retention_days" yaml:"log_retention_days"`
	MaximumPercent        int    `json:"maximum_percent" yaml:"maximum_percent"`
	MinimumHealthyPercent int    `json:"minimum_healthy_percent" yaml:"minimum_healthy_percent"`
}

// Database describes the PostgreSQL instance backing the application.
type Database struct {
	Engine           string `json:"engine" yaml:"engine"`
	InstanceClass    string `json:"instance_class" yaml:"instance_class"`
	AllocatedStorage int    `json:"allocated_storage" yaml:"allocated_storage"`
	Name             string `json:"name" yaml:"name"`
	User             string `json:"user" yaml:"user"`
}

// Task describes the standalone task definition example.
type Task struct {
	CPU           int    `json:"cpu" yaml:"cpu"`
	Memory        int    `json:"memory" yaml:"memory"`
	ContainerPort int    `json:"container_port" yaml:"container_port"`
	HostPort      int    `json:"host_port" yaml:"host_port"`
	Repository    string `json:"repository" yaml:"repository"`
	Revision      string `json:"revision" yaml:"revision"`
	BucketName    string `json:"bucket_name" yaml:"bucket_name"`
	CDNDomainName string `json:"cdn_domain_name" yaml:"cdn_domain_name"`
}

// Deploy holds defaults for the deploy command.
type Deploy struct {
	StackName      string            `json:"stack_name" yaml:"stack_name"`
	Region         string            `json:"region" yaml:"region"`
	Profile        string            `json:"profile" yaml:"profile"`
	Endpoint       string            `json:"endpoint" yaml:"endpoint"`
	Capabilities   []string          `json:"capabilities" yaml:"capabilities"`
	Tags           map[string]string `json:"tags" yaml:"tags"`
	TimeoutMinutes int               `json:"timeout_minutes" yaml:"timeout_minutes"`
}

// DefaultAMIs are the ECS-optimized AMIs per region.
var DefaultAMIs = map[string]string{
	"us-east-1":      "ami-eca289fb",
	"us-east-2":      "ami-446f3521",
	"us-west-1":      "ami-9fadf8ff",
	"us-west-2":      "ami-7abc111a",
	"eu-west-1":      "ami-a1491ad2",
	"eu-central-1":   "ami-54f5303b",
	"ap-northeast-1": "ami-9cd57ffd",
	"ap-southeast-1": "ami-a900a3ca",
	"ap-southeast-2": "ami-5781be34",
}

// Default returns the configuration of the reference platform.
func Default() Config {
	amis := make(map[string]string, len(DefaultAMIs))
	for region, ami := range DefaultAMIs {
		amis[region] = ami
	}

	return Config{
		Network: Network{
			VPCCIDR:                 "10.0.0.0/16",
			LoadBalancerSubnetCIDRs: []string{"10.0.2.0/24", "10.0.3.0/24"},
			ContainerSubnetCIDRs:    []string{"10.0.10.0/24", "10.0.11.0/24"},
		},
		Cluster: Cluster{
			InstanceType:           "t2.micro",
			AllowedInstanceTypes:   []string{"t2.micro", "t2.small", "t2.medium"},
			WebWorkerPort:          8000,
			MaxScale:               3,
			DesiredScale:           3,
			AMIs:                   amis,
			HealthCheckPath:        "/health-check",
			HealthCheckInterval:    15,
			HealthCheckTimeout:     5,
			HealthyThreshold:       2,
			UnhealthyThreshold:     8,
			SuccessCodes:           "200-299",
			Stickiness:             true,
			HealthCheckGracePeriod: 300,
		},
		Application: Application{
			CPU:                   256,
			Memory:                500,
			DesiredCount:          3,
			LogRetentionDays:      365,
			MaximumPercent:        135,
			MinimumHealthyPercent: 30,
		},
		Database: Database{
			Engine:           "postgres",
			InstanceClass:    "db.t2.micro",
			AllocatedStorage: 10,
			Name:             "app",
			User:             "app",
		},
		Task: Task{
			CPU:           8,
			Memory:        2048,
			ContainerPort: 10,
			HostPort:      8000,
			Repository:    "nick",
			Revision:      "latest",
			BucketName:    "blah",
			CDNDomainName: "DomainName",
		},
		Deploy: Deploy{
			StackName:      "ecs-platform",
			Capabilities:   []string{"CAPABILITY_IAM"},
			TimeoutMinutes: 30,
		},
	}
}

// Load reads a configuration file over the defaults. The format follows
// the file extension. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("accessing config file: %w", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}

	if err := Merge(&cfg, filepath.Ext(path), data); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Merge decodes data in the format named by ext (".yaml", ".yml", ".toml"
// or ".json") and applies the keys it sets to cfg. Keys absent from data
// keep their current values; AMI entries override per region.
func Merge(cfg *Config, ext string, data []byte) error {
	var raw map[string]any

	switch strings.ToLower(ext) {
	case ".toml":
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return fmt.Errorf("parsing TOML: %w", err)
		}
		raw = tree.ToMap()
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parsing JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %q", ext)
	}

	if len(raw) == 0 {
		return nil
	}

	// Re-encode through JSON so every format shares one set of field names
	// and absent keys leave the defaults in place.
	normalized, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("normalizing config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// Validate reports every invalid value in the configuration.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	_, vpc, err := net.ParseCIDR(c.Network.VPCCIDR)
	if err != nil {
		add("network.vpc_cidr: %v", err)
	}
	checkSubnets := func(field string, cidrs []string) {
		if len(cidrs) != 2 {
			add("network.%s: need exactly 2 subnets, got %d", field, len(cidrs))
		}
		for _, cidr := range cidrs {
			ip, _, err := net.ParseCIDR(cidr)
			if err != nil {
				add("network.%s: %v", field, err)
				continue
			}
			if vpc != nil && !vpc.Contains(ip) {
				add("network.%s: %s is outside %s", field, cidr, c.Network.VPCCIDR)
			}
		}
	}
	checkSubnets("load_balancer_subnet_cidrs", c.Network.LoadBalancerSubnetCIDRs)
	checkSubnets("container_subnet_cidrs", c.Network.ContainerSubnetCIDRs)

	cl := c.Cluster
	if !slices.Contains(cl.AllowedInstanceTypes, cl.InstanceType) {
		add("cluster.instance_type: %q is not in allowed_instance_types %v", cl.InstanceType, cl.AllowedInstanceTypes)
	}
	if !validPort(cl.WebWorkerPort) {
		add("cluster.web_worker_port: %d is not a valid port", cl.WebWorkerPort)
	}
	if cl.MaxScale < 1 {
		add("cluster.max_scale: must be at least 1")
	}
	if cl.DesiredScale < 1 || cl.DesiredScale > cl.MaxScale {
		add("cluster.desired_scale: must be between 1 and max_scale (%d)", cl.MaxScale)
	}
	if len(cl.AMIs) == 0 {
		add("cluster.amis: at least one region is required")
	}
	for region, ami := range cl.AMIs {
		if !strings.HasPrefix(ami, "ami-") {
			add("cluster.amis.%s: %q is not an AMI ID", region, ami)
		}
	}
	if !strings.HasPrefix(cl.HealthCheckPath, "/") {
		add("cluster.health_check_path: must start with /")
	}
	if cl.HealthCheckTimeout >= cl.HealthCheckInterval {
		add("cluster.health_check_timeout: must be less than health_check_interval")
	}

	app := c.Application
	if app.CPU < 1 || app.Memory < 1 {
		add("application: cpu and memory must be positive")
	}
	if app.DesiredCount < 1 {
		add("application.desired_count: must be at least 1")
	}
	if app.MinimumHealthyPercent < 0 || app.MinimumHealthyPercent > 100 {
		add("application.minimum_healthy_percent: must be between 0 and 100")
	}
	if app.MaximumPercent < 100 {
		add("application.maximum_percent: must be at least 100")
	}

	if c.Database.Name == "" || c.Database.User == "" {
		add("database: name and user are required")
	}

	if !validPort(c.Task.ContainerPort) {
		add("task.container_port: %d is not a valid port", c.Task.ContainerPort)
	}
	if c.Task.HostPort != 0 && !validPort(c.Task.HostPort) {
		add("task.host_port: %d is not a valid port", c.Task.HostPort)
	}
	if c.Task.Repository == "" {
		add("task.repository: required")
	}

	return errors.Join(errs...)
}

func validPort(p int) bool {
	return p >= 1 && p <= 65535
}
