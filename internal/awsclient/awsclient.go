// Package awsclient loads AWS SDK configuration and builds the service
// clients used by the deploy and amis commands.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// Options selects the account, region and endpoint to talk to.
type Options struct {
	Region  string
	Profile string
	// Endpoint points every client at a local simulator. Static test
	// credentials are used when it is set.
	Endpoint string
}

// Load resolves the SDK configuration from the default chain.
func Load(ctx context.Context, opts Options) (aws.Config, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.Endpoint != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("test", "test", ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		if opts.Profile != "" {
			return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", opts.Profile, err)
		}
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// Clients holds the SDK clients for one region.
type Clients struct {
	CloudFormation *cloudformation.Client
	STS            *sts.Client

	cfg      aws.Config
	endpoint string
}

// New loads configuration and creates the clients.
func New(ctx context.Context, opts Options) (*Clients, error) {
	cfg, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, opts.Endpoint), nil
}

// FromConfig creates the clients from an existing configuration.
func FromConfig(cfg aws.Config, endpoint string) *Clients {
	c := &Clients{cfg: cfg, endpoint: endpoint}
	if endpoint == "" {
		c.CloudFormation = cloudformation.NewFromConfig(cfg)
		c.STS = sts.NewFromConfig(cfg)
		return c
	}
	c.CloudFormation = cloudformation.NewFromConfig(cfg, func(o *cloudformation.Options) { o.BaseEndpoint = aws.String(endpoint) })
	c.STS = sts.NewFromConfig(cfg, func(o *sts.Options) { o.BaseEndpoint = aws.String(endpoint) })
	return c
}

// Region returns the resolved region.
func (c *Clients) Region() string {
	return c.cfg.Region
}

// SSM returns a Systems Manager client for region. An empty region uses
// the configured one.
func (c *Clients) SSM(region string) *ssm.Client {
	return ssm.NewFromConfig(c.cfg, func(o *ssm.Options) {
		if region != "" {
			o.Region = region
		}
		if c.endpoint != "" {
			o.BaseEndpoint = aws.String(c.endpoint)
		}
	})
}
