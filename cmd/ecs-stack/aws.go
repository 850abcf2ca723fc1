package main

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/lex00/ecs-stack-go/internal/awsclient"
	"github.com/lex00/ecs-stack-go/internal/config"
)

// awsFlags select the AWS account and region. Unset flags fall back to
// the deploy section of the configuration.
type awsFlags struct {
	region   string
	profile  string
	endpoint string
}

func (f *awsFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.region, "region", "", "AWS region (default: deploy.region or the SDK default)")
	flags.StringVar(&f.profile, "profile", "", "AWS shared config profile")
	flags.StringVar(&f.endpoint, "endpoint", "", "Override the AWS endpoint, e.g. a local simulator")
}

func (f *awsFlags) options(cfg config.Config) awsclient.Options {
	o := awsclient.Options{
		Region:   cfg.Deploy.Region,
		Profile:  cfg.Deploy.Profile,
		Endpoint: cfg.Deploy.Endpoint,
	}
	if f.region != "" {
		o.Region = f.region
	}
	if f.profile != "" {
		o.Profile = f.profile
	}
	if f.endpoint != "" {
		o.Endpoint = f.endpoint
	}
	return o
}

func (f *awsFlags) clients(ctx context.Context, cfg config.Config) (*awsclient.Clients, error) {
	return awsclient.New(ctx, f.options(cfg))
}
