package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lex00/ecs-stack-go/internal/deploy"
	"github.com/lex00/ecs-stack-go/internal/template"
)

func newDeployCmd(opts *rootOptions) *cobra.Command {
	var (
		cfnStackName string
		params       []string
		capabilities []string
		wait         bool
		timeout      time.Duration
		awsOpts      awsFlags
	)

	cmd := &cobra.Command{
		Use:   "deploy [stack]",
		Short: "Create or update the CloudFormation stack",
		Long: `Deploy builds the stack and creates or updates it in CloudFormation.

The application service is only created once WebAppRevision is set, so a
first deploy brings up the platform and a later one ships the application.

Examples:
    ecs-stack deploy --param DatabasePassword=... --wait
    ecs-stack deploy --param WebAppRevision=v42 --stack-name prod-platform
    ecs-stack deploy task --region eu-west-1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			name, b, err := declareWith(cfg, args)
			if err != nil {
				return err
			}

			tmpl, err := b.Build()
			if err != nil {
				return fmt.Errorf("building %s: %w", name, err)
			}
			body, err := template.ToYAML(tmpl)
			if err != nil {
				return err
			}

			parameters, err := deploy.ParseParameters(params)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("capabilities") {
				capabilities = cfg.Deploy.Capabilities
			}
			caps, err := deploy.ParseCapabilities(capabilities)
			if err != nil {
				return err
			}
			if cfnStackName == "" {
				cfnStackName = cfg.Deploy.StackName
			}
			if !cmd.Flags().Changed("timeout") && cfg.Deploy.TimeoutMinutes > 0 {
				timeout = time.Duration(cfg.Deploy.TimeoutMinutes) * time.Minute
			}

			clients, err := awsOpts.clients(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			d := &deploy.Deployer{
				CFN:    clients.CloudFormation,
				STS:    clients.STS,
				Logger: opts.logger.With().Str("region", clients.Region()).Logger(),
			}
			result, err := d.Deploy(cmd.Context(), deploy.Request{
				StackName:    cfnStackName,
				TemplateBody: string(body),
				Parameters:   parameters,
				Capabilities: caps,
				Tags:         cfg.Deploy.Tags,
				Wait:         wait,
				Timeout:      timeout,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch result.Operation {
			case deploy.OperationNone:
				fmt.Fprintf(out, "%s is up to date\n", cfnStackName)
			default:
				fmt.Fprintf(out, "%s %s: %s\n", result.Operation, cfnStackName, result.StackID)
			}
			if result.Status != "" {
				fmt.Fprintf(out, "status: %s\n", result.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfnStackName, "stack-name", "", "CloudFormation stack name (default: deploy.stack_name)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Stack parameter as KEY=VALUE (repeatable)")
	cmd.Flags().StringSliceVar(&capabilities, "capabilities", nil, "Capabilities to acknowledge (default: deploy.capabilities)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the create or update to complete")
	cmd.Flags().DurationVar(&timeout, "timeout", deploy.DefaultTimeout, "Maximum time to wait")
	awsOpts.register(cmd.Flags())

	return cmd
}
