package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/deploy"
	"github.com/lex00/ecs-stack-go/internal/template"
	"github.com/lex00/ecs-stack-go/internal/validation"
)

var errValidationFailed = errors.New("validation failed")

// newValidateCmd creates the "validate" subcommand for checking a stack.
func newValidateCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat string
		remote       bool
		strict       bool
		awsOpts      awsFlags
	)

	cmd := &cobra.Command{
		Use:   "validate [stack]",
		Short: "Validate references and lint the template",
		Long: `Validate declares a stack and checks it.

Checks performed:
  - Reference validity: every Ref, GetAtt, condition and mapping is defined
  - Dependency graph: no cycles, DependsOn targets exist
  - Schema: required properties, value types and allowed values
  - cfn-lint: CloudFormation schema and best-practice rules
  - With --remote: CloudFormation ValidateTemplate

Examples:
    ecs-stack validate
    ecs-stack validate task --format json
    ecs-stack validate --remote --region us-east-1`,
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

			result, err := validation.ValidateStack(b, validation.Options{Strict: strict})
			if err != nil {
				return err
			}
			validateResult := toValidateResult(result)

			if remote && validateResult.Success {
				if err := validateRemote(cmd, opts, cfg, b, &awsOpts, &validateResult); err != nil {
					return err
				}
			}

			opts.logger.Debug().Str("stack", name).Bool("success", validateResult.Success).Msg("validated")
			return outputValidateResult(cmd.OutOrStdout(), validateResult, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&remote, "remote", false, "Also validate with the CloudFormation API")
	cmd.Flags().BoolVar(&strict, "strict", false, "Warn about properties missing from the offline schema")
	awsOpts.register(cmd.Flags())

	return cmd
}

func toValidateResult(result *validation.Result) ecsstack.ValidateResult {
	v := ecsstack.ValidateResult{
		Success:   result.Passed(),
		Resources: result.Resources,
	}
	v.Errors = append(v.Errors, result.BuildErrors...)
	v.Errors = append(v.Errors, result.SchemaErrors...)
	v.Warnings = append(v.Warnings, result.SchemaWarnings...)
	if lint := result.CfnLintResult; lint != nil {
		v.Errors = append(v.Errors, lint.Errors...)
		v.Warnings = append(v.Warnings, lint.Warnings...)
	}
	return v
}

func validateRemote(cmd *cobra.Command, opts *rootOptions, cfg config.Config, b *template.Builder, awsOpts *awsFlags, v *ecsstack.ValidateResult) error {
	tmpl, err := b.Build()
	if err != nil {
		return err
	}
	body, err := template.ToYAML(tmpl)
	if err != nil {
		return err
	}

	clients, err := awsOpts.clients(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	d := &deploy.Deployer{CFN: clients.CloudFormation, Logger: opts.logger}

	remote, err := d.ValidateRemote(cmd.Context(), string(body))
	if err != nil {
		v.Success = false
		v.Errors = append(v.Errors, err.Error())
		return nil
	}
	if len(remote.Capabilities) > 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("requires %v: %s", remote.Capabilities, remote.CapabilitiesReason))
	}
	return nil
}

func outputValidateResult(w io.Writer, result ecsstack.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen, color.Bold).SprintFunc()

		if result.Success {
			fmt.Fprintf(w, "%s: %d resources OK\n", green("Validation passed"), result.Resources)
		} else {
			fmt.Fprintf(w, "%s:\n", red("Validation FAILED"))
		}
		for _, errMsg := range result.Errors {
			fmt.Fprintf(w, "  %s: %s\n", red("ERROR"), errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Fprintf(w, "  %s: %s\n", yellow("WARNING"), warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		return errValidationFailed
	}
	return nil
}
