package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/template"
	"github.com/lex00/ecs-stack-go/internal/validation"
)

var errBuildFailed = errors.New("build failed")

func newBuildCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "build [stack]",
		Short: "Generate CloudFormation template",
		Long: `Build declares a stack from the configuration and prints its CloudFormation template.

Examples:
    ecs-stack build
    ecs-stack build task --format json
    ecs-stack build --format report
    ecs-stack build platform --config prod.yaml -o platform.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, b, err := opts.declare(args)
			if err != nil {
				return err
			}

			tmpl, buildErr := b.Build()

			var data []byte
			if outputFormat == "report" {
				data, err = json.MarshalIndent(buildReport(tmpl, buildErr), "", "  ")
			} else {
				if buildErr != nil {
					return fmt.Errorf("building %s: %w", name, buildErr)
				}
				data, err = render(tmpl, outputFormat)
			}
			if err != nil {
				return err
			}

			if outputFile == "" {
				err = writeTemplate(cmd.OutOrStdout(), data)
			} else if err = os.WriteFile(outputFile, data, 0644); err == nil {
				opts.logger.Info().Str("stack", name).Msgf("wrote %s", outputFile)
			}
			if err != nil {
				return err
			}
			if buildErr != nil {
				return errBuildFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "Output format: yaml, json or report")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// buildReport summarizes a build: the template and its resources on
// success, one message per problem on failure.
func buildReport(tmpl *ecsstack.Template, err error) ecsstack.BuildResult {
	if err != nil {
		return ecsstack.BuildResult{Errors: validation.SplitErrors(err)}
	}

	resources := make([]string, 0, len(tmpl.Resources))
	for name := range tmpl.Resources {
		resources = append(resources, name)
	}
	sort.Strings(resources)

	return ecsstack.BuildResult{
		Success:   true,
		Template:  *tmpl,
		Resources: resources,
	}
}

// render serializes a template in the named format.
func render(tmpl *ecsstack.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(tmpl)
	case "yaml":
		return template.ToYAML(tmpl)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func writeTemplate(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
