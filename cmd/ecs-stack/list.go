package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	ecsstack "github.com/lex00/ecs-stack-go"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "list [stack]",
		Short: "List stack resources",
		Long: `List displays the resources of a stack in dependency order.

Examples:
    ecs-stack list
    ecs-stack list task --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, b, err := opts.declare(args)
			if err != nil {
				return err
			}

			registered, err := b.Registered()
			if err != nil {
				return fmt.Errorf("building %s: %w", name, err)
			}

			result := ecsstack.ListResult{
				Stack:     name,
				Resources: make([]ecsstack.ListResource, 0, len(registered)),
			}
			for _, r := range registered {
				result.Resources = append(result.Resources, ecsstack.ListResource{
					Name:         r.Name,
					Type:         r.Type,
					Condition:    r.Condition,
					Dependencies: r.Dependencies,
				})
			}

			return outputListResult(cmd.OutOrStdout(), result, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func outputListResult(w io.Writer, result ecsstack.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(w, "No resources found.")
			return nil
		}

		fmt.Fprintf(w, "Resources in %s (%d):\n\n", result.Stack, len(result.Resources))
		for _, res := range result.Resources {
			line := fmt.Sprintf("  %s: %s", res.Name, res.Type)
			if res.Condition != "" {
				line += fmt.Sprintf(" [if %s]", res.Condition)
			}
			if len(res.Dependencies) > 0 {
				line += " <- " + strings.Join(res.Dependencies, ", ")
			}
			fmt.Fprintln(w, line)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
