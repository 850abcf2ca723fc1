package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/lex00/ecs-stack-go/internal/optimizer"
)

func newOptimizeCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat string
		category     string
	)

	cmd := &cobra.Command{
		Use:   "optimize [stack]",
		Short: "Suggest security, cost and reliability improvements",
		Long: `Optimize inspects the built template and suggests improvements.

Categories:
    security, cost, performance, reliability (default: all)

Examples:
    ecs-stack optimize
    ecs-stack optimize --category security
    ecs-stack optimize task --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, b, err := opts.declare(args)
			if err != nil {
				return err
			}
			tmpl, err := b.Build()
			if err != nil {
				return fmt.Errorf("building %s: %w", name, err)
			}

			result, err := optimizer.Optimize(tmpl, optimizer.Options{Category: category})
			if err != nil {
				return err
			}
			return outputOptimizeResult(cmd.OutOrStdout(), result, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVarP(&category, "category", "c", optimizer.CategoryAll, "Filter by category")

	return cmd
}

func outputOptimizeResult(w io.Writer, result *optimizer.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if len(result.Suggestions) == 0 {
			fmt.Fprintln(w, "No suggestions.")
			return nil
		}

		severity := map[string]func(a ...any) string{
			"high":   color.New(color.FgRed, color.Bold).SprintFunc(),
			"medium": color.New(color.FgYellow).SprintFunc(),
			"low":    color.New(color.FgCyan).SprintFunc(),
		}
		for _, s := range result.Suggestions {
			paint := severity[s.Severity]
			if paint == nil {
				paint = fmt.Sprint
			}
			fmt.Fprintf(w, "[%s] %s %s: %s\n", paint(s.Severity), s.Rule, s.Resource, s.Title)
			fmt.Fprintf(w, "    %s\n    -> %s\n", s.Description, s.Suggestion)
		}

		sum := result.Summary
		fmt.Fprintf(w, "\n%d suggestions (security %d, cost %d, performance %d, reliability %d)\n",
			sum.Total, sum.Security, sum.Cost, sum.Performance, sum.Reliability)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
