package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	ecsstack "github.com/lex00/ecs-stack-go"
	"github.com/lex00/ecs-stack-go/internal/differ"
	"github.com/lex00/ecs-stack-go/internal/stack"
)

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat string
		ignoreOrder  bool
		stackName    string
	)

	cmd := &cobra.Command{
		Use:   "diff <template1> <template2>",
		Short: "Compare two CloudFormation templates",
		Long: `Diff compares two templates (JSON or YAML) and reports added, removed and
modified resources, parameters and outputs.

With --stack, the single file given is compared against the stack as the
current configuration would build it.

Examples:
    ecs-stack diff old.yaml new.yaml
    ecs-stack diff --stack platform deployed.yaml
    ecs-stack diff old.json new.json --format json --ignore-order`,
		Args: func(cmd *cobra.Command, args []string) error {
			if stackName != "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			diffOpts := differ.Options{IgnoreOrder: ignoreOrder}

			var (
				result *differ.Result
				err    error
			)
			if stackName != "" {
				result, err = diffAgainstStack(opts, stackName, args[0], diffOpts)
			} else {
				result, err = differ.CompareFiles(args[0], args[1], diffOpts)
			}
			if err != nil {
				return err
			}

			return outputDiffResult(cmd.OutOrStdout(), result, outputFormat)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false, "Ignore array element order")
	cmd.Flags().StringVar(&stackName, "stack", "", "Compare the file against this stack as currently configured")

	return cmd
}

func diffAgainstStack(opts *rootOptions, name, file string, diffOpts differ.Options) (*differ.Result, error) {
	build, err := stack.Lookup(name)
	if err != nil {
		return nil, err
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	built, err := build(cfg).Build()
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", name, err)
	}

	old, err := differ.LoadTemplate(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file, err)
	}
	return differ.Compare(old, built, diffOpts)
}

type diffOutput struct {
	Diff    ecsstack.TemplateDiff `json:"diff"`
	Summary ecsstack.DiffSummary  `json:"summary"`
}

func outputDiffResult(w io.Writer, result *differ.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(diffOutput{Diff: result.Diff, Summary: result.Summary}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))

	case "text":
		if result.Empty() {
			fmt.Fprintln(w, "No differences.")
			return nil
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		for _, e := range result.Diff.Added {
			fmt.Fprintf(w, "%s %s (%s)\n", green("+"), e.Resource, e.Type)
		}
		for _, e := range result.Diff.Removed {
			fmt.Fprintf(w, "%s %s (%s)\n", red("-"), e.Resource, e.Type)
		}
		for _, e := range result.Diff.Modified {
			fmt.Fprintf(w, "%s %s (%s)\n", yellow("~"), e.Resource, e.Type)
			for _, c := range e.Changes {
				fmt.Fprintf(w, "    %s\n", c)
			}
		}

		s := result.Summary
		fmt.Fprintf(w, "\n%d added, %d removed, %d modified\n", s.Added, s.Removed, s.Modified)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
