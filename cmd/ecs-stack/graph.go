package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lex00/ecs-stack-go/internal/graph"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var (
		outputFormat      string
		includeParameters bool
		clusterByType     bool
	)

	cmd := &cobra.Command{
		Use:   "graph [stack]",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.

The output can be rendered with Graphviz:
    ecs-stack graph | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    ecs-stack graph -f mermaid

Examples:
    ecs-stack graph
    ecs-stack graph -p              # include parameters
    ecs-stack graph -c              # cluster by service
    ecs-stack graph task -f mermaid`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var graphFormat graph.Format
			switch outputFormat {
			case "dot":
				graphFormat = graph.FormatDOT
			case "mermaid":
				graphFormat = graph.FormatMermaid
			default:
				return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", outputFormat)
			}

			name, b, err := opts.declare(args)
			if err != nil {
				return err
			}

			tmpl, err := b.Build()
			if err != nil {
				return fmt.Errorf("building %s: %w", name, err)
			}
			resources, err := b.Registered()
			if err != nil {
				return err
			}

			parameters := make([]string, 0, len(tmpl.Parameters))
			for p := range tmpl.Parameters {
				parameters = append(parameters, p)
			}
			sort.Strings(parameters)

			gen := &graph.Generator{
				Format:            graphFormat,
				IncludeParameters: includeParameters,
				ClusterByType:     clusterByType,
			}
			return gen.Generate(resources, parameters, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&includeParameters, "params", "p", false, "Include parameter nodes in the graph")
	cmd.Flags().BoolVarP(&clusterByType, "cluster", "c", false, "Cluster resources by AWS service type")

	return cmd
}
