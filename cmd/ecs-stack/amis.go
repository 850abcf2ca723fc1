package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lex00/ecs-stack-go/internal/amis"
)

func newAMIsCmd(opts *rootOptions) *cobra.Command {
	var (
		regions      string
		outputFormat string
		awsOpts      awsFlags
	)

	cmd := &cobra.Command{
		Use:   "amis",
		Short: "Look up current ECS-optimized AMIs",
		Long: `AMIs reads the recommended ECS-optimized Amazon Linux 2 image for each region
from the public SSM parameter and prints it in a form ready to paste.

The config format can be saved and passed with --config; the mapping
format is the ECSRegionMap block as it appears in the template.

Examples:
    ecs-stack amis > amis.yaml
    ecs-stack amis --regions us-east-1,eu-west-1 --format mapping`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			list := amis.ParseRegions(regions)
			if len(list) == 0 {
				for region := range cfg.Cluster.AMIs {
					list = append(list, region)
				}
				sort.Strings(list)
			}

			clients, err := awsOpts.clients(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			opts.logger.Info().Strs("regions", list).Msg("looking up ECS-optimized AMIs")
			images, err := amis.Lookup(cmd.Context(), list, func(region string) amis.SSMAPI {
				return clients.SSM(region)
			})
			if err != nil {
				return err
			}

			var doc any
			switch outputFormat {
			case "config":
				doc = map[string]any{"cluster": map[string]any{"amis": images}}
			case "mapping":
				doc = map[string]any{"ECSRegionMap": amis.Mapping(images)}
			default:
				return fmt.Errorf("unknown format: %s (use 'config' or 'mapping')", outputFormat)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&regions, "regions", "", "Comma-separated regions (default: the regions in cluster.amis)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "config", "Output format: config or mapping")
	awsOpts.register(cmd.Flags())

	return cmd
}
