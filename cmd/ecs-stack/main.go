// Command ecs-stack generates CloudFormation templates for an ECS
// application platform and deploys them.
//
// Usage:
//
//	ecs-stack build [stack]           Generate CloudFormation template
//	ecs-stack validate [stack]        Check references and run cfn-lint
//	ecs-stack deploy [stack]          Create or update the stack
//	ecs-stack version                 Show version
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lex00/ecs-stack-go/internal/config"
	"github.com/lex00/ecs-stack-go/internal/stack"
	"github.com/lex00/ecs-stack-go/internal/template"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string

	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "ecs-stack",
		Short: "Generate and deploy ECS CloudFormation stacks",
		Long: `ecs-stack generates CloudFormation templates for an ECS application platform:
a VPC, an autoscaled cluster of container instances behind an HTTPS load
balancer, a PostgreSQL database, and the web application service.

Stacks:
    platform    the full platform (default)
    task        a standalone task definition

Settings come from built-in defaults, overridden by --config (YAML, TOML or JSON):

    ecs-stack build --config prod.yaml > platform.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newLogger(opts.logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Configuration file (YAML, TOML or JSON)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newBuildCmd(opts),
		newListCmd(opts),
		newValidateCmd(opts),
		newGraphCmd(opts),
		newOptimizeCmd(opts),
		newDiffCmd(opts),
		newWatchCmd(opts),
		newDeployCmd(opts),
		newAMIsCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

// newLogger writes human-readable logs to stderr so stdout carries only
// command output.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(lvl)
}

// loadConfig reads and validates the configuration.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	if o.configPath != "" {
		o.logger.Debug().Str("path", o.configPath).Msg("loaded configuration")
	}
	return cfg, nil
}

// stackName returns the stack named in args, or the default.
func stackName(args []string) string {
	if len(args) == 0 {
		return stack.Default
	}
	return args[0]
}

// declare loads configuration and declares the named stack.
func (o *rootOptions) declare(args []string) (string, *template.Builder, error) {
	name := stackName(args)
	if _, err := stack.Lookup(name); err != nil {
		return name, nil, err
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return name, nil, err
	}
	return declareWith(cfg, args)
}

// declareWith declares the named stack from cfg.
func declareWith(cfg config.Config, args []string) (string, *template.Builder, error) {
	name := stackName(args)
	build, err := stack.Lookup(name)
	if err != nil {
		return name, nil, err
	}
	return name, build(cfg), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ecs-stack %s\n", getVersion())
		},
	}
}
