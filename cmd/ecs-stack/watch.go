package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for rebuilding on config changes.
func newWatchCmd(opts *rootOptions) *cobra.Command {
	var (
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch [stack]",
		Short: "Rebuild when the configuration file changes",
		Long: `Watch monitors the --config file and rebuilds the stack whenever it changes.

The watch command:
- Validates the configuration and the stack on each change
- Writes the template to --output when the build succeeds
- Debounces rapid changes to avoid excessive rebuilds

Examples:
    ecs-stack watch --config prod.yaml -o platform.yaml
    ecs-stack watch task --config task.toml --debounce 1s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.configPath == "" {
				return errors.New("watch requires --config")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rebuild := func() {
				if err := rebuildStack(opts, args, outputFormat, outputFile); err != nil {
					opts.logger.Error().Err(err).Msg("build failed")
				}
			}
			return watchFile(ctx, opts.configPath, debounce, opts.logger, rebuild)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "Output format for build: yaml or json")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for build (default: log a summary only)")

	return cmd
}

func rebuildStack(opts *rootOptions, args []string, format, outputFile string) error {
	name, b, err := opts.declare(args)
	if err != nil {
		return err
	}
	tmpl, err := b.Build()
	if err != nil {
		return err
	}
	data, err := render(tmpl, format)
	if err != nil {
		return err
	}

	log := opts.logger.Info().Str("stack", name).Int("resources", len(tmpl.Resources))
	if outputFile == "" {
		log.Msg("build successful")
		return nil
	}
	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	log.Msgf("build successful, wrote %s", outputFile)
	return nil
}

// watchFile calls onChange once at start and again after path changes,
// until ctx is done. The parent directory is watched so editors that
// replace the file on save are still seen.
func watchFile(ctx context.Context, path string, debounce time.Duration, logger zerolog.Logger, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info().Str("path", abs).Msg("watching for changes (Ctrl+C to stop)")

	onChange()

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			logger.Info().Msg("change detected, rebuilding")
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")

		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info().Msg("stopping watch")
			return nil
		}
	}
}
