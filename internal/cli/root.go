// Package cli wires the formula inference engine into a cobra command
// tree. Every command loads its configuration the same way: YAML file
// (when present) layered under UAGO_* environment overrides.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/uago3c/uago/internal/config"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// LoadConfig resolves the effective configuration for a command.
func (o *RootOptions) LoadConfig() (config.Config, error) {
	return config.Load(o.ConfigPath)
}

// NewRootCommand creates the root command for the uago CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "uago",
		Short: "uago - generative formula inference for raster images",
		Long: `uago analyzes a raster image, measures its structural invariants, and
searches a catalog of fractal formula families for a minimal generative
formula whose rendering reproduces those invariants.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "uago.yaml", "path to YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose log output")

	cmd.AddCommand(NewAnalyzeCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))

	return cmd
}
