package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/uago3c/uago/internal/report"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "show [run-id]",
		Short:         "Print the JSON report of a run (latest when omitted)",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(cmd, rootOpts, args)
		},
	}
	return cmd
}

func showRun(cmd *cobra.Command, opts *RootOptions, args []string) error {
	if !opts.Verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	store, err := report.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer store.Close()

	var rep report.Report
	if len(args) == 1 {
		rep, err = store.Get(args[0])
	} else {
		rep, err = store.Latest()
	}
	if err != nil {
		return err
	}

	data, err := report.Marshal(rep)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
