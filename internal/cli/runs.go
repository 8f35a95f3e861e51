package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/uago3c/uago/internal/report"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Limit int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "runs",
		Short:         "List recent analysis runs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRuns(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list, newest first")

	return cmd
}

func listRuns(cmd *cobra.Command, opts *RunsOptions) error {
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

	reports, err := store.List(opts.Limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(reports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
		return nil
	}

	w := cmd.OutOrStdout()
	for _, rep := range reports {
		family := "-"
		if rep.Selected != nil {
			for _, a := range rep.Attempts {
				if a.Num == *rep.Selected {
					family = a.FamilyID
				}
			}
		}
		fmt.Fprintf(w, "%s  %-9s  %-20s  attempts=%d  %s\n",
			rep.FinishedAt.Format("2006-01-02 15:04:05"), rep.Verdict, family,
			len(rep.Attempts), rep.RunID)
	}
	return nil
}
