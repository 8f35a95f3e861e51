package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/uago3c/uago/internal/replay"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <fixture.json> [fixture.json...]",
		Short: "Replay recorded invariant fixtures through the cycle engine",
		Long: `Replay drives the orchestrator with recorded invariant vectors instead
of real measurement and rendering, then checks the terminal verdict and
attempt count against the fixture's expectations. Exits nonzero when any
fixture fails.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return replayFixtures(cmd, rootOpts, args)
		},
	}
	return cmd
}

func replayFixtures(cmd *cobra.Command, opts *RootOptions, paths []string) error {
	if !opts.Verbose {
		log.SetOutput(io.Discard)
	}

	w := cmd.OutOrStdout()
	failed := 0
	for _, path := range paths {
		f, err := replay.LoadFixture(path)
		if err != nil {
			return err
		}
		out, err := replay.Play(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if out.Pass {
			fmt.Fprintf(w, "PASS %s (%s, %d attempt(s))\n", path, out.Run.Verdict, len(out.Run.Attempts))
		} else {
			failed++
			fmt.Fprintf(w, "FAIL %s: %s\n", path, out.Mismatch)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d fixture(s) failed", failed)
	}
	return nil
}
