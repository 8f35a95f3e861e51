package cli

// #region imports
import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/config"
	"github.com/uago3c/uago/internal/engine"
	"github.com/uago3c/uago/internal/invariant"
	"github.com/uago3c/uago/internal/raster"
	"github.com/uago3c/uago/internal/refine"
	"github.com/uago3c/uago/internal/render"
	"github.com/uago3c/uago/internal/report"
	"github.com/uago3c/uago/internal/validate"
)

// #endregion

// #region command

// AnalyzeOptions holds flags for the analyze command.
type AnalyzeOptions struct {
	*RootOptions
	Workers int
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnalyzeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "analyze <image> [image...]",
		Short: "Infer a generative formula for one or more images",
		Long: `Analyze decodes each image, measures its structural invariants, and
runs the discovery cycle until a formula is accepted or the attempt
budget is exhausted. Reports are persisted to the run database and the
selected rendering is written to the artifact directory.

Example:
  uago analyze fern.png
  uago analyze --workers 4 shapes/*.png`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts, args)
		},
	}

	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "parallel runs for multi-image batches")

	return cmd
}

// #endregion

// #region run

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions, paths []string) error {
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

	orch, err := buildOrchestrator(cfg, store)
	if err != nil {
		return err
	}

	inputs := make([]engine.BatchInput, 0, len(paths))
	for _, path := range paths {
		bm, err := decodeFile(path)
		if err != nil {
			return err
		}
		inputs = append(inputs, engine.BatchInput{Name: path, Bitmap: bm})
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	results := orch.Batch(ctx, inputs, opts.Workers)

	var firstErr error
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Name, res.Err)
			if firstErr == nil {
				firstErr = res.Err
			}
			continue
		}
		if err := store.Save(res.Run, res.Name); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		artifact := ""
		if cfg.ArtifactDir != "" {
			artifact, err = report.WriteArtifact(res.Run, cfg.ArtifactDir)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: write artifact: %v\n", res.Name, err)
			}
		}
		printRunSummary(cmd.OutOrStdout(), res, artifact)
	}
	return firstErr
}

func printRunSummary(w io.Writer, res engine.BatchResult, artifact string) {
	run := res.Run
	fmt.Fprintf(w, "%s: %s run=%s cycles=%d attempts=%d\n",
		res.Name, run.Verdict, run.ID, run.Cycles, len(run.Attempts))
	if sel := run.SelectedAttempt(); sel != nil {
		fmt.Fprintf(w, "  formula: %s %v depth=%d distance=%.4f\n",
			sel.Candidate.FamilyID, sel.Candidate.Params, sel.Depth, sel.Distance)
	}
	if artifact != "" {
		fmt.Fprintf(w, "  artifact: %s\n", artifact)
	}
}

// #endregion

// #region wiring

// buildOrchestrator assembles the cycle engine from configuration. The
// store's database doubles as the family outcome memory.
func buildOrchestrator(cfg config.Config, store *report.Store) (*engine.Orchestrator, error) {
	measurer := invariant.NewMeasurer(invariant.DefaultMeasurerConfig())
	cat := catalog.New()

	rendererConfig := render.DefaultRendererConfig()
	rendererConfig.Resolution = cfg.Resolution
	rendererConfig.MaxDepth = cfg.MaxDepth
	renderer := render.NewRenderer(cat, rendererConfig)

	checker := validate.NewValidator(measurer, validate.ValidatorConfig{
		Weights:   invariant.DefaultWeights(),
		Tolerance: cfg.Tolerance,
	})

	var refiner refine.Refiner = refine.Disabled{}
	if cfg.UseRefinement {
		rc := refine.DefaultRemoteConfig()
		rc.APIKey = cfg.APIKey
		rc.Timeout = cfg.TimeoutDuration()
		if cfg.RefinementModel != "" {
			rc.Model = cfg.RefinementModel
		}
		refiner = refine.NewRemoteRefiner(cat, rc, nil)
	}

	memory, err := engine.NewFamilyMemory(store.DB())
	if err != nil {
		return nil, fmt.Errorf("open family memory: %w", err)
	}

	engineConfig := engine.Config{
		MaxAttempts:   cfg.MaxAttempts,
		BaseDepth:     cfg.BaseDepth,
		MaxDepth:      cfg.MaxDepth,
		UseRefinement: cfg.UseRefinement,
	}
	return engine.NewOrchestrator(engineConfig, measurer, cat, renderer, checker, refiner, memory), nil
}

func decodeFile(path string) (*raster.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Clean(path), err)
	}
	defer f.Close()
	bm, err := raster.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bm, nil
}

// #endregion
