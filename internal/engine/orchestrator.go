// Package engine drives the three-cycle core: Discovery measures the image
// and proposes a candidate formula, Embodiment renders it, Validation
// re-measures the result and scores it against the original. The
// orchestrator owns all cross-cycle state; every collaborator is a pure
// function of its inputs.
package engine

// #region imports
import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/raster"
	"github.com/uago3c/uago/internal/refine"
)

// #endregion

// #region orchestrator

// Orchestrator runs the cycle state machine. All per-run state lives in
// the Run and its candidate search; the collaborators are stateless or
// safe for concurrent use, so one Orchestrator serves concurrent runs.
type Orchestrator struct {
	config   Config
	measurer Measurer
	matcher  *catalog.Matcher
	catalog  *catalog.Catalog
	renderer Renderer
	checker  Checker
	refiner  refine.Refiner
	local    *refine.LocalRefiner
	memory   *FamilyMemory // nil = no outcome recording
}

// NewOrchestrator wires the cycle engine. refiner is consulted only when
// config.UseRefinement is set; memory may be nil.
func NewOrchestrator(
	config Config,
	measurer Measurer,
	cat *catalog.Catalog,
	renderer Renderer,
	checker Checker,
	refiner refine.Refiner,
	memory *FamilyMemory,
) *Orchestrator {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.MaxDepth < config.BaseDepth {
		config.MaxDepth = config.BaseDepth
	}
	if refiner == nil {
		refiner = refine.Disabled{}
	}
	var advisor catalog.Advisor
	if memory != nil {
		advisor = memory
	}
	return &Orchestrator{
		config:   config,
		measurer: measurer,
		matcher:  catalog.NewMatcher(cat, advisor),
		catalog:  cat,
		renderer: renderer,
		checker:  checker,
		refiner:  refiner,
		local:    refine.NewLocalRefiner(cat),
		memory:   memory,
	}
}

// #endregion

// #region run

// Run executes up to MaxAttempts cycles for one bitmap. A bitmap that
// cannot be measured fails the run immediately with raster.ErrInput;
// every other condition is absorbed into the retry loop. Cancellation is
// checked at the top of each Discovering transition; a cancelled run is
// finalized as Exhausted with the attempts gathered so far.
func (o *Orchestrator) Run(ctx context.Context, bm *raster.Bitmap) (Run, error) {
	run := Run{
		ID:        uuid.New().String(),
		Selected:  -1,
		StartedAt: time.Now().UTC(),
	}

	original, err := o.measurer.Measure(bm)
	if err != nil {
		return Run{}, err // fatal: nothing to discover from
	}
	run.Original = original
	log.Printf("[ENGINE] run %s: original %s", run.ID, original)

	search := newCandidateSearch(o.catalog, o.matcher, o.local, o.config, original)

	for cycle := 1; cycle <= o.config.MaxAttempts; cycle++ {
		// Discovering
		if ctx.Err() != nil {
			log.Printf("[ENGINE] run %s: cancelled before cycle %d", run.ID, cycle)
			o.finalize(&run, VerdictExhausted)
			return run, ctx.Err()
		}
		run.Cycles = cycle
		candidate, depth := search.next()

		if o.config.UseRefinement {
			refined, rerr := o.refiner.Refine(ctx, original, candidate)
			if rerr != nil {
				log.Printf("[ENGINE] run %s: %v", run.ID, rerr)
			}
			candidate = refined
		}
		log.Printf("[ENGINE] run %s: %s cycle=%d family=%s depth=%d",
			run.ID, StateDiscovering, cycle, candidate.FamilyID, depth)

		// Embodying
		rendered, err := o.renderer.Render(candidate, depth)
		if err != nil {
			// Attempt-local: discard the candidate and keep cycling.
			log.Printf("[ENGINE] run %s: %s failed: %v", run.ID, StateEmbodying, err)
			search.reject(candidate.FamilyID)
			continue
		}

		// Validating
		res, err := o.checker.Check(original, rendered)
		if err != nil {
			log.Printf("[ENGINE] run %s: %s failed: %v", run.ID, StateValidating, err)
			search.reject(candidate.FamilyID)
			continue
		}

		attempt := Attempt{
			Num:       len(run.Attempts) + 1,
			Candidate: candidate,
			Depth:     depth,
			Rendered:  rendered,
			Measured:  res.Rendered,
			Distance:  res.Distance,
			Accepted:  res.Accepted,
		}
		run.Attempts = append(run.Attempts, attempt)
		log.Printf("[ENGINE] run %s: %s family=%s distance=%.4f accepted=%v",
			run.ID, StateValidating, candidate.FamilyID, res.Distance, res.Accepted)

		if res.Accepted {
			run.Selected = len(run.Attempts) - 1
			o.finalize(&run, VerdictAccepted)
			return run, nil
		}
		search.record(candidate, res.Distance)
	}

	o.finalize(&run, VerdictExhausted)
	return run, nil
}

// finalize stamps the terminal verdict, selects the best attempt for
// exhausted runs, and records outcomes.
func (o *Orchestrator) finalize(run *Run, verdict Verdict) {
	run.Verdict = verdict
	run.FinishedAt = time.Now().UTC()

	if verdict == VerdictExhausted {
		best := -1
		for i := range run.Attempts {
			if best < 0 || run.Attempts[i].Distance < run.Attempts[best].Distance {
				best = i
			}
		}
		run.Selected = best
	}

	if o.memory != nil {
		if err := o.memory.RecordRun(*run); err != nil {
			log.Printf("[ENGINE] run %s: record outcomes: %v", run.ID, err)
		}
	}
	log.Printf("[ENGINE] run %s: %s after %d cycle(s), %d attempt(s)",
		run.ID, run.Verdict, run.Cycles, len(run.Attempts))
}

// #endregion
