package replay

// #region imports
import (
	"context"
	"fmt"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/engine"
	"github.com/uago3c/uago/internal/invariant"
	"github.com/uago3c/uago/internal/raster"
	"github.com/uago3c/uago/internal/validate"
)

// #endregion

// #region stubs

// scriptMeasurer reports the fixture's original vector for any bitmap.
type scriptMeasurer struct {
	original invariant.Vector
}

func (m scriptMeasurer) Measure(bm *raster.Bitmap) (invariant.Vector, error) {
	if bm == nil {
		return invariant.Vector{}, fmt.Errorf("%w: nil bitmap", raster.ErrInput)
	}
	return m.original, nil
}

// scriptRenderer always succeeds with a minimal placeholder bitmap. The
// scripted checker never inspects it.
type scriptRenderer struct{}

func (scriptRenderer) Render(c catalog.Candidate, depth int) (*raster.Bitmap, error) {
	bm := raster.New(1, 1)
	bm.Set(0, 0)
	return bm, nil
}

// scriptChecker pops one recorded vector per validated attempt and scores
// it with the real distance metric. The last vector repeats when the run
// outlives the script.
type scriptChecker struct {
	rendered  []invariant.Vector
	tolerance float64
	cursor    int
}

func (c *scriptChecker) Check(original invariant.Vector, rendered *raster.Bitmap) (validate.Result, error) {
	v := c.rendered[c.cursor]
	if c.cursor < len(c.rendered)-1 {
		c.cursor++
	}
	d := invariant.Distance(original, v, invariant.DefaultWeights())
	return validate.Result{
		Rendered: v,
		Distance: d,
		Accepted: d <= c.tolerance,
	}, nil
}

// #endregion

// #region harness

// Outcome is the result of replaying one fixture.
type Outcome struct {
	Run      engine.Run
	Pass     bool
	Mismatch string // empty when Pass
}

// Play runs the real orchestrator with scripted measurement, rendering,
// and validation, then compares the terminal run against the fixture's
// expectations.
func Play(f Fixture) (Outcome, error) {
	orch := engine.NewOrchestrator(
		f.Config.EngineConfig(),
		scriptMeasurer{original: f.Original},
		catalog.New(),
		scriptRenderer{},
		&scriptChecker{rendered: f.Rendered, tolerance: f.Tolerance},
		nil,
		nil,
	)

	input := raster.New(1, 1)
	input.Set(0, 0)
	run, err := orch.Run(context.Background(), input)
	if err != nil {
		return Outcome{Run: run}, fmt.Errorf("replay run: %w", err)
	}

	out := Outcome{Run: run, Pass: true}
	if run.Verdict != f.Expected.Verdict {
		out.Pass = false
		out.Mismatch = fmt.Sprintf("verdict %s, expected %s", run.Verdict, f.Expected.Verdict)
	} else if len(run.Attempts) != f.Expected.Attempts {
		out.Pass = false
		out.Mismatch = fmt.Sprintf("%d attempt(s), expected %d", len(run.Attempts), f.Expected.Attempts)
	}
	return out, nil
}

// #endregion
