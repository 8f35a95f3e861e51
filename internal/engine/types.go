package engine

// #region imports
import (
	"time"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/invariant"
	"github.com/uago3c/uago/internal/raster"
	"github.com/uago3c/uago/internal/validate"
)

// #endregion

// #region state

// State is the explicit cycle state of a run. Transitions:
// Discovering → Embodying → Validating → (Accepted | Retrying), with
// Retrying looping back to Discovering until the attempt budget forces
// Exhausted.
type State string

const (
	StateDiscovering State = "discovering"
	StateEmbodying   State = "embodying"
	StateValidating  State = "validating"
	StateAccepted    State = "accepted"
	StateRetrying    State = "retrying"
	StateExhausted   State = "exhausted"
)

// #endregion

// #region verdict

// Verdict is the terminal outcome of a run.
type Verdict string

const (
	VerdictAccepted  Verdict = "accepted"
	VerdictExhausted Verdict = "exhausted"
)

// #endregion

// #region attempt

// Attempt records one completed discovery-embodiment-validation trial.
// Each attempt references exactly one candidate and one rendered bitmap;
// cycles whose embodiment failed are counted against the budget but record
// no attempt.
type Attempt struct {
	Num       int
	Candidate catalog.Candidate
	Depth     int
	Rendered  *raster.Bitmap
	Measured  invariant.Vector
	Distance  float64
	Accepted  bool
}

// #endregion

// #region run

// Run is the complete processing of one input image. Populated
// incrementally while cycling, never mutated after finalization.
type Run struct {
	ID         string
	Original   invariant.Vector
	Attempts   []Attempt
	Selected   int // index into Attempts; -1 when no attempt completed
	Verdict    Verdict
	Cycles     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// SelectedAttempt returns the selected attempt, or nil when every cycle
// failed before validation.
func (r *Run) SelectedAttempt() *Attempt {
	if r.Selected < 0 || r.Selected >= len(r.Attempts) {
		return nil
	}
	return &r.Attempts[r.Selected]
}

// #endregion

// #region config

// Config bounds a run. All behavior of a run is determined by its explicit
// inputs; nothing is read ambiently.
type Config struct {
	// MaxAttempts caps discovery/embodiment/validation cycles per run.
	MaxAttempts int
	// BaseDepth is the recursion depth of the first attempt.
	BaseDepth int
	// MaxDepth caps the depth schedule.
	MaxDepth int
	// UseRefinement switches the remote refinement step on.
	UseRefinement bool
}

// DefaultConfig returns the standard cycle budget.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   6,
		BaseDepth:     4,
		MaxDepth:      8,
		UseRefinement: false,
	}
}

// #endregion

// #region collaborator-interfaces

// Measurer computes the invariant vector of a bitmap.
type Measurer interface {
	Measure(bm *raster.Bitmap) (invariant.Vector, error)
}

// Renderer embodies a candidate at a recursion depth.
type Renderer interface {
	Render(c catalog.Candidate, depth int) (*raster.Bitmap, error)
}

// Checker validates a rendered bitmap against the original invariants.
type Checker interface {
	Check(original invariant.Vector, rendered *raster.Bitmap) (validate.Result, error)
}

// #endregion
