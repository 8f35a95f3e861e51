// Package refine proposes adjusted parameters for a candidate formula.
// Refinement is strictly best-effort: every refiner returns a usable
// candidate, falling back to its input on any failure.
package refine

// #region imports
import (
	"context"
	"errors"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// #region errors

// ErrRefinementUnavailable marks any failure of the optional refinement
// step: network, timeout, auth, or malformed response. Always recovered by
// keeping the unrefined candidate; never surfaced as a run-level error.
var ErrRefinementUnavailable = errors.New("refine: refinement unavailable")

// #endregion

// #region refiner

// Refiner proposes a new candidate given the measured invariants and the
// rule-based guess. Implementations must return the input candidate
// unchanged when they cannot improve on it; a non-nil error is diagnostic
// only and the returned candidate is always usable.
type Refiner interface {
	Refine(ctx context.Context, v invariant.Vector, c catalog.Candidate) (catalog.Candidate, error)
}

// #endregion

// #region local-refiner

// LocalRefiner is the deterministic fallback: it pulls each parameter
// halfway toward the family's closed-form default for the measured
// invariants. Repeated application converges instead of oscillating.
type LocalRefiner struct {
	catalog *catalog.Catalog
}

// NewLocalRefiner creates the deterministic refiner.
func NewLocalRefiner(cat *catalog.Catalog) *LocalRefiner {
	return &LocalRefiner{catalog: cat}
}

// Refine blends the candidate's parameters with the family defaults.
func (r *LocalRefiner) Refine(_ context.Context, v invariant.Vector, c catalog.Candidate) (catalog.Candidate, error) {
	fam, ok := r.catalog.Lookup(c.FamilyID)
	if !ok {
		return c, nil
	}
	target := fam.DefaultParams(v)
	next := c.Params.Clone()
	for name, tv := range target {
		if cur, ok := next[name]; ok {
			next[name] = (cur + tv) / 2
		} else {
			next[name] = tv
		}
	}
	validated, err := catalog.ValidateParams(fam.Schema(), next)
	if err != nil {
		return c, nil
	}
	return catalog.Candidate{FamilyID: c.FamilyID, Params: validated}, nil
}

// #endregion

// #region disabled

// Disabled is the refiner used when refinement is switched off: a no-op.
type Disabled struct{}

// Refine returns the candidate unchanged.
func (Disabled) Refine(_ context.Context, _ invariant.Vector, c catalog.Candidate) (catalog.Candidate, error) {
	return c, nil
}

// #endregion
