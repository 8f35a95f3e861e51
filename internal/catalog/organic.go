package catalog

// #region imports
import (
	"math"

	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// Branching-recursive families: rules whose elements are stems that fork
// into contracted children.

// #region branching-tree

// BranchingTree grows a symmetric binary tree: each stem forks into two
// children rotated ±angle and contracted by ratio.
type BranchingTree struct{}

func (BranchingTree) ID() string { return "branching-tree" }

func (BranchingTree) Eligible(v invariant.Vector) bool {
	return v.Branching >= 0.5 && v.FractalDim >= 1.1 && v.FractalDim <= 1.95
}

func (BranchingTree) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "angle", Min: 0.2, Max: 1.2, Default: 0.5},
		{Name: "ratio", Min: 0.5, Max: 0.85, Default: 0.7},
	}
}

// DefaultParams opens the fork angle with the measured branching factor.
func (BranchingTree) DefaultParams(v invariant.Vector) Params {
	angle := clamp(0.35+0.4*math.Min(v.Branching, 1.5), 0.2, 1.2)
	return Params{"angle": angle, "ratio": 0.7}
}

func (BranchingTree) Evaluate(p Params, depth int, plot Plotter) error {
	tree(plot, 0.5, 0.95, -math.Pi/2, 0.28, p["angle"], p["ratio"], depth)
	return nil
}

func tree(plot Plotter, x, y, heading, length, angle, ratio float64, depth int) {
	if plot.Exhausted() {
		return
	}
	nx := x + length*math.Cos(heading)
	ny := y + length*math.Sin(heading)
	plot.Line(x, y, nx, ny)
	if depth == 0 {
		return
	}
	tree(plot, nx, ny, heading-angle, length*ratio, angle, ratio, depth-1)
	tree(plot, nx, ny, heading+angle, length*ratio, angle, ratio, depth-1)
}

// #endregion

// #region fern-frond

// FernFrond is a deterministic frond: a curving stem carrying alternating
// pinnae, each a contracted copy of the whole.
type FernFrond struct{}

func (FernFrond) ID() string { return "fern-frond" }

func (FernFrond) Eligible(v invariant.Vector) bool {
	return v.Branching >= 0.25 && v.Symmetry < 0.6
}

func (FernFrond) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "lean", Min: 0.05, Max: 0.5, Default: 0.2},
		{Name: "ratio", Min: 0.4, Max: 0.8, Default: 0.6},
	}
}

func (FernFrond) DefaultParams(v invariant.Vector) Params {
	lean := clamp(0.1+0.2*v.Branching, 0.05, 0.5)
	return Params{"lean": lean, "ratio": 0.6}
}

func (FernFrond) Evaluate(p Params, depth int, plot Plotter) error {
	frond(plot, 0.5, 0.95, -math.Pi/2, 0.55, p["lean"], p["ratio"], depth)
	return nil
}

// frond draws the stem as four bending segments, attaching a contracted
// child frond on alternating sides at each node.
func frond(plot Plotter, x, y, heading, length, lean, ratio float64, depth int) {
	if plot.Exhausted() {
		return
	}
	const nodes = 4
	seg := length / nodes
	side := 1.0
	for i := 0; i < nodes; i++ {
		nx := x + seg*math.Cos(heading)
		ny := y + seg*math.Sin(heading)
		plot.Line(x, y, nx, ny)
		if depth > 0 {
			frond(plot, nx, ny, heading+side*2.5*lean, length*ratio*0.5, lean, ratio, depth-1)
		}
		x, y = nx, ny
		heading += lean * 0.3 // stem curvature
		side = -side
	}
}

// #endregion
