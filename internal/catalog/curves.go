package catalog

// #region imports
import (
	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// Recursive curve families. Each rewrites line segments per level and draws
// plain segments at depth 0.

// #region koch-curve

// KochCurve replaces each segment with four, raising a triangular bump of
// configurable amplitude. Classic dimension log4/log3 ≈ 1.262.
type KochCurve struct{}

func (KochCurve) ID() string { return "koch-curve" }

func (KochCurve) Eligible(v invariant.Vector) bool {
	return v.FractalDim >= 1.0 && v.FractalDim < 1.35 && v.Branching < 0.25
}

func (KochCurve) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "amplitude", Min: 0.2, Max: 0.5, Default: 1.0 / 3},
	}
}

// DefaultParams raises the bump for dimensions above the classic 1.262.
func (KochCurve) DefaultParams(v invariant.Vector) Params {
	amp := 1.0 / 3
	if v.FractalDim > 1.262 {
		amp = clamp(amp*(1+(v.FractalDim-1.262)), 0.2, 0.5)
	}
	return Params{"amplitude": amp}
}

func (KochCurve) Evaluate(p Params, depth int, plot Plotter) error {
	koch(plot, 0.05, 0.6, 0.95, 0.6, p["amplitude"], depth)
	return nil
}

func koch(plot Plotter, x0, y0, x1, y1, amp float64, depth int) {
	if plot.Exhausted() {
		return
	}
	if depth == 0 {
		plot.Line(x0, y0, x1, y1)
		return
	}
	dx := (x1 - x0) / 3
	dy := (y1 - y0) / 3
	ax, ay := x0+dx, y0+dy
	bx, by := x0+2*dx, y0+2*dy
	// Apex: midpoint of the middle third displaced along the left normal.
	mx, my := (ax+bx)/2, (ay+by)/2
	nx, ny := -(by - ay), bx-ax
	px, py := mx+nx*amp*3, my+ny*amp*3

	koch(plot, x0, y0, ax, ay, amp, depth-1)
	koch(plot, ax, ay, px, py, amp, depth-1)
	koch(plot, px, py, bx, by, amp, depth-1)
	koch(plot, bx, by, x1, y1, amp, depth-1)
}

// #endregion

// #region koch-snowflake

// KochSnowflake closes three Koch curves around an equilateral triangle.
type KochSnowflake struct{}

func (KochSnowflake) ID() string { return "koch-snowflake" }

func (KochSnowflake) Eligible(v invariant.Vector) bool {
	return v.FractalDim >= 1.0 && v.FractalDim <= 1.40 && v.Symmetry >= 0.7 && v.Branching < 0.25
}

func (KochSnowflake) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "amplitude", Min: 0.2, Max: 0.5, Default: 1.0 / 3},
	}
}

func (KochSnowflake) DefaultParams(invariant.Vector) Params {
	return Params{"amplitude": 1.0 / 3}
}

func (KochSnowflake) Evaluate(p Params, depth int, plot Plotter) error {
	amp := p["amplitude"]
	ax, ay := 0.5, 0.12
	bx, by := 0.12, 0.78
	cx, cy := 0.88, 0.78
	// Winding order keeps the bumps pointing outward.
	koch(plot, bx, by, ax, ay, amp, depth)
	koch(plot, ax, ay, cx, cy, amp, depth)
	koch(plot, cx, cy, bx, by, amp, depth)
	return nil
}

// #endregion

// #region levy-curve

// LevyCurve bends each segment into a right-angle isoceles elbow.
// Dimension approaches 2 (boundary ≈ 1.934).
type LevyCurve struct{}

func (LevyCurve) ID() string { return "levy-curve" }

func (LevyCurve) Eligible(v invariant.Vector) bool {
	return v.FractalDim > 1.80 && v.FractalDim <= 2.0 && v.Symmetry < 0.6
}

func (LevyCurve) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "span", Min: 0.4, Max: 1.0, Default: 0.6},
	}
}

func (LevyCurve) DefaultParams(invariant.Vector) Params {
	return Params{"span": 0.6}
}

func (LevyCurve) Evaluate(p Params, depth int, plot Plotter) error {
	span := p["span"]
	levy(plot, 0.5-span/2, 0.6, 0.5+span/2, 0.6, depth)
	return nil
}

func levy(plot Plotter, x0, y0, x1, y1 float64, depth int) {
	if plot.Exhausted() {
		return
	}
	if depth == 0 {
		plot.Line(x0, y0, x1, y1)
		return
	}
	mx := (x0+x1)/2 + (y0-y1)/2
	my := (y0+y1)/2 + (x1-x0)/2
	levy(plot, x0, y0, mx, my, depth-1)
	levy(plot, mx, my, x1, y1, depth-1)
}

// #endregion

// #region dragon-curve

// DragonCurve folds each segment into two with alternating orientation,
// the Heighway dragon rewriting.
type DragonCurve struct{}

func (DragonCurve) ID() string { return "dragon-curve" }

func (DragonCurve) Eligible(v invariant.Vector) bool {
	return v.FractalDim >= 1.40 && v.FractalDim <= 1.70 && v.Symmetry < 0.45
}

func (DragonCurve) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "span", Min: 0.3, Max: 0.8, Default: 0.55},
	}
}

func (DragonCurve) DefaultParams(invariant.Vector) Params {
	return Params{"span": 0.55}
}

func (DragonCurve) Evaluate(p Params, depth int, plot Plotter) error {
	span := p["span"]
	dragon(plot, 0.5-span/2, 0.45, 0.5+span/2, 0.45, depth, 1)
	return nil
}

func dragon(plot Plotter, x0, y0, x1, y1 float64, depth, sign int) {
	if plot.Exhausted() {
		return
	}
	if depth == 0 {
		plot.Line(x0, y0, x1, y1)
		return
	}
	s := float64(sign)
	mx := (x0+x1)/2 + s*(y0-y1)/2
	my := (y0+y1)/2 + s*(x1-x0)/2
	dragon(plot, x0, y0, mx, my, depth-1, 1)
	dragon(plot, mx, my, x1, y1, depth-1, -1)
}

// #endregion

// #region hilbert-curve

// HilbertCurve is the space-filling fallback: the lowest-assumption
// self-similar rule, eligible only for near-plane-filling structure but
// always usable as the designated default.
type HilbertCurve struct{}

func (HilbertCurve) ID() string { return "hilbert-curve" }

func (HilbertCurve) Eligible(v invariant.Vector) bool {
	return v.FractalDim >= 1.97 && v.Branching < 0.5
}

func (HilbertCurve) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "span", Min: 0.5, Max: 1.0, Default: 0.9},
	}
}

func (HilbertCurve) DefaultParams(invariant.Vector) Params {
	return Params{"span": 0.9}
}

func (HilbertCurve) Evaluate(p Params, depth int, plot Plotter) error {
	span := p["span"]
	order := depth
	if order < 1 {
		order = 1
	}

	n := 1 << uint(order)
	lo := 0.5 - span/2
	step := span / float64(n)
	cell := func(d int) (float64, float64) {
		x, y := hilbertD2XY(n, d)
		return lo + (float64(x)+0.5)*step, lo + (float64(y)+0.5)*step
	}

	px, py := cell(0)
	for d := 1; d < n*n && !plot.Exhausted(); d++ {
		x, y := cell(d)
		plot.Line(px, py, x, y)
		px, py = x, y
	}
	return nil
}

// hilbertD2XY converts a distance along the order-n Hilbert curve to grid
// coordinates, by quadrant reflection.
func hilbertD2XY(n, d int) (int, int) {
	x, y := 0, 0
	t := d
	for s := 1; s < n; s *= 2 {
		rx := 1 & (t / 2)
		ry := 1 & (t ^ rx)
		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		t /= 4
	}
	return x, y
}

// #endregion
