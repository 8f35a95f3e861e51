package catalog

// #region imports
import (
	"math"

	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// Self-similar subdivision families. Each rule carves its seed shape into a
// fixed set of contracted copies per recursion level; at depth 0 the seed is
// drawn solid.

// #region sierpinski-triangle

// SierpinskiTriangle subdivides a triangle into three half-scale corner
// copies, dropping the center. Theoretical dimension log3/log2 ≈ 1.585.
type SierpinskiTriangle struct{}

func (SierpinskiTriangle) ID() string { return "sierpinski-triangle" }

func (SierpinskiTriangle) Eligible(v invariant.Vector) bool {
	return v.FractalDim >= 1.30 && v.FractalDim <= 1.85 && v.Branching < 0.5
}

func (SierpinskiTriangle) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "span", Min: 0.5, Max: 1.0, Default: 1.0},
	}
}

func (SierpinskiTriangle) DefaultParams(invariant.Vector) Params {
	return Params{"span": 1.0}
}

func (SierpinskiTriangle) Evaluate(p Params, depth int, plot Plotter) error {
	span := p["span"]
	cx, cy := 0.5, 0.5
	ax, ay := scaleAbout(cx, cy, 0.5, 0.06, span)
	bx, by := scaleAbout(cx, cy, 0.06, 0.94, span)
	ccx, ccy := scaleAbout(cx, cy, 0.94, 0.94, span)
	sierpTri(plot, ax, ay, bx, by, ccx, ccy, depth)
	return nil
}

func sierpTri(plot Plotter, ax, ay, bx, by, cx, cy float64, depth int) {
	if plot.Exhausted() {
		return
	}
	if depth == 0 {
		plot.FillTriangle(ax, ay, bx, by, cx, cy)
		return
	}
	abx, aby := mid(ax, ay, bx, by)
	bcx, bcy := mid(bx, by, cx, cy)
	cax, cay := mid(cx, cy, ax, ay)
	sierpTri(plot, ax, ay, abx, aby, cax, cay, depth-1)
	sierpTri(plot, abx, aby, bx, by, bcx, bcy, depth-1)
	sierpTri(plot, cax, cay, bcx, bcy, cx, cy, depth-1)
}

// #endregion

// #region sierpinski-carpet

// SierpinskiCarpet subdivides a square into the eight third-scale copies
// around a removed center. Theoretical dimension log8/log3 ≈ 1.893.
type SierpinskiCarpet struct{}

func (SierpinskiCarpet) ID() string { return "sierpinski-carpet" }

func (SierpinskiCarpet) Eligible(v invariant.Vector) bool {
	return v.FractalDim > 1.80 && v.FractalDim <= 1.97 && v.Symmetry >= 0.6
}

func (SierpinskiCarpet) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "span", Min: 0.5, Max: 1.0, Default: 0.9},
	}
}

func (SierpinskiCarpet) DefaultParams(invariant.Vector) Params {
	return Params{"span": 0.9}
}

func (SierpinskiCarpet) Evaluate(p Params, depth int, plot Plotter) error {
	span := p["span"]
	lo := 0.5 - span/2
	hi := 0.5 + span/2
	carpet(plot, lo, lo, hi, hi, depth)
	return nil
}

func carpet(plot Plotter, x0, y0, x1, y1 float64, depth int) {
	if plot.Exhausted() {
		return
	}
	if depth == 0 {
		plot.FillRect(x0, y0, x1, y1)
		return
	}
	dx := (x1 - x0) / 3
	dy := (y1 - y0) / 3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == 1 && j == 1 {
				continue
			}
			carpet(plot,
				x0+float64(i)*dx, y0+float64(j)*dy,
				x0+float64(i+1)*dx, y0+float64(j+1)*dy,
				depth-1)
		}
	}
}

// #endregion

// #region vicsek-cross

// VicsekCross keeps the center and four edge squares of a 3×3 subdivision.
// Theoretical dimension log5/log3 ≈ 1.465.
type VicsekCross struct{}

func (VicsekCross) ID() string { return "vicsek-cross" }

func (VicsekCross) Eligible(v invariant.Vector) bool {
	return v.FractalDim >= 1.35 && v.FractalDim < 1.55 && v.Symmetry >= 0.75
}

func (VicsekCross) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "span", Min: 0.5, Max: 1.0, Default: 0.9},
	}
}

func (VicsekCross) DefaultParams(invariant.Vector) Params {
	return Params{"span": 0.9}
}

func (VicsekCross) Evaluate(p Params, depth int, plot Plotter) error {
	span := p["span"]
	lo := 0.5 - span/2
	hi := 0.5 + span/2
	vicsek(plot, lo, lo, hi, hi, depth)
	return nil
}

func vicsek(plot Plotter, x0, y0, x1, y1 float64, depth int) {
	if plot.Exhausted() {
		return
	}
	if depth == 0 {
		plot.FillRect(x0, y0, x1, y1)
		return
	}
	dx := (x1 - x0) / 3
	dy := (y1 - y0) / 3
	cells := [5][2]int{{1, 1}, {1, 0}, {0, 1}, {2, 1}, {1, 2}}
	for _, c := range cells {
		i, j := c[0], c[1]
		vicsek(plot,
			x0+float64(i)*dx, y0+float64(j)*dy,
			x0+float64(i+1)*dx, y0+float64(j+1)*dy,
			depth-1)
	}
}

// #endregion

// #region cantor-dust

// CantorDust keeps four contracted corner squares per level, producing a
// totally disconnected set. Dimension log4/log(1/shrink); ≈ 1.262 at the
// classic shrink of 1/3.
type CantorDust struct{}

func (CantorDust) ID() string { return "cantor-dust" }

func (CantorDust) Eligible(v invariant.Vector) bool {
	return v.FractalDim >= 0.8 && v.FractalDim < 1.35 && v.Connectivity >= 0.002
}

func (CantorDust) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "shrink", Min: 0.2, Max: 0.45, Default: 1.0 / 3},
	}
}

// DefaultParams derives the contraction from the measured dimension:
// dust of dimension d corresponds to shrink = 4^(-1/d).
func (CantorDust) DefaultParams(v invariant.Vector) Params {
	shrink := 1.0 / 3
	if v.FractalDim > 0.8 {
		shrink = clamp(math.Pow(4, -1/v.FractalDim), 0.2, 0.45)
	}
	return Params{"shrink": shrink}
}

func (CantorDust) Evaluate(p Params, depth int, plot Plotter) error {
	dust(plot, 0.05, 0.05, 0.95, 0.95, p["shrink"], depth)
	return nil
}

func dust(plot Plotter, x0, y0, x1, y1, shrink float64, depth int) {
	if plot.Exhausted() {
		return
	}
	if depth == 0 {
		plot.FillRect(x0, y0, x1, y1)
		return
	}
	w := (x1 - x0) * shrink
	h := (y1 - y0) * shrink
	dust(plot, x0, y0, x0+w, y0+h, shrink, depth-1)
	dust(plot, x1-w, y0, x1, y0+h, shrink, depth-1)
	dust(plot, x0, y1-h, x0+w, y1, shrink, depth-1)
	dust(plot, x1-w, y1-h, x1, y1, shrink, depth-1)
}

// #endregion

// #region geometry-helpers

func mid(ax, ay, bx, by float64) (float64, float64) {
	return (ax + bx) / 2, (ay + by) / 2
}

func scaleAbout(cx, cy, x, y, s float64) (float64, float64) {
	return cx + (x-cx)*s, cy + (y-cy)*s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// #endregion
