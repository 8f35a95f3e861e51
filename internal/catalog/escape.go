package catalog

// #region imports
import (
	"math/cmplx"

	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// #region julia-set

// JuliaSet is the escape-time family: the filled Julia set of z² + c.
// Recursion depth scales the iteration budget rather than a geometric
// subdivision level.
type JuliaSet struct{}

func (JuliaSet) ID() string { return "julia-set" }

func (JuliaSet) Eligible(v invariant.Vector) bool {
	return v.FractalDim >= 1.9 && v.Branching < 0.3
}

func (JuliaSet) Schema() []ParamSpec {
	return []ParamSpec{
		{Name: "cre", Min: -1.0, Max: 1.0, Default: -0.70},
		{Name: "cim", Min: -1.0, Max: 1.0, Default: 0.27},
	}
}

func (JuliaSet) DefaultParams(invariant.Vector) Params {
	return Params{"cre": -0.70, "cim": 0.27}
}

func (JuliaSet) Evaluate(p Params, depth int, plot Plotter) error {
	c := complex(p["cre"], p["cim"])
	maxIter := 12 + 10*depth
	size := plot.Size()

	for py := 0; py < size && !plot.Exhausted(); py++ {
		for px := 0; px < size; px++ {
			// Map the pixel center into [-1.6, 1.6]².
			zx := (float64(px)+0.5)/float64(size)*3.2 - 1.6
			zy := (float64(py)+0.5)/float64(size)*3.2 - 1.6
			if inJulia(complex(zx, zy), c, maxIter) {
				plot.SetPoint((float64(px)+0.5)/float64(size), (float64(py)+0.5)/float64(size))
			}
		}
	}
	return nil
}

func inJulia(z, c complex128, maxIter int) bool {
	for i := 0; i < maxIter; i++ {
		z = z*z + c
		if cmplx.Abs(z) > 2 {
			return false
		}
	}
	return true
}

// #endregion
