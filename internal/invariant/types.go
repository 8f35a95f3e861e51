package invariant

// #region imports
import (
	"fmt"
	"math"
)

// #endregion

// #region vector

// Vector is the fixed invariant summary of an image's geometric structure.
// It is immutable once computed: FractalDim, Branching and Connectivity are
// non-negative, Symmetry lies in [0,1].
type Vector struct {
	FractalDim   float64 `json:"fractal_dimension"`
	Symmetry     float64 `json:"symmetry_score"`
	Branching    float64 `json:"branching_factor"`
	Connectivity float64 `json:"connectivity"`
}

// Clamp returns a copy with every field forced into its physical bounds.
func (v Vector) Clamp() Vector {
	v.FractalDim = math.Max(0, v.FractalDim)
	v.Symmetry = math.Min(1, math.Max(0, v.Symmetry))
	v.Branching = math.Max(0, v.Branching)
	v.Connectivity = math.Max(0, v.Connectivity)
	return v
}

func (v Vector) String() string {
	return fmt.Sprintf("dim=%.3f sym=%.3f branch=%.3f conn=%.4f",
		v.FractalDim, v.Symmetry, v.Branching, v.Connectivity)
}

// #endregion

// #region weights

// Weights scales each vector field's contribution to the distance metric.
// Weights are fixed configuration, not per-call state.
type Weights struct {
	FractalDim   float64 `yaml:"fractal_dimension"`
	Symmetry     float64 `yaml:"symmetry_score"`
	Branching    float64 `yaml:"branching_factor"`
	Connectivity float64 `yaml:"connectivity"`
}

// DefaultWeights emphasizes fractal dimension; connectivity is the noisiest
// measurement and gets the smallest share.
func DefaultWeights() Weights {
	return Weights{
		FractalDim:   1.0,
		Symmetry:     0.5,
		Branching:    0.75,
		Connectivity: 0.25,
	}
}

// #endregion

// #region distance

// Distance is the weighted Euclidean distance between two vectors.
func Distance(a, b Vector, w Weights) float64 {
	dd := a.FractalDim - b.FractalDim
	ds := a.Symmetry - b.Symmetry
	db := a.Branching - b.Branching
	dc := a.Connectivity - b.Connectivity
	return math.Sqrt(w.FractalDim*dd*dd + w.Symmetry*ds*ds + w.Branching*db*db + w.Connectivity*dc*dc)
}

// #endregion
