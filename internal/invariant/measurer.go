package invariant

// #region imports
import (
	"fmt"
	"math"

	"github.com/katalvlaran/lvlath/gridgraph"

	"github.com/uago3c/uago/internal/raster"
)

// #endregion

// #region config

// MeasurerConfig fixes the measurement parameters. Two measurers with equal
// configs produce identical vectors for identical bitmaps.
type MeasurerConfig struct {
	// MaxBoxScales caps the number of power-of-two box sizes used for
	// box counting.
	MaxBoxScales int
}

// DefaultMeasurerConfig mirrors the box-counting range of the reference
// measurement procedure.
func DefaultMeasurerConfig() MeasurerConfig {
	return MeasurerConfig{MaxBoxScales: 6}
}

// #endregion

// #region measurer

// Measurer computes the invariant vector of a bitmap. It is a pure function
// of (bitmap, config): no randomness, no time dependence.
type Measurer struct {
	config MeasurerConfig
}

// NewMeasurer creates a measurer with the given configuration.
func NewMeasurer(config MeasurerConfig) *Measurer {
	if config.MaxBoxScales < 2 {
		config.MaxBoxScales = 2
	}
	return &Measurer{config: config}
}

// Measure computes all four invariants. A nil or zero-sized bitmap returns
// raster.ErrInput; a blank bitmap is degenerate but measurable and yields
// the sentinel vector {0, 1, 0, 0}.
func (m *Measurer) Measure(bm *raster.Bitmap) (Vector, error) {
	if bm == nil || bm.W == 0 || bm.H == 0 {
		return Vector{}, fmt.Errorf("%w: nil or zero-sized bitmap", raster.ErrInput)
	}

	v := Vector{
		FractalDim:   m.boxCountingDimension(bm),
		Symmetry:     symmetryScore(bm),
		Branching:    branchingFactor(bm),
		Connectivity: connectivity(bm),
	}
	return v.Clamp(), nil
}

// #endregion

// #region box-counting

// boxCountingDimension estimates fractal dimension as the least-squares
// slope of log N(s) against log(1/s) over power-of-two box sizes.
// Degenerate inputs (blank image, single point, too few usable scales)
// yield the sentinel dimension 0.
func (m *Measurer) boxCountingDimension(bm *raster.Bitmap) float64 {
	if bm.Foreground() <= 1 {
		return 0
	}

	minDim := bm.W
	if bm.H < minDim {
		minDim = bm.H
	}

	var logInvSize, logCount []float64
	for size := 1; size <= minDim && len(logCount) < m.config.MaxBoxScales; size *= 2 {
		n := countBoxes(bm, size)
		if n == 0 {
			continue
		}
		logInvSize = append(logInvSize, -math.Log(float64(size)))
		logCount = append(logCount, math.Log(float64(n)))
	}
	if len(logCount) < 2 {
		return 0
	}

	slope := leastSquaresSlope(logInvSize, logCount)
	if math.IsNaN(slope) || slope < 0 {
		return 0
	}
	return slope
}

// countBoxes counts size×size grid cells containing at least one
// foreground pixel.
func countBoxes(bm *raster.Bitmap, size int) int {
	n := 0
	for y := 0; y < bm.H; y += size {
		for x := 0; x < bm.W; x += size {
			if boxOccupied(bm, x, y, size) {
				n++
			}
		}
	}
	return n
}

func boxOccupied(bm *raster.Bitmap, x0, y0, size int) bool {
	for y := y0; y < y0+size && y < bm.H; y++ {
		for x := x0; x < x0+size && x < bm.W; x++ {
			if bm.At(x, y) {
				return true
			}
		}
	}
	return false
}

// leastSquaresSlope fits y = a + b*x and returns b. The caller guarantees
// len(xs) == len(ys) >= 2; a degenerate x spread returns NaN.
func leastSquaresSlope(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return math.NaN()
	}
	return (n*sxy - sx*sy) / den
}

// #endregion

// #region symmetry

// symmetryScore returns the best foreground agreement in [0,1] over a fixed
// set of lattice-exact transforms: horizontal mirror, vertical mirror,
// 180° rotation, and 90° rotation when the raster is square. Agreement is
// the Jaccard overlap of the foreground with its transformed image; a blank
// bitmap is trivially symmetric and scores 1.
func symmetryScore(bm *raster.Bitmap) float64 {
	if bm.Foreground() == 0 {
		return 1
	}

	type xform func(x, y int) (int, int)
	transforms := []xform{
		func(x, y int) (int, int) { return bm.W - 1 - x, y },            // mirror across vertical axis
		func(x, y int) (int, int) { return x, bm.H - 1 - y },            // mirror across horizontal axis
		func(x, y int) (int, int) { return bm.W - 1 - x, bm.H - 1 - y }, // rotate 180°
	}
	if bm.W == bm.H {
		transforms = append(transforms,
			func(x, y int) (int, int) { return bm.H - 1 - y, x }) // rotate 90°
	}

	best := 0.0
	for _, tf := range transforms {
		inter, union := 0, 0
		for y := 0; y < bm.H; y++ {
			for x := 0; x < bm.W; x++ {
				a := bm.At(x, y)
				tx, ty := tf(x, y)
				b := bm.At(tx, ty)
				if a || b {
					union++
					if a && b {
						inter++
					}
				}
			}
		}
		if union == 0 {
			continue
		}
		if s := float64(inter) / float64(union); s > best {
			best = s
		}
	}
	return best
}

// #endregion

// #region branching

// branchingFactor skeletonizes the foreground and relates junction pixels
// (3+ skeleton neighbors) to endpoint pixels (at most 1). A structure with
// no skeleton, or no endpoints and no junctions, has branching 0.
func branchingFactor(bm *raster.Bitmap) float64 {
	skel := Skeletonize(bm)

	junctions, endpoints := 0, 0
	for y := 0; y < skel.H; y++ {
		for x := 0; x < skel.W; x++ {
			if !skel.At(x, y) {
				continue
			}
			n := skeletonNeighbors(skel, x, y)
			switch {
			case n >= 3:
				junctions++
			case n <= 1:
				endpoints++
			}
		}
	}
	if junctions == 0 {
		return 0
	}
	if endpoints == 0 {
		endpoints = 1
	}
	return float64(junctions) / float64(endpoints)
}

func skeletonNeighbors(bm *raster.Bitmap, x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if bm.At(x+dx, y+dy) {
				n++
			}
		}
	}
	return n
}

// #endregion

// #region connectivity

// connectivity counts exact connected components of the foreground under
// 8-connectivity and normalizes by foreground area. A blank bitmap has
// connectivity 0; fully fragmented dust approaches 1.
func connectivity(bm *raster.Bitmap) float64 {
	fg := bm.Foreground()
	if fg == 0 {
		return 0
	}

	gg, err := gridgraph.NewGridGraph(bm.Grid(), gridgraph.GridOptions{
		LandThreshold: 1,
		Conn:          gridgraph.Conn8,
	})
	if err != nil {
		// Only reachable for empty grids, which Measure has already rejected.
		return 0
	}
	comps := gg.ConnectedComponents()
	return float64(len(comps)) / float64(fg)
}

// #endregion
