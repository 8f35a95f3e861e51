package invariant

import (
	"errors"
	"math"
	"testing"

	"github.com/uago3c/uago/internal/raster"
)

func fullSquare(n int) *raster.Bitmap {
	bm := raster.New(n, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			bm.Set(x, y)
		}
	}
	return bm
}

func horizontalLine(n int) *raster.Bitmap {
	bm := raster.New(n, n)
	for x := 0; x < n; x++ {
		bm.Set(x, n/2)
	}
	return bm
}

func TestMeasureRejectsNilBitmap(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	_, err := m.Measure(nil)
	if !errors.Is(err, raster.ErrInput) {
		t.Fatalf("expected ErrInput for nil bitmap, got %v", err)
	}
}

func TestMeasureBlankBitmapSentinel(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	v, err := m.Measure(raster.New(64, 64))
	if err != nil {
		t.Fatalf("blank bitmap must be measurable: %v", err)
	}
	want := Vector{FractalDim: 0, Symmetry: 1, Branching: 0, Connectivity: 0}
	if v != want {
		t.Fatalf("blank sentinel = %s, want %s", v, want)
	}
}

func TestMeasureSinglePixelSentinelDimension(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	bm := raster.New(64, 64)
	bm.Set(10, 10)
	v, err := m.Measure(bm)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if v.FractalDim != 0 {
		t.Fatalf("single pixel dimension = %.3f, want sentinel 0", v.FractalDim)
	}
}

func TestMeasureIsDeterministic(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	bm := horizontalLine(128)
	a, err := m.Measure(bm)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	b, err := m.Measure(bm.Clone())
	if err != nil {
		t.Fatalf("Measure (clone): %v", err)
	}
	if a != b {
		t.Fatalf("same bitmap measured differently: %s vs %s", a, b)
	}
}

func TestBoxCountingFilledSquare(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	v, err := m.Measure(fullSquare(128))
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	// A filled plane region counts (n/s)^2 boxes at every scale, so the
	// fitted slope is exactly 2.
	if math.Abs(v.FractalDim-2.0) > 0.05 {
		t.Fatalf("filled square dimension = %.3f, want ~2.0", v.FractalDim)
	}
}

func TestBoxCountingLine(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	v, err := m.Measure(horizontalLine(128))
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if math.Abs(v.FractalDim-1.0) > 0.1 {
		t.Fatalf("line dimension = %.3f, want ~1.0", v.FractalDim)
	}
}

func TestMeasureBoundsHold(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	shapes := []*raster.Bitmap{fullSquare(64), horizontalLine(64), raster.New(32, 32)}
	for _, bm := range shapes {
		v, err := m.Measure(bm)
		if err != nil {
			t.Fatalf("Measure: %v", err)
		}
		if v.FractalDim < 0 {
			t.Fatalf("negative dimension: %s", v)
		}
		if v.Symmetry < 0 || v.Symmetry > 1 {
			t.Fatalf("symmetry out of [0,1]: %s", v)
		}
		if v.Branching < 0 || v.Connectivity < 0 {
			t.Fatalf("negative branching or connectivity: %s", v)
		}
	}
}

func TestSymmetryOfMirroredShape(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	// A centered vertical bar is invariant under every transform checked.
	bm := raster.New(64, 64)
	for y := 0; y < 64; y++ {
		bm.Set(31, y)
		bm.Set(32, y)
	}
	v, err := m.Measure(bm)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if v.Symmetry < 0.99 {
		t.Fatalf("centered bar symmetry = %.3f, want ~1.0", v.Symmetry)
	}
}

func TestConnectivityCountsComponents(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	// Four isolated 2x2 blocks: 4 components over 16 pixels.
	bm := raster.New(32, 32)
	for _, o := range [][2]int{{2, 2}, {10, 10}, {20, 4}, {26, 26}} {
		bm.Set(o[0], o[1])
		bm.Set(o[0]+1, o[1])
		bm.Set(o[0], o[1]+1)
		bm.Set(o[0]+1, o[1]+1)
	}
	v, err := m.Measure(bm)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	want := 4.0 / 16.0
	if math.Abs(v.Connectivity-want) > 1e-9 {
		t.Fatalf("connectivity = %.4f, want %.4f", v.Connectivity, want)
	}

	// One solid block: a single component over the same area.
	solid := raster.New(32, 32)
	for y := 8; y < 12; y++ {
		for x := 8; x < 12; x++ {
			solid.Set(x, y)
		}
	}
	sv, err := m.Measure(solid)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if sv.Connectivity >= v.Connectivity {
		t.Fatalf("solid block connectivity %.4f should be below fragmented %.4f",
			sv.Connectivity, v.Connectivity)
	}
}

func TestBranchingOfCross(t *testing.T) {
	m := NewMeasurer(DefaultMeasurerConfig())
	// A plus sign skeletonizes to one junction with four endpoints.
	bm := raster.New(33, 33)
	for i := 0; i < 33; i++ {
		bm.Set(i, 16)
		bm.Set(16, i)
	}
	v, err := m.Measure(bm)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if v.Branching <= 0 {
		t.Fatalf("cross should have positive branching, got %s", v)
	}

	line, err := m.Measure(horizontalLine(33))
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if line.Branching != 0 {
		t.Fatalf("plain line branching = %.3f, want 0", line.Branching)
	}
}
