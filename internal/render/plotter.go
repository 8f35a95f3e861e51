package render

// #region imports
import (
	"math"

	"github.com/uago3c/uago/internal/raster"
)

// #endregion

// #region bitmap-plotter

// bitmapPlotter rasterizes unit-space primitives into a square bitmap,
// charging each primitive against a fixed element budget.
type bitmapPlotter struct {
	bitmap    *raster.Bitmap
	size      int
	remaining int
	exhausted bool
}

func newBitmapPlotter(size, budget int) *bitmapPlotter {
	return &bitmapPlotter{
		bitmap:    raster.New(size, size),
		size:      size,
		remaining: budget,
	}
}

func (p *bitmapPlotter) Size() int       { return p.size }
func (p *bitmapPlotter) Exhausted() bool { return p.exhausted }

// charge debits one element; returns false once the budget ran out.
func (p *bitmapPlotter) charge() bool {
	if p.exhausted {
		return false
	}
	if p.remaining <= 0 {
		p.exhausted = true
		return false
	}
	p.remaining--
	return true
}

// px maps a unit coordinate to a pixel index.
func (p *bitmapPlotter) px(v float64) int {
	return int(v * float64(p.size))
}

// #endregion

// #region primitives

func (p *bitmapPlotter) SetPoint(x, y float64) {
	if !p.charge() {
		return
	}
	p.bitmap.Set(p.px(x), p.px(y))
}

// Line draws with integer Bresenham over the mapped endpoints.
func (p *bitmapPlotter) Line(x0, y0, x1, y1 float64) {
	if !p.charge() {
		return
	}
	ix0, iy0 := p.px(x0), p.px(y0)
	ix1, iy1 := p.px(x1), p.px(y1)

	dx := abs(ix1 - ix0)
	dy := -abs(iy1 - iy0)
	sx, sy := 1, 1
	if ix0 > ix1 {
		sx = -1
	}
	if iy0 > iy1 {
		sy = -1
	}
	errAcc := dx + dy
	for {
		p.bitmap.Set(ix0, iy0)
		if ix0 == ix1 && iy0 == iy1 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			ix0 += sx
		}
		if e2 <= dx {
			errAcc += dx
			iy0 += sy
		}
	}
}

func (p *bitmapPlotter) FillRect(x0, y0, x1, y1 float64) {
	if !p.charge() {
		return
	}
	ix0, iy0 := p.px(math.Min(x0, x1)), p.px(math.Min(y0, y1))
	ix1, iy1 := p.px(math.Max(x0, x1)), p.px(math.Max(y0, y1))
	for y := iy0; y <= iy1; y++ {
		for x := ix0; x <= ix1; x++ {
			p.bitmap.Set(x, y)
		}
	}
}

// FillTriangle scans the bounding box and keeps pixels whose barycentric
// signs agree.
func (p *bitmapPlotter) FillTriangle(ax, ay, bx, by, cx, cy float64) {
	if !p.charge() {
		return
	}
	fax, fay := ax*float64(p.size), ay*float64(p.size)
	fbx, fby := bx*float64(p.size), by*float64(p.size)
	fcx, fcy := cx*float64(p.size), cy*float64(p.size)

	minX := int(math.Floor(min3(fax, fbx, fcx)))
	maxX := int(math.Ceil(max3(fax, fbx, fcx)))
	minY := int(math.Floor(min3(fay, fby, fcy)))
	maxY := int(math.Ceil(max3(fay, fby, fcy)))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			d1 := edgeSign(px, py, fax, fay, fbx, fby)
			d2 := edgeSign(px, py, fbx, fby, fcx, fcy)
			d3 := edgeSign(px, py, fcx, fcy, fax, fay)
			hasNeg := d1 < 0 || d2 < 0 || d3 < 0
			hasPos := d1 > 0 || d2 > 0 || d3 > 0
			if !(hasNeg && hasPos) {
				p.bitmap.Set(x, y)
			}
		}
	}
}

// #endregion

// #region helpers

func edgeSign(px, py, ax, ay, bx, by float64) float64 {
	return (px-bx)*(ay-by) - (ax-bx)*(py-by)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }

// #endregion
