package invariant

import "github.com/uago3c/uago/internal/raster"

// Skeletonize reduces the foreground to a one-pixel-wide skeleton using
// Zhang-Suen thinning. The input bitmap is not modified.
func Skeletonize(bm *raster.Bitmap) *raster.Bitmap {
	skel := bm.Clone()

	for {
		removed := thinPass(skel, 0)
		removed += thinPass(skel, 1)
		if removed == 0 {
			return skel
		}
	}
}

// thinPass runs one Zhang-Suen sub-iteration (phase 0 or 1) and returns the
// number of pixels removed.
func thinPass(bm *raster.Bitmap, phase int) int {
	type pt struct{ x, y int }
	var doomed []pt

	for y := 0; y < bm.H; y++ {
		for x := 0; x < bm.W; x++ {
			if !bm.At(x, y) {
				continue
			}
			// Clockwise 8-neighborhood starting north: p2..p9.
			p := [8]bool{
				bm.At(x, y-1), bm.At(x+1, y-1), bm.At(x+1, y), bm.At(x+1, y+1),
				bm.At(x, y+1), bm.At(x-1, y+1), bm.At(x-1, y), bm.At(x-1, y-1),
			}

			b := 0
			for _, v := range p {
				if v {
					b++
				}
			}
			if b < 2 || b > 6 {
				continue
			}

			// Number of 0→1 transitions around the ring.
			a := 0
			for i := 0; i < 8; i++ {
				if !p[i] && p[(i+1)%8] {
					a++
				}
			}
			if a != 1 {
				continue
			}

			// Phase-dependent connectivity conditions (p2,p4,p6,p8 = N,E,S,W).
			var c1, c2 bool
			if phase == 0 {
				c1 = !p[0] || !p[2] || !p[4]
				c2 = !p[2] || !p[4] || !p[6]
			} else {
				c1 = !p[0] || !p[2] || !p[6]
				c2 = !p[0] || !p[4] || !p[6]
			}
			if c1 && c2 {
				doomed = append(doomed, pt{x, y})
			}
		}
	}

	for _, d := range doomed {
		bm.Clear(d.x, d.y)
	}
	return len(doomed)
}
