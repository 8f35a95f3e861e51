package raster

// #region imports
import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	_ "image/gif"
	_ "image/jpeg"
)

// #endregion

// #region errors

// ErrInput marks an image that cannot be turned into a usable raster.
// It is fatal to a run: there is nothing to discover from it.
var ErrInput = errors.New("raster: unusable input image")

// #endregion

// #region bitmap

// Bitmap is a binarized raster: true = foreground, false = background.
// Rows are stored row-major; a Bitmap is never mutated after construction
// by the measurement pipeline.
type Bitmap struct {
	W, H int
	bits []bool
}

// New creates an all-background bitmap of the given size.
func New(w, h int) *Bitmap {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("raster: invalid bitmap size %dx%d", w, h))
	}
	return &Bitmap{W: w, H: h, bits: make([]bool, w*h)}
}

// At reports whether (x, y) is foreground. Out-of-bounds reads are background.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return false
	}
	return b.bits[y*b.W+x]
}

// Set marks (x, y) as foreground. Out-of-bounds writes are dropped.
func (b *Bitmap) Set(x, y int) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.bits[y*b.W+x] = true
}

// Clear marks (x, y) as background. Out-of-bounds writes are dropped.
func (b *Bitmap) Clear(x, y int) {
	if x < 0 || x >= b.W || y < 0 || y >= b.H {
		return
	}
	b.bits[y*b.W+x] = false
}

// Foreground returns the number of foreground pixels.
func (b *Bitmap) Foreground() int {
	n := 0
	for _, v := range b.bits {
		if v {
			n++
		}
	}
	return n
}

// Grid exports the bitmap as a 2D int grid (1 = foreground, 0 = background),
// the shape expected by gridgraph.
func (b *Bitmap) Grid() [][]int {
	g := make([][]int, b.H)
	for y := 0; y < b.H; y++ {
		row := make([]int, b.W)
		for x := 0; x < b.W; x++ {
			if b.bits[y*b.W+x] {
				row[x] = 1
			}
		}
		g[y] = row
	}
	return g
}

// Clone returns a deep copy.
func (b *Bitmap) Clone() *Bitmap {
	c := New(b.W, b.H)
	copy(c.bits, b.bits)
	return c
}

// #endregion

// #region decode

// Decode reads an encoded image (PNG, JPEG or GIF) and binarizes it.
// A stream that cannot be decoded, or decodes to an empty raster,
// returns ErrInput.
func Decode(r io.Reader) (*Bitmap, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInput, err)
	}
	return FromImage(img)
}

// FromImage binarizes a decoded image via Otsu thresholding.
func FromImage(img image.Image) (*Bitmap, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: zero-sized image", ErrInput)
	}

	gray := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			gray[y*w+x] = c.Y
		}
	}

	threshold := otsu(gray)
	bm := New(w, h)
	for i, v := range gray {
		if v > threshold {
			bm.bits[i] = true
		}
	}

	// White-on-black vs black-on-white: treat the minority shade as foreground
	// so line drawings binarize the same way regardless of polarity.
	if fg := bm.Foreground(); fg > len(bm.bits)/2 {
		for i := range bm.bits {
			bm.bits[i] = !bm.bits[i]
		}
	}
	return bm, nil
}

// otsu picks the threshold minimizing intra-class variance over the
// 256-bin grayscale histogram.
func otsu(gray []uint8) uint8 {
	var hist [256]int
	for _, v := range gray {
		hist[v]++
	}
	total := len(gray)

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	bestVar, best := -1.0, 0
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return uint8(best)
}

// #endregion

// #region encode

// EncodePNG writes the bitmap as a black-on-white PNG.
func (b *Bitmap) EncodePNG(w io.Writer) error {
	img := image.NewGray(image.Rect(0, 0, b.W, b.H))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if b.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// #endregion
