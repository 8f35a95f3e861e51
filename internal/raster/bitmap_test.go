package raster

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewBitmapIsBlank(t *testing.T) {
	bm := New(8, 8)
	if bm.Foreground() != 0 {
		t.Fatalf("new bitmap should be blank, got %d foreground pixels", bm.Foreground())
	}
}

func TestAtOutOfBoundsIsBackground(t *testing.T) {
	bm := New(4, 4)
	bm.Set(0, 0)
	if bm.At(-1, 0) || bm.At(4, 0) || bm.At(0, -1) || bm.At(0, 4) {
		t.Fatal("out-of-bounds reads must be background")
	}
}

func TestSetClearRoundTrip(t *testing.T) {
	bm := New(4, 4)
	bm.Set(2, 3)
	if !bm.At(2, 3) {
		t.Fatal("set pixel not readable")
	}
	bm.Clear(2, 3)
	if bm.At(2, 3) {
		t.Fatal("cleared pixel still foreground")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	bm := New(4, 4)
	bm.Set(1, 1)
	c := bm.Clone()
	c.Clear(1, 1)
	if !bm.At(1, 1) {
		t.Fatal("clearing the clone mutated the original")
	}
}

func TestGridMatchesBits(t *testing.T) {
	bm := New(3, 2)
	bm.Set(0, 0)
	bm.Set(2, 1)
	g := bm.Grid()
	if len(g) != 2 || len(g[0]) != 3 {
		t.Fatalf("grid shape %dx%d, want 2x3", len(g), len(g[0]))
	}
	if g[0][0] != 1 || g[1][2] != 1 || g[0][1] != 0 {
		t.Fatalf("grid content mismatch: %v", g)
	}
}

func TestFromImageBlackOnWhite(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	// A dark diagonal on a light background.
	for i := 0; i < 16; i++ {
		img.SetGray(i, i, color.Gray{Y: 10})
	}

	bm, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if bm.Foreground() != 16 {
		t.Fatalf("expected the 16 dark pixels as foreground, got %d", bm.Foreground())
	}
	if !bm.At(0, 0) || !bm.At(15, 15) {
		t.Fatal("diagonal pixels should be foreground")
	}
}

func TestFromImageWhiteOnBlack(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	// Light diagonal on a dark background: polarity must flip so the
	// minority shade stays the foreground.
	for i := 0; i < 16; i++ {
		img.SetGray(i, i, color.Gray{Y: 245})
	}

	bm, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if bm.Foreground() != 16 {
		t.Fatalf("expected 16 foreground pixels after polarity flip, got %d", bm.Foreground())
	}
	if !bm.At(3, 3) {
		t.Fatal("diagonal should be foreground regardless of polarity")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	if !errors.Is(err, ErrInput) {
		t.Fatalf("expected ErrInput, got %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	bm := New(32, 32)
	for i := 0; i < 32; i++ {
		bm.Set(i, 16)
	}

	var buf bytes.Buffer
	if err := bm.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	back, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if back.W != 32 || back.H != 32 {
		t.Fatalf("decoded size %dx%d, want 32x32", back.W, back.H)
	}
	if back.Foreground() != 32 {
		t.Fatalf("decoded foreground %d, want 32", back.Foreground())
	}
	for i := 0; i < 32; i++ {
		if !back.At(i, 16) {
			t.Fatalf("pixel (%d,16) lost in round trip", i)
		}
	}
}
