package render

import (
	"errors"
	"testing"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/invariant"
	"github.com/uago3c/uago/internal/raster"
)

func testRenderer() *Renderer {
	return NewRenderer(catalog.New(), RendererConfig{
		Resolution:    128,
		MaxDepth:      6,
		ElementBudget: 1 << 20,
	})
}

func bitmapsEqual(a, b *raster.Bitmap) bool {
	if a.W != b.W || a.H != b.H {
		return false
	}
	for y := 0; y < a.H; y++ {
		for x := 0; x < a.W; x++ {
			if a.At(x, y) != b.At(x, y) {
				return false
			}
		}
	}
	return true
}

func TestRenderEveryFamilyProducesForeground(t *testing.T) {
	r := testRenderer()
	for _, fam := range catalog.New().Families() {
		c := catalog.Candidate{
			FamilyID: fam.ID(),
			Params:   fam.DefaultParams(invariant.Vector{}),
		}
		bm, err := r.Render(c, 2)
		if err != nil {
			t.Fatalf("render %q: %v", fam.ID(), err)
		}
		if bm.Foreground() == 0 {
			t.Fatalf("family %q rendered a blank bitmap", fam.ID())
		}
		if bm.W != 128 || bm.H != 128 {
			t.Fatalf("family %q rendered %dx%d, want 128x128", fam.ID(), bm.W, bm.H)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	r := testRenderer()
	c := catalog.Candidate{FamilyID: "sierpinski-triangle", Params: catalog.Params{"span": 1.0}}
	a, err := r.Render(c, 4)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := r.Render(c, 4)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bitmapsEqual(a, b) {
		t.Fatal("identical candidate and depth rendered different bitmaps")
	}
}

func TestRenderRejectsUnknownFamily(t *testing.T) {
	r := testRenderer()
	_, err := r.Render(catalog.Candidate{FamilyID: "moebius-strip"}, 2)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender for unknown family, got %v", err)
	}
}

func TestRenderRejectsBadDepth(t *testing.T) {
	r := testRenderer()
	c := catalog.Candidate{FamilyID: "koch-curve", Params: catalog.Params{"amplitude": 1.0 / 3}}
	if _, err := r.Render(c, -1); !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender for negative depth, got %v", err)
	}
	if _, err := r.Render(c, 7); !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender beyond MaxDepth, got %v", err)
	}
}

func TestRenderRejectsBadParams(t *testing.T) {
	r := testRenderer()
	c := catalog.Candidate{FamilyID: "koch-curve", Params: catalog.Params{"amplitude": 5.0}}
	if _, err := r.Render(c, 2); !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender for out-of-range params, got %v", err)
	}
}

func TestRenderElementBudgetExceeded(t *testing.T) {
	tight := NewRenderer(catalog.New(), RendererConfig{
		Resolution:    128,
		MaxDepth:      8,
		ElementBudget: 10,
	})
	// Depth 6 Sierpinski needs 3^6 triangles, far past a 10-element budget.
	c := catalog.Candidate{FamilyID: "sierpinski-triangle", Params: catalog.Params{"span": 1.0}}
	_, err := tight.Render(c, 6)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender when the budget runs out, got %v", err)
	}
}

func TestRenderDepthZeroDrawsSeed(t *testing.T) {
	r := testRenderer()
	c := catalog.Candidate{FamilyID: "sierpinski-carpet", Params: catalog.Params{"span": 0.9}}
	bm, err := r.Render(c, 0)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// Depth 0 fills the whole seed square.
	if bm.Foreground() < 128*128/2 {
		t.Fatalf("depth-0 carpet should be mostly solid, got %d foreground pixels", bm.Foreground())
	}
}
