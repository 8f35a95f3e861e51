// Package render embodies a formula candidate: it recursively evaluates the
// candidate's family rule into a fixed-resolution bitmap.
package render

// #region imports
import (
	"errors"
	"fmt"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/raster"
)

// #endregion

// #region errors

// ErrRender marks a failed embodiment attempt: depth or element budget
// exceeded, or an unusable candidate. Local to the attempt, never fatal to
// a run.
var ErrRender = errors.New("render: embodiment failed")

// #endregion

// #region config

// RendererConfig bounds one embodiment.
type RendererConfig struct {
	// Resolution is the square raster edge length in pixels.
	Resolution int
	// MaxDepth caps the recursion depth accepted by Render.
	MaxDepth int
	// ElementBudget caps the number of drawing primitives per render.
	ElementBudget int
}

// DefaultRendererConfig returns the standard 256×256 raster with a depth
// cap of 8 and a generous element budget.
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		Resolution:    256,
		MaxDepth:      8,
		ElementBudget: 1 << 20,
	}
}

// #endregion

// #region renderer

// Renderer turns candidates into bitmaps. Deterministic: equal
// (candidate, depth, config) always yields the identical bitmap.
type Renderer struct {
	catalog *catalog.Catalog
	config  RendererConfig
}

// NewRenderer creates a renderer over the given catalog.
func NewRenderer(cat *catalog.Catalog, config RendererConfig) *Renderer {
	if config.Resolution <= 0 {
		config.Resolution = 256
	}
	if config.ElementBudget <= 0 {
		config.ElementBudget = 1 << 20
	}
	return &Renderer{catalog: cat, config: config}
}

// Render evaluates the candidate at the given recursion depth.
func (r *Renderer) Render(c catalog.Candidate, depth int) (*raster.Bitmap, error) {
	if depth < 0 || depth > r.config.MaxDepth {
		return nil, fmt.Errorf("%w: depth %d outside [0, %d]", ErrRender, depth, r.config.MaxDepth)
	}
	fam, ok := r.catalog.Lookup(c.FamilyID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown family %q", ErrRender, c.FamilyID)
	}
	params, err := catalog.ValidateParams(fam.Schema(), c.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %q params: %v", ErrRender, c.FamilyID, err)
	}

	plot := newBitmapPlotter(r.config.Resolution, r.config.ElementBudget)
	if err := fam.Evaluate(params, depth, plot); err != nil {
		return nil, fmt.Errorf("%w: evaluate %q: %v", ErrRender, c.FamilyID, err)
	}
	if plot.Exhausted() {
		return nil, fmt.Errorf("%w: element budget %d exceeded for %q at depth %d",
			ErrRender, r.config.ElementBudget, c.FamilyID, depth)
	}
	return plot.bitmap, nil
}

// #endregion
