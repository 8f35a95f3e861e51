// Package validate closes the cycle: it re-measures an embodied bitmap
// through the same invariant measurer used on the original image and
// decides acceptance against a fixed tolerance.
package validate

// #region imports
import (
	"fmt"

	"github.com/uago3c/uago/internal/invariant"
	"github.com/uago3c/uago/internal/raster"
)

// #endregion

// #region config

// ValidatorConfig fixes the distance weighting and acceptance tolerance.
type ValidatorConfig struct {
	Weights   invariant.Weights
	Tolerance float64
}

// DefaultValidatorConfig returns the standard weighting with a tolerance
// loose enough to absorb rasterization noise but tight enough to reject a
// mismatched family.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		Weights:   invariant.DefaultWeights(),
		Tolerance: 0.35,
	}
}

// #endregion

// #region result

// Result is one validation verdict.
type Result struct {
	Rendered invariant.Vector
	Distance float64
	Accepted bool
}

// #endregion

// #region validator

// Validator compares an original invariant vector against the re-measured
// invariants of a rendered bitmap.
type Validator struct {
	measurer *invariant.Measurer
	config   ValidatorConfig
}

// NewValidator creates a validator sharing the given measurer, which
// guarantees the rendered image is measured under the same contract as the
// original.
func NewValidator(m *invariant.Measurer, config ValidatorConfig) *Validator {
	if config.Tolerance <= 0 {
		config.Tolerance = DefaultValidatorConfig().Tolerance
	}
	return &Validator{measurer: m, config: config}
}

// Check re-measures the rendered bitmap and scores it against the original.
func (v *Validator) Check(original invariant.Vector, rendered *raster.Bitmap) (Result, error) {
	vec, err := v.measurer.Measure(rendered)
	if err != nil {
		return Result{}, fmt.Errorf("measure rendered: %w", err)
	}
	dist := invariant.Distance(original, vec, v.config.Weights)
	return Result{
		Rendered: vec,
		Distance: dist,
		Accepted: dist <= v.config.Tolerance,
	}, nil
}

// Tolerance returns the fixed acceptance tolerance.
func (v *Validator) Tolerance() float64 {
	return v.config.Tolerance
}

// #endregion
