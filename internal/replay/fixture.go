// Package replay drives the cycle engine from recorded invariant vectors,
// replacing the measurement and rendering stages with deterministic stubs.
// Fixtures pin down orchestrator behavior without touching real images.
package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/uago3c/uago/internal/engine"
	"github.com/uago3c/uago/internal/invariant"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay run. The rendered
// vectors are consumed one per validated attempt, in order; the last one
// repeats when the engine outlives the script.
type Fixture struct {
	Description string             `json:"description"`
	Config      FixtureConfig      `json:"config"`
	Tolerance   float64            `json:"tolerance"`
	Original    invariant.Vector   `json:"original"`
	Rendered    []invariant.Vector `json:"rendered"`
	Expected    FixtureExpected    `json:"expected"`
}

// FixtureConfig mirrors engine.Config with JSON tags.
type FixtureConfig struct {
	MaxAttempts int `json:"max_attempts"`
	BaseDepth   int `json:"base_depth"`
	MaxDepth    int `json:"max_depth"`
}

// FixtureExpected captures the asserted outcome.
type FixtureExpected struct {
	Verdict  engine.Verdict `json:"verdict"`
	Attempts int            `json:"attempts"`
}

// EngineConfig converts the fixture config for the orchestrator.
func (fc FixtureConfig) EngineConfig() engine.Config {
	return engine.Config{
		MaxAttempts: fc.MaxAttempts,
		BaseDepth:   fc.BaseDepth,
		MaxDepth:    fc.MaxDepth,
	}
}

// #endregion

// #region fixture-loader

// LoadFixture reads and validates a fixture file.
func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.Config.MaxAttempts < 1 {
		return Fixture{}, fmt.Errorf("fixture %s: max_attempts must be >= 1", path)
	}
	if len(f.Rendered) == 0 {
		return Fixture{}, fmt.Errorf("fixture %s: needs at least one rendered vector", path)
	}
	if f.Tolerance <= 0 {
		f.Tolerance = 0.35
	}
	return f, nil
}

// #endregion
