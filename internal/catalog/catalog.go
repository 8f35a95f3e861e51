// Package catalog holds the registry of parametric generative-formula
// families and the rule-based matcher that maps a measured invariant vector
// to a best-fit candidate formula.
package catalog

// #region imports
import (
	"fmt"
	"sort"

	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// #region params

// Params binds named parameter values for one formula family.
type Params map[string]float64

// Clone returns an independent copy.
func (p Params) Clone() Params {
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// ParamSpec declares one named parameter with its valid range.
type ParamSpec struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// ValidateParams checks p against a schema: unknown names and out-of-range
// values are rejected, missing names fall back to defaults in the returned
// copy. The input is not modified.
func ValidateParams(schema []ParamSpec, p Params) (Params, error) {
	known := make(map[string]ParamSpec, len(schema))
	for _, s := range schema {
		known[s.Name] = s
	}
	for name, val := range p {
		s, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown parameter %q", name)
		}
		if val < s.Min || val > s.Max {
			return nil, fmt.Errorf("parameter %q = %v outside [%v, %v]", name, val, s.Min, s.Max)
		}
	}
	out := make(Params, len(schema))
	for _, s := range schema {
		if v, ok := p[s.Name]; ok {
			out[s.Name] = v
		} else {
			out[s.Name] = s.Default
		}
	}
	return out, nil
}

// #endregion

// #region candidate

// Candidate pairs a family with concrete parameter bindings. Candidates are
// never mutated after creation; refinement produces a new one.
type Candidate struct {
	FamilyID string `json:"family"`
	Params   Params `json:"params"`
}

// #endregion

// #region plotter

// Plotter is the drawing surface a family evaluates into. Coordinates are
// normalized to [0,1]×[0,1]; the renderer owns rasterization and the element
// budget. Primitives past the budget are dropped and Exhausted flips true.
type Plotter interface {
	// Line draws a unit-space segment.
	Line(x0, y0, x1, y1 float64)
	// FillRect fills the axis-aligned unit-space rectangle.
	FillRect(x0, y0, x1, y1 float64)
	// FillTriangle fills the unit-space triangle abc.
	FillTriangle(ax, ay, bx, by, cx, cy float64)
	// SetPoint marks a single unit-space point.
	SetPoint(x, y float64)
	// Size returns the raster edge length in pixels, for families that
	// evaluate per pixel.
	Size() int
	// Exhausted reports that the element budget ran out.
	Exhausted() bool
}

// #endregion

// #region family

// Family is one parametric generative rule. Eligible is a closed-form
// predicate over invariant ranges; DefaultParams derives initial bindings
// from the measured invariants; Evaluate deterministically draws the
// formula at the given recursion depth.
type Family interface {
	ID() string
	Eligible(v invariant.Vector) bool
	Schema() []ParamSpec
	DefaultParams(v invariant.Vector) Params
	Evaluate(p Params, depth int, plot Plotter) error
}

// #endregion

// #region catalog

// Catalog is a fixed, priority-ordered family registry. The last entry is
// the designated fallback used when nothing matches.
type Catalog struct {
	families []Family
	byID     map[string]Family
}

// New builds the default catalog. Priority order runs from the most
// discriminating predicates down to the space-filling fallback.
func New() *Catalog {
	return build(
		&BranchingTree{},
		&FernFrond{},
		&CantorDust{},
		&KochSnowflake{},
		&KochCurve{},
		&VicsekCross{},
		&DragonCurve{},
		&SierpinskiTriangle{},
		&SierpinskiCarpet{},
		&LevyCurve{},
		&JuliaSet{},
		&HilbertCurve{},
	)
}

func build(families ...Family) *Catalog {
	byID := make(map[string]Family, len(families))
	for _, f := range families {
		if _, dup := byID[f.ID()]; dup {
			panic(fmt.Sprintf("catalog: duplicate family id %q", f.ID()))
		}
		byID[f.ID()] = f
	}
	return &Catalog{families: families, byID: byID}
}

// Families returns the priority-ordered registry.
func (c *Catalog) Families() []Family {
	return c.families
}

// Lookup finds a family by id.
func (c *Catalog) Lookup(id string) (Family, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// Fallback returns the designated default family.
func (c *Catalog) Fallback() Family {
	return c.families[len(c.families)-1]
}

// Ordered returns all families, eligible ones first, each group keeping
// catalog priority order. The engine walks this list when perturbing a
// rejected candidate.
func (c *Catalog) Ordered(v invariant.Vector) []Family {
	out := make([]Family, len(c.families))
	copy(out, c.families)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Eligible(v) && !out[j].Eligible(v)
	})
	return out
}

// #endregion

// #region matcher

// Advisor breaks ties between eligible families using recorded outcomes.
// Prefer returns one of the given ids, or "" for no preference.
type Advisor interface {
	Prefer(eligible []string) string
}

// Matcher maps an invariant vector to a candidate formula. It never fails:
// when no family is eligible it falls back to the catalog default.
type Matcher struct {
	catalog *Catalog
	advisor Advisor // nil = pure priority order
}

// NewMatcher creates a matcher. advisor may be nil.
func NewMatcher(cat *Catalog, advisor Advisor) *Matcher {
	return &Matcher{catalog: cat, advisor: advisor}
}

// Match returns the first eligible family in priority order with parameters
// derived from the invariants. An advisor, when present and holding enough
// recorded outcomes, may promote a different eligible family.
func (m *Matcher) Match(v invariant.Vector) Candidate {
	var eligible []Family
	for _, f := range m.catalog.families {
		if f.Eligible(v) {
			eligible = append(eligible, f)
		}
	}

	var chosen Family
	switch {
	case len(eligible) == 0:
		chosen = m.catalog.Fallback()
	case len(eligible) == 1:
		chosen = eligible[0]
	default:
		chosen = eligible[0]
		if m.advisor != nil {
			ids := make([]string, len(eligible))
			for i, f := range eligible {
				ids[i] = f.ID()
			}
			if pref := m.advisor.Prefer(ids); pref != "" {
				if f, ok := m.catalog.Lookup(pref); ok && f.Eligible(v) {
					chosen = f
				}
			}
		}
	}

	return Candidate{FamilyID: chosen.ID(), Params: chosen.DefaultParams(v)}
}

// #endregion
