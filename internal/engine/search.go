package engine

// #region imports
import (
	"context"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/invariant"
	"github.com/uago3c/uago/internal/refine"
)

// #endregion

// #region candidate-search

// candidateSearch is the perturbation policy for rejected candidates:
// the first cycle takes the matcher's pick, later cycles walk the catalog
// eligible-first skipping families already tried, and once every family
// has been tried the search re-runs the best family so far with locally
// refined parameters one depth level deeper. Deterministic throughout.
type candidateSearch struct {
	catalog  *catalog.Catalog
	matcher  *catalog.Matcher
	local    *refine.LocalRefiner
	original invariant.Vector

	depth    int
	maxDepth int
	first    bool
	tried    map[string]bool

	best     *catalog.Candidate
	bestDist float64
}

func newCandidateSearch(
	cat *catalog.Catalog,
	matcher *catalog.Matcher,
	local *refine.LocalRefiner,
	config Config,
	original invariant.Vector,
) *candidateSearch {
	return &candidateSearch{
		catalog:  cat,
		matcher:  matcher,
		local:    local,
		original: original,
		depth:    config.BaseDepth,
		maxDepth: config.MaxDepth,
		first:    true,
		tried:    make(map[string]bool),
	}
}

// next produces the candidate and depth for the coming cycle.
func (s *candidateSearch) next() (catalog.Candidate, int) {
	if s.first {
		s.first = false
		c := s.matcher.Match(s.original)
		s.tried[c.FamilyID] = true
		return c, s.depth
	}

	for _, f := range s.catalog.Ordered(s.original) {
		if s.tried[f.ID()] {
			continue
		}
		s.tried[f.ID()] = true
		return catalog.Candidate{FamilyID: f.ID(), Params: f.DefaultParams(s.original)}, s.depth
	}

	// Every family tried at this depth: deepen and refine the best seen.
	if s.depth < s.maxDepth {
		s.depth++
	}
	if s.best != nil {
		refined, _ := s.local.Refine(context.Background(), s.original, *s.best)
		return refined, s.depth
	}

	// Nothing ever validated; start the family walk over.
	s.tried = make(map[string]bool)
	c := s.matcher.Match(s.original)
	s.tried[c.FamilyID] = true
	return c, s.depth
}

// record notes a validated-but-rejected candidate and keeps the best.
func (s *candidateSearch) record(c catalog.Candidate, distance float64) {
	if s.best == nil || distance < s.bestDist {
		cc := catalog.Candidate{FamilyID: c.FamilyID, Params: c.Params.Clone()}
		s.best = &cc
		s.bestDist = distance
	}
}

// reject marks a family whose embodiment failed so the same depth does not
// retry it.
func (s *candidateSearch) reject(familyID string) {
	s.tried[familyID] = true
}

// #endregion
