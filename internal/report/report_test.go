package report

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/engine"
	"github.com/uago3c/uago/internal/invariant"
)

func fixedRun() engine.Run {
	return engine.Run{
		ID:       "run-0001",
		Original: invariant.Vector{FractalDim: 1.5, Symmetry: 0.75, Branching: 0.25, Connectivity: 0.01},
		Attempts: []engine.Attempt{
			{
				Num:       1,
				Candidate: catalog.Candidate{FamilyID: "koch-curve", Params: catalog.Params{"amplitude": 0.4}},
				Depth:     4,
				Measured:  invariant.Vector{FractalDim: 1.2, Symmetry: 0.5, Branching: 0, Connectivity: 0.02},
				Distance:  0.5,
				Accepted:  false,
			},
			{
				Num:       2,
				Candidate: catalog.Candidate{FamilyID: "sierpinski-triangle", Params: catalog.Params{"span": 1}},
				Depth:     4,
				Measured:  invariant.Vector{FractalDim: 1.5, Symmetry: 0.75, Branching: 0.25, Connectivity: 0.01},
				Distance:  0,
				Accepted:  true,
			},
		},
		Selected:   1,
		Verdict:    engine.VerdictAccepted,
		Cycles:     2,
		StartedAt:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 8, 30, 12, 0, 5, 0, time.UTC),
	}
}

func TestFromRunMapsFields(t *testing.T) {
	rep := FromRun(fixedRun(), "fern.png")

	assert.Equal(t, "run-0001", rep.RunID)
	assert.Equal(t, "fern.png", rep.Source)
	assert.Equal(t, engine.VerdictAccepted, rep.Verdict)
	assert.Equal(t, 2, rep.Cycles)
	require.Len(t, rep.Attempts, 2)
	assert.Equal(t, "koch-curve", rep.Attempts[0].FamilyID)
	assert.False(t, rep.Attempts[0].Accepted)
	assert.Equal(t, "sierpinski-triangle", rep.Attempts[1].FamilyID)
	assert.True(t, rep.Attempts[1].Accepted)
	require.NotNil(t, rep.Selected)
	assert.Equal(t, 2, *rep.Selected, "selected attempt is identified by 1-based number")
}

func TestFromRunNoSelection(t *testing.T) {
	run := fixedRun()
	run.Selected = -1
	run.Verdict = engine.VerdictExhausted

	rep := FromRun(run, "")
	assert.Nil(t, rep.Selected)
	assert.Empty(t, rep.Source)
}

func TestMarshalGolden(t *testing.T) {
	rep := FromRun(fixedRun(), "fern.png")
	data, err := Marshal(rep)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "accepted_run", append(data, '\n'))
}
