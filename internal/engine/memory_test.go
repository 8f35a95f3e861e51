package engine

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/uago3c/uago/internal/catalog"
)

func openMemory(t *testing.T) *FamilyMemory {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.TempDir()+"/outcomes.db")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m, err := NewFamilyMemory(db)
	if err != nil {
		t.Fatalf("NewFamilyMemory: %v", err)
	}
	return m
}

func runWithOutcomes(id string, outcomes map[string]float64) Run {
	run := Run{
		ID:         id,
		Verdict:    VerdictExhausted,
		FinishedAt: time.Now().UTC(),
	}
	num := 0
	for family, distance := range outcomes {
		num++
		run.Attempts = append(run.Attempts, Attempt{
			Num:       num,
			Candidate: catalog.Candidate{FamilyID: family, Params: catalog.Params{}},
			Distance:  distance,
		})
	}
	return run
}

func TestPreferEmptyMemory(t *testing.T) {
	m := openMemory(t)
	if got := m.Prefer([]string{"koch-curve", "koch-snowflake"}); got != "" {
		t.Fatalf("empty memory preferred %q, want no preference", got)
	}
}

func TestPreferRequiresMinimumSamples(t *testing.T) {
	m := openMemory(t)
	// Two outcomes: still below the sample floor.
	for i := 0; i < 2; i++ {
		if err := m.RecordRun(runWithOutcomes("run-a", map[string]float64{"koch-curve": 0.1})); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}
	if got := m.Prefer([]string{"koch-curve"}); got != "" {
		t.Fatalf("preferred %q with too few samples", got)
	}
}

func TestPreferLowestMeanDistance(t *testing.T) {
	m := openMemory(t)
	for i := 0; i < 3; i++ {
		err := m.RecordRun(runWithOutcomes("run-b", map[string]float64{
			"koch-curve":     0.8,
			"koch-snowflake": 0.2,
		}))
		if err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	got := m.Prefer([]string{"koch-curve", "koch-snowflake"})
	if got != "koch-snowflake" {
		t.Fatalf("preferred %q, want koch-snowflake with the lower mean distance", got)
	}
}

func TestPreferIgnoresFamiliesOutsideEligibleSet(t *testing.T) {
	m := openMemory(t)
	for i := 0; i < 3; i++ {
		err := m.RecordRun(runWithOutcomes("run-c", map[string]float64{
			"julia-set": 0.01,
		}))
		if err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	if got := m.Prefer([]string{"koch-curve"}); got != "" {
		t.Fatalf("preferred %q, but only koch-curve was eligible", got)
	}
}
