// Package report turns finalized runs into the structured record consumed
// by external persistence and visualization collaborators.
package report

// #region imports
import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/engine"
	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// #region types

// Report is the canonical JSON record of one run.
type Report struct {
	RunID      string           `json:"run_id"`
	Source     string           `json:"source,omitempty"`
	Verdict    engine.Verdict   `json:"verdict"`
	Original   invariant.Vector `json:"original_invariants"`
	Attempts   []AttemptRecord  `json:"attempts"`
	Selected   *int             `json:"selected_attempt,omitempty"` // attempt num, 1-based
	Cycles     int              `json:"cycles"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
}

// AttemptRecord is one attempt inside a report.
type AttemptRecord struct {
	Num      int              `json:"num"`
	FamilyID string           `json:"family"`
	Params   catalog.Params   `json:"params"`
	Depth    int              `json:"depth"`
	Measured invariant.Vector `json:"invariants"`
	Distance float64          `json:"distance"`
	Accepted bool             `json:"accepted"`
}

// #endregion

// #region build

// FromRun assembles the report for a finalized run.
func FromRun(run engine.Run, source string) Report {
	rep := Report{
		RunID:      run.ID,
		Source:     source,
		Verdict:    run.Verdict,
		Original:   run.Original,
		Attempts:   make([]AttemptRecord, 0, len(run.Attempts)),
		Cycles:     run.Cycles,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
	}
	for _, a := range run.Attempts {
		rep.Attempts = append(rep.Attempts, AttemptRecord{
			Num:      a.Num,
			FamilyID: a.Candidate.FamilyID,
			Params:   a.Candidate.Params,
			Depth:    a.Depth,
			Measured: a.Measured,
			Distance: a.Distance,
			Accepted: a.Accepted,
		})
	}
	if sel := run.SelectedAttempt(); sel != nil {
		num := sel.Num
		rep.Selected = &num
	}
	return rep
}

// Marshal renders the report as indented JSON.
func Marshal(rep Report) ([]byte, error) {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

// #endregion
