package engine

// #region imports
import (
	"database/sql"
	"math"
	"time"
)

// #endregion

// #region schema

const familyOutcomesSchema = `
CREATE TABLE IF NOT EXISTS family_outcomes (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id       TEXT NOT NULL,
    family_id    TEXT NOT NULL,
    attempt_num  INTEGER NOT NULL,
    distance     REAL NOT NULL,
    accepted     INTEGER NOT NULL DEFAULT 0,
    created_at   TEXT NOT NULL
);
`

const familyOutcomesIndex = `
CREATE INDEX IF NOT EXISTS idx_family_outcomes_family
ON family_outcomes(family_id);
`

// #endregion

// #region memory-struct

// FamilyMemory persists per-family validation outcomes in SQLite and serves
// decay-weighted preferences back to the matcher. Strictly advisory:
// matcher semantics are unchanged when memory is empty.
type FamilyMemory struct {
	db *sql.DB
}

// NewFamilyMemory initializes the family_outcomes table.
func NewFamilyMemory(db *sql.DB) (*FamilyMemory, error) {
	if _, err := db.Exec(familyOutcomesSchema); err != nil {
		return nil, err
	}
	if _, err := db.Exec(familyOutcomesIndex); err != nil {
		return nil, err
	}
	return &FamilyMemory{db: db}, nil
}

// #endregion

// #region record-run

// RecordRun persists one outcome row per attempt of a finalized run.
func (m *FamilyMemory) RecordRun(run Run) error {
	for _, a := range run.Attempts {
		accepted := 0
		if a.Accepted {
			accepted = 1
		}
		_, err := m.db.Exec(`
			INSERT INTO family_outcomes
			(run_id, family_id, attempt_num, distance, accepted, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID,
			a.Candidate.FamilyID,
			a.Num,
			a.Distance,
			accepted,
			run.FinishedAt.Format(time.RFC3339),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// #endregion

// #region prefer

// minSamples is the number of recorded outcomes a family needs before its
// history may override catalog priority order.
const minSamples = 3

// Prefer returns the eligible family with the lowest decay-weighted mean
// distance, or "" when no family has enough history. Recency decays with a
// 7-day half-life so stale outcomes fade.
func (m *FamilyMemory) Prefer(eligible []string) string {
	type accum struct {
		weightedSum float64
		totalWeight float64
		count       int
	}

	now := time.Now().UTC()
	best := ""
	bestScore := math.Inf(1)

	for _, id := range eligible {
		rows, err := m.db.Query(`
			SELECT distance, created_at FROM family_outcomes
			WHERE family_id = ?`, id)
		if err != nil {
			return ""
		}

		var acc accum
		for rows.Next() {
			var distance float64
			var createdStr string
			if err := rows.Scan(&distance, &createdStr); err != nil {
				continue
			}
			created, err := time.Parse(time.RFC3339, createdStr)
			if err != nil {
				continue
			}
			ageDays := now.Sub(created).Hours() / 24
			weight := math.Exp2(-ageDays / 7)
			acc.weightedSum += weight * distance
			acc.totalWeight += weight
			acc.count++
		}
		rows.Close()

		if acc.count < minSamples || acc.totalWeight == 0 {
			continue
		}
		if score := acc.weightedSum / acc.totalWeight; score < bestScore {
			bestScore = score
			best = id
		}
	}
	return best
}

// #endregion
