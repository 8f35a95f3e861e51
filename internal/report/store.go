package report

// #region imports
import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/uago3c/uago/internal/catalog"
	"github.com/uago3c/uago/internal/engine"
	"github.com/uago3c/uago/internal/invariant"
)

// #endregion

// #region schema

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	source        TEXT,
	verdict       TEXT NOT NULL,
	original_json TEXT NOT NULL,
	selected_num  INTEGER,
	cycles        INTEGER NOT NULL,
	started_at    TEXT NOT NULL,
	finished_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS attempts (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	num           INTEGER NOT NULL,
	family_id     TEXT NOT NULL,
	params_json   TEXT NOT NULL,
	depth         INTEGER NOT NULL,
	measured_json TEXT NOT NULL,
	distance      REAL NOT NULL,
	accepted      INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// #endregion

// #region store

// Store persists finalized run reports in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages
// (e.g. the engine's family memory).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion

// #region save

// Save persists a finalized run and its attempts atomically.
func (s *Store) Save(run engine.Run, source string) error {
	originalJSON, err := json.Marshal(run.Original)
	if err != nil {
		return fmt.Errorf("marshal original: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var selected interface{}
	if sel := run.SelectedAttempt(); sel != nil {
		selected = sel.Num
	}

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, source, verdict, original_json, selected_num, cycles, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, source, string(run.Verdict), string(originalJSON), selected, run.Cycles,
		run.StartedAt.Format(time.RFC3339Nano), run.FinishedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, a := range run.Attempts {
		paramsJSON, err := json.Marshal(a.Candidate.Params)
		if err != nil {
			return fmt.Errorf("marshal params: %w", err)
		}
		measuredJSON, err := json.Marshal(a.Measured)
		if err != nil {
			return fmt.Errorf("marshal measured: %w", err)
		}
		accepted := 0
		if a.Accepted {
			accepted = 1
		}
		_, err = tx.Exec(
			`INSERT INTO attempts (run_id, num, family_id, params_json, depth, measured_json, distance, accepted)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, a.Num, a.Candidate.FamilyID, string(paramsJSON), a.Depth,
			string(measuredJSON), a.Distance, accepted,
		)
		if err != nil {
			return fmt.Errorf("insert attempt %d: %w", a.Num, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion

// #region read

// Get reads one run report by id.
func (s *Store) Get(runID string) (Report, error) {
	rep, err := s.scanRun(s.db.QueryRow(
		`SELECT run_id, source, verdict, original_json, selected_num, cycles, started_at, finished_at
		 FROM runs WHERE run_id = ?`, runID))
	if err != nil {
		return Report{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	if err := s.loadAttempts(&rep); err != nil {
		return Report{}, err
	}
	return rep, nil
}

// Latest returns the most recently finished run.
func (s *Store) Latest() (Report, error) {
	rep, err := s.scanRun(s.db.QueryRow(
		`SELECT run_id, source, verdict, original_json, selected_num, cycles, started_at, finished_at
		 FROM runs ORDER BY finished_at DESC LIMIT 1`))
	if err != nil {
		return Report{}, fmt.Errorf("latest run: %w", err)
	}
	if err := s.loadAttempts(&rep); err != nil {
		return Report{}, err
	}
	return rep, nil
}

// List returns the most recent runs without their attempts.
func (s *Store) List(limit int) ([]Report, error) {
	rows, err := s.db.Query(
		`SELECT run_id, source, verdict, original_json, selected_num, cycles, started_at, finished_at
		 FROM runs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		rep, err := s.scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) scanRun(row rowScanner) (Report, error) {
	var rep Report
	var source sql.NullString
	var verdict, originalJSON, startedStr, finishedStr string
	var selected sql.NullInt64

	err := row.Scan(&rep.RunID, &source, &verdict, &originalJSON, &selected, &rep.Cycles, &startedStr, &finishedStr)
	if err != nil {
		return Report{}, err
	}
	if source.Valid {
		rep.Source = source.String
	}
	rep.Verdict = engine.Verdict(verdict)
	if err := json.Unmarshal([]byte(originalJSON), &rep.Original); err != nil {
		return Report{}, fmt.Errorf("unmarshal original: %w", err)
	}
	if selected.Valid {
		num := int(selected.Int64)
		rep.Selected = &num
	}
	rep.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	rep.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedStr)
	return rep, nil
}

func (s *Store) loadAttempts(rep *Report) error {
	rows, err := s.db.Query(
		`SELECT num, family_id, params_json, depth, measured_json, distance, accepted
		 FROM attempts WHERE run_id = ? ORDER BY num`, rep.RunID)
	if err != nil {
		return fmt.Errorf("load attempts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a AttemptRecord
		var paramsJSON, measuredJSON string
		var accepted int
		if err := rows.Scan(&a.Num, &a.FamilyID, &paramsJSON, &a.Depth, &measuredJSON, &a.Distance, &accepted); err != nil {
			return fmt.Errorf("scan attempt: %w", err)
		}
		a.Params = catalog.Params{}
		if err := json.Unmarshal([]byte(paramsJSON), &a.Params); err != nil {
			return fmt.Errorf("unmarshal params: %w", err)
		}
		var vec invariant.Vector
		if err := json.Unmarshal([]byte(measuredJSON), &vec); err != nil {
			return fmt.Errorf("unmarshal measured: %w", err)
		}
		a.Measured = vec
		a.Accepted = accepted == 1
		rep.Attempts = append(rep.Attempts, a)
	}
	return rows.Err()
}

// #endregion
