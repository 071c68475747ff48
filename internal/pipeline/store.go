package pipeline

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// RunStore records pipeline executions and their stage outcomes in SQLite,
// so operators can audit which artifact versions came from which run.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (creating if needed) the run registry at path and
// configures WAL mode.
func OpenRunStore(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrapf(err, "store: create dir for %s", path)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	s := &RunStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const runMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL DEFAULT 'running',
	error       TEXT,
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS run_stages (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	name        TEXT NOT NULL,
	status      TEXT NOT NULL DEFAULT 'running',
	error       TEXT,
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_run_stages_run_id ON run_stages(run_id);
`

func (s *RunStore) migrate() error {
	_, err := s.db.Exec(runMigration)
	return eris.Wrap(err, "store: migrate")
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

// BeginRun registers a new run and returns its id.
func (s *RunStore) BeginRun(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, status, started_at) VALUES (?, 'running', ?)`,
		id, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrap(err, "store: insert run")
	}
	return id, nil
}

// FinishRun closes a run as completed or failed.
func (s *RunStore) FinishRun(ctx context.Context, runID string, runErr error) error {
	status, msg := "completed", ""
	if runErr != nil {
		status, msg = "failed", runErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error = NULLIF(?, ''), finished_at = ? WHERE id = ?`,
		status, msg, time.Now().UTC(), runID,
	)
	return eris.Wrapf(err, "store: finish run %s", runID)
}

// BeginStage registers a stage start under a run and returns the stage id.
func (s *RunStore) BeginStage(ctx context.Context, runID, name string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_stages (id, run_id, name, status, started_at) VALUES (?, ?, ?, 'running', ?)`,
		id, runID, name, time.Now().UTC(),
	)
	if err != nil {
		return "", eris.Wrapf(err, "store: insert stage %s", name)
	}
	return id, nil
}

// FinishStage closes a stage as completed or failed.
func (s *RunStore) FinishStage(ctx context.Context, stageID string, stageErr error) error {
	status, msg := "completed", ""
	if stageErr != nil {
		status, msg = "failed", stageErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE run_stages SET status = ?, error = NULLIF(?, ''), finished_at = ? WHERE id = ?`,
		status, msg, time.Now().UTC(), stageID,
	)
	return eris.Wrapf(err, "store: finish stage %s", stageID)
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID         string
	Status     string
	Error      string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

// ListRuns returns the most recent runs, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, COALESCE(error, ''), started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "store: iterate runs")
}
