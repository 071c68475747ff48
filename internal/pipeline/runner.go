// Package pipeline sequences the index stages, shares the loaded base table
// between them, and records every execution in the run registry.
package pipeline

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/config"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/indicator"
)

// Stage is one unit of pipeline work.
type Stage struct {
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// Env carries the configuration and lazily loaded shared state of one run.
type Env struct {
	Config   *config.Config
	Registry *indicator.Registry

	mu   sync.Mutex
	base []artifact.BaseRow
}

// NewEnv resolves the indicator registry (external file when configured,
// built-in otherwise) and wraps it with the config.
func NewEnv(cfg *config.Config) (*Env, error) {
	reg := indicator.Default()
	if cfg.Paths.RegistryFile != "" {
		loaded, err := indicator.Load(cfg.Paths.RegistryFile)
		if err != nil {
			return nil, err
		}
		reg = loaded
	}
	return &Env{Config: cfg, Registry: reg}, nil
}

// Base returns the consolidated base table, loading the newest version from
// the results dir on first use. The grid stage seeds it directly after
// building so the same run never re-reads its own output. Safe for
// concurrent stages.
func (e *Env) Base() ([]artifact.BaseRow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.base != nil {
		return e.base, nil
	}
	rows, err := artifact.ReadParquet[artifact.BaseRow](filepath.Join(e.Config.Paths.ResultsDir, baseArtifact))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load base table (run the grid stage first)")
	}
	e.base = rows
	return rows, nil
}

// SetBase seeds the shared base table.
func (e *Env) SetBase(rows []artifact.BaseRow) {
	e.mu.Lock()
	e.base = rows
	e.mu.Unlock()
}

// Parallel bundles stages into one that runs them concurrently and fails on
// the first error.
func Parallel(name string, stages ...Stage) Stage {
	return Stage{
		Name: name,
		Run: func(ctx context.Context, env *Env) error {
			g, ctx := errgroup.WithContext(ctx)
			for _, st := range stages {
				st := st
				g.Go(func() error {
					return st.Run(ctx, env)
				})
			}
			return g.Wait()
		},
	}
}

// Runner executes stages in order, recording outcomes when a store is set.
type Runner struct {
	Store *RunStore // nil disables run recording
}

// Execute runs the stages sequentially. The first stage failure aborts the
// run; the run record still closes with the failure attached.
func (r *Runner) Execute(ctx context.Context, env *Env, stages []Stage) error {
	log := zap.L().With(zap.String("component", "pipeline"))

	var runID string
	if r.Store != nil {
		id, err := r.Store.BeginRun(ctx)
		if err != nil {
			return err
		}
		runID = id
		log = log.With(zap.String("run_id", runID))
	}

	runErr := r.executeStages(ctx, env, stages, runID, log)

	if r.Store != nil {
		if err := r.Store.FinishRun(ctx, runID, runErr); err != nil {
			log.Error("run record not closed", zap.Error(err))
		}
	}
	return runErr
}

func (r *Runner) executeStages(ctx context.Context, env *Env, stages []Stage, runID string, log *zap.Logger) error {
	for _, st := range stages {
		start := time.Now()
		log.Info("stage started", zap.String("stage", st.Name))

		var stageID string
		if r.Store != nil {
			id, err := r.Store.BeginStage(ctx, runID, st.Name)
			if err != nil {
				return err
			}
			stageID = id
		}

		err := st.Run(ctx, env)

		if r.Store != nil {
			if recErr := r.Store.FinishStage(ctx, stageID, err); recErr != nil {
				log.Error("stage record not closed", zap.Error(recErr))
			}
		}
		if err != nil {
			log.Error("stage failed",
				zap.String("stage", st.Name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return eris.Wrapf(err, "pipeline: stage %s", st.Name)
		}
		log.Info("stage completed",
			zap.String("stage", st.Name),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}
