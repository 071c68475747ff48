package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/config"
)

func testEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.ResultsDir = filepath.Join(dir, "results")
	cfg.Paths.ExternalDir = filepath.Join(dir, "external")
	cfg.Paths.DiagnosticsDir = filepath.Join(dir, "diagnostics")
	cfg.Grid.CrosswalkFile = filepath.Join(dir, "clean", "base_grid.parquet")
	cfg.Grid.ChunksDir = filepath.Join(dir, "clean", "chunks")

	env, err := NewEnv(cfg)
	require.NoError(t, err)
	return env
}

func TestNewEnv_BuiltinRegistry(t *testing.T) {
	env := testEnv(t)
	_, ok := env.Registry.ByKey("v1")
	assert.True(t, ok)
}

func TestEnvBase_MissingArtifact(t *testing.T) {
	env := testEnv(t)
	_, err := env.Base()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid stage")
}

func TestEnvBase_Seeded(t *testing.T) {
	env := testEnv(t)
	env.SetBase([]artifact.BaseRow{{H3ID: "a"}})

	rows, err := env.Base()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestRunnerExecute_Order(t *testing.T) {
	env := testEnv(t)
	var order []string
	mk := func(name string) Stage {
		return Stage{Name: name, Run: func(ctx context.Context, env *Env) error {
			order = append(order, name)
			return nil
		}}
	}

	r := &Runner{}
	err := r.Execute(context.Background(), env, []Stage{mk("one"), mk("two"), mk("three")})
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, order)
}

func TestRunnerExecute_StopsOnFailure(t *testing.T) {
	env := testEnv(t)
	var ran []string

	stages := []Stage{
		{Name: "ok", Run: func(ctx context.Context, env *Env) error {
			ran = append(ran, "ok")
			return nil
		}},
		{Name: "boom", Run: func(ctx context.Context, env *Env) error {
			return eris.New("input missing")
		}},
		{Name: "never", Run: func(ctx context.Context, env *Env) error {
			ran = append(ran, "never")
			return nil
		}},
	}

	err := (&Runner{}).Execute(context.Background(), env, stages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stage boom")
	assert.Equal(t, []string{"ok"}, ran)
}

func TestRunnerExecute_RecordsRun(t *testing.T) {
	env := testEnv(t)
	store, err := OpenRunStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer store.Close()

	r := &Runner{Store: store}
	err = r.Execute(context.Background(), env, []Stage{
		{Name: "ok", Run: func(ctx context.Context, env *Env) error { return nil }},
		{Name: "boom", Run: func(ctx context.Context, env *Env) error { return eris.New("nope") }},
	})
	require.Error(t, err)

	runs, err := store.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "failed", runs[0].Status)
	assert.Contains(t, runs[0].Error, "nope")
	assert.True(t, runs[0].FinishedAt.Valid)
}

func TestParallel(t *testing.T) {
	env := testEnv(t)
	done := make(map[string]bool)
	var mu = make(chan struct{}, 1)
	mu <- struct{}{}
	mark := func(name string) Stage {
		return Stage{Name: name, Run: func(ctx context.Context, env *Env) error {
			<-mu
			done[name] = true
			mu <- struct{}{}
			return nil
		}}
	}

	st := Parallel("both", mark("a"), mark("b"))
	require.NoError(t, st.Run(context.Background(), env))
	assert.True(t, done["a"])
	assert.True(t, done["b"])
}

func TestParallel_PropagatesError(t *testing.T) {
	env := testEnv(t)
	st := Parallel("both",
		Stage{Name: "ok", Run: func(ctx context.Context, env *Env) error { return nil }},
		Stage{Name: "bad", Run: func(ctx context.Context, env *Env) error { return eris.New("bad input") }},
	)
	err := st.Run(context.Background(), env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad input")
}

func TestGridStage(t *testing.T) {
	env := testEnv(t)

	_, err := artifact.WriteParquet(env.Config.Grid.CrosswalkFile, []artifact.CrosswalkRow{
		{H3ID: "aaa", TractID: "t1", MunCode: "3550308"},
		{H3ID: "bbb", TractID: "t1", MunCode: "3550308"},
	})
	require.NoError(t, err)
	_, err = artifact.WriteParquet(filepath.Join(env.Config.Grid.ChunksDir, "chunk.parquet"), []artifact.HouseholdRow{
		{H3ID: "aaa", Count: 25},
		{H3ID: "bbb", Count: 75},
	})
	require.NoError(t, err)

	require.NoError(t, GridStage().Run(context.Background(), env))

	// The stage seeds the env and persists the artifact.
	rows, err := env.Base()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.InDelta(t, 0.25, rows[0].Weight, 1e-12)

	persisted, err := artifact.ReadParquet[artifact.BaseRow](filepath.Join(env.Config.Paths.ResultsDir, baseArtifact))
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestAllStages_Order(t *testing.T) {
	stages := AllStages(false)
	require.Len(t, stages, 5)
	assert.Equal(t, "grid", stages[0].Name)
	assert.Equal(t, "census+health", stages[1].Name)
	assert.Equal(t, "munic", stages[2].Name)
	assert.Equal(t, "finance", stages[3].Name)
	assert.Equal(t, "compose", stages[4].Name)
}
