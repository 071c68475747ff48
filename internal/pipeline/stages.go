package pipeline

import (
	"context"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/access"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/compose"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/dasymetric"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/hexgrid"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/indicator"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/munic"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/normalize"
)

const (
	baseArtifact    = "br_h3_base.parquet"
	composeArtifact = "br_h3_ijc_consolidado.parquet"
	shapefileName   = "ijc_final.shp"

	// Total income per tract is published as mean times count; the product
	// is derived after extraction under this name.
	derivedIncomeVar = "v06004_v06001"
)

// GridStage builds the base hexagon table and persists it.
func GridStage() Stage {
	return Stage{Name: "grid", Run: func(ctx context.Context, env *Env) error {
		rows, err := hexgrid.Build(env.Config.Grid.CrosswalkFile, env.Config.Grid.ChunksDir)
		if err != nil {
			return err
		}
		path, err := artifact.WriteParquet(filepath.Join(env.Config.Paths.ResultsDir, baseArtifact), rows)
		if err != nil {
			return err
		}
		env.SetBase(rows)
		zap.L().Info("base table written", zap.String("file", path), zap.Int("hexagons", len(rows)))
		return nil
	}}
}

// censusVars expands the registry's raw variable list into the columns the
// extractor must read, swapping the derived income product for its factors.
func censusVars(reg *indicator.Registry) []string {
	var vars []string
	for _, v := range reg.RawVars() {
		if v == derivedIncomeVar {
			vars = append(vars, "v06004", "v06001")
			continue
		}
		vars = append(vars, v)
	}
	return vars
}

// CensusStage computes every census ratio indicator.
func CensusStage() Stage {
	return Stage{Name: "census", Run: func(ctx context.Context, env *Env) error {
		base, err := env.Base()
		if err != nil {
			return err
		}

		tracts, err := dasymetric.ExtractTractVars(env.Config.Census.InputDir, censusVars(env.Registry))
		if err != nil {
			return err
		}
		tracts.AddProduct(derivedIncomeVar, "v06004", "v06001")

		var summaries []artifact.Summary
		for _, ind := range env.Registry.OfKind(indicator.KindRatio) {
			if ind.Source != "censo" {
				continue
			}
			rows, err := dasymetric.Compute(base, tracts, ind)
			if err != nil {
				return err
			}
			path, err := artifact.WriteParquet(filepath.Join(env.Config.Paths.ResultsDir, ind.Output), rows)
			if err != nil {
				return err
			}
			summaries = append(summaries, artifact.Summary{
				Key: ind.Key, File: path,
				AbsColumn: ind.AbsColumn(), NormColumn: ind.Column,
				Rows: rows,
			})
		}

		_, err = artifact.WriteReport(env.Config.Paths.DiagnosticsDir, "census", summaries)
		return err
	}}
}

// HealthStage computes the gravitational accessibility indicator.
func HealthStage() Stage {
	return Stage{Name: "health", Run: func(ctx context.Context, env *Env) error {
		base, err := env.Base()
		if err != nil {
			return err
		}

		gravity := env.Registry.OfKind(indicator.KindGravity)
		if len(gravity) == 0 {
			return eris.New("pipeline: registry has no gravity indicator")
		}
		ind := gravity[0]

		cells := make([]access.CellPoint, 0, len(base))
		seen := make(map[string]bool, len(base))
		for _, b := range base {
			if seen[b.H3ID] {
				continue
			}
			seen[b.H3ID] = true
			lat, lng, err := hexgrid.Centroid(b.H3ID)
			if err != nil {
				return err
			}
			cells = append(cells, access.CellPoint{H3ID: b.H3ID, Lat: lat, Lng: lng})
		}

		facilities, err := access.ReadFacilities(env.Config.Health.FacilityFile, nil)
		if err != nil {
			return err
		}

		scores, err := access.Score(cells, facilities, access.Params{
			Neighbors:     env.Config.Health.Neighbors,
			DistanceFloor: env.Config.Health.DistanceFloorMeters,
		})
		if err != nil {
			return err
		}
		norm := access.NormalizeScores(scores)

		rows := make([]artifact.IndicatorRow, len(cells))
		for i, c := range cells {
			rows[i] = artifact.IndicatorRow{H3ID: c.H3ID, Abs: scores[i], Norm: norm[i]}
		}
		path, err := artifact.WriteParquet(filepath.Join(env.Config.Paths.ResultsDir, ind.Output), rows)
		if err != nil {
			return err
		}

		_, err = artifact.WriteReport(env.Config.Paths.DiagnosticsDir, "health", []artifact.Summary{{
			Key: ind.Key, File: path,
			AbsColumn: ind.AbsColumn(), NormColumn: ind.Column,
			Rows: rows,
		}})
		return err
	}}
}

// MunicStage computes the survey-backed governance indicators.
func MunicStage() Stage {
	return Stage{Name: "munic", Run: func(ctx context.Context, env *Env) error {
		base, err := env.Base()
		if err != nil {
			return err
		}

		var summaries []artifact.Summary
		for _, ind := range env.Registry.All() {
			if ind.Source != "munic" {
				continue
			}
			path := filepath.Join(env.Config.Munic.InputDir, filepath.FromSlash(ind.SourceFile))

			var abs, norm munic.MunValues
			switch ind.Kind {
			case indicator.KindBoolean:
				vals, err := munic.ReadBoolean(path, ind.NumVars[0])
				if err != nil {
					return err
				}
				// Sim/Não already lands on the 0-1 scale.
				abs, norm = vals, vals
			case indicator.KindDirect:
				vals, err := munic.ReadAnswerCount(path, ind.NumVars)
				if err != nil {
					return err
				}
				abs = vals
				norm = munic.Normalize(vals, normalize.Options{})
			default:
				return eris.Errorf("pipeline: survey indicator %s has unsupported kind %s", ind.Key, ind.Kind)
			}

			rows := munic.Broadcast(base, abs, norm)
			outPath, err := artifact.WriteParquet(filepath.Join(env.Config.Paths.ResultsDir, ind.Output), rows)
			if err != nil {
				return err
			}
			summaries = append(summaries, artifact.Summary{
				Key: ind.Key, File: outPath,
				AbsColumn: ind.AbsColumn(), NormColumn: ind.Column,
				Rows: rows,
			})
		}

		_, err = artifact.WriteReport(env.Config.Paths.DiagnosticsDir, "munic", summaries)
		return err
	}}
}

// FinanceStage computes the environmental-expense indicator from SICONFI.
func FinanceStage() Stage {
	return Stage{Name: "finance", Run: func(ctx context.Context, env *Env) error {
		base, err := env.Base()
		if err != nil {
			return err
		}

		var target *indicator.Indicator
		for _, ind := range env.Registry.All() {
			if ind.Source == "siconfi" {
				target = &ind
				break
			}
		}
		if target == nil {
			return eris.New("pipeline: registry has no finance indicator")
		}

		expense, err := munic.ReadFinance(env.Config.Finance.InputDir, env.Config.Finance.Years())
		if err != nil {
			return err
		}
		// Per-capita expense has a heavy right tail; winsorize like the
		// census ratios.
		norm := munic.Normalize(expense, normalize.DefaultOptions())

		rows := munic.Broadcast(base, expense, norm)
		path, err := artifact.WriteParquet(filepath.Join(env.Config.Paths.ResultsDir, target.Output), rows)
		if err != nil {
			return err
		}

		_, err = artifact.WriteReport(env.Config.Paths.DiagnosticsDir, "finance", []artifact.Summary{{
			Key: target.Key, File: path,
			AbsColumn: target.AbsColumn(), NormColumn: target.Column,
			Rows: rows,
		}})
		return err
	}}
}

// ComposeStage joins all indicator surfaces into the final index.
func ComposeStage(exportShapefile bool) Stage {
	return Stage{Name: "compose", Run: func(ctx context.Context, env *Env) error {
		base, err := env.Base()
		if err != nil {
			return err
		}

		rows, err := compose.Build(base, env.Registry, env.Config.Paths.ResultsDir, env.Config.Paths.ExternalDir)
		if err != nil {
			return err
		}
		path, err := artifact.WriteParquet(filepath.Join(env.Config.Paths.ResultsDir, composeArtifact), rows)
		if err != nil {
			return err
		}
		zap.L().Info("consolidated surface written", zap.String("file", path), zap.Int("hexagons", len(rows)))

		if exportShapefile {
			pts, err := compose.SurfacePoints(rows)
			if err != nil {
				return err
			}
			shpPath, err := artifact.ExportShapefile(filepath.Join(env.Config.Paths.ResultsDir, shapefileName), pts)
			if err != nil {
				return err
			}
			zap.L().Info("shapefile exported", zap.String("file", shpPath))
		}

		finals := make([]artifact.IndicatorRow, len(rows))
		for i, r := range rows {
			finals[i] = artifact.IndicatorRow{H3ID: r.H3ID, Abs: r.Final, Norm: r.Final}
		}
		_, err = artifact.WriteReport(env.Config.Paths.DiagnosticsDir, "compose", []artifact.Summary{{
			Key: "ijc", File: path,
			AbsColumn: "ijc_final", NormColumn: "ijc_final",
			Rows: finals,
		}})
		return err
	}}
}

// AllStages is the full run order: the census and health stages only share
// the base table, so they run concurrently.
func AllStages(exportShapefile bool) []Stage {
	return []Stage{
		GridStage(),
		Parallel("census+health", CensusStage(), HealthStage()),
		MunicStage(),
		FinanceStage(),
		ComposeStage(exportShapefile),
	}
}
