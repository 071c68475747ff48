// Package compose joins the per-indicator surfaces into the consolidated
// index: normalized columns keyed by hexagon, averaged into dimension scores
// and the final value.
package compose

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/hexgrid"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/indicator"
)

// Build assembles the final surface over the base hexagons. Pipeline-produced
// indicators are required; external layers are joined when their file exists
// and logged-and-skipped when it does not, so the index can be recomposed
// before every hazard layer has been delivered. A hexagon absent from an
// indicator's surface simply does not contribute that indicator to its
// dimension mean.
func Build(base []artifact.BaseRow, reg *indicator.Registry, resultsDir, externalDir string) ([]artifact.ComposeRow, error) {
	log := zap.L().With(zap.String("component", "compose"))

	series := make(map[string]map[string]float64)
	for _, ind := range reg.All() {
		dir := resultsDir
		if ind.Kind == indicator.KindExternal {
			dir = externalDir
		}
		rows, err := artifact.ReadParquet[artifact.IndicatorRow](filepath.Join(dir, ind.Output))
		if err != nil {
			if ind.Kind == indicator.KindExternal {
				log.Warn("external layer not available, composing without it",
					zap.String("indicator", ind.Key), zap.String("file", ind.Output))
				continue
			}
			return nil, eris.Wrapf(err, "compose: indicator %s", ind.Key)
		}
		m := make(map[string]float64, len(rows))
		for _, r := range rows {
			m[r.H3ID] = r.Norm
		}
		series[ind.Key] = m
	}
	if len(series) == 0 {
		return nil, eris.New("compose: no indicator surfaces found")
	}

	dimNames, dimGroups := reg.Dimensions()

	out := make([]artifact.ComposeRow, 0, len(base))
	seen := make(map[string]bool, len(base))
	for _, b := range base {
		if seen[b.H3ID] {
			continue
		}
		seen[b.H3ID] = true

		row := artifact.ComposeRow{
			H3ID:       b.H3ID,
			MunCode:    b.MunCode,
			MunName:    b.MunName,
			Indicators: make(map[string]float64),
			Dimensions: make(map[string]float64),
		}

		dimSum, dimCount := 0.0, 0
		for _, dim := range dimNames {
			sum, count := 0.0, 0
			for _, key := range dimGroups[dim] {
				m, ok := series[key]
				if !ok {
					continue
				}
				v, ok := m[b.H3ID]
				if !ok {
					continue
				}
				ind, _ := reg.ByKey(key)
				row.Indicators[ind.Column] = v
				sum += v
				count++
			}
			if count == 0 {
				continue
			}
			mean := sum / float64(count)
			row.Dimensions[dim] = mean
			dimSum += mean
			dimCount++
		}
		if dimCount > 0 {
			row.Final = dimSum / float64(dimCount)
		}
		out = append(out, row)
	}

	log.Info("surface composed",
		zap.Int("hexagons", len(out)),
		zap.Int("indicators", len(series)),
		zap.Int("dimensions", len(dimNames)))
	return out, nil
}

// SurfacePoints resolves each hexagon to its centroid for point-geometry
// export.
func SurfacePoints(rows []artifact.ComposeRow) ([]artifact.SurfacePoint, error) {
	pts := make([]artifact.SurfacePoint, len(rows))
	for i, r := range rows {
		lat, lng, err := hexgrid.Centroid(r.H3ID)
		if err != nil {
			return nil, err
		}
		pts[i] = artifact.SurfacePoint{H3ID: r.H3ID, Lat: lat, Lng: lng, Value: r.Final}
	}
	return pts, nil
}
