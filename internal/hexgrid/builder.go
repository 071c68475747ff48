package hexgrid

import (
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
)

// Build assembles the base table from the crosswalk artifact and the
// household-count chunk files under chunksDir. Hexagons without a positive
// household count are dropped, and each survivor gets the share of its
// tract's household total used for all dasymetric apportioning. Crosswalk
// order is preserved.
func Build(crosswalkPath, chunksDir string) ([]artifact.BaseRow, error) {
	log := zap.L().With(zap.String("component", "hexgrid"))

	crosswalk, err := artifact.ReadParquet[artifact.CrosswalkRow](crosswalkPath)
	if err != nil {
		return nil, err
	}
	if len(crosswalk) == 0 {
		return nil, eris.Errorf("hexgrid: crosswalk %s is empty", crosswalkPath)
	}

	counts, err := readHouseholdChunks(chunksDir)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, cw := range crosswalk {
		if c := counts[cw.H3ID]; c > 0 {
			totals[cw.TractID] += c
		}
	}

	rows := make([]artifact.BaseRow, 0, len(crosswalk))
	for _, cw := range crosswalk {
		c := counts[cw.H3ID]
		if c <= 0 {
			continue
		}
		w := 0.0
		if t := totals[cw.TractID]; t > 0 {
			w = c / t
		}
		rows = append(rows, artifact.BaseRow{
			H3ID:       cw.H3ID,
			TractID:    cw.TractID,
			MunCode:    cw.MunCode,
			MunName:    cw.MunName,
			StateCode:  cw.StateCode,
			StateName:  cw.StateName,
			Households: c,
			Weight:     w,
		})
	}
	if len(rows) == 0 {
		return nil, eris.New("hexgrid: no hexagon carries households after the join")
	}

	log.Info("base table built",
		zap.Int("hexagons_in", len(crosswalk)),
		zap.Int("hexagons_out", len(rows)),
		zap.Int("tracts", len(totals)))
	return rows, nil
}

// readHouseholdChunks merges every *.parquet chunk in dir into one
// hexagon-to-count map. A chunk directory with no files is a configuration
// error rather than an empty grid.
func readHouseholdChunks(dir string) (map[string]float64, error) {
	pattern := filepath.Join(dir, "*.parquet")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, eris.Wrapf(err, "hexgrid: glob %s", pattern)
	}
	if len(files) == 0 {
		return nil, eris.Errorf("hexgrid: no household chunks match %s", pattern)
	}
	sort.Strings(files)

	counts := make(map[string]float64)
	for _, f := range files {
		rows, err := artifact.ReadParquetExact[artifact.HouseholdRow](f)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			counts[r.H3ID] += r.Count
		}
	}
	return counts, nil
}
