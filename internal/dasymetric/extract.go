// Package dasymetric turns census-tract aggregates into per-hexagon
// indicator surfaces: tract variables are apportioned to hexagons by
// household weight, summed, and divided as ratio-of-weighted-sums.
package dasymetric

import (
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/dataset"
)

// TractVars maps census tract id to its variable values.
type TractVars map[string]map[string]float64

// ExtractTractVars scans every *.csv under dir and collects the requested
// variable columns keyed by cd_setor. Files that carry none of the variables
// are skipped; blank or unparseable cells read as zero. A variable absent
// from every file is logged, not fatal, so a partial snapshot still runs.
func ExtractTractVars(dir string, vars []string) (TractVars, error) {
	log := zap.L().With(zap.String("component", "dasymetric"))

	pattern := filepath.Join(dir, "*.csv")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, eris.Wrapf(err, "dasymetric: glob %s", pattern)
	}
	if len(files) == 0 {
		return nil, eris.Errorf("dasymetric: no census files match %s", pattern)
	}
	sort.Strings(files)

	tracts := make(TractVars)
	seen := make(map[string]bool, len(vars))

	for _, f := range files {
		tbl, err := dataset.ReadTable(f, dataset.Options{})
		if err != nil {
			return nil, err
		}
		tract := tbl.Column("cd_setor")
		if tract < 0 {
			return nil, eris.Errorf("dasymetric: %s has no cd_setor column", f)
		}

		cols := make(map[string]int, len(vars))
		for _, v := range vars {
			if i := tbl.Column(v); i >= 0 {
				cols[v] = i
				seen[v] = true
			}
		}
		if len(cols) == 0 {
			continue
		}

		for _, row := range tbl.Rows {
			id := tbl.Cell(row, tract)
			if id == "" {
				continue
			}
			tv, ok := tracts[id]
			if !ok {
				tv = make(map[string]float64, len(vars))
				tracts[id] = tv
			}
			for v, col := range cols {
				tv[v] = dataset.ParseNumber(tbl.Cell(row, col))
			}
		}
		log.Debug("census file extracted", zap.String("file", f), zap.Int("variables", len(cols)))
	}

	for _, v := range vars {
		if !seen[v] {
			log.Warn("variable missing from every census file, reading as zero", zap.String("variable", v))
		}
	}
	log.Info("tract variables extracted", zap.Int("tracts", len(tracts)), zap.Int("variables", len(vars)))
	return tracts, nil
}

// AddProduct derives a new per-tract variable as the product of two existing
// ones. The renda-per-domicílio numerator needs total income, published only
// as mean income times household count.
func (t TractVars) AddProduct(name, a, b string) {
	for _, tv := range t {
		tv[name] = tv[a] * tv[b]
	}
}
