package munic

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/dataset"
)

// SICONFI expense snapshots have a three-line preamble before the header and
// report every accounting stage; only the liquidated column and the
// environmental-management function feed the indicator.
const (
	financeSkipRows = 3
	liquidatedStage = "despesas liquidadas"
	environmentFn   = "gestão ambiental"
)

// financePath names one annual snapshot inside the SICONFI input dir.
func financePath(dir string, year int) string {
	return filepath.Join(dir, fmt.Sprintf("finbra_mun_despesas-por-funcao_%d.csv", year))
}

// ReadFinance sums the liquidated environmental-management expense per
// capita across the given years, per municipality. Every configured year
// must be present on disk.
func ReadFinance(dir string, years []int) (MunValues, error) {
	if len(years) == 0 {
		return nil, eris.New("munic: no finance years configured")
	}
	log := zap.L().With(zap.String("component", "munic"))

	totals := make(MunValues)
	for _, year := range years {
		path := financePath(dir, year)
		tbl, err := dataset.ReadTable(path, dataset.Options{SkipRows: financeSkipRows})
		if err != nil {
			return nil, err
		}

		code := tbl.Column("cod.ibge")
		pop := tbl.Column("população")
		stage := tbl.Column("coluna")
		account := tbl.Column("conta")
		amount := tbl.Column("valor")
		if code < 0 || pop < 0 || stage < 0 || account < 0 || amount < 0 {
			return nil, eris.Errorf("munic: %s is missing expected finance columns", path)
		}

		matched := 0
		for _, row := range tbl.Rows {
			if !strings.EqualFold(strings.TrimSpace(tbl.Cell(row, stage)), liquidatedStage) {
				continue
			}
			if !strings.Contains(strings.ToLower(tbl.Cell(row, account)), environmentFn) {
				continue
			}
			population := dataset.ParseNumber(tbl.Cell(row, pop))
			if population <= 0 {
				continue
			}
			totals[tbl.Cell(row, code)] += dataset.ParseNumber(tbl.Cell(row, amount)) / population
			matched++
		}
		log.Debug("finance year loaded", zap.Int("year", year), zap.Int("rows_matched", matched))
	}

	log.Info("finance expense aggregated",
		zap.Int("years", len(years)), zap.Int("municipalities", len(totals)))
	return totals, nil
}
