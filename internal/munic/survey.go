// Package munic handles the municipality-level indicators: MUNIC survey
// answers and SICONFI finance snapshots, normalized across municipalities
// and broadcast onto the hexagon grid.
package munic

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/dataset"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/normalize"
)

// MunValues maps the 7-digit IBGE municipality code to a value.
type MunValues map[string]float64

// codeColumns are the municipality-id header names seen across survey
// editions; the first present wins.
var codeColumns = []string{"cd_mun", "cod_mun", "codmun", "cod_munic"}

func munColumn(tbl *dataset.Table, path string) (int, error) {
	for _, name := range codeColumns {
		if i := tbl.Column(name); i >= 0 {
			return i, nil
		}
	}
	return 0, eris.Errorf("munic: %s has no municipality code column", path)
}

// ReadBoolean loads one Sim/Não survey answer per municipality. Sim maps to
// one; every other answer, including refusals and blanks, maps to zero.
func ReadBoolean(path, variable string) (MunValues, error) {
	tbl, err := dataset.ReadTable(path, dataset.Options{})
	if err != nil {
		return nil, err
	}
	codeCol, err := munColumn(tbl, path)
	if err != nil {
		return nil, err
	}
	varCol := tbl.Column(variable)
	if varCol < 0 {
		return nil, eris.Errorf("munic: %s has no column %s", path, variable)
	}

	vals := make(MunValues, len(tbl.Rows))
	for _, row := range tbl.Rows {
		code := tbl.Cell(row, codeCol)
		if code == "" {
			continue
		}
		vals[code] = dataset.ParseYesNo(tbl.Cell(row, varCol))
	}
	return vals, nil
}

// ReadAnswerCount loads a policy-count indicator: how many of the given
// survey answers a municipality answered Sim to. Variables absent from the
// file count as zero.
func ReadAnswerCount(path string, variables []string) (MunValues, error) {
	tbl, err := dataset.ReadTable(path, dataset.Options{})
	if err != nil {
		return nil, err
	}
	codeCol, err := munColumn(tbl, path)
	if err != nil {
		return nil, err
	}

	cols := make([]int, 0, len(variables))
	for _, v := range variables {
		if i := tbl.Column(v); i >= 0 {
			cols = append(cols, i)
		}
	}
	if len(cols) == 0 {
		return nil, eris.Errorf("munic: %s carries none of the requested variables", path)
	}

	vals := make(MunValues, len(tbl.Rows))
	for _, row := range tbl.Rows {
		code := tbl.Cell(row, codeCol)
		if code == "" {
			continue
		}
		sum := 0.0
		for _, c := range cols {
			sum += dataset.ParseYesNo(tbl.Cell(row, c))
		}
		vals[code] = sum
	}
	return vals, nil
}

// Normalize min-max scales municipality values before they reach the grid,
// so the broadcast step only copies numbers. Iteration is keyed on sorted
// codes to keep the scaling deterministic.
func Normalize(vals MunValues, opts normalize.Options) MunValues {
	codes := make([]string, 0, len(vals))
	for c := range vals {
		codes = append(codes, c)
	}
	sort.Strings(codes)

	series := make([]float64, len(codes))
	for i, c := range codes {
		series[i] = vals[c]
	}
	scaled := normalize.MinMax(series, opts)

	out := make(MunValues, len(codes))
	for i, c := range codes {
		out[c] = scaled[i]
	}
	return out
}
