package dasymetric

import (
	"github.com/rotisserie/eris"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/indicator"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/normalize"
)

// Ratio computes the per-hexagon ratio-of-weighted-sums for one indicator:
// each base row contributes weight times its tract's variable values to the
// hexagon's numerator and denominator, and the division happens once per
// hexagon after all contributions are in. A hexagon whose denominator is not
// positive scores zero. Returns hexagon ids in first-appearance order and
// the parallel value series.
func Ratio(base []artifact.BaseRow, tracts TractVars, numVars, denVars []string) ([]string, []float64) {
	type accum struct {
		num, den float64
	}

	order := make([]string, 0, len(base))
	acc := make(map[string]*accum, len(base))

	for _, r := range base {
		a, ok := acc[r.H3ID]
		if !ok {
			a = &accum{}
			acc[r.H3ID] = a
			order = append(order, r.H3ID)
		}
		tv := tracts[r.TractID]
		for _, v := range numVars {
			a.num += r.Weight * tv[v]
		}
		for _, v := range denVars {
			a.den += r.Weight * tv[v]
		}
	}

	vals := make([]float64, len(order))
	for i, id := range order {
		if a := acc[id]; a.den > 0 {
			vals[i] = a.num / a.den
		}
	}
	return order, vals
}

// Compute produces the full per-hexagon series for one ratio indicator:
// absolute values via Ratio, then winsorized min-max normalization, then
// inversion when higher raw values mean lower vulnerability.
func Compute(base []artifact.BaseRow, tracts TractVars, ind indicator.Indicator) ([]artifact.IndicatorRow, error) {
	if ind.Kind != indicator.KindRatio {
		return nil, eris.Errorf("dasymetric: indicator %s is %s, not a census ratio", ind.Key, ind.Kind)
	}

	ids, abs := Ratio(base, tracts, ind.NumVars, ind.DenVars)
	norm := normalize.MinMax(abs, normalize.DefaultOptions())
	if ind.Invert {
		norm = normalize.Invert(norm)
	}

	rows := make([]artifact.IndicatorRow, len(ids))
	for i, id := range ids {
		rows[i] = artifact.IndicatorRow{H3ID: id, Abs: abs[i], Norm: norm[i]}
	}
	return rows, nil
}
