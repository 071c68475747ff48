// Package normalize provides the outlier-robust min-max scaling shared by
// every indicator column in the pipeline.
package normalize

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Options controls winsorization before min-max scaling.
type Options struct {
	Winsorize bool
	// Lower and Upper are quantiles in [0,1]. Values below the Lower quantile
	// and above the Upper quantile are clipped before scaling.
	Lower float64
	Upper float64
}

// DefaultOptions clips at the 1st and 99th percentiles.
func DefaultOptions() Options {
	return Options{Winsorize: true, Lower: 0.01, Upper: 0.99}
}

// MinMax scales a series to [0,1]. The output has the same length and index
// alignment as the input. A zero-variance series maps to all zeros rather
// than an error: it occurs legitimately when an indicator has no spread.
func MinMax(series []float64, opts Options) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}

	copy(out, series)

	if opts.Winsorize {
		sorted := make([]float64, len(series))
		copy(sorted, series)
		sort.Float64s(sorted)

		lower := stat.Quantile(opts.Lower, stat.LinInterp, sorted, nil)
		upper := stat.Quantile(opts.Upper, stat.LinInterp, sorted, nil)

		for i, v := range out {
			if v < lower {
				out[i] = lower
			} else if v > upper {
				out[i] = upper
			}
		}
	}

	minVal, maxVal := out[0], out[0]
	for _, v := range out[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal == minVal {
		for i := range out {
			out[i] = 0.0
		}
		return out
	}

	span := maxVal - minVal
	for i, v := range out {
		out[i] = (v - minVal) / span
	}
	return out
}

// Invert flips a normalized series so that higher raw rates map to lower
// scores. Used for indicators where a higher rate means higher vulnerability.
func Invert(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = 1.0 - v
	}
	return out
}
