package munic

import (
	"go.uber.org/zap"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
)

// Broadcast copies per-municipality values onto every hexagon of the base
// table, one output row per distinct hexagon in base order. A municipality
// absent from the maps reads as zero; survey coverage gaps flatten to "no
// policy" rather than dropping the hexagon.
func Broadcast(base []artifact.BaseRow, abs, norm MunValues) []artifact.IndicatorRow {
	rows := make([]artifact.IndicatorRow, 0, len(base))
	seen := make(map[string]bool, len(base))
	missing := make(map[string]bool)

	for _, b := range base {
		if seen[b.H3ID] {
			continue
		}
		seen[b.H3ID] = true

		if _, ok := norm[b.MunCode]; !ok {
			missing[b.MunCode] = true
		}
		rows = append(rows, artifact.IndicatorRow{
			H3ID: b.H3ID,
			Abs:  abs[b.MunCode],
			Norm: norm[b.MunCode],
		})
	}

	if len(missing) > 0 {
		zap.L().With(zap.String("component", "munic")).
			Warn("municipalities without survey values read as zero", zap.Int("count", len(missing)))
	}
	return rows
}
