package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Summary is the diagnostic material for one indicator artifact.
type Summary struct {
	Key        string
	File       string
	AbsColumn  string
	NormColumn string
	Rows       []IndicatorRow
}

const extremeEps = 0.001

// WriteReport writes the human-readable diagnostic for a stage: summary
// statistics per column plus top/bottom hexagons for spot-checking. Reports
// are written even when a later stage fails, so each one is timestamped
// rather than versioned.
func WriteReport(dir, stage string, summaries []Summary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "artifact: create diagnostics dir %s", dir)
	}
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("diagnostic_%s_%s.txt", stage, stamp))

	var b strings.Builder
	fmt.Fprintf(&b, "=== DIAGNOSTIC: %s ===\n\n", strings.ToUpper(stage))

	for _, s := range summaries {
		fmt.Fprintf(&b, "--- %s : %s ---\n", strings.ToUpper(s.Key), filepath.Base(s.File))
		if len(s.Rows) == 0 {
			b.WriteString("  (no rows)\n")
			continue
		}

		abs := make([]float64, len(s.Rows))
		for i, r := range s.Rows {
			abs[i] = r.Abs
		}
		mean, median, minVal, maxVal := describe(abs)

		fmt.Fprintf(&b, "Column (absolute): %s\n", s.AbsColumn)
		fmt.Fprintf(&b, "  > Count: %d\n", len(abs))
		fmt.Fprintf(&b, "  > Mean: %.4f\n", mean)
		fmt.Fprintf(&b, "  > Median: %.4f\n", median)
		fmt.Fprintf(&b, "  > Minimum: %.4f\n", minVal)
		fmt.Fprintf(&b, "  > Maximum: %.4f\n", maxVal)

		var ones, zeros int
		for _, r := range s.Rows {
			if r.Norm >= 1-extremeEps {
				ones++
			}
			if r.Norm <= extremeEps {
				zeros++
			}
		}
		fmt.Fprintf(&b, "Column (normalized): %s\n", s.NormColumn)
		fmt.Fprintf(&b, "  > Extreme value (~1): %d hexagons\n", ones)
		fmt.Fprintf(&b, "  > Extreme value (~0): %d hexagons\n", zeros)

		ranked := make([]IndicatorRow, len(s.Rows))
		copy(ranked, s.Rows)
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].Norm > ranked[j].Norm })

		b.WriteString("Top 5 hexagons:\n")
		for _, r := range ranked[:minInt(5, len(ranked))] {
			fmt.Fprintf(&b, "  %s  abs=%.4f  norm=%.4f\n", r.H3ID, r.Abs, r.Norm)
		}
		b.WriteString("Bottom 5 hexagons:\n")
		for i := len(ranked) - 1; i >= maxInt(0, len(ranked)-5); i-- {
			fmt.Fprintf(&b, "  %s  abs=%.4f  norm=%.4f\n", ranked[i].H3ID, ranked[i].Abs, ranked[i].Norm)
		}
		b.WriteString(strings.Repeat("-", 50) + "\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", eris.Wrapf(err, "artifact: write report %s", path)
	}
	return path, nil
}

func describe(values []float64) (mean, median, minVal, maxVal float64) {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	minVal, maxVal = sorted[0], sorted[len(sorted)-1]
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		median = sorted[mid]
	} else {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return mean, median, minVal, maxVal
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
