package dataset

import (
	"strconv"
	"strings"
)

// ParseNumber is the pipeline-wide parse-or-zero policy: a missing or
// malformed numeric field is treated as absence, not unknown, and coerces to
// 0. Comma decimal marks from Latin-1 sources are accepted. The policy is a
// named function (rather than inline coercion) so tests can target it.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCoord parses a geographic coordinate. Unlike ParseNumber it reports
// failure instead of coercing: a facility with an unparseable coordinate must
// be dropped, not placed at the origin.
func ParseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseYesNo maps the survey's Sim/Não answers to 1/0. Any other content
// coerces to 0 under the parse-or-zero policy.
func ParseYesNo(s string) float64 {
	switch strings.TrimSpace(s) {
	case "Sim", "sim", "SIM":
		return 1
	default:
		return 0
	}
}
