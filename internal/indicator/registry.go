// Package indicator holds the typed registry that maps indicator keys to
// their source variables, aggregation kind, invert flag, and artifact names.
// The registry is the single source of truth consulted by every stage; no
// stage concatenates column-name suffixes on its own.
package indicator

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Kind is the aggregation scheme for an indicator.
type Kind string

const (
	// KindRatio sums weighted numerator and denominator variables per hexagon
	// and divides (ratio of sums, never average of ratios).
	KindRatio Kind = "ratio"
	// KindBoolean is a per-municipality Sim/Não answer broadcast to hexagons.
	KindBoolean Kind = "boolean"
	// KindDirect is a per-municipality numeric value (or sum of answers),
	// min-max normalized across municipalities before broadcasting.
	KindDirect Kind = "direct"
	// KindGravity is the facility-accessibility score; it has its own stage.
	KindGravity Kind = "gravity"
	// KindExternal marks columns produced outside this pipeline (the climate
	// exposure layers); they are joined during composition only.
	KindExternal Kind = "external"
)

// Indicator describes one column of the index.
type Indicator struct {
	Key        string   `json:"key"`
	Column     string   `json:"column"` // normalized column name, e.g. v1_ren_norm
	Dimension  string   `json:"dimension"`
	Kind       Kind     `json:"kind"`
	Source     string   `json:"source"`                // censo, cnes, munic, siconfi, external
	SourceFile string   `json:"source_file,omitempty"` // survey file, relative to the source input dir
	NumVars    []string `json:"num_vars,omitempty"`
	DenVars    []string `json:"den_vars,omitempty"`
	Invert     bool     `json:"invert"`
	Output     string   `json:"output"` // artifact file name (versioned on write)
}

// AbsColumn derives the absolute-value column name from the normalized one.
func (i Indicator) AbsColumn() string {
	return strings.TrimSuffix(i.Column, "_norm") + "_abs"
}

// Registry is an ordered indicator collection.
type Registry struct {
	indicators []Indicator
	byKey      map[string]int
}

// New builds a registry, validating key uniqueness and kind/variable shape.
func New(indicators []Indicator) (*Registry, error) {
	r := &Registry{byKey: make(map[string]int, len(indicators))}
	for _, ind := range indicators {
		if ind.Key == "" || ind.Column == "" {
			return nil, eris.Errorf("indicator: entry %q missing key or column", ind.Key)
		}
		if _, dup := r.byKey[ind.Key]; dup {
			return nil, eris.Errorf("indicator: duplicate key %q", ind.Key)
		}
		switch ind.Kind {
		case KindRatio:
			if len(ind.NumVars) == 0 || len(ind.DenVars) == 0 {
				return nil, eris.Errorf("indicator: ratio %q needs num_vars and den_vars", ind.Key)
			}
		case KindBoolean:
			if len(ind.NumVars) != 1 {
				return nil, eris.Errorf("indicator: boolean %q needs exactly one source variable", ind.Key)
			}
		case KindDirect, KindGravity, KindExternal:
		default:
			return nil, eris.Errorf("indicator: %q has unknown kind %q", ind.Key, ind.Kind)
		}
		r.byKey[ind.Key] = len(r.indicators)
		r.indicators = append(r.indicators, ind)
	}
	return r, nil
}

// Load reads a registry from the external JSON file.
func Load(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "indicator: read registry %s", path)
	}
	var indicators []Indicator
	if err := json.Unmarshal(raw, &indicators); err != nil {
		return nil, eris.Wrapf(err, "indicator: parse registry %s", path)
	}
	return New(indicators)
}

// ByKey returns an indicator by its key.
func (r *Registry) ByKey(key string) (Indicator, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Indicator{}, false
	}
	return r.indicators[i], true
}

// All returns every indicator in registry order.
func (r *Registry) All() []Indicator {
	return r.indicators
}

// OfKind returns the indicators with the given kind, in registry order.
func (r *Registry) OfKind(kind Kind) []Indicator {
	var out []Indicator
	for _, ind := range r.indicators {
		if ind.Kind == kind {
			out = append(out, ind)
		}
	}
	return out
}

// Dimensions groups indicator keys by dimension, preserving registry order
// within each dimension and across first appearances.
func (r *Registry) Dimensions() (names []string, groups map[string][]string) {
	groups = make(map[string][]string)
	for _, ind := range r.indicators {
		if ind.Dimension == "" {
			continue
		}
		if _, seen := groups[ind.Dimension]; !seen {
			names = append(names, ind.Dimension)
		}
		groups[ind.Dimension] = append(groups[ind.Dimension], ind.Key)
	}
	return names, groups
}

// RawVars returns the union of source variables referenced by ratio
// indicators, preserving first-appearance order. The census extractor uses it
// to keep only the columns it needs.
func (r *Registry) RawVars() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(vars []string) {
		for _, v := range vars {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	for _, ind := range r.OfKind(KindRatio) {
		add(ind.NumVars)
		add(ind.DenVars)
	}
	return out
}
