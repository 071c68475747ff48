package indicator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	r := Default()

	v4, ok := r.ByKey("v4")
	require.True(t, ok)
	assert.Equal(t, KindRatio, v4.Kind)
	assert.Equal(t, []string{"v00853", "v00855", "v00857"}, v4.NumVars)
	assert.True(t, v4.Invert)
	assert.Equal(t, "v4_edu_abs", v4.AbsColumn())

	v1, ok := r.ByKey("v1")
	require.True(t, ok)
	assert.False(t, v1.Invert, "income scales with wellbeing and is not inverted")

	names, groups := r.Dimensions()
	assert.Equal(t, []string{"exposicao_climatica", "vulnerabilidade", "grupos_prioritarios", "gestao_municipal"}, names)
	assert.Equal(t, []string{"v1", "v2", "v3", "v4", "v5"}, groups["vulnerabilidade"])
	assert.Len(t, groups["gestao_municipal"], 5)
}

func TestRawVars(t *testing.T) {
	vars := Default().RawVars()
	assert.Contains(t, vars, "v06004_v06001")
	assert.Contains(t, vars, "v01006")

	seen := map[string]int{}
	for _, v := range vars {
		seen[v]++
	}
	// v01006 is a denominator for four indicators but appears once.
	assert.Equal(t, 1, seen["v01006"])
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		ind  Indicator
	}{
		{"missing column", Indicator{Key: "x", Kind: KindRatio}},
		{"ratio without denominator", Indicator{Key: "x", Column: "x_norm", Kind: KindRatio, NumVars: []string{"a"}}},
		{"boolean with two vars", Indicator{Key: "x", Column: "x_norm", Kind: KindBoolean, NumVars: []string{"a", "b"}}},
		{"unknown kind", Indicator{Key: "x", Column: "x_norm", Kind: "weird"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]Indicator{tt.ind})
			assert.Error(t, err)
		})
	}

	_, err := New([]Indicator{
		{Key: "a", Column: "a_norm", Kind: KindExternal},
		{Key: "a", Column: "a2_norm", Kind: KindExternal},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indicators.json")
	data := `[
		{"key": "v2", "column": "v2_mor_norm", "dimension": "vulnerabilidade",
		 "kind": "ratio", "source": "censo",
		 "num_vars": ["v00238"], "den_vars": ["v00001"],
		 "invert": true, "output": "br_h3_moradia.parquet"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	r, err := Load(path)
	require.NoError(t, err)

	v2, ok := r.ByKey("v2")
	require.True(t, ok)
	assert.True(t, v2.Invert)
	assert.Equal(t, []string{"v00001"}, v2.DenVars)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
