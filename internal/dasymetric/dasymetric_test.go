package dasymetric

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/indicator"
)

func TestRatio_StraddlingHexagon(t *testing.T) {
	// One hexagon split across two tracts. Numerator and denominator are
	// each summed across contributions before the single division.
	base := []artifact.BaseRow{
		{H3ID: "hex", TractID: "t1", Weight: 0.3},
		{H3ID: "hex", TractID: "t2", Weight: 0.7},
	}
	tracts := TractVars{
		"t1": {"num": 100, "den": 50},
		"t2": {"num": 200, "den": 80},
	}

	ids, vals := Ratio(base, tracts, []string{"num"}, []string{"den"})
	require.Equal(t, []string{"hex"}, ids)

	want := (100*0.3 + 200*0.7) / (50*0.3 + 80*0.7)
	assert.InDelta(t, want, vals[0], 1e-12)
}

func TestRatio_WeightCancelsWithinTract(t *testing.T) {
	// Hexagons of a single tract inherit the tract ratio exactly, whatever
	// their household shares are.
	base := []artifact.BaseRow{
		{H3ID: "a", TractID: "t1", Weight: 0.25},
		{H3ID: "b", TractID: "t1", Weight: 0.75},
	}
	tracts := TractVars{"t1": {"num": 10, "den": 5}}

	_, vals := Ratio(base, tracts, []string{"num"}, []string{"den"})
	assert.InDelta(t, 2.0, vals[0], 1e-12)
	assert.InDelta(t, 2.0, vals[1], 1e-12)
}

func TestRatio_ZeroDenominator(t *testing.T) {
	base := []artifact.BaseRow{{H3ID: "a", TractID: "t1", Weight: 1}}
	tracts := TractVars{"t1": {"num": 10, "den": 0}}

	_, vals := Ratio(base, tracts, []string{"num"}, []string{"den"})
	assert.Equal(t, 0.0, vals[0])
}

func TestRatio_MultipleVariables(t *testing.T) {
	base := []artifact.BaseRow{{H3ID: "a", TractID: "t1", Weight: 1}}
	tracts := TractVars{"t1": {"n1": 3, "n2": 7, "den": 20}}

	_, vals := Ratio(base, tracts, []string{"n1", "n2"}, []string{"den"})
	assert.InDelta(t, 0.5, vals[0], 1e-12)
}

func TestCompute_InvertedIndicator(t *testing.T) {
	base := []artifact.BaseRow{
		{H3ID: "a", TractID: "t1", Weight: 1},
		{H3ID: "b", TractID: "t2", Weight: 1},
	}
	tracts := TractVars{
		"t1": {"num": 1, "den": 1},
		"t2": {"num": 3, "den": 1},
	}
	ind := indicator.Indicator{
		Key: "v2", Column: "v2_mor_norm", Kind: indicator.KindRatio,
		NumVars: []string{"num"}, DenVars: []string{"den"}, Invert: true,
	}

	rows, err := Compute(base, tracts, ind)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Higher raw value means better conditions here, so the scale flips.
	assert.InDelta(t, 1.0, rows[0].Norm, 1e-12)
	assert.InDelta(t, 0.0, rows[1].Norm, 1e-12)
	assert.InDelta(t, 1.0, rows[0].Abs, 1e-12)
	assert.InDelta(t, 3.0, rows[1].Abs, 1e-12)
}

func TestCompute_RejectsNonRatio(t *testing.T) {
	_, err := Compute(nil, nil, indicator.Indicator{Key: "v5", Kind: indicator.KindGravity})
	assert.Error(t, err)
}

func TestExtractTractVars(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "domicilios.csv"),
		[]byte("CD_SETOR;V00001;V00238\n355030801;120;3,5\n355030802;;1,0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pessoas.csv"),
		[]byte("cd_setor,v01006\n355030801,400\n"), 0o644))

	tracts, err := ExtractTractVars(dir, []string{"v00001", "v00238", "v01006", "v99999"})
	require.NoError(t, err)
	require.Len(t, tracts, 2)

	assert.Equal(t, 120.0, tracts["355030801"]["v00001"])
	assert.Equal(t, 3.5, tracts["355030801"]["v00238"], "comma decimal")
	assert.Equal(t, 400.0, tracts["355030801"]["v01006"])
	assert.Equal(t, 0.0, tracts["355030802"]["v00001"], "blank cell reads as zero")
	assert.Equal(t, 0.0, tracts["355030801"]["v99999"], "absent variable reads as zero")
}

func TestExtractTractVars_NoFiles(t *testing.T) {
	_, err := ExtractTractVars(t.TempDir(), []string{"v00001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no census files")
}

func TestExtractTractVars_MissingTractColumn(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.csv"),
		[]byte("id;v00001\n1;2\n"), 0o644))

	_, err := ExtractTractVars(dir, []string{"v00001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cd_setor")
}

func TestAddProduct(t *testing.T) {
	tracts := TractVars{
		"t1": {"v06004": 1500.0, "v06001": 3.0},
		"t2": {"v06004": 0.0, "v06001": 2.0},
	}
	tracts.AddProduct("v06004_v06001", "v06004", "v06001")

	assert.Equal(t, 4500.0, tracts["t1"]["v06004_v06001"])
	assert.Equal(t, 0.0, tracts["t2"]["v06004_v06001"])
}
