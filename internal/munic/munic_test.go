package munic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/artifact"
	"github.com/carolinafaccin/climate-justice-index-v2/internal/normalize"
)

func TestReadBoolean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "munic_2020_gestao-de-riscos.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("CodMun;Mun;MGRD213\n3550308;São Paulo;Sim\n3304557;Rio de Janeiro;Não\n5208707;Goiânia;Recusa\n1302603;Manaus;\n"), 0o644))

	vals, err := ReadBoolean(path, "mgrd213")
	require.NoError(t, err)
	require.Len(t, vals, 4)

	assert.Equal(t, 1.0, vals["3550308"])
	assert.Equal(t, 0.0, vals["3304557"])
	assert.Equal(t, 0.0, vals["5208707"], "refusal maps to zero")
	assert.Equal(t, 0.0, vals["1302603"], "blank maps to zero")
}

func TestReadBoolean_MissingVariable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte("cd_mun;other\n1;Sim\n"), 0o644))

	_, err := ReadBoolean(path, "mgrd213")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mgrd213")
}

func TestReadAnswerCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "munic_2023_direitos-humanos.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("COD_MUNIC;MDHU571;MDHU572;MDHU58\n3550308;Sim;Sim;Não\n3304557;Não;Sim;Sim\n"), 0o644))

	vals, err := ReadAnswerCount(path, []string{"mdhu571", "mdhu572", "mdhu58", "mdhu99"})
	require.NoError(t, err)

	assert.Equal(t, 2.0, vals["3550308"])
	assert.Equal(t, 2.0, vals["3304557"])
}

func TestReadAnswerCount_NoVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.csv")
	require.NoError(t, os.WriteFile(path, []byte("cd_mun;x\n1;Sim\n"), 0o644))

	_, err := ReadAnswerCount(path, []string{"mdhu571"})
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	vals := MunValues{"a": 0, "b": 5, "c": 10}
	out := Normalize(vals, normalize.Options{})

	assert.InDelta(t, 0.0, out["a"], 1e-12)
	assert.InDelta(t, 0.5, out["b"], 1e-12)
	assert.InDelta(t, 1.0, out["c"], 1e-12)
}

func TestNormalize_Constant(t *testing.T) {
	out := Normalize(MunValues{"a": 7, "b": 7}, normalize.Options{})
	assert.Equal(t, 0.0, out["a"])
	assert.Equal(t, 0.0, out["b"])
}

func writeFinanceYear(t *testing.T, dir string, year int, rows string) {
	t.Helper()
	preamble := "FINBRA\nDespesas por Função\nExercício\n"
	header := "Cod.IBGE;Instituição;UF;População;Coluna;Conta;Valor\n"
	require.NoError(t, os.WriteFile(financePath(dir, year), []byte(preamble+header+rows), 0o644))
}

func TestReadFinance(t *testing.T) {
	dir := t.TempDir()
	writeFinanceYear(t, dir, 2022,
		"3550308;Prefeitura;SP;1000;Despesas Liquidadas;18 - Gestão Ambiental;2000,00\n"+
			"3550308;Prefeitura;SP;1000;Despesas Empenhadas;18 - Gestão Ambiental;9999,00\n"+
			"3550308;Prefeitura;SP;1000;Despesas Liquidadas;10 - Saúde;5000,00\n"+
			"3304557;Prefeitura;RJ;0;Despesas Liquidadas;18 - Gestão Ambiental;100,00\n")
	writeFinanceYear(t, dir, 2023,
		"3550308;Prefeitura;SP;1000;Despesas Liquidadas;18 - Gestão Ambiental;1000,00\n")

	vals, err := ReadFinance(dir, []int{2022, 2023})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, vals["3550308"], 1e-12, "per-capita expense summed across years")
	_, ok := vals["3304557"]
	assert.False(t, ok, "zero population rows are skipped")
}

func TestReadFinance_MissingYear(t *testing.T) {
	dir := t.TempDir()
	writeFinanceYear(t, dir, 2022, "3550308;P;SP;10;Despesas Liquidadas;18 - Gestão Ambiental;50,00\n")

	_, err := ReadFinance(dir, []int{2022, 2023})
	assert.Error(t, err)
}

func TestReadFinance_NoYears(t *testing.T) {
	_, err := ReadFinance(t.TempDir(), nil)
	assert.Error(t, err)
}

func TestBroadcast(t *testing.T) {
	base := []artifact.BaseRow{
		{H3ID: "a", MunCode: "3550308"},
		{H3ID: "a", MunCode: "3550308"}, // straddling hexagon appears twice
		{H3ID: "b", MunCode: "3304557"},
		{H3ID: "c", MunCode: "9999999"}, // not surveyed
	}
	abs := MunValues{"3550308": 5, "3304557": 2}
	norm := MunValues{"3550308": 1, "3304557": 0.4}

	rows := Broadcast(base, abs, norm)
	require.Len(t, rows, 3)

	assert.Equal(t, artifact.IndicatorRow{H3ID: "a", Abs: 5, Norm: 1}, rows[0])
	assert.Equal(t, artifact.IndicatorRow{H3ID: "b", Abs: 2, Norm: 0.4}, rows[1])
	assert.Equal(t, artifact.IndicatorRow{H3ID: "c", Abs: 0, Norm: 0}, rows[2])
}
