package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// writeWorkbook builds a survey-shaped workbook: a notes sheet first, then a
// data sheet with a banner row above the header.
func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := xlsx.NewFile()

	notes, err := f.AddSheet("Notas")
	require.NoError(t, err)
	notes.AddRow().AddCell().SetString("Apresentação")

	data, err := f.AddSheet("Dados")
	require.NoError(t, err)
	data.AddRow().AddCell().SetString("MUNIC 2023")
	header := data.AddRow()
	for _, h := range []string{"CodMun", " MDHU571 "} {
		header.AddCell().SetString(h)
	}
	row := data.AddRow()
	row.AddCell().SetString("3550308")
	row.AddCell().SetString("Sim")

	path := filepath.Join(t.TempDir(), "munic_2023_direitos-humanos.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadTable_Workbook(t *testing.T) {
	path := writeWorkbook(t)

	// ReadTable dispatches on the extension; the banner row is skipped and
	// the header lowercased like the delimited path.
	tbl, err := ReadTable(path, Options{Sheet: "Dados", SkipRows: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"codmun", "mdhu571"}, tbl.Header)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "3550308", tbl.Cell(tbl.Rows[0], tbl.Column("codmun")))
	assert.Equal(t, 1.0, ParseYesNo(tbl.Cell(tbl.Rows[0], tbl.Column("mdhu571"))))
}

func TestReadWorkbook_DefaultSheet(t *testing.T) {
	path := writeWorkbook(t)

	// Without a sheet name the first sheet wins.
	tbl, err := ReadWorkbook(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"apresentação"}, tbl.Header)
	assert.Empty(t, tbl.Rows)
}

func TestReadWorkbook_MissingSheet(t *testing.T) {
	path := writeWorkbook(t)

	_, err := ReadWorkbook(path, Options{Sheet: "Outra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Outra")
}

func TestReadWorkbook_MissingFile(t *testing.T) {
	_, err := ReadWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"), Options{})
	assert.Error(t, err)
}
