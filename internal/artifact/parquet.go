package artifact

import (
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"
)

// BaseRow is one hexagon of the consolidated base metadata table, the join
// backbone for every downstream stage.
type BaseRow struct {
	H3ID       string  `parquet:"h3_id"`
	TractID    string  `parquet:"cd_setor"`
	MunCode    string  `parquet:"cd_mun"`
	MunName    string  `parquet:"nm_mun"`
	StateCode  string  `parquet:"cd_uf"`
	StateName  string  `parquet:"nm_uf"`
	Households float64 `parquet:"qtd_dom"`
	Weight     float64 `parquet:"peso_dom"`
}

// CrosswalkRow is one hexagon of the input base grid: the H3-to-tract link
// plus municipality attributes, before households and weights are attached.
type CrosswalkRow struct {
	H3ID      string `parquet:"h3_id"`
	TractID   string `parquet:"cd_setor"`
	MunCode   string `parquet:"cd_mun"`
	MunName   string `parquet:"nm_mun"`
	StateCode string `parquet:"cd_uf"`
	StateName string `parquet:"nm_uf"`
}

// HouseholdRow is one hexagon of a household-count chunk file.
type HouseholdRow struct {
	H3ID  string  `parquet:"h3_id"`
	Count float64 `parquet:"qtd_dom"`
}

// IndicatorRow is one hexagon of a per-indicator output file.
type IndicatorRow struct {
	H3ID string  `parquet:"h3_id"`
	Abs  float64 `parquet:"abs_value"`
	Norm float64 `parquet:"norm_value"`
}

// ComposeRow is one hexagon of the final consolidated surface.
type ComposeRow struct {
	H3ID       string             `parquet:"h3_id"`
	MunCode    string             `parquet:"cd_mun"`
	MunName    string             `parquet:"nm_mun"`
	Indicators map[string]float64 `parquet:"indicators"`
	Dimensions map[string]float64 `parquet:"dimensions"`
	Final      float64            `parquet:"ijc_final"`
}

// WriteParquet persists rows to a fresh version of the artifact and returns
// the path actually written.
func WriteParquet[T any](path string, rows []T) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", eris.Wrapf(err, "artifact: create dir for %s", path)
	}
	final := NextVersionPath(path)
	if err := parquet.WriteFile(final, rows); err != nil {
		return "", eris.Wrapf(err, "artifact: write %s", final)
	}
	return final, nil
}

// ReadParquet loads the newest version of an artifact.
func ReadParquet[T any](path string) ([]T, error) {
	resolved, err := LatestVersionPath(path)
	if err != nil {
		return nil, err
	}
	rows, err := parquet.ReadFile[T](resolved)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: read %s", resolved)
	}
	return rows, nil
}

// ReadParquetExact loads a specific file with no version resolution; the
// household chunk globs use it.
func ReadParquetExact[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, eris.Wrapf(err, "artifact: read %s", path)
	}
	return rows, nil
}
