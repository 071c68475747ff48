package dataset

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a fully loaded tabular snapshot with a lowercased header.
type Table struct {
	Header []string
	Rows   [][]string
}

// Options configures delimited-text parsing.
type Options struct {
	Delimiter rune // 0 = sniff from the header row
	SkipRows  int  // leading rows discarded before the header
	Sheet     string
}

// Column returns the index of a header column, or -1 when absent.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col), or "" when the row is ragged.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// ReadTable loads a snapshot file, dispatching on the extension: .xlsx goes
// through the workbook reader, everything else is treated as delimited text.
func ReadTable(path string, opts Options) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadWorkbook(path, opts)
	}
	return ReadDelimited(path, opts)
}

// ReadDelimited loads a delimited text file into memory, applying the
// encoding fallback and delimiter sniffing. Header names are lowercased so
// callers can address columns uniformly across sources.
func ReadDelimited(path string, opts Options) (*Table, error) {
	data, err := readDecoded(path)
	if err != nil {
		return nil, err
	}

	for i := 0; i < opts.SkipRows; i++ {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			return nil, eris.Errorf("dataset: %s: fewer rows than skip_rows=%d", path, opts.SkipRows)
		}
		data = data[nl+1:]
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: parse %s", path)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("dataset: %s is empty", path)
	}

	header := records[0]
	for i, h := range header {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	return &Table{Header: header, Rows: records[1:]}, nil
}
