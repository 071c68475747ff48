// Package dataset reads the delimited-text and spreadsheet snapshots published
// by the government sources. Files arrive in UTF-8 or legacy Latin-1 and use
// either semicolon or comma separators; readers attempt UTF-8 first and fall
// back to Latin-1, and sniff the separator from the header row.
package dataset

import (
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"
)

// Open returns a UTF-8 reader for the file, decoding from Latin-1 when the
// raw bytes are not valid UTF-8.
func Open(path string) (io.Reader, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}
	return decode(raw), nil
}

func decode(raw []byte) io.Reader {
	if utf8.Valid(raw) {
		return bytes.NewReader(raw)
	}
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw))
}

// readDecoded loads a whole file as UTF-8 bytes, applying the Latin-1
// fallback when needed.
func readDecoded(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}
	if utf8.Valid(raw) {
		return raw, nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: decode %s", path)
	}
	return decoded, nil
}

// sniffDelimiter picks between semicolon and comma by counting occurrences in
// the first line. Semicolon wins ties: the Brazilian sources that use commas
// as field separators never use them inside the header.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) >= bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
