// Package hexgrid builds the base hexagon table: the H3-to-census-tract
// crosswalk joined with dasymetric household counts, plus each hexagon's
// weight within its tract.
package hexgrid

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/uber/h3-go/v4"
)

// Centroid resolves an H3 cell id (hex string, as stored in the artifacts)
// to its centroid in geographic degrees.
func Centroid(id string) (lat, lng float64, err error) {
	v, err := strconv.ParseUint(id, 16, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "hexgrid: parse cell id %q", id)
	}
	cell := h3.Cell(v)
	if !cell.IsValid() {
		return 0, 0, eris.Errorf("hexgrid: id %q is not a valid cell", id)
	}
	ll := h3.CellToLatLng(cell)
	return ll.Lat, ll.Lng, nil
}
