package access

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/carolinafaccin/climate-justice-index-v2/internal/normalize"
)

// Facility is a healthcare establishment with a point location and a
// capacity score (distinct services offered plus a baseline of one).
type Facility struct {
	ID       string
	Lat      float64
	Lng      float64
	Capacity float64
}

// CellPoint is a hexagon centroid to be scored.
type CellPoint struct {
	H3ID string
	Lat  float64
	Lng  float64
}

// Params tunes the gravitational model.
type Params struct {
	// Neighbors is how many nearest facilities contribute to a hexagon.
	Neighbors int
	// DistanceFloor (meters) is added to every distance before dividing, so
	// a hexagon coincident with a facility does not blow up the score. The
	// production value is 100 and is part of the output contract.
	DistanceFloor float64
}

// DefaultParams returns the production model parameters.
func DefaultParams() Params {
	return Params{Neighbors: 3, DistanceFloor: 100}
}

// Score computes the absolute accessibility score for every cell: the sum
// over the k nearest facilities of capacity/(distance+floor). An empty
// facility registry is a fatal configuration error, not a zero-fill.
func Score(cells []CellPoint, facilities []Facility, p Params) ([]float64, error) {
	if len(facilities) == 0 {
		return nil, eris.New("access: facility registry is empty, cannot compute accessibility")
	}
	if p.Neighbors <= 0 {
		return nil, eris.Errorf("access: invalid neighbor count %d", p.Neighbors)
	}

	proj := NewProjector()

	pts := make([]geom.Coord, len(facilities))
	for i, f := range facilities {
		pts[i] = proj.Forward(f.Lat, f.Lng)
	}
	tree := NewKDTree(pts)

	scores := make([]float64, len(cells))
	for i, c := range cells {
		q := proj.Forward(c.Lat, c.Lng)
		for _, n := range tree.Nearest(q, p.Neighbors) {
			scores[i] += facilities[n.Index].Capacity / (n.Distance + p.DistanceFloor)
		}
	}
	return scores, nil
}

// NormalizeScores applies log1p to compress the long right tail produced by
// dense urban facility clusters, then plain min-max scaling over the full
// hexagon population. No winsorization here, unlike the census indicators.
func NormalizeScores(scores []float64) []float64 {
	logged := make([]float64, len(scores))
	for i, v := range scores {
		logged[i] = math.Log1p(v)
	}
	return normalize.MinMax(logged, normalize.Options{})
}
