// Package access implements the gravitational healthcare-accessibility model:
// facility and hexagon coordinates are projected to a planar metric system,
// a k-d tree answers nearest-facility queries, and each hexagon scores the
// distance-discounted capacity of its nearest facilities.
package access

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Projector applies the SIRGAS 2000 / Brazil Polyconic projection
// (EPSG:5880), the whole-country metric system used for all distance math.
// Planar Euclidean distance between projected points approximates ground
// distance in meters across the national extent.
type Projector struct {
	a  float64 // semi-major axis
	e2 float64 // first eccentricity squared
	e4 float64
	e6 float64

	lon0          float64 // central meridian, radians
	falseEasting  float64
	falseNorthing float64
}

// NewProjector returns the EPSG:5880 projector on the GRS80 ellipsoid.
func NewProjector() *Projector {
	const (
		a = 6378137.0
		f = 1.0 / 298.257222101
	)
	e2 := 2*f - f*f
	return &Projector{
		a:             a,
		e2:            e2,
		e4:            e2 * e2,
		e6:            e2 * e2 * e2,
		lon0:          -54.0 * math.Pi / 180,
		falseEasting:  5000000.0,
		falseNorthing: 10000000.0,
	}
}

// Forward projects a geographic coordinate (degrees) to planar meters.
func (p *Projector) Forward(lat, lng float64) geom.Coord {
	phi := lat * math.Pi / 180
	lam := lng * math.Pi / 180
	dLam := lam - p.lon0

	if phi == 0 {
		return geom.Coord{p.falseEasting + p.a*dLam, p.falseNorthing}
	}

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	cotPhi := cosPhi / sinPhi

	e := dLam * sinPhi
	n := p.a / math.Sqrt(1-p.e2*sinPhi*sinPhi)

	x := n * cotPhi * math.Sin(e)
	y := p.meridianArc(phi) + n*cotPhi*(1-math.Cos(e))

	return geom.Coord{p.falseEasting + x, p.falseNorthing + y}
}

// meridianArc is the distance along the meridian from the equator to
// latitude phi (radians), via the standard series expansion.
func (p *Projector) meridianArc(phi float64) float64 {
	return p.a * ((1-p.e2/4-3*p.e4/64-5*p.e6/256)*phi -
		(3*p.e2/8+3*p.e4/32+45*p.e6/1024)*math.Sin(2*phi) +
		(15*p.e4/256+45*p.e6/1024)*math.Sin(4*phi) -
		(35*p.e6/3072)*math.Sin(6*phi))
}
