package artifact

import (
	"os"
	"path/filepath"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// SurfacePoint is one hexagon centroid of the final index surface.
type SurfacePoint struct {
	H3ID  string
	Lng   float64
	Lat   float64
	Value float64
}

// ExportShapefile writes the final surface as a point shapefile for the
// mapping team. Versioning applies as for every other artifact.
func ExportShapefile(path string, points []SurfacePoint) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", eris.Wrapf(err, "artifact: create dir for %s", path)
	}
	final := NextVersionPath(path)

	w, err := shp.Create(final, shp.POINT)
	if err != nil {
		return "", eris.Wrapf(err, "artifact: create shapefile %s", final)
	}
	defer w.Close()

	if err := w.SetFields([]shp.Field{
		shp.StringField("H3_ID", 16),
		shp.FloatField("IJC", 19, 11),
	}); err != nil {
		return "", eris.Wrapf(err, "artifact: set shapefile fields %s", final)
	}

	for i, p := range points {
		w.Write(&shp.Point{X: p.Lng, Y: p.Lat})
		if err := w.WriteAttribute(i, 0, p.H3ID); err != nil {
			return "", eris.Wrapf(err, "artifact: write h3_id attribute row %d", i)
		}
		if err := w.WriteAttribute(i, 1, p.Value); err != nil {
			return "", eris.Wrapf(err, "artifact: write ijc attribute row %d", i)
		}
	}
	return final, nil
}
