package codec

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/golang/geo/r2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"

	"github.com/jengzang/contour-backend/internal/contour"
)

// EncodeCSV writes vertices as a two column table with an x,y header.
func EncodeCSV(w io.Writer, vs contour.Vertices) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	row := make([]string, 2)
	for _, v := range vs {
		row[0] = strconv.FormatFloat(v.X, 'g', -1, 64)
		row[1] = strconv.FormatFloat(v.Y, 'g', -1, 64)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeGeoJSON writes paths as a FeatureCollection of LineStrings. Each
// feature carries its index and whether the path is closed.
func EncodeGeoJSON(w io.Writer, paths []contour.Path, level float64) error {
	fc := geojson.NewFeatureCollection()
	for i, p := range paths {
		f := geojson.NewFeature(lineString(p.Vertices))
		f.Properties["index"] = i
		f.Properties["closed"] = p.Closed
		f.Properties["level"] = level
		fc.Append(f)
	}

	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Simplify reduces vertices with Douglas-Peucker at the given tolerance.
// Endpoints are kept, so a closed path stays closed. A tolerance <= 0
// returns vs unchanged.
func Simplify(vs contour.Vertices, tolerance float64) contour.Vertices {
	if tolerance <= 0 || len(vs) < 3 {
		return vs
	}
	ls, ok := simplify.DouglasPeucker(tolerance).Simplify(lineString(vs)).(orb.LineString)
	if !ok {
		return vs
	}
	out := make(contour.Vertices, len(ls))
	for i, p := range ls {
		out[i] = r2.Point{X: p[0], Y: p[1]}
	}
	return out
}

// SimplifyPaths applies Simplify to every path.
func SimplifyPaths(paths []contour.Path, tolerance float64) []contour.Path {
	if tolerance <= 0 {
		return paths
	}
	out := make([]contour.Path, len(paths))
	for i, p := range paths {
		out[i] = contour.Path{Vertices: Simplify(p.Vertices, tolerance), Closed: p.Closed}
	}
	return out
}

func lineString(vs contour.Vertices) orb.LineString {
	ls := make(orb.LineString, len(vs))
	for i, v := range vs {
		ls[i] = orb.Point{v.X, v.Y}
	}
	return ls
}
