package contour

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// hullEpsilon is the barycentric tolerance for lattice points lying on a
// triangle edge.
const hullEpsilon = 100 * 2.220446049250313e-16

// Interpolate evaluates the scattered samples on an nInterp x nInterp
// lattice over d using Clough-Tocher cubic interpolation on the samples'
// Delaunay triangulation. Lattice points outside the convex hull of the
// sample positions are set to fill exactly and marked uncovered.
func Interpolate(samples []Sample, d Domain, nInterp int, fill float64) (*Grid, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if nInterp < 2 {
		return nil, fmt.Errorf("%w: n_interp must be at least 2, got %d", ErrInvalidInput, nInterp)
	}
	if len(samples) < MinSamples {
		return nil, fmt.Errorf("%w: %w: need at least %d samples, got %d",
			ErrInvalidInput, ErrInterpolation, MinSamples, len(samples))
	}

	points := make([]r2.Point, len(samples))
	values := make([]float64, len(samples))
	for i, s := range samples {
		if !finite(s.X) || !finite(s.Y) || !finite(s.Z) {
			return nil, fmt.Errorf("%w: sample %d is not finite: (%g, %g, %g)", ErrInvalidInput, i, s.X, s.Y, s.Z)
		}
		points[i] = r2.Point{X: s.X, Y: s.Y}
		values[i] = s.Z
	}

	tr, err := triangulate(points)
	if err != nil {
		return nil, err
	}
	grads := estimateGradients(points, values, tr.vertexNeighbors())

	g := newGrid(d, nInterp)
	for i := range g.Values {
		g.Values[i] = fill
	}

	lattice := g.Lattice()
	step := (d.Hi - d.Lo) / float64(nInterp-1)

	// Rasterise each triangle over the lattice points in its bounding box.
	// A point on a shared edge belongs to the first triangle that claims it.
	for t := 0; t < tr.numTriangles(); t++ {
		p := newPatch(tr, t, values, grads)
		box := r2.RectFromPoints(p.a, p.b, p.c)

		ix0, ix1, ok := latticeSpan(box.X.Lo, box.X.Hi, d.Lo, step, nInterp)
		if !ok {
			continue
		}
		iy0, iy1, ok := latticeSpan(box.Y.Lo, box.Y.Hi, d.Lo, step, nInterp)
		if !ok {
			continue
		}

		for iy := iy0; iy <= iy1; iy++ {
			for ix := ix0; ix <= ix1; ix++ {
				idx := g.Idx(ix, iy)
				if g.Covered[idx] {
					continue
				}
				q := r2.Point{X: lattice[ix], Y: lattice[iy]}
				b := barycentric(p.a, p.b, p.c, q)
				if !(b[0] >= -hullEpsilon && b[1] >= -hullEpsilon && b[2] >= -hullEpsilon) {
					continue
				}
				g.Values[idx] = p.eval(b)
				g.Covered[idx] = true
			}
		}
	}

	return g, nil
}

// latticeSpan returns the inclusive index range of lattice coordinates
// that may fall within [lo, hi], widened by one index on each side.
func latticeSpan(lo, hi, origin, step float64, n int) (int, int, bool) {
	f0 := math.Max(math.Floor((lo-origin)/step)-1, 0)
	f1 := math.Min(math.Ceil((hi-origin)/step)+1, float64(n-1))
	if !(f0 <= f1) {
		return 0, 0, false
	}
	return int(f0), int(f1), true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
