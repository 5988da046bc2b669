package contour

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

// Grid is an N x N lattice of scalar values over a Domain. Values are
// stored row-major: row iy holds the points with y = lattice[iy], column ix
// the points with x = lattice[ix].
type Grid struct {
	Domain  Domain
	N       int
	Values  []float64
	Covered []bool

	lattice []float64
}

// NewGrid wraps externally computed values in a Grid. Every cell is
// treated as covered.
func NewGrid(d Domain, n int, values []float64) (*Grid, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: grid size must be at least 2, got %d", ErrInvalidInput, n)
	}
	if len(values) != n*n {
		return nil, fmt.Errorf("%w: expected %d values for a %dx%d grid, got %d",
			ErrInvalidInput, n*n, n, n, len(values))
	}

	g := newGrid(d, n)
	copy(g.Values, values)
	for i := range g.Covered {
		g.Covered[i] = true
	}
	return g, nil
}

func newGrid(d Domain, n int) *Grid {
	return &Grid{
		Domain:  d,
		N:       n,
		Values:  make([]float64, n*n),
		Covered: make([]bool, n*n),
		lattice: d.Lattice(n),
	}
}

// Idx returns the flat index of lattice point (ix, iy).
func (g *Grid) Idx(ix, iy int) int {
	return iy*g.N + ix
}

// At returns the value at lattice point (ix, iy).
func (g *Grid) At(ix, iy int) float64 {
	return g.Values[g.Idx(ix, iy)]
}

// Lattice returns the shared axis coordinates. The slice must not be
// modified.
func (g *Grid) Lattice() []float64 {
	if g.lattice == nil {
		return g.Domain.Lattice(g.N)
	}
	return g.lattice
}

// Point returns the domain coordinates of lattice point (ix, iy).
func (g *Grid) Point(ix, iy int) r2.Point {
	xs := g.Lattice()
	return r2.Point{X: xs[ix], Y: xs[iy]}
}

// Range returns the minimum and maximum over covered, non-NaN cells. ok is
// false when no such cell exists. A grid without a Covered mask counts as
// fully covered.
func (g *Grid) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i, v := range g.Values {
		if (g.Covered != nil && !g.Covered[i]) || math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}
