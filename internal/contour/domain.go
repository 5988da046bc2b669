package contour

import (
	"fmt"
	"math"
)

// MinSamples is the smallest sample count accepted by Interpolate.
const MinSamples = 4

// Sample is one scattered observation of the scalar field.
type Sample struct {
	X, Y, Z float64
}

// Domain is the square [Lo, Hi] x [Lo, Hi] the grid is evaluated over.
type Domain struct {
	Lo, Hi float64
}

// Validate checks Lo < Hi and that both bounds are finite.
func (d Domain) Validate() error {
	if math.IsNaN(d.Lo) || math.IsNaN(d.Hi) || math.IsInf(d.Lo, 0) || math.IsInf(d.Hi, 0) {
		return fmt.Errorf("%w: domain bounds must be finite, got [%g, %g]", ErrInvalidInput, d.Lo, d.Hi)
	}
	if d.Lo >= d.Hi {
		return fmt.Errorf("%w: domain low %g must be less than high %g", ErrInvalidInput, d.Lo, d.Hi)
	}
	return nil
}

// Lattice returns n evenly spaced coordinates from Lo to Hi inclusive.
// The last coordinate is Hi exactly. Both the interpolator and the
// contour tracer use this lattice, so grid indices map back to the same
// floating point coordinates they were evaluated at.
func (d Domain) Lattice(n int) []float64 {
	if n < 1 {
		return nil
	}
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = d.Lo
		return xs
	}
	step := (d.Hi - d.Lo) / float64(n-1)
	for i := range xs {
		xs[i] = d.Lo + float64(i)*step
	}
	xs[n-1] = d.Hi
	return xs
}
