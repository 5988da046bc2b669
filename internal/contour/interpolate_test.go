package contour

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squareSamples draws n random samples of f over [lo, hi]^2 plus the four
// corners, so the convex hull is the whole square.
func squareSamples(seed int64, n int, lo, hi float64, f func(x, y float64) float64) []Sample {
	rng := rand.New(rand.NewSource(seed))
	samples := []Sample{
		{X: lo, Y: lo, Z: f(lo, lo)},
		{X: hi, Y: lo, Z: f(hi, lo)},
		{X: hi, Y: hi, Z: f(hi, hi)},
		{X: lo, Y: hi, Z: f(lo, hi)},
	}
	for i := 0; i < n; i++ {
		x := lo + (hi-lo)*rng.Float64()
		y := lo + (hi-lo)*rng.Float64()
		samples = append(samples, Sample{X: x, Y: y, Z: f(x, y)})
	}
	return samples
}

func TestLattice(t *testing.T) {
	d := Domain{Lo: -2, Hi: 2}
	xs := d.Lattice(5)

	assert.Equal(t, []float64{-2, -1, 0, 1, 2}, xs)

	xs = d.Lattice(500)
	require.Len(t, xs, 500)
	assert.Equal(t, -2.0, xs[0])
	assert.Equal(t, 2.0, xs[499])
	for i := 1; i < len(xs); i++ {
		assert.InDelta(t, 4.0/499, xs[i]-xs[i-1], 1e-12)
	}
}

func TestDomainValidate(t *testing.T) {
	assert.NoError(t, Domain{Lo: -1, Hi: 1}.Validate())
	assert.ErrorIs(t, Domain{Lo: 1, Hi: 1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Domain{Lo: 2, Hi: 1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Domain{Lo: math.NaN(), Hi: 1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Domain{Lo: 0, Hi: math.Inf(1)}.Validate(), ErrInvalidInput)
}

func TestInterpolateReproducesPlane(t *testing.T) {
	plane := func(x, y float64) float64 { return 2*x - 3*y + 1 }
	samples := squareSamples(11, 200, -1, 1, plane)

	g, err := Interpolate(samples, Domain{Lo: -1, Hi: 1}, 21, -99)
	require.NoError(t, err)

	xs := g.Lattice()
	for iy := 0; iy < g.N; iy++ {
		for ix := 0; ix < g.N; ix++ {
			require.True(t, g.Covered[g.Idx(ix, iy)], "(%d, %d) should be inside the hull", ix, iy)
			assert.InDelta(t, plane(xs[ix], xs[iy]), g.At(ix, iy), 1e-3)
		}
	}
}

func TestInterpolateSmoothField(t *testing.T) {
	f := func(x, y float64) float64 { return math.Sin(x) * math.Cos(y) }
	samples := squareSamples(5, 800, -2, 2, f)

	g, err := Interpolate(samples, Domain{Lo: -2, Hi: 2}, 41, 0)
	require.NoError(t, err)

	// Hull triangles along the sides are long and thin; only check the
	// interior.
	xs := g.Lattice()
	for iy := 0; iy < g.N; iy++ {
		for ix := 0; ix < g.N; ix++ {
			if math.Abs(xs[ix]) > 1.5 || math.Abs(xs[iy]) > 1.5 {
				continue
			}
			assert.InDelta(t, f(xs[ix], xs[iy]), g.At(ix, iy), 2e-2)
		}
	}
}

func TestInterpolateFillsOutsideHull(t *testing.T) {
	const fill = 10.0
	samples := squareSamples(2, 300, -1, 1, func(x, y float64) float64 { return x * y })

	g, err := Interpolate(samples, Domain{Lo: -2, Hi: 2}, 41, fill)
	require.NoError(t, err)

	xs := g.Lattice()
	for iy := 0; iy < g.N; iy++ {
		for ix := 0; ix < g.N; ix++ {
			x, y := xs[ix], xs[iy]
			idx := g.Idx(ix, iy)
			switch {
			case math.Abs(x) > 1+1e-9 || math.Abs(y) > 1+1e-9:
				assert.Equal(t, fill, g.Values[idx], "(%g, %g)", x, y)
				assert.False(t, g.Covered[idx])
			case math.Abs(x) < 1-1e-9 && math.Abs(y) < 1-1e-9:
				assert.True(t, g.Covered[idx], "(%g, %g)", x, y)
				assert.NotEqual(t, fill, g.Values[idx])
			}
		}
	}

	lo, hi, ok := g.Range()
	require.True(t, ok)
	assert.Less(t, hi, fill)
	assert.GreaterOrEqual(t, lo, -1.5)
}

func TestInterpolateRejectsBadInput(t *testing.T) {
	good := squareSamples(1, 20, 0, 1, func(x, y float64) float64 { return x })
	line := []Sample{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}, {3, 3, 4}, {4, 4, 5}}
	same := []Sample{{1, 1, 0}, {1, 1, 1}, {1, 1, 2}, {1, 1, 3}}

	tests := []struct {
		name    string
		samples []Sample
		domain  Domain
		n       int
		want    []error
	}{
		{"three samples", good[:3], Domain{0, 1}, 10, []error{ErrInvalidInput, ErrInterpolation}},
		{"no samples", nil, Domain{0, 1}, 10, []error{ErrInvalidInput, ErrInterpolation}},
		{"collinear", line, Domain{0, 4}, 10, []error{ErrInterpolation}},
		{"coincident", same, Domain{0, 4}, 10, []error{ErrInterpolation}},
		{"inverted domain", good, Domain{1, 0}, 10, []error{ErrInvalidInput}},
		{"empty domain", good, Domain{1, 1}, 10, []error{ErrInvalidInput}},
		{"lattice too small", good, Domain{0, 1}, 1, []error{ErrInvalidInput}},
		{"nan sample", append([]Sample{{math.NaN(), 0, 0}}, good...), Domain{0, 1}, 10, []error{ErrInvalidInput}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Interpolate(tt.samples, tt.domain, tt.n, 0)
			assert.Nil(t, g)
			for _, want := range tt.want {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestInterpolateIsDeterministic(t *testing.T) {
	samples := squareSamples(42, 500, -1, 1, func(x, y float64) float64 { return math.Hypot(x, y) })

	g1, err := Interpolate(samples, Domain{Lo: -1.5, Hi: 1.5}, 64, 3)
	require.NoError(t, err)
	g2, err := Interpolate(samples, Domain{Lo: -1.5, Hi: 1.5}, 64, 3)
	require.NoError(t, err)

	if diff := cmp.Diff(g1.Values, g2.Values); diff != "" {
		t.Errorf("grids differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, g1.Covered, g2.Covered)
}
