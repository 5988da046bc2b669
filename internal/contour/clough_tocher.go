package contour

import (
	"math"

	"github.com/golang/geo/r2"
)

// patch holds the Bezier ordinates of a Clough-Tocher element: the
// triangle is split at its centroid into three cubic sub-patches that
// join with C1 continuity, and neighbouring elements join with C1
// continuity across shared edges. Ordinate cIJKL weights
// b1^I b2^J b3^K b4^L, where b4 is the centroid coordinate.
type patch struct {
	a, b, c r2.Point

	c3000, c0300, c0030, c0003 float64
	c2100, c2010, c1200, c0210 float64
	c1020, c0120, c2001, c0201 float64
	c0021, c1101, c1011, c0111 float64
	c1002, c0102, c0012        float64
}

// newPatch builds the element for triangle t from vertex values and
// gradients. Cross-boundary derivatives are made linear along each edge
// using the centroid of the neighbouring triangle; hull edges fall back to
// the derivative towards the element's own centroid.
func newPatch(tr *triangulation, t int, values []float64, grads []grad) *patch {
	i0, i1, i2 := tr.vertex(t, 0), tr.vertex(t, 1), tr.vertex(t, 2)
	p := &patch{a: tr.points[i0], b: tr.points[i1], c: tr.points[i2]}

	e12 := p.b.Sub(p.a)
	e23 := p.c.Sub(p.b)
	e31 := p.a.Sub(p.c)

	f1, f2, f3 := values[i0], values[i1], values[i2]
	g1, g2, g3 := grads[i0], grads[i1], grads[i2]

	df12 := g1.X*e12.X + g1.Y*e12.Y
	df21 := -(g2.X*e12.X + g2.Y*e12.Y)
	df23 := g2.X*e23.X + g2.Y*e23.Y
	df32 := -(g3.X*e23.X + g3.Y*e23.Y)
	df31 := g3.X*e31.X + g3.Y*e31.Y
	df13 := -(g1.X*e31.X + g1.Y*e31.Y)

	p.c3000 = f1
	p.c2100 = (df12 + 3*p.c3000) / 3
	p.c2010 = (df13 + 3*p.c3000) / 3
	p.c0300 = f2
	p.c1200 = (df21 + 3*p.c0300) / 3
	p.c0210 = (df23 + 3*p.c0300) / 3
	p.c0030 = f3
	p.c1020 = (df31 + 3*p.c0030) / 3
	p.c0120 = (df32 + 3*p.c0030) / 3

	p.c2001 = (p.c2100 + p.c2010 + p.c3000) / 3
	p.c0201 = (p.c1200 + p.c0300 + p.c0210) / 3
	p.c0021 = (p.c1020 + p.c0120 + p.c0030) / 3

	var g [3]float64
	for k := 0; k < 3; k++ {
		nt := tr.neighbor(t, k)
		if nt < 0 {
			g[k] = -0.5
			continue
		}
		centroid := tr.points[tr.vertex(nt, 0)].
			Add(tr.points[tr.vertex(nt, 1)]).
			Add(tr.points[tr.vertex(nt, 2)]).
			Mul(1.0 / 3)
		c := barycentric(p.a, p.b, p.c, centroid)
		switch k {
		case 0:
			g[k] = (2*c[2] + c[1] - 1) / (2 - 3*c[2] - 3*c[1])
		case 1:
			g[k] = (2*c[0] + c[2] - 1) / (2 - 3*c[0] - 3*c[2])
		case 2:
			g[k] = (2*c[1] + c[0] - 1) / (2 - 3*c[1] - 3*c[0])
		}
	}

	p.c0111 = (g[0]*(-p.c0300+3*p.c0210-3*p.c0120+p.c0030) +
		(-p.c0300 + 2*p.c0210 - p.c0120 + p.c0021 + p.c0201)) / 2
	p.c1011 = (g[1]*(-p.c0030+3*p.c1020-3*p.c2010+p.c3000) +
		(-p.c0030 + 2*p.c1020 - p.c2010 + p.c2001 + p.c0021)) / 2
	p.c1101 = (g[2]*(-p.c3000+3*p.c2100-3*p.c1200+p.c0300) +
		(-p.c3000 + 2*p.c2100 - p.c1200 + p.c2001 + p.c0201)) / 2

	p.c1002 = (p.c1101 + p.c1011 + p.c2001) / 3
	p.c0102 = (p.c1101 + p.c0111 + p.c0201) / 3
	p.c0012 = (p.c1011 + p.c0111 + p.c0021) / 3

	p.c0003 = (p.c1002 + p.c0102 + p.c0012) / 3

	return p
}

// eval evaluates the element at barycentric coordinates b.
func (p *patch) eval(b [3]float64) float64 {
	m := math.Min(b[0], math.Min(b[1], b[2]))

	// Coordinates within the sub-triangle containing the point; one of
	// b1, b2, b3 is zero.
	b1 := b[0] - m
	b2 := b[1] - m
	b3 := b[2] - m
	b4 := 3 * m

	return b1*b1*b1*p.c3000 + 3*b1*b1*b2*p.c2100 + 3*b1*b1*b3*p.c2010 +
		3*b1*b1*b4*p.c2001 + 3*b1*b2*b2*p.c1200 +
		6*b1*b2*b4*p.c1101 + 3*b1*b3*b3*p.c1020 + 6*b1*b3*b4*p.c1011 +
		3*b1*b4*b4*p.c1002 + b2*b2*b2*p.c0300 + 3*b2*b2*b3*p.c0210 +
		3*b2*b2*b4*p.c0201 + 3*b2*b3*b3*p.c0120 + 6*b2*b3*b4*p.c0111 +
		3*b2*b4*b4*p.c0102 + b3*b3*b3*p.c0030 + 3*b3*b3*b4*p.c0021 +
		3*b3*b4*b4*p.c0012 + b4*b4*b4*p.c0003
}

// barycentric returns the coordinates of q relative to triangle a, b, c.
func barycentric(a, b, c, q r2.Point) [3]float64 {
	det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	l0 := ((b.Y-c.Y)*(q.X-c.X) + (c.X-b.X)*(q.Y-c.Y)) / det
	l1 := ((c.Y-a.Y)*(q.X-c.X) + (a.X-c.X)*(q.Y-c.Y)) / det
	return [3]float64{l0, l1, 1 - l0 - l1}
}
