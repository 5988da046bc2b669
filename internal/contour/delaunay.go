package contour

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// dupEpsilon is the coordinate distance under which two consecutive
// points (in sweep order) are treated as the same site.
var dupEpsilon = math.Ldexp(1, -52)

// triangulation is a Delaunay triangulation in half-edge form. Triangle t
// owns half-edges 3t, 3t+1 and 3t+2; half-edge e starts at vertex
// triangles[e] and ends at the start of the next half-edge of the same
// triangle. halfedges[e] is the opposite half-edge in the neighbouring
// triangle, or -1 on the convex hull.
type triangulation struct {
	points    []r2.Point
	triangles []int
	halfedges []int
	hull      []int
}

// sweep state used while building a triangulation.
type sweeper struct {
	points    []r2.Point
	triangles []int
	halfedges []int

	hullStart int
	hullPrev  []int
	hullNext  []int
	hullTri   []int
	hullHash  []int
	center    r2.Point

	stack []int
}

// triangulate builds the Delaunay triangulation of points with a
// radial sweep around the seed triangle's circumcentre. Consecutive
// near-duplicate points are skipped. Input with no three non-collinear
// points is rejected with ErrInterpolation.
func triangulate(points []r2.Point) (*triangulation, error) {
	n := len(points)
	if n < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points to triangulate, got %d", ErrInterpolation, n)
	}

	if collinear(points) {
		return nil, fmt.Errorf("%w: sample positions are collinear", ErrInterpolation)
	}

	bounds := r2.RectFromPoints(points...)
	c := bounds.Center()

	// Seed: point closest to the bounding box centre, its nearest
	// neighbour, and the point forming the smallest circumcircle.
	i0 := 0
	minDist := math.Inf(1)
	for i, p := range points {
		if d := dist2(c, p); d < minDist {
			i0, minDist = i, d
		}
	}
	p0 := points[i0]

	i1 := -1
	minDist = math.Inf(1)
	for i, p := range points {
		if i == i0 {
			continue
		}
		if d := dist2(p0, p); d < minDist && d > 0 {
			i1, minDist = i, d
		}
	}
	if i1 < 0 {
		return nil, fmt.Errorf("%w: all sample positions coincide", ErrInterpolation)
	}
	p1 := points[i1]

	i2 := -1
	minRadius := math.Inf(1)
	for i, p := range points {
		if i == i0 || i == i1 {
			continue
		}
		if r := circumradius(p0, p1, p); r < minRadius {
			i2, minRadius = i, r
		}
	}
	if i2 < 0 {
		return nil, fmt.Errorf("%w: sample positions are collinear", ErrInterpolation)
	}
	p2 := points[i2]

	if orient(p0, p1, p2) {
		i1, i2 = i2, i1
		p1, p2 = p2, p1
	}

	center := circumcenter(p0, p1, p2)
	dists := make([]float64, n)
	ids := make([]int, n)
	for i, p := range points {
		ids[i] = i
		dists[i] = dist2(p, center)
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return dists[ids[a]] < dists[ids[b]]
	})

	maxTriangles := 2*n - 5
	if maxTriangles < 1 {
		maxTriangles = 1
	}
	hashSize := int(math.Ceil(math.Sqrt(float64(n))))
	s := &sweeper{
		points:    points,
		triangles: make([]int, 0, maxTriangles*3),
		halfedges: make([]int, 0, maxTriangles*3),
		hullPrev:  make([]int, n),
		hullNext:  make([]int, n),
		hullTri:   make([]int, n),
		hullHash:  make([]int, hashSize),
		center:    center,
	}
	for i := range s.hullHash {
		s.hullHash[i] = -1
	}

	s.hullStart = i0
	hullSize := 3

	s.hullNext[i0], s.hullPrev[i2] = i1, i1
	s.hullNext[i1], s.hullPrev[i0] = i2, i2
	s.hullNext[i2], s.hullPrev[i1] = i0, i0

	s.hullTri[i0] = 0
	s.hullTri[i1] = 1
	s.hullTri[i2] = 2

	s.hullHash[s.hashKey(p0)] = i0
	s.hullHash[s.hashKey(p1)] = i1
	s.hullHash[s.hashKey(p2)] = i2

	s.addTriangle(i0, i1, i2, -1, -1, -1)

	var prev r2.Point
	for k, i := range ids {
		p := points[i]

		if k > 0 && math.Abs(p.X-prev.X) <= dupEpsilon && math.Abs(p.Y-prev.Y) <= dupEpsilon {
			continue
		}
		prev = p

		if i == i0 || i == i1 || i == i2 {
			continue
		}

		// Find a hull edge visible from p, starting from the hash bucket
		// of its pseudo-angle.
		start := -1
		key := s.hashKey(p)
		for j := 0; j < hashSize; j++ {
			start = s.hullHash[(key+j)%hashSize]
			if start != -1 && start != s.hullNext[start] {
				break
			}
		}
		if start == -1 || start == s.hullNext[start] {
			start = s.hullStart
		}

		start = s.hullPrev[start]
		e := start
		for {
			q := s.hullNext[e]
			if orient(p, points[e], points[q]) {
				break
			}
			e = q
			if e == start {
				e = -1
				break
			}
		}
		if e == -1 {
			// Near-duplicate of a hull point.
			continue
		}

		t := s.addTriangle(e, i, s.hullNext[e], -1, -1, s.hullTri[e])
		s.hullTri[i] = s.legalize(t + 2)
		s.hullTri[e] = t
		hullSize++

		// Walk forward along the hull.
		nx := s.hullNext[e]
		for {
			q := s.hullNext[nx]
			if !orient(p, points[nx], points[q]) {
				break
			}
			t = s.addTriangle(nx, i, q, s.hullTri[i], -1, s.hullTri[nx])
			s.hullTri[i] = s.legalize(t + 2)
			s.hullNext[nx] = nx
			hullSize--
			nx = q
		}

		// Walk backward from the other side.
		if e == start {
			for {
				q := s.hullPrev[e]
				if !orient(p, points[q], points[e]) {
					break
				}
				t = s.addTriangle(q, i, e, -1, s.hullTri[e], s.hullTri[q])
				s.legalize(t + 2)
				s.hullTri[q] = t
				s.hullNext[e] = e
				hullSize--
				e = q
			}
		}

		s.hullStart = e
		s.hullPrev[i] = e
		s.hullNext[e] = i
		s.hullPrev[nx] = i
		s.hullNext[i] = nx

		s.hullHash[s.hashKey(p)] = i
		s.hullHash[s.hashKey(points[e])] = e
	}

	hull := make([]int, hullSize)
	e := s.hullStart
	for i := range hull {
		hull[i] = e
		e = s.hullNext[e]
	}

	return &triangulation{
		points:    points,
		triangles: s.triangles,
		halfedges: s.halfedges,
		hull:      hull,
	}, nil
}

func (s *sweeper) hashKey(p r2.Point) int {
	n := len(s.hullHash)
	a := pseudoAngle(p.X-s.center.X, p.Y-s.center.Y)
	if math.IsNaN(a) {
		a = 0
	}
	k := int(math.Floor(a*float64(n))) % n
	if k < 0 {
		k += n
	}
	return k
}

func (s *sweeper) addTriangle(i0, i1, i2, a, b, c int) int {
	t := len(s.triangles)
	s.triangles = append(s.triangles, i0, i1, i2)
	s.halfedges = append(s.halfedges, -1, -1, -1)
	s.link(t, a)
	s.link(t+1, b)
	s.link(t+2, c)
	return t
}

func (s *sweeper) link(a, b int) {
	s.halfedges[a] = b
	if b != -1 {
		s.halfedges[b] = a
	}
}

// legalize flips edges starting at half-edge a until every affected pair
// of triangles satisfies the empty circumcircle condition. It returns the
// half-edge to record as the hull triangle of the inserted point.
func (s *sweeper) legalize(a int) int {
	s.stack = s.stack[:0]
	var ar int

	for {
		b := s.halfedges[a]

		a0 := a - a%3
		ar = a0 + (a+2)%3

		if b == -1 {
			if len(s.stack) == 0 {
				break
			}
			a = s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}

		b0 := b - b%3
		al := a0 + (a+1)%3
		bl := b0 + (b+2)%3

		p0 := s.triangles[ar]
		pr := s.triangles[a]
		pl := s.triangles[al]
		p1 := s.triangles[bl]

		if inCircle(s.points[p0], s.points[pr], s.points[pl], s.points[p1]) {
			s.triangles[a] = p1
			s.triangles[b] = p0

			hbl := s.halfedges[bl]

			// The flipped edge was on the hull; repoint the hull triangle.
			if hbl == -1 {
				e := s.hullStart
				for {
					if s.hullTri[e] == bl {
						s.hullTri[e] = a
						break
					}
					e = s.hullPrev[e]
					if e == s.hullStart {
						break
					}
				}
			}
			s.link(a, hbl)
			s.link(b, s.halfedges[ar])
			s.link(ar, bl)

			br := b0 + (b+1)%3
			s.stack = append(s.stack, br)
		} else {
			if len(s.stack) == 0 {
				break
			}
			a = s.stack[len(s.stack)-1]
			s.stack = s.stack[:len(s.stack)-1]
		}
	}

	return ar
}

// numTriangles returns the number of triangles.
func (tr *triangulation) numTriangles() int {
	return len(tr.triangles) / 3
}

// vertex returns the k-th vertex index of triangle t.
func (tr *triangulation) vertex(t, k int) int {
	return tr.triangles[3*t+k]
}

// neighbor returns the triangle across the edge opposite vertex k of
// triangle t, or -1 on the hull.
func (tr *triangulation) neighbor(t, k int) int {
	h := tr.halfedges[3*t+(k+1)%3]
	if h < 0 {
		return -1
	}
	return h / 3
}

// vertexNeighbors returns, for every point, the points sharing a Delaunay
// edge with it, in ascending index order. Points skipped as duplicates
// have no neighbours.
func (tr *triangulation) vertexNeighbors() [][]int {
	adj := make([][]int, len(tr.points))
	for e, from := range tr.triangles {
		next := e - e%3 + (e+1)%3
		to := tr.triangles[next]
		adj[from] = append(adj[from], to)
		if tr.halfedges[e] == -1 {
			adj[to] = append(adj[to], from)
		}
	}
	for i, ns := range adj {
		sort.Ints(ns)
		adj[i] = dedupInts(ns)
	}
	return adj
}

// collinear reports whether every point lies on one line through the
// first point and the point farthest from it, up to rounding.
func collinear(points []r2.Point) bool {
	p0 := points[0]
	far, farDist := p0, 0.0
	for _, p := range points[1:] {
		if d := dist2(p0, p); d > farDist {
			far, farDist = p, d
		}
	}
	if farDist == 0 {
		return true
	}

	dir := far.Sub(p0)
	tol := 1e-12 * farDist
	for _, p := range points[1:] {
		if math.Abs(dir.Cross(p.Sub(p0))) > tol {
			return false
		}
	}
	return true
}

func dedupInts(xs []int) []int {
	if len(xs) < 2 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

func dist2(a, b r2.Point) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}

// orient reports whether p, q, r turn counter-clockwise.
func orient(p, q, r r2.Point) bool {
	return (q.Y-p.Y)*(r.X-q.X)-(q.X-p.X)*(r.Y-q.Y) < 0
}

// inCircle reports whether p lies inside the circumcircle of a, b, c.
func inCircle(a, b, c, p r2.Point) bool {
	dx, dy := a.X-p.X, a.Y-p.Y
	ex, ey := b.X-p.X, b.Y-p.Y
	fx, fy := c.X-p.X, c.Y-p.Y

	ap := dx*dx + dy*dy
	bp := ex*ex + ey*ey
	cp := fx*fx + fy*fy

	return dx*(ey*cp-bp*fy)-dy*(ex*cp-bp*fx)+ap*(ex*fy-ey*fx) < 0
}

// circumradius returns the squared circumradius of a, b, c; +Inf or NaN
// for collinear points.
func circumradius(a, b, c r2.Point) float64 {
	off := circumOffset(a, b, c)
	return off.Dot(off)
}

func circumcenter(a, b, c r2.Point) r2.Point {
	return a.Add(circumOffset(a, b, c))
}

func circumOffset(a, b, c r2.Point) r2.Point {
	d := b.Sub(a)
	e := c.Sub(a)

	bl := d.Dot(d)
	cl := e.Dot(e)
	k := 0.5 / d.Cross(e)

	return r2.Point{
		X: (e.Y*bl - d.Y*cl) * k,
		Y: (d.X*cl - e.X*bl) * k,
	}
}

// pseudoAngle maps a direction to [0, 1) monotonically in its angle.
func pseudoAngle(dx, dy float64) float64 {
	p := dx / (math.Abs(dx) + math.Abs(dy))
	if dy > 0 {
		return (3 - p) / 4
	}
	return (1 + p) / 4
}
