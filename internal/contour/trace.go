package contour

import (
	"math"

	"github.com/golang/geo/r2"
)

// Vertices is an ordered polyline in domain coordinates.
type Vertices []r2.Point

// Path is one connected piece of an iso-line. A closed path repeats its
// first vertex at the end.
type Path struct {
	Vertices Vertices
	Closed   bool
}

// Extract returns the vertices of the first path of the level set, in
// the order Trace discovers paths. The result is empty, not nil, when the
// level crosses no cell.
func Extract(g *Grid, level float64) Vertices {
	paths := Trace(g, level)
	if len(paths) == 0 {
		return Vertices{}
	}
	return paths[0].Vertices
}

// Trace returns every path of the level set on g using marching squares.
//
// A corner is above the level when its value is strictly greater. Each
// cell contributes segments between crossings on its edges, oriented so
// that the above region lies on the left; segments are joined through the
// edges neighbouring cells share. Paths are ordered by the first cell, in
// row-major order, holding one of their segments.
//
// Saddle cells (diagonal corners above, the others below) are resolved by
// the mean of the four corners, the value of the bilinear interpolant at
// the cell centre: if it is above the level the two above corners are
// joined through the centre, otherwise each above corner is cut off on
// its own. Cells with a NaN corner are skipped.
//
// A level at or above the largest covered value, or below the smallest,
// has no paths, even where uncovered fill cells would cross it.
func Trace(g *Grid, level float64) []Path {
	if g == nil || g.N < 2 || math.IsNaN(level) {
		return nil
	}
	lo, hi, ok := g.Range()
	if !ok || level >= hi || level < lo {
		return nil
	}

	tc := newTracer(g, level)

	var starts []int
	var segs [2][2]int
	for iy := 0; iy < g.N-1; iy++ {
		for ix := 0; ix < g.N-1; ix++ {
			for _, s := range tc.cellSegments(ix, iy, segs[:0]) {
				tc.next[s[0]] = s[1]
				tc.prev[s[1]] = s[0]
				starts = append(starts, s[0])
			}
		}
	}

	var paths []Path
	visited := make([]bool, len(tc.next))
	for _, s := range starts {
		if visited[s] {
			continue
		}
		paths = append(paths, tc.follow(s, visited))
	}
	return paths
}

// tracer indexes the crossings of one level on one grid. Edge ids number
// the horizontal lattice edges first, then the vertical ones.
type tracer struct {
	g       *Grid
	level   float64
	lattice []float64
	nh      int

	next, prev []int
}

func newTracer(g *Grid, level float64) *tracer {
	nh := (g.N - 1) * g.N
	tc := &tracer{
		g:       g,
		level:   level,
		lattice: g.Lattice(),
		nh:      nh,
		next:    make([]int, 2*nh),
		prev:    make([]int, 2*nh),
	}
	for i := range tc.next {
		tc.next[i] = -1
		tc.prev[i] = -1
	}
	return tc
}

// hEdge is the edge from (ix, iy) to (ix+1, iy).
func (tc *tracer) hEdge(ix, iy int) int {
	return iy*(tc.g.N-1) + ix
}

// vEdge is the edge from (ix, iy) to (ix, iy+1).
func (tc *tracer) vEdge(ix, iy int) int {
	return tc.nh + iy*tc.g.N + ix
}

// cellSegments appends the oriented segments of cell (ix, iy) to buf.
// Corners are numbered counter-clockwise from (ix, iy); edge k runs from
// corner k to corner k+1.
func (tc *tracer) cellSegments(ix, iy int, buf [][2]int) [][2]int {
	g := tc.g
	v := [4]float64{g.At(ix, iy), g.At(ix+1, iy), g.At(ix+1, iy+1), g.At(ix, iy+1)}
	for _, c := range v {
		if math.IsNaN(c) {
			return buf
		}
	}
	edges := [4]int{tc.hEdge(ix, iy), tc.vEdge(ix+1, iy), tc.hEdge(ix, iy+1), tc.vEdge(ix, iy)}

	var above [4]bool
	for k, c := range v {
		above[k] = c > tc.level
	}

	var exits, entries []int
	var exitBuf, entryBuf [2]int
	exits, entries = exitBuf[:0], entryBuf[:0]
	for k := 0; k < 4; k++ {
		a, b := above[k], above[(k+1)%4]
		switch {
		case a && !b:
			exits = append(exits, k)
		case !a && b:
			entries = append(entries, k)
		}
	}

	switch len(exits) {
	case 1:
		buf = append(buf, [2]int{edges[exits[0]], edges[entries[0]]})
	case 2:
		centre := (v[0] + v[1] + v[2] + v[3]) / 4
		turn := 3
		if centre > tc.level {
			turn = 1
		}
		for _, k := range exits {
			buf = append(buf, [2]int{edges[k], edges[(k+turn)%4]})
		}
	}
	return buf
}

// follow walks the path through segment start s, marking its segments
// visited.
func (tc *tracer) follow(s int, visited []bool) Path {
	start := s
	closed := false
	for {
		p := tc.prev[start]
		if p < 0 {
			break
		}
		if p == s {
			closed = true
			start = s
			break
		}
		start = p
	}

	verts := Vertices{tc.point(start)}
	for e := start; ; {
		n := tc.next[e]
		if n < 0 {
			break
		}
		visited[e] = true
		verts = append(verts, tc.point(n))
		e = n
		if e == start {
			break
		}
	}

	return Path{Vertices: verts, Closed: closed}
}

// point returns the crossing on edge e. The interpolation always runs
// from the lower-index corner, so both cells sharing the edge agree on
// the result bit for bit.
func (tc *tracer) point(e int) r2.Point {
	n := tc.g.N
	var ax, ay, bx, by int
	if e < tc.nh {
		ax, ay = e%(n-1), e/(n-1)
		bx, by = ax+1, ay
	} else {
		j := e - tc.nh
		ax, ay = j%n, j/n
		bx, by = ax, ay+1
	}

	va, vb := tc.g.At(ax, ay), tc.g.At(bx, by)
	t := (tc.level - va) / (vb - va)

	pa := r2.Point{X: tc.lattice[ax], Y: tc.lattice[ay]}
	pb := r2.Point{X: tc.lattice[bx], Y: tc.lattice[by]}
	return r2.Point{
		X: pa.X + t*(pb.X-pa.X),
		Y: pa.Y + t*(pb.Y-pa.Y),
	}
}
