package contour

import (
	"math"

	"github.com/golang/geo/r2"
)

const (
	gradientMaxSweeps = 400
	gradientTolerance = 1e-6
)

// estimateGradients returns per-vertex gradients that minimise the
// curvature of the piecewise cubic along every Delaunay edge. Each sweep
// solves the 2x2 normal equations of one vertex at a time using the
// latest neighbour estimates, so the result depends only on the
// triangulation and the values.
func estimateGradients(points []r2.Point, values []float64, neighbors [][]int) []grad {
	grads := make([]grad, len(points))

	for sweep := 0; sweep < gradientMaxSweeps; sweep++ {
		worst := 0.0
		for i, ns := range neighbors {
			if len(ns) == 0 {
				continue
			}

			var q00, q01, q11, s0, s1 float64
			for _, j := range ns {
				ex := points[j].X - points[i].X
				ey := points[j].Y - points[i].Y
				l := math.Sqrt(ex*ex + ey*ey)
				l3 := l * l * l

				// Projected gradient of the far end onto the edge.
				df := -ex*grads[j].X - ey*grads[j].Y
				r := 6*(values[i]-values[j]) - 2*df

				q00 += 4 * ex * ex / l3
				q01 += 4 * ex * ey / l3
				q11 += 4 * ey * ey / l3
				s0 += r * ex / l3
				s1 += r * ey / l3
			}

			det := q00*q11 - q01*q01
			if det == 0 || math.IsNaN(det) {
				continue
			}
			r0 := (q11*s0 - q01*s1) / det
			r1 := (-q01*s0 + q00*s1) / det

			change := math.Max(math.Abs(grads[i].X+r0), math.Abs(grads[i].Y+r1))
			grads[i] = grad{X: -r0, Y: -r1}

			change /= math.Max(1, math.Max(math.Abs(r0), math.Abs(r1)))
			worst = math.Max(worst, change)
		}
		if worst < gradientTolerance {
			break
		}
	}

	return grads
}

// grad is the estimated (df/dx, df/dy) at a vertex.
type grad struct {
	X, Y float64
}
