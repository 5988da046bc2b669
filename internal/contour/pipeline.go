package contour

// Compute interpolates the samples onto an nInterp x nInterp grid over d
// and returns the first path of the level set.
func Compute(samples []Sample, d Domain, nInterp int, fill, level float64) (Vertices, error) {
	g, err := Interpolate(samples, d, nInterp, fill)
	if err != nil {
		return nil, err
	}
	return Extract(g, level), nil
}
