package contour

import "errors"

var (
	// ErrInvalidInput is returned for malformed arguments: inverted or
	// non-finite domains, too small lattices, non-finite samples.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInterpolation is returned when the samples cannot be triangulated
	// (collinear or duplicate positions) or the fit is ill-posed.
	ErrInterpolation = errors.New("interpolation failed")
)
