// Package contour extracts a level set from scattered (x, y, z) samples.
//
// Interpolate evaluates the samples on a regular square lattice with
// Clough-Tocher cubic interpolation over their Delaunay triangulation;
// Trace and Extract follow the iso-line through the resulting grid with
// marching squares. Both stages are pure functions of their inputs and
// safe to call concurrently.
package contour
