// Package geom holds the scan-geometry model shared by the reconstruction
// pipeline: per-projection direction vectors, the size descriptor for
// projections and volume, and the sinogram container.
package geom

import "math"

// Vector is a beam direction record for one projection.
type Vector struct {
	X, Y, Z float64
}

// Theta returns the in-plane rotation angle encoded by the vector.
func (v Vector) Theta() float64 {
	return math.Pi - math.Atan2(v.Y, -v.X)
}

// Lamino returns the laminography tilt angle encoded by the vector.
//
// The tilt is measured against the rotation axis; standard tomography
// corresponds to pi/2.
func (v Vector) Lamino() float64 {
	return math.Pi/2 - math.Atan2(v.Z, v.X/math.Cos(v.Theta()))
}

// Angles derives per-projection rotation and tilt angles from vecs.
func Angles(vecs []Vector) (thetas, laminos []float64) {
	thetas = make([]float64, len(vecs))
	laminos = make([]float64, len(vecs))
	for i, v := range vecs {
		thetas[i] = v.Theta()
		laminos[i] = v.Lamino()
	}
	return thetas, laminos
}

// VectorsFromAngles builds unit direction vectors for the given rotation
// angles at a fixed laminography tilt. It is the inverse of Angles and is
// used by synthetic setups and tests.
func VectorsFromAngles(thetas []float64, tilt float64) []Vector {
	vecs := make([]Vector, len(thetas))
	st, ct := math.Sin(tilt), math.Cos(tilt)
	for i, th := range thetas {
		vecs[i] = Vector{
			X: st * math.Cos(th),
			Y: st * math.Sin(th),
			Z: ct,
		}
	}
	return vecs
}

// UniformAngles returns n rotation angles equally spaced over [0, pi).
func UniformAngles(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Pi * float64(i) / float64(n)
	}
	return out
}

// Config describes projection and volume extents for one reconstruction.
type Config struct {
	// Width and Height are the detector extents of a single projection.
	Width  int
	Height int

	// Projections is the projection count of the full scan.
	Projections int

	// VolX, VolY, VolZ are the output volume extents.
	VolX, VolY, VolZ int
}

// VolumeElements returns the output volume element count.
func (c Config) VolumeElements() int64 {
	return int64(c.VolX) * int64(c.VolY) * int64(c.VolZ)
}
