// Package phase converts complex-valued field sinograms into real
// derivative-mode sinograms.
//
// The finite phase difference between neighboring detector columns is read
// off the product c[x+1]*conj(c[x]); taking the argument of the product
// instead of differencing two arguments avoids 2*pi wrap errors where the
// phase crosses the branch cut.
package phase

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-lamino/lamino/geom"
)

// Gradient returns the phase-gradient sinogram of the complex field s
// along the detector-column axis. The last column replicates its left
// neighbor, keeping the width unchanged.
func Gradient(s *geom.Sinogram) (*geom.Sinogram, error) {
	if !s.IsComplex() {
		return nil, fmt.Errorf("phase: sinogram carries no complex field")
	}
	if s.Width < 2 {
		return nil, fmt.Errorf("phase: detector width must be >= 2: %d", s.Width)
	}

	out := geom.NewSinogram(s.Layers, s.Width, s.Projections)
	for p := 0; p < s.Projections; p++ {
		for l := 0; l < s.Layers; l++ {
			src := s.FieldRow(l, p)
			dst := out.Row(l, p)
			for x := 0; x < s.Width-1; x++ {
				dst[x] = cmplx.Phase(src[x+1] * cmplx.Conj(src[x]))
			}
			dst[s.Width-1] = dst[s.Width-2]
		}
	}
	return out, nil
}
