package geom

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when sinogram, vector, or mask extents are
// inconsistent with the configuration.
var ErrShapeMismatch = errors.New("geom: shape mismatch")

// CheckSinogram validates sinogram extents against the configuration.
// The detector width must be even; the filter kernel relies on a symmetric
// spectrum around DC.
func (c Config) CheckSinogram(s *Sinogram) error {
	if s == nil {
		return fmt.Errorf("%w: nil sinogram", ErrShapeMismatch)
	}
	if s.Width%2 != 0 {
		return fmt.Errorf("%w: detector width must be even: %d", ErrShapeMismatch, s.Width)
	}
	if s.Width != c.Width || s.Layers != c.Height {
		return fmt.Errorf("%w: sinogram %dx%d, config declares %dx%d",
			ErrShapeMismatch, s.Width, s.Layers, c.Width, c.Height)
	}
	if s.Projections != c.Projections {
		return fmt.Errorf("%w: sinogram has %d projections, config declares %d",
			ErrShapeMismatch, s.Projections, c.Projections)
	}

	want := s.Layers * s.Width * s.Projections
	if s.Data != nil && len(s.Data) != want {
		return fmt.Errorf("%w: sinogram payload %d, want %d", ErrShapeMismatch, len(s.Data), want)
	}
	if s.Field != nil && len(s.Field) != want {
		return fmt.Errorf("%w: sinogram field payload %d, want %d", ErrShapeMismatch, len(s.Field), want)
	}
	if s.Data == nil && s.Field == nil {
		return fmt.Errorf("%w: sinogram carries no payload", ErrShapeMismatch)
	}
	return nil
}

// CheckVectors validates that vecs holds one direction record per
// projection.
func (c Config) CheckVectors(vecs []Vector) error {
	if len(vecs) != c.Projections {
		return fmt.Errorf("%w: %d geometry vectors for %d projections",
			ErrShapeMismatch, len(vecs), c.Projections)
	}
	return nil
}

// CheckMask validates a spatial mask: one multiplier per volume slice
// element (VolX*VolY) or per volume element.
func (c Config) CheckMask(mask []float64) error {
	if mask == nil {
		return nil
	}
	slice := c.VolX * c.VolY
	if len(mask) == slice || int64(len(mask)) == c.VolumeElements() {
		return nil
	}
	return fmt.Errorf("%w: mask length %d matches neither %d (slice) nor %d (volume)",
		ErrShapeMismatch, len(mask), slice, c.VolumeElements())
}
