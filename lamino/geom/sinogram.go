package geom

// Sinogram is a stack of projection measurements indexed by
// (layer, detector column, projection). Exactly one of Data and Field is
// populated: Data for real measurements, Field for complex-valued fields
// from phase-contrast modalities.
//
// The layout keeps the detector-column axis contiguous and the projection
// axis outermost, so per-row filtering and per-projection blocking both
// operate on contiguous memory.
type Sinogram struct {
	Data  []float64
	Field []complex128

	Layers      int
	Width       int
	Projections int
}

// NewSinogram allocates a zero real-valued sinogram.
func NewSinogram(layers, width, projections int) *Sinogram {
	return &Sinogram{
		Data:        make([]float64, layers*width*projections),
		Layers:      layers,
		Width:       width,
		Projections: projections,
	}
}

// NewComplexSinogram allocates a zero complex-valued sinogram.
func NewComplexSinogram(layers, width, projections int) *Sinogram {
	return &Sinogram{
		Field:       make([]complex128, layers*width*projections),
		Layers:      layers,
		Width:       width,
		Projections: projections,
	}
}

// IsComplex reports whether the sinogram carries a complex field.
func (s *Sinogram) IsComplex() bool {
	return s.Field != nil
}

// Index returns the flat offset of (layer, column, projection).
func (s *Sinogram) Index(layer, col, proj int) int {
	return (proj*s.Layers+layer)*s.Width + col
}

// Row returns the contiguous real detector row for (layer, projection).
func (s *Sinogram) Row(layer, proj int) []float64 {
	off := (proj*s.Layers + layer) * s.Width
	return s.Data[off : off+s.Width]
}

// FieldRow returns the contiguous complex detector row for
// (layer, projection).
func (s *Sinogram) FieldRow(layer, proj int) []complex128 {
	off := (proj*s.Layers + layer) * s.Width
	return s.Field[off : off+s.Width]
}

// ProjectionRange returns a view over projections [lo, hi) sharing the
// receiver's backing storage. Blocks obtained this way are independent
// slices of the projection axis.
func (s *Sinogram) ProjectionRange(lo, hi int) *Sinogram {
	stride := s.Layers * s.Width
	out := &Sinogram{
		Layers:      s.Layers,
		Width:       s.Width,
		Projections: hi - lo,
	}
	if s.Data != nil {
		out.Data = s.Data[lo*stride : hi*stride]
	}
	if s.Field != nil {
		out.Field = s.Field[lo*stride : hi*stride]
	}
	return out
}

// SubsetProjections returns a new sinogram containing only the projections
// whose valid flag is true. The input is left untouched.
func (s *Sinogram) SubsetProjections(valid []bool) *Sinogram {
	kept := 0
	for _, ok := range valid {
		if ok {
			kept++
		}
	}

	out := &Sinogram{
		Layers:      s.Layers,
		Width:       s.Width,
		Projections: kept,
	}
	stride := s.Layers * s.Width
	if s.Data != nil {
		out.Data = make([]float64, kept*stride)
	}
	if s.Field != nil {
		out.Field = make([]complex128, kept*stride)
	}

	dst := 0
	for p, ok := range valid {
		if !ok {
			continue
		}
		if s.Data != nil {
			copy(out.Data[dst*stride:(dst+1)*stride], s.Data[p*stride:(p+1)*stride])
		}
		if s.Field != nil {
			copy(out.Field[dst*stride:(dst+1)*stride], s.Field[p*stride:(p+1)*stride])
		}
		dst++
	}
	return out
}

// SubsetVectors filters vecs by the same valid flags used for
// SubsetProjections.
func SubsetVectors(vecs []Vector, valid []bool) []Vector {
	out := make([]Vector, 0, len(vecs))
	for i, ok := range valid {
		if ok {
			out = append(out, vecs[i])
		}
	}
	return out
}
