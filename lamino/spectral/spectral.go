// Package spectral applies a frequency-domain kernel to every detector row
// of a sinogram: symmetric padding, forward FFT, multiply, inverse FFT,
// centered crop.
//
// The stage is a pure function of its inputs and may be evaluated per
// independent projection block.
package spectral

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-lamino/lamino/geom"
)

// PadMode selects how the detector-column axis is extended to the padded
// spectrum length.
type PadMode int

const (
	// PadZero extends rows with zeros.
	PadZero PadMode = iota

	// PadEdge replicates the edge samples. Recommended for laminography
	// and local tomography, where truncated projections otherwise ring.
	PadEdge
)

// Kernel is the 2D filter obtained by outer-broadcasting a 1D frequency
// kernel against per-projection weights. Columns are projection-major and
// contiguous.
type Kernel struct {
	Data []complex128
	Rows int
	Cols int
}

// NewKernel combines a 1D frequency kernel with per-projection weights.
func NewKernel(h []complex128, w []float64) *Kernel {
	k := &Kernel{
		Data: make([]complex128, len(h)*len(w)),
		Rows: len(h),
		Cols: len(w),
	}
	for p, wp := range w {
		col := k.Data[p*k.Rows : (p+1)*k.Rows]
		for i, hv := range h {
			col[i] = hv * complex(wp, 0)
		}
	}
	return k
}

// Column returns the contiguous kernel column for projection p.
func (k *Kernel) Column(p int) []complex128 {
	return k.Data[p*k.Rows : (p+1)*k.Rows]
}

// ColumnRange returns a view over projections [lo, hi) sharing the
// receiver's backing storage.
func (k *Kernel) ColumnRange(lo, hi int) *Kernel {
	return &Kernel{
		Data: k.Data[lo*k.Rows : hi*k.Rows],
		Rows: k.Rows,
		Cols: hi - lo,
	}
}

// Elements returns the element count of the kernel.
func (k *Kernel) Elements() int64 {
	return int64(k.Rows) * int64(k.Cols)
}

// Filter returns the filtered counterpart of s. The kernel column count
// must match the sinogram's projection count and the kernel rows set the
// padded transform length.
func Filter(s *geom.Sinogram, k *Kernel, pad PadMode) (*geom.Sinogram, error) {
	if s.IsComplex() {
		return nil, fmt.Errorf("spectral: complex sinogram must pass the derivative stage first")
	}
	if k.Cols != s.Projections {
		return nil, fmt.Errorf("%w: kernel has %d columns for %d projections",
			geom.ErrShapeMismatch, k.Cols, s.Projections)
	}
	if k.Rows < s.Width {
		return nil, fmt.Errorf("%w: kernel rows %d below detector width %d",
			geom.ErrShapeMismatch, k.Rows, s.Width)
	}

	plan, err := algofft.NewPlan64(k.Rows)
	if err != nil {
		return nil, fmt.Errorf("spectral: create FFT plan: %w", err)
	}

	out := geom.NewSinogram(s.Layers, s.Width, s.Projections)
	buf := make([]complex128, k.Rows)
	padLeft := (k.Rows - s.Width) / 2

	for p := 0; p < s.Projections; p++ {
		col := k.Column(p)
		for l := 0; l < s.Layers; l++ {
			padRow(buf, s.Row(l, p), padLeft, pad)

			if err := plan.Forward(buf, buf); err != nil {
				return nil, fmt.Errorf("spectral: forward transform: %w", err)
			}
			for i := range buf {
				buf[i] *= col[i]
			}
			if err := plan.Inverse(buf, buf); err != nil {
				return nil, fmt.Errorf("spectral: inverse transform: %w", err)
			}

			dst := out.Row(l, p)
			for i := range dst {
				dst[i] = real(buf[padLeft+i])
			}
		}
	}
	return out, nil
}

func padRow(buf []complex128, row []float64, padLeft int, pad PadMode) {
	var lo, hi complex128
	if pad == PadEdge {
		lo = complex(row[0], 0)
		hi = complex(row[len(row)-1], 0)
	}

	for i := 0; i < padLeft; i++ {
		buf[i] = lo
	}
	for i, v := range row {
		buf[padLeft+i] = complex(v, 0)
	}
	for i := padLeft + len(row); i < len(buf); i++ {
		buf[i] = hi
	}
}
