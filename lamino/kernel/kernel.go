// Package kernel builds the frequency-domain ramp filters used by filtered
// back-projection.
//
// A kernel is a full Hermitian-symmetric spectrum of padded length. In
// derivative mode (phase-contrast input) the kernel is instead purely
// imaginary and odd-symmetric, folding the Hilbert response into the ramp.
package kernel

import (
	"math"
	"strings"
)

// Kind identifies a spectral shaping variant.
type Kind int

const (
	KindRamLak Kind = iota
	KindSheppLogan
	KindCosine
	KindHamming
	KindHann
	KindParzen
	KindNone
)

var kindNames = map[Kind]string{
	KindRamLak:     "ram-lak",
	KindSheppLogan: "shepp-logan",
	KindCosine:     "cosine",
	KindHamming:    "hamming",
	KindHann:       "hann",
	KindParzen:     "parzen",
	KindNone:       "none",
}

// String returns the canonical filter name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a filter name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, s := range kindNames {
		if s == strings.ToLower(strings.TrimSpace(name)) {
			return k, nil
		}
	}
	return 0, invalidKind(name)
}

// PaddedLength returns the spectrum length used for a detector row of the
// given width: at least 64, and at least the next power of two above twice
// the width so linear filtering does not wrap.
func PaddedLength(width int) int {
	n := nextPowerOf2(2 * width)
	if n < 64 {
		n = 64
	}
	return n
}

// Build returns the frequency-domain kernel for one detector row.
//
// length is the unpadded detector width; alpha in (0,1] scales the shaping
// windows and sets the hard frequency cutoff at w > pi*alpha. In derivative
// mode the ramp base is flat and the result is divided by i*pi, yielding a
// purely imaginary odd-symmetric spectrum.
func Build(kind Kind, length int, alpha float64, derivative bool) ([]complex128, error) {
	if err := validateBuild(kind, length, alpha); err != nil {
		return nil, err
	}

	order := PaddedLength(length)
	out := make([]complex128, order)

	if kind == KindNone {
		// Identity spectrum; the dispatcher normally skips filtering for
		// this kind entirely.
		for i := range out {
			out[i] = 1
		}
		return out, nil
	}

	half := order / 2
	filt := make([]float64, half+1)
	for k := 0; k <= half; k++ {
		if derivative {
			filt[k] = 1
		} else {
			filt[k] = 2 * float64(k) / float64(order)
		}
	}

	shape(kind, filt, order, alpha)

	// Band limit.
	for k := 0; k <= half; k++ {
		if 2*math.Pi*float64(k)/float64(order) > math.Pi*alpha {
			filt[k] = 0
		}
	}

	if derivative {
		// 1/(i*pi) == -i/pi; mirrored half flips sign.
		for k := 0; k <= half; k++ {
			out[k] = complex(0, -filt[k]/math.Pi)
		}
		for k := half + 1; k < order; k++ {
			out[k] = -out[order-k]
		}
		return out, nil
	}

	for k := 0; k <= half; k++ {
		out[k] = complex(filt[k], 0)
	}
	for k := half + 1; k < order; k++ {
		out[k] = out[order-k]
	}
	return out, nil
}

func shape(kind Kind, filt []float64, order int, alpha float64) {
	for k := range filt {
		w := 2 * math.Pi * float64(k) / float64(order)
		switch kind {
		case KindRamLak:
			// identity
		case KindSheppLogan:
			if k > 0 {
				wp := w / (2 * alpha)
				filt[k] *= math.Sin(wp) / wp
			}
		case KindCosine:
			filt[k] *= math.Cos(w / (2 * alpha))
		case KindHamming:
			filt[k] *= 0.54 + 0.46*math.Cos(w/alpha)
		case KindHann:
			filt[k] *= (1 + math.Cos(w/alpha)) / 2
		}
	}

	if kind == KindParzen {
		applyParzen(filt, order, alpha)
	}
}

// applyParzen multiplies the low-frequency half by the upper half of a
// Parzen window of length round(2*N*alpha)-1 and zeroes everything beyond
// its support.
func applyParzen(filt []float64, order int, alpha float64) {
	full := int(math.Round(2*float64(order/2)*alpha)) - 1
	if full < 1 {
		full = 1
	}
	center := (full - 1) / 2
	support := full - center

	for k := range filt {
		if k < support {
			filt[k] *= parzenAt(center+k, full)
		} else {
			filt[k] = 0
		}
	}
}

// parzenAt evaluates the symmetric Parzen (de la Vallee Poussin) window of
// length n at sample i.
func parzenAt(i, n int) float64 {
	x := math.Abs(float64(i) - float64(n-1)/2)
	half := float64(n) / 2
	if x <= float64(n-1)/4 {
		r := x / half
		return 1 - 6*r*r*(1-x/half)
	}
	r := 1 - x/half
	return 2 * r * r * r
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
