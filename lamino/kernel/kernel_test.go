package kernel

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"ram-lak":     KindRamLak,
		"shepp-logan": KindSheppLogan,
		"cosine":      KindCosine,
		"hamming":     KindHamming,
		"hann":        KindHann,
		"parzen":      KindParzen,
		"none":        KindNone,
		" Hann ":      KindHann,
	}
	for name, want := range cases {
		got, err := ParseKind(name)
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q)=%v, want %v", name, got, want)
		}
	}

	if _, err := ParseKind("butterworth"); !errors.Is(err, ErrInvalidFilterKind) {
		t.Fatalf("expected ErrInvalidFilterKind, got %v", err)
	}
}

func TestPaddedLength(t *testing.T) {
	cases := []struct{ width, want int }{
		{1, 64},
		{16, 64},
		{100, 256},
		{128, 256},
		{129, 512},
	}
	for _, c := range cases {
		if got := PaddedLength(c.width); got != c.want {
			t.Fatalf("PaddedLength(%d)=%d, want %d", c.width, got, c.want)
		}
	}
}

func TestBuildConjugateSymmetry(t *testing.T) {
	kinds := []Kind{KindRamLak, KindSheppLogan, KindCosine, KindHamming, KindHann, KindParzen}

	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			h, err := Build(kind, 100, 1, false)
			if err != nil {
				t.Fatal(err)
			}
			n := len(h)
			for k := 1; k < n/2; k++ {
				if h[n-k] != cmplx.Conj(h[k]) {
					t.Fatalf("k=%d: mirrored %v != conj %v", k, h[n-k], cmplx.Conj(h[k]))
				}
				if imag(h[k]) != 0 {
					t.Fatalf("k=%d: standard kernel must be real, got %v", k, h[k])
				}
			}
		})
	}
}

func TestBuildDerivativeAntiSymmetry(t *testing.T) {
	h, err := Build(KindRamLak, 100, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	n := len(h)
	for k := 1; k < n/2; k++ {
		if h[n-k] != -h[k] {
			t.Fatalf("k=%d: mirrored %v != negated %v", k, h[n-k], -h[k])
		}
		if real(h[k]) != 0 {
			t.Fatalf("k=%d: derivative kernel must be purely imaginary, got %v", k, h[k])
		}
	}
	// DC carries the flat base scaled by 1/(i*pi).
	if !almostEqual(imag(h[0]), -1/math.Pi, 1e-15) {
		t.Fatalf("DC term %v, want -i/pi", h[0])
	}
}

func TestRamLakMonotone(t *testing.T) {
	h, err := Build(KindRamLak, 100, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	for k := 1; k <= len(h)/2; k++ {
		if real(h[k]) < real(h[k-1]) {
			t.Fatalf("k=%d: ram-lak decreased from %v to %v", k, h[k-1], h[k])
		}
	}
}

func TestHardCutoff(t *testing.T) {
	alpha := 0.5
	h, err := Build(KindRamLak, 100, alpha, false)
	if err != nil {
		t.Fatal(err)
	}
	order := len(h)
	for k := 0; k <= order/2; k++ {
		w := 2 * math.Pi * float64(k) / float64(order)
		if w > math.Pi*alpha && h[k] != 0 {
			t.Fatalf("k=%d (w=%v): expected zero beyond cutoff, got %v", k, w, h[k])
		}
	}
}

func TestBuildNoNaN(t *testing.T) {
	kinds := []Kind{KindRamLak, KindSheppLogan, KindCosine, KindHamming, KindHann, KindParzen, KindNone}
	for _, kind := range kinds {
		for _, derivative := range []bool{false, true} {
			h, err := Build(kind, 64, 0.7, derivative)
			if err != nil {
				t.Fatalf("%v derivative=%v: %v", kind, derivative, err)
			}
			for k, v := range h {
				if cmplx.IsNaN(v) || cmplx.IsInf(v) {
					t.Fatalf("%v derivative=%v: invalid coefficient at %d: %v", kind, derivative, k, v)
				}
			}
		}
	}
}

func TestBuildNoneIsIdentity(t *testing.T) {
	h, err := Build(KindNone, 32, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range h {
		if v != 1 {
			t.Fatalf("k=%d: identity kernel coefficient %v", k, v)
		}
	}
}

func TestBuildValidation(t *testing.T) {
	if _, err := Build(KindRamLak, 0, 1, false); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := Build(KindRamLak, 64, 0, false); err == nil {
		t.Fatal("expected error for zero shape parameter")
	}
	if _, err := Build(KindRamLak, 64, 1.5, false); err == nil {
		t.Fatal("expected error for shape parameter above 1")
	}
	if _, err := Build(Kind(99), 64, 1, false); !errors.Is(err, ErrInvalidFilterKind) {
		t.Fatal("expected ErrInvalidFilterKind for unknown kind")
	}
}

func TestParzenZeroesBeyondSupport(t *testing.T) {
	h, err := Build(KindParzen, 100, 0.5, false)
	if err != nil {
		t.Fatal(err)
	}
	order := len(h)
	// With alpha=0.5 the window support ends around half the frequency
	// axis; the upper quarter before Nyquist must be zero.
	for k := order * 3 / 8; k <= order/2; k++ {
		if h[k] != 0 {
			t.Fatalf("k=%d: expected zero beyond parzen support, got %v", k, h[k])
		}
	}
}
