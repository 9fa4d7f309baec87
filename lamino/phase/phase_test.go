package phase

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-lamino/lamino/geom"
)

func TestGradientOfLinearPhase(t *testing.T) {
	const g = 0.3
	s := geom.NewComplexSinogram(2, 16, 3)
	for p := 0; p < 3; p++ {
		for l := 0; l < 2; l++ {
			row := s.FieldRow(l, p)
			for x := range row {
				row[x] = cmplx.Exp(complex(0, g*float64(x)))
			}
		}
	}

	out, err := Gradient(s)
	if err != nil {
		t.Fatal(err)
	}
	if out.IsComplex() {
		t.Fatal("gradient output must be real")
	}
	for i, v := range out.Data {
		if math.Abs(v-g) > 1e-12 {
			t.Fatalf("gradient[%d]=%v, want %v", i, v, g)
		}
	}
}

func TestGradientUnwrapsBranchCut(t *testing.T) {
	// Linear phase with a step beyond pi, so the per-column difference
	// leaves the principal range and must come back wrapped.
	const g = 3.5
	s := geom.NewComplexSinogram(1, 8, 1)
	row := s.FieldRow(0, 0)
	for x := range row {
		row[x] = cmplx.Exp(complex(0, g*float64(x)))
	}

	out, err := Gradient(s)
	if err != nil {
		t.Fatal(err)
	}
	want := g - 2*math.Pi // principal value of a 3.5 rad step
	for i, v := range out.Data {
		if math.Abs(v-want) > 1e-12 {
			t.Fatalf("gradient[%d]=%v, want %v", i, v, want)
		}
	}
}

func TestGradientValidation(t *testing.T) {
	if _, err := Gradient(geom.NewSinogram(1, 8, 1)); err == nil {
		t.Fatal("real sinogram must be rejected")
	}
	if _, err := Gradient(geom.NewComplexSinogram(1, 1, 1)); err == nil {
		t.Fatal("single-column sinogram must be rejected")
	}
}
