// Package weights estimates per-projection scalar weights that correct
// filtered back-projection for non-uniform angular sampling and
// laminography tilt.
package weights

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-lamino/internal/trace"
)

// Estimate returns one non-negative weight per projection.
//
// With determine set, each weight is the half-gap to its angular neighbors
// after reducing the rotation angles modulo pi (a projection at theta and
// one at theta+pi measure the same line integrals). Weights larger than
// twice the median indicate a missing wedge; they are clamped to the median
// and reported as a diagnostic. The result is normalized to mean 1.
//
// Regardless of determine, every weight is scaled by (pi/(2N))*sin(tilt_i),
// the integration measure of the tilted geometry: projections near zero
// tilt contribute vanishingly.
func Estimate(thetas, laminos []float64, determine bool) ([]float64, error) {
	n := len(thetas)
	if n == 0 {
		return nil, fmt.Errorf("weights: no projections")
	}
	if len(laminos) != n {
		return nil, fmt.Errorf("weights: %d tilt angles for %d projections", len(laminos), n)
	}

	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}

	if determine && n > 1 {
		gapWeights(w, thetas)
		clampOutliers(w)

		mean := stat.Mean(w, nil)
		for i := range w {
			w[i] /= mean
		}
	}

	scale := math.Pi / (2 * float64(n))
	for i := range w {
		w[i] *= scale * math.Sin(laminos[i])
	}
	return w, nil
}

// gapWeights fills w with half the angular gap to both neighbors, single
// sided at the ends, mapped back to the original projection order.
func gapWeights(w, thetas []float64) {
	n := len(thetas)

	reduced := make([]float64, n)
	for i, t := range thetas {
		m := math.Mod(t-thetas[0], math.Pi)
		if m < 0 {
			m += math.Pi
		}
		reduced[i] = m
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return reduced[order[a]] < reduced[order[b]]
	})

	for pos, idx := range order {
		switch pos {
		case 0:
			w[idx] = reduced[order[1]] - reduced[order[0]]
		case n - 1:
			w[idx] = reduced[order[n-1]] - reduced[order[n-2]]
		default:
			w[idx] = (reduced[order[pos+1]] - reduced[order[pos-1]]) / 2
		}
	}
}

// clampOutliers caps weights above twice the median at the median. One
// oversized weight means an angular gap much larger than typical spacing,
// and letting it through would blow up the corresponding projection.
func clampOutliers(w []float64) {
	sorted := append([]float64(nil), w...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 {
		// Conventional median: average of the two central elements.
		median = (sorted[len(sorted)/2-1] + median) / 2
	}

	for i := range w {
		if w[i] > 2*median {
			trace.Debugf("weights: projection %d gap weight %.6g exceeds twice the median %.6g, clamping (missing wedge)",
				i, w[i], median)
			w[i] = median
		}
	}
}
