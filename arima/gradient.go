package arima

import (
	"fmt"
	"math"
)

// batchedFunc evaluates an objective shared by every batch member,
// returning one value per member.
type batchedFunc func(x []float64) ([]float64, error)

// fdGradient forms the central difference (f(x+h) - f(x-h)) / 2h for each of
// the numParams per-member parameter positions. Because members are
// independent but share one flat-parameter schema, each scalar perturbation
// is replicated across all member blocks and the per-member differences are
// scattered back into the matching strided slots of the output vector.
// Any NaN or Inf in the result is a hard failure.
func fdGradient(f batchedFunc, x []float64, batchSize, numParams int, h float64) ([]float64, error) {
	if len(x) != batchSize*numParams {
		return nil, fmt.Errorf("arima: vector length %d, want %d*%d", len(x), batchSize, numParams)
	}

	grad := make([]float64, len(x))
	xp := make([]float64, len(x))
	xm := make([]float64, len(x))

	for i := 0; i < numParams; i++ {
		copy(xp, x)
		copy(xm, x)
		for b := 0; b < batchSize; b++ {
			xp[b*numParams+i] += h
			xm[b*numParams+i] -= h
		}

		fp, err := f(xp)
		if err != nil {
			return nil, err
		}
		fm, err := f(xm)
		if err != nil {
			return nil, err
		}
		if len(fp) != batchSize || len(fm) != batchSize {
			return nil, fmt.Errorf("arima: objective returned %d values for %d members", len(fp), batchSize)
		}

		for b := 0; b < batchSize; b++ {
			g := (fp[b] - fm[b]) / (2 * h)
			if math.IsNaN(g) || math.IsInf(g, 0) {
				return nil, fmt.Errorf("%w: gradient slot (%d,%d)", ErrNumerical, b, i)
			}
			grad[b*numParams+i] = g
		}
	}
	return grad, nil
}
