package arima

import (
	"fmt"

	"github.com/cjolivier01/batcharima/timeseries"
)

// DiffAndCenter first-differences every series along time and subtracts the
// per-series mean parameter mu from each row. This is the d=1 preparation
// step before the Kalman kernel runs.
func DiffAndCenter(y *timeseries.Batch, mu []float64) (*timeseries.Batch, error) {
	nb := y.NumSeries()
	if len(mu) != nb {
		return nil, fmt.Errorf("arima: %d mean parameters for %d series", len(mu), nb)
	}
	if y.NumSamples() < 2 {
		return nil, fmt.Errorf("arima: need at least 2 samples to difference")
	}

	diff := y.Diff()
	n := diff.NumSamples()
	data := make([]float64, n*nb)
	for t := 0; t < n; t++ {
		for i := 0; i < nb; i++ {
			data[t*nb+i] = diff.At(t, i) - mu[i]
		}
	}
	return timeseries.New(n, nb, data)
}

// Undifference maps a differenced forecast back to level space: it seeds a
// running cumulative sum with the last observed level and returns the sums,
// discarding the seed itself.
func Undifference(forecast []float64, last float64) []float64 {
	out := make([]float64, len(forecast))
	acc := last
	for i, v := range forecast {
		acc += v
		out[i] = acc
	}
	return out
}
