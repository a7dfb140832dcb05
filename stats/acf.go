package stats

import "gonum.org/v1/gonum/stat"

// ACF calculates the autocorrelation function of the series for lags 0 to
// maxLag. Returns nil for degenerate input (too short or zero variance).
func ACF(series []float64, maxLag int) []float64 {
	n := len(series)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 || n == 0 {
		return nil
	}

	mean := stat.Mean(series, nil)
	variance := 0.0
	for _, v := range series {
		diff := v - mean
		variance += diff * diff
	}
	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (series[i] - mean) * (series[i-k] - mean)
		}
		acf[k] = sum / variance
	}
	return acf
}

// YuleWalker solves the Yule-Walker equations for AR coefficients of the
// given order via the Levinson-Durbin recursion. acf must contain at least
// order+1 autocorrelations starting at lag 0.
func YuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		next := make([]float64, i+1)
		for j := 0; j < i; j++ {
			next[j] = phi[j] - lambda*phi[i-1-j]
		}
		next[i] = lambda
		copy(phi, next)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}
	return phi
}
