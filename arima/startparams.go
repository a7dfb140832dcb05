package arima

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cjolivier01/batcharima/params"
	"github.com/cjolivier01/batcharima/stats"
)

// EstimateStartParams is the default StartParamsFunc. It derives an initial
// [mu, ar..., ma...] vector for one series in the Hannan-Rissanen manner:
// Yule-Walker coefficients from a long AR regression supply proxy
// innovations, then a least-squares fit on lagged values and lagged
// innovations yields the AR and MA starting coefficients. MA estimates are
// clamped strictly inside the unit boundary so the inverse stationarity
// transform stays finite.
func EstimateStartParams(order Order, series []float64) ([]float64, error) {
	p, q := order.P, order.Q

	x := series
	switch order.D {
	case 0:
	case 1:
		x = diffSeries(series)
	default:
		return nil, fmt.Errorf("%w: got d=%d", ErrUnsupportedDifferencing, order.D)
	}

	n := len(x)
	if n < 2*(p+q)+10 {
		return nil, fmt.Errorf("arima: series too short (%d samples) for order (%d,%d,%d)",
			n, p, order.D, q)
	}

	mean := stat.Mean(x, nil)
	if p == 0 && q == 0 {
		return []float64{mean}, nil
	}

	c := make([]float64, n)
	for i, v := range x {
		c[i] = v - mean
	}

	if q == 0 {
		acf := stats.ACF(x, p)
		ar := stats.YuleWalker(acf, p)
		if ar == nil {
			return nil, fmt.Errorf("arima: degenerate series, cannot estimate AR start")
		}
		return append([]float64{mean}, ar...), nil
	}

	// Long AR fit whose residuals stand in for the unobserved innovations.
	h := 2*(p+q) + 5
	if h > n/2-1 {
		h = n/2 - 1
	}
	acf := stats.ACF(x, h)
	arLong := stats.YuleWalker(acf, h)
	if arLong == nil {
		return nil, fmt.Errorf("arima: degenerate series, cannot estimate start parameters")
	}

	e := make([]float64, n)
	for t := h; t < n; t++ {
		pred := 0.0
		for j := 0; j < h; j++ {
			pred += arLong[j] * c[t-j-1]
		}
		e[t] = c[t] - pred
	}

	// Regress the centered series on its own lags and the lagged proxy
	// innovations.
	start := h + q
	if p > start {
		start = p
	}
	rows := n - start
	k := p + q
	if rows <= k {
		return nil, fmt.Errorf("arima: series too short for Hannan-Rissanen regression")
	}

	design := mat.NewDense(rows, k, nil)
	target := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		t := start + i
		target.SetVec(i, c[t])
		for j := 0; j < p; j++ {
			design.Set(i, j, c[t-1-j])
		}
		for j := 0; j < q; j++ {
			design.Set(i, p+j, e[t-1-j])
		}
	}

	var beta mat.VecDense
	if err := beta.SolveVec(design, target); err != nil {
		return nil, fmt.Errorf("arima: Hannan-Rissanen regression: %w", err)
	}

	out := make([]float64, 0, 1+p+q)
	out = append(out, mean)
	for j := 0; j < p; j++ {
		out = append(out, beta.AtVec(j))
	}
	ma := make([]float64, q)
	for j := 0; j < q; j++ {
		ma[j] = beta.AtVec(p + j)
	}
	return append(out, params.ClampMA(ma)...), nil
}

func diffSeries(y []float64) []float64 {
	out := make([]float64, len(y)-1)
	for i := 1; i < len(y); i++ {
		out[i-1] = y[i] - y[i-1]
	}
	return out
}
