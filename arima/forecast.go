package arima

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cjolivier01/batcharima/kalman"
	"github.com/cjolivier01/batcharima/timeseries"
)

// fcSingle generates numSteps recursive one-step forecasts for one series
// in the differenced domain. yDiff holds the differenced observations and
// vs the filter innovations; the working buffers are seeded with the last p
// observations and last q innovations. MA terms contribute only while the
// step index is inside the innovation horizon, and every new forecast is
// appended to the AR buffer for use by later steps.
func fcSingle(numSteps int, order Order, yDiff, vs []float64, mu float64, ar, ma []float64) []float64 {
	p, q := order.P, order.Q

	yBuf := make([]float64, p+numSteps)
	vBuf := make([]float64, q+numSteps)
	if p > 0 {
		copy(yBuf[:p], yDiff[len(yDiff)-p:])
	}
	if q > 0 {
		copy(vBuf[:q], vs[len(vs)-q:])
	}

	muStar := mu * (1 - floats.Sum(ar))
	fc := make([]float64, numSteps)
	for i := 0; i < numSteps; i++ {
		f := muStar
		if p > 0 {
			f += floats.Dot(ar, yBuf[i:i+p])
		}
		if q > 0 && i < q {
			f += floats.Dot(ma, vBuf[i:i+q])
		}
		fc[i] = f
		if p > 0 {
			yBuf[i+p] = f
		}
	}
	return fc
}

// Forecast projects every batch member nSteps beyond the observed sample.
// Forecasts of differenced members are mapped back to level space.
func (m *Model) Forecast(nSteps int) (*timeseries.Batch, error) {
	if nSteps < 1 {
		return nil, fmt.Errorf("arima: forecast steps must be at least 1")
	}

	_, vs, err := m.runKalman(kalman.Run, kalman.Options{})
	if err != nil {
		return nil, err
	}

	nb := m.Y.NumSeries()
	data := make([]float64, nSteps*nb)
	vcol := make([]float64, vs.NumSamples())
	for i := 0; i < nb; i++ {
		ycol := m.Y.Col(nil, i)
		vs.Col(vcol, i)

		yDiff := diffSeries(ycol)
		if o := m.Orders[i]; len(yDiff) < o.P || len(vcol) < o.Q {
			return nil, fmt.Errorf("arima: member %d has %d differenced samples and %d innovations, too few for order (p=%d, q=%d)",
				i, len(yDiff), len(vcol), o.P, o.Q)
		}
		fc := fcSingle(nSteps, m.Orders[i], yDiff, vcol, m.Mu[i], m.AR[i], m.MA[i])
		if m.Orders[i].D > 0 {
			fc = Undifference(fc, ycol[len(ycol)-1])
		}
		for t := 0; t < nSteps; t++ {
			data[t*nb+i] = fc[t]
		}
	}
	return timeseries.New(nSteps, nb, data)
}

// PredictInSample reconstructs the fitted values for every batch member and
// caches the result on the model. For d=0 the fitted value is the
// observation minus its innovation. For d=1 the differenced prediction is
// added back to the lagged original series (the statsmodels "levels"
// convention), and one extra forecast step is appended so the output spans
// the full original sample.
func (m *Model) PredictInSample() (*timeseries.Batch, error) {
	_, vs, err := m.runKalman(kalman.Run, kalman.Options{})
	if err != nil {
		return nil, err
	}

	d, err := m.sharedD()
	if err != nil {
		return nil, err
	}

	if d == 0 {
		yp, err := m.Y.Sub(vs)
		if err != nil {
			return nil, err
		}
		m.predicted = yp
		return yp, nil
	}

	n := m.Y.NumSamples()
	nb := m.Y.NumSeries()
	yDiff := m.Y.Diff()
	pred, err := yDiff.Sub(vs)
	if err != nil {
		return nil, err
	}

	data := make([]float64, n*nb)
	for t := 0; t < n-1; t++ {
		for i := 0; i < nb; i++ {
			data[t*nb+i] = m.Y.At(t, i) + pred.At(t, i)
		}
	}

	// Final row: one-step forecast of the differenced series added to the
	// last observed level.
	dcol := make([]float64, yDiff.NumSamples())
	vcol := make([]float64, vs.NumSamples())
	for i := 0; i < nb; i++ {
		yDiff.Col(dcol, i)
		vs.Col(vcol, i)
		fc := fcSingle(1, m.Orders[i], dcol, vcol, m.Mu[i], m.AR[i], m.MA[i])
		data[(n-1)*nb+i] = m.Y.At(n-1, i) + fc[0]
	}

	yp, err := timeseries.New(n, nb, data)
	if err != nil {
		return nil, err
	}
	m.predicted = yp
	return yp, nil
}
