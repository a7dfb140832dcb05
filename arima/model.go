// Package arima implements batched ARIMA model estimation: many independent
// series fitted jointly through one optimization loop and one state-space
// likelihood kernel.
package arima

import (
	"fmt"

	"github.com/cjolivier01/batcharima/kalman"
	"github.com/cjolivier01/batcharima/stats"
	"github.com/cjolivier01/batcharima/timeseries"
)

// Order represents the ARIMA model order (p, d, q).
type Order struct {
	P int // AR order
	D int // differencing order (0 or 1)
	Q int // MA order
}

// NumParams returns the number of estimated parameters: mu plus p plus q.
func (o Order) NumParams() int {
	return 1 + o.P + o.Q
}

// Model is a batched ARIMA model. Every batch member has its own order and
// parameters; orders only diverge across members when produced by grid
// search, a single Fit always yields a homogeneous batch.
type Model struct {
	Orders []Order     // per-member order
	Mu     []float64   // per-member mean parameter
	AR     [][]float64 // per-member AR coefficients (phi)
	MA     [][]float64 // per-member MA coefficients (theta)
	Y      *timeseries.Batch

	// Iterations is the optimizer iteration count from the fit that
	// produced this model.
	Iterations int

	predicted *timeseries.Batch
}

// New creates an unfitted model of homogeneous order with zeroed parameters.
func New(order Order, y *timeseries.Batch) *Model {
	nb := y.NumSeries()
	m := &Model{
		Orders: make([]Order, nb),
		Mu:     make([]float64, nb),
		AR:     make([][]float64, nb),
		MA:     make([][]float64, nb),
		Y:      y,
	}
	for i := 0; i < nb; i++ {
		m.Orders[i] = order
		m.AR[i] = make([]float64, order.P)
		m.MA[i] = make([]float64, order.Q)
	}
	return m
}

// NumSeries returns the number of batch members.
func (m *Model) NumSeries() int {
	return m.Y.NumSeries()
}

// sharedD returns the differencing order common to all members, failing on
// a heterogeneous batch.
func (m *Model) sharedD() (int, error) {
	if len(m.Orders) == 0 {
		return 0, fmt.Errorf("arima: model has no members")
	}
	d := m.Orders[0].D
	for i, o := range m.Orders {
		if o.D != d {
			return 0, fmt.Errorf("%w: member %d has d=%d, member 0 has d=%d",
				ErrMixedDifferencing, i, o.D, d)
		}
	}
	return d, nil
}

// runKalman builds the per-member state-space systems and evaluates the
// filter kernel on the (possibly differenced and centered) series.
func (m *Model) runKalman(kernel kalman.Filter, opts kalman.Options) ([]float64, *timeseries.Batch, error) {
	d, err := m.sharedD()
	if err != nil {
		return nil, nil, err
	}

	var y *timeseries.Batch
	switch d {
	case 0:
		y = m.Y
	case 1:
		y, err = DiffAndCenter(m.Y, m.Mu)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("%w: got d=%d", ErrUnsupportedDifferencing, d)
	}

	systems := kalman.NewBatchSystems(m.AR, m.MA)
	return kernel(y, systems, opts)
}

// LogLike returns the state-space log-likelihood of every batch member.
func (m *Model) LogLike() ([]float64, error) {
	ll, _, err := m.runKalman(kalman.Run, kalman.Options{})
	return ll, err
}

// AIC scores every batch member with the Akaike information criterion.
func (m *Model) AIC() ([]float64, error) {
	return m.criterion(stats.CriterionAIC)
}

// BIC scores every batch member with the Bayesian information criterion.
func (m *Model) BIC() ([]float64, error) {
	return m.criterion(stats.CriterionBIC)
}

func (m *Model) criterion(name string) ([]float64, error) {
	ll, err := m.LogLike()
	if err != nil {
		return nil, err
	}
	n := m.Y.NumSamples()
	out := make([]float64, len(ll))
	for i, lli := range ll {
		out[i], err = stats.Score(name, lli, n, m.Orders[i].NumParams())
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Predicted returns the cached in-sample prediction, or nil before
// PredictInSample has run.
func (m *Model) Predicted() *timeseries.Batch {
	return m.predicted
}
