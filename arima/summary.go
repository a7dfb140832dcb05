package arima

import (
	"github.com/cjolivier01/batcharima/kalman"
	"github.com/cjolivier01/batcharima/stats"
)

// Summary describes one fitted batch member.
type Summary struct {
	Order        Order
	Mu           float64
	AR           []float64
	MA           []float64
	LogLik       float64
	AIC          float64
	AICc         float64
	BIC          float64
	NObs         int
	LjungBox     *stats.LjungBoxResult
	DurbinWatson float64
}

// Summaries returns a per-member summary of the fitted model, including
// residual diagnostics on the filter innovations.
func (m *Model) Summaries() ([]*Summary, error) {
	ll, vs, err := m.runKalman(kalman.Run, kalman.Options{})
	if err != nil {
		return nil, err
	}

	n := m.Y.NumSamples()
	out := make([]*Summary, m.NumSeries())
	vcol := make([]float64, vs.NumSamples())
	for i := range out {
		o := m.Orders[i]
		ic := stats.CalculateIC(ll[i], n, o.NumParams())
		vs.Col(vcol, i)

		out[i] = &Summary{
			Order:        o,
			Mu:           m.Mu[i],
			AR:           append([]float64(nil), m.AR[i]...),
			MA:           append([]float64(nil), m.MA[i]...),
			LogLik:       ll[i],
			AIC:          ic.AIC,
			AICc:         ic.AICc,
			BIC:          ic.BIC,
			NObs:         n,
			LjungBox:     stats.LjungBox(vcol, 10, o.P+o.Q),
			DurbinWatson: stats.DurbinWatson(vcol),
		}
	}
	return out, nil
}
