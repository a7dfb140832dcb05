// Package autoarima selects per-series ARIMA orders by grid search over a
// batch, scoring candidates with an information criterion.
package autoarima

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/cjolivier01/batcharima/arima"
	"github.com/cjolivier01/batcharima/stats"
	"github.com/cjolivier01/batcharima/timeseries"
)

// Config holds grid search settings.
type Config struct {
	MaxP int // exclusive upper bound on the AR order (default: 3)
	MaxQ int // exclusive upper bound on the MA order (default: 3)
	// D is the differencing order shared by the whole batch. Set to -1 to
	// choose between 0 and 1 automatically with an ADF test per series.
	D int
	// Criterion is "aic" or "bic" (default: "aic").
	Criterion string
	// Fit carries estimation settings for every candidate fit.
	Fit *arima.FitConfig
}

// DefaultConfig returns the default grid search configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:      3,
		MaxQ:      3,
		D:         1,
		Criterion: stats.CriterionAIC,
	}
}

// GridSearch fits every candidate order p in [0, MaxP), q in [0, MaxQ)
// (skipping p=q=0) to the whole batch and keeps, independently per batch
// member, the order and parameters with the lowest information criterion.
// It returns the composite best model and the winning score per member.
func GridSearch(y *timeseries.Batch, cfg *Config) (*arima.Model, []float64, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Criterion != stats.CriterionAIC && cfg.Criterion != stats.CriterionBIC {
		return nil, nil, fmt.Errorf("%w: %q", stats.ErrUnknownCriterion, cfg.Criterion)
	}
	if cfg.MaxP < 1 || cfg.MaxQ < 1 || (cfg.MaxP == 1 && cfg.MaxQ == 1) {
		return nil, nil, fmt.Errorf("autoarima: empty search grid (MaxP=%d, MaxQ=%d)", cfg.MaxP, cfg.MaxQ)
	}

	d := cfg.D
	if d < 0 {
		d = chooseD(y)
	}
	if d > 1 {
		return nil, nil, fmt.Errorf("%w: got d=%d", arima.ErrUnsupportedDifferencing, d)
	}

	nb := y.NumSeries()
	bestIC := make([]float64, nb)
	for i := range bestIC {
		bestIC[i] = math.MaxFloat64 / 2
	}
	best := &arima.Model{
		Orders: make([]arima.Order, nb),
		Mu:     make([]float64, nb),
		AR:     make([][]float64, nb),
		MA:     make([][]float64, nb),
		Y:      y,
	}

	evaluated := 0
	for p := 0; p < cfg.MaxP; p++ {
		for q := 0; q < cfg.MaxQ; q++ {
			if p == 0 && q == 0 {
				continue
			}

			order := arima.Order{P: p, D: d, Q: q}
			model, err := arima.Fit(y, order, cfg.Fit)
			if err != nil {
				log.Warn().Err(err).
					Int("p", p).Int("d", d).Int("q", q).
					Msg("grid search: candidate fit failed, skipping")
				continue
			}
			evaluated++

			var ic []float64
			if cfg.Criterion == stats.CriterionBIC {
				ic, err = model.BIC()
			} else {
				ic, err = model.AIC()
			}
			if err != nil {
				return nil, nil, err
			}

			for i, score := range ic {
				if score < bestIC[i] {
					bestIC[i] = score
					best.Orders[i] = order
					best.Mu[i] = model.Mu[i]
					best.AR[i] = model.AR[i]
					best.MA[i] = model.MA[i]
				}
			}
		}
	}

	if evaluated == 0 {
		return nil, nil, fmt.Errorf("autoarima: no candidate order could be fitted")
	}
	return best, bestIC, nil
}

// chooseD picks the batch-wide differencing order: 1 if any member's ADF
// test fails to reject a unit root, 0 otherwise. The batch shares one d, so
// the most conservative member decides.
func chooseD(y *timeseries.Batch) int {
	col := make([]float64, y.NumSamples())
	for i := 0; i < y.NumSeries(); i++ {
		y.Col(col, i)
		if stats.NDiffs(col) > 0 {
			return 1
		}
	}
	return 0
}
