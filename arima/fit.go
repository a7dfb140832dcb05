package arima

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/cjolivier01/batcharima/kalman"
	"github.com/cjolivier01/batcharima/lbfgs"
	"github.com/cjolivier01/batcharima/params"
	"github.com/cjolivier01/batcharima/timeseries"
)

// StartParamsFunc derives an initial linearized parameter vector
// [mu, ar_1..ar_p, ma_1..ma_q] from a single series. The estimate must keep
// MA magnitudes strictly inside the unit boundary (see params.ClampMA) so
// the inverse stationarity transform stays finite.
type StartParamsFunc func(order Order, series []float64) ([]float64, error)

// FitConfig holds estimation settings and injection points for the consumed
// kernels. Zero-valued fields fall back to the defaults.
type FitConfig struct {
	// StepSize is the central-difference step h for the likelihood
	// gradient. Default 1e-9.
	StepSize float64
	// GradientTolerance is the optimizer convergence threshold.
	// Default 1e-6.
	GradientTolerance float64
	// MaxIterations bounds the optimizer. Default 500.
	MaxIterations int
	// Parallel runs the Kalman kernel across series concurrently.
	Parallel bool
	// IteratedInit selects fixed-point initialization of the filter state
	// covariance instead of the analytic solve.
	IteratedInit bool

	Kernel      kalman.Filter
	Minimize    lbfgs.Minimizer
	StartParams StartParamsFunc
}

// DefaultFitConfig returns the default estimation settings.
func DefaultFitConfig() *FitConfig {
	return &FitConfig{
		StepSize:          1e-9,
		GradientTolerance: 1e-6,
		MaxIterations:     500,
		Kernel:            kalman.Run,
		Minimize:          lbfgs.Minimize,
		StartParams:       EstimateStartParams,
	}
}

func (c *FitConfig) withDefaults() *FitConfig {
	def := DefaultFitConfig()
	if c == nil {
		return def
	}
	out := *c
	if out.StepSize == 0 {
		out.StepSize = def.StepSize
	}
	if out.GradientTolerance == 0 {
		out.GradientTolerance = def.GradientTolerance
	}
	if out.MaxIterations == 0 {
		out.MaxIterations = def.MaxIterations
	}
	if out.Kernel == nil {
		out.Kernel = def.Kernel
	}
	if out.Minimize == nil {
		out.Minimize = def.Minimize
	}
	if out.StartParams == nil {
		out.StartParams = def.StartParams
	}
	return &out
}

// Fit estimates a batched ARIMA model of the given order by maximum
// likelihood. The starting point is derived from the first series by the
// configured start-parameter estimator and replicated across the batch.
func Fit(y *timeseries.Batch, order Order, cfg *FitConfig) (*Model, error) {
	cfg = cfg.withDefaults()

	x0, err := cfg.StartParams(order, y.Col(nil, 0))
	if err != nil {
		return nil, fmt.Errorf("arima: start parameters: %w", err)
	}
	if len(x0) != order.NumParams() {
		return nil, fmt.Errorf("arima: start estimate has %d parameters, want %d",
			len(x0), order.NumParams())
	}

	nb := y.NumSeries()
	tiled := make([]float64, 0, nb*len(x0))
	for i := 0; i < nb; i++ {
		tiled = append(tiled, x0...)
	}
	return fitLinearized(y, order, tiled, cfg)
}

// FitWithStart estimates a batched ARIMA model from explicit per-member
// initial coefficients.
func FitWithStart(y *timeseries.Batch, order Order, mu0 []float64, ar0, ma0 [][]float64, cfg *FitConfig) (*Model, error) {
	x0, err := params.Pack(order.P, order.Q, y.NumSeries(), mu0, ar0, ma0)
	if err != nil {
		return nil, err
	}
	return fitLinearized(y, order, x0, cfg.withDefaults())
}

func fitLinearized(y *timeseries.Batch, order Order, x0 []float64, cfg *FitConfig) (*Model, error) {
	if order.D < 0 || order.D > 1 {
		return nil, fmt.Errorf("%w: got d=%d", ErrUnsupportedDifferencing, order.D)
	}
	for _, v := range x0 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: initial vector contains NaN or Inf", ErrNonFiniteParams)
		}
	}

	nb := y.NumSeries()
	n := y.NumSamples()
	npar := order.NumParams()
	scale := float64(n - 1)

	orders := make([]Order, nb)
	for i := range orders {
		orders[i] = order
	}

	// Move the admissible starting coefficients into the unconstrained
	// space the optimizer searches over.
	x0u, err := params.InverseTransform(order.P, order.Q, nb, x0)
	if err != nil {
		return nil, fmt.Errorf("%w: inverse transform of initial vector: %v", ErrNonFiniteParams, err)
	}

	kopts := kalman.Options{Parallel: cfg.Parallel, IteratedInit: cfg.IteratedInit}

	// llAt evaluates the batched log-likelihood at an unconstrained point,
	// transforming into coefficient space first.
	llAt := func(x []float64) ([]float64, error) {
		tx, err := params.Transform(order.P, order.Q, nb, x)
		if err != nil {
			return nil, err
		}
		mu, ar, ma, err := params.Unpack(order.P, order.Q, nb, tx)
		if err != nil {
			return nil, err
		}
		cand := &Model{Orders: orders, Mu: mu, AR: ar, MA: ma, Y: y}
		ll, _, err := cand.runKalman(cfg.Kernel, kopts)
		if err != nil {
			return nil, err
		}
		for i, v := range ll {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: log-likelihood of member %d", ErrNumerical, i)
			}
		}
		return ll, nil
	}

	// Maximizing the likelihood means minimizing its negation; dividing by
	// n-1 keeps the objective scale comparable across series lengths.
	negLL := func(x []float64) ([]float64, error) {
		ll, err := llAt(x)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(ll))
		for i, v := range ll {
			out[i] = -v / scale
		}
		return out, nil
	}
	negGrad := func(x []float64) ([]float64, error) {
		g, err := fdGradient(llAt, x, nb, npar, cfg.StepSize)
		if err != nil {
			return nil, err
		}
		for i := range g {
			g[i] = -g[i] / scale
		}
		return g, nil
	}

	res, err := cfg.Minimize(negLL, negGrad, x0u, nb, &lbfgs.Options{
		MaxIterations:     cfg.MaxIterations,
		GradientTolerance: cfg.GradientTolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("arima: optimization: %w", err)
	}

	// Per-member optimizer trouble is recoverable: other members may have
	// converged, so it is reported once for the whole batch, not raised.
	if trouble := nonzero(res.Status); len(trouble) > 0 {
		log.Warn().
			Ints("members", trouble).
			Int("iterations", res.Iterations).
			Msg("batched ARIMA fit: some batch members reported optimizer trouble")
	}

	tx, err := params.Transform(order.P, order.Q, nb, res.X)
	if err != nil {
		return nil, err
	}
	mu, ar, ma, err := params.Unpack(order.P, order.Q, nb, tx)
	if err != nil {
		return nil, err
	}

	return &Model{
		Orders:     orders,
		Mu:         mu,
		AR:         ar,
		MA:         ma,
		Y:          y,
		Iterations: res.Iterations,
	}, nil
}

func nonzero(status []int) []int {
	var out []int
	for i, s := range status {
		if s != 0 {
			out = append(out, i)
		}
	}
	return out
}
