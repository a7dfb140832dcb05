package kalman

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/cjolivier01/batcharima/timeseries"
)

// ErrUnstable is returned when the filter encounters a non-positive or
// non-finite innovation variance, which indicates a numerically inadmissible
// system.
var ErrUnstable = errors.New("kalman: unstable filter state")

// Options controls how the batched filter runs.
type Options struct {
	// Parallel runs the per-series filters on separate goroutines. Each
	// series writes disjoint output slots, so results are identical to the
	// sequential run.
	Parallel bool
	// IteratedInit initializes the state covariance by fixed-point
	// iteration instead of the analytic Lyapunov solve.
	IteratedInit bool
}

// Filter is the batched Kalman kernel contract: given observations and one
// state-space system per series, it returns a log-likelihood per series and
// the one-step innovations aligned with the observation time axis.
type Filter func(y *timeseries.Batch, systems []*System, opts Options) ([]float64, *timeseries.Batch, error)

// Run is the default Filter implementation.
func Run(y *timeseries.Batch, systems []*System, opts Options) ([]float64, *timeseries.Batch, error) {
	nb := y.NumSeries()
	if len(systems) != nb {
		return nil, nil, fmt.Errorf("kalman: %d systems for %d series", len(systems), nb)
	}
	n := y.NumSamples()

	loglike := make([]float64, nb)
	vsData := make([]float64, n*nb) // row-major, column i belongs to series i
	errs := make([]error, nb)

	runOne := func(i int) {
		col := y.Col(nil, i)
		ll, vs, err := filterSeries(col, systems[i], opts.IteratedInit)
		if err != nil {
			errs[i] = fmt.Errorf("series %d: %w", i, err)
			return
		}
		loglike[i] = ll
		for t := 0; t < n; t++ {
			vsData[t*nb+i] = vs[t]
		}
	}

	if opts.Parallel && nb > 1 {
		var wg sync.WaitGroup
		wg.Add(nb)
		for i := 0; i < nb; i++ {
			go func(i int) {
				defer wg.Done()
				runOne(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := 0; i < nb; i++ {
			runOne(i)
		}
	}

	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	vs, err := timeseries.New(n, nb, vsData)
	if err != nil {
		return nil, nil, err
	}
	return loglike, vs, nil
}

// filterSeries runs the univariate Kalman recursion for one series and
// returns the concentrated Gaussian log-likelihood
//
//	-1/2 (sum log F_t + n log sigma2) - n/2 (log 2pi + 1)
//
// where sigma2 = (1/n) sum v_t^2/F_t profiles out the innovation variance.
func filterSeries(y []float64, sys *System, iteratedInit bool) (float64, []float64, error) {
	n := len(y)
	r := sys.StateDim

	alpha := mat.NewVecDense(r, nil)
	p := initialCov(sys, iteratedInit)

	rrT := mat.NewDense(r, r, nil)
	rrT.Outer(1, sys.Sel, sys.Sel)

	tp := mat.NewDense(r, r, nil)
	l := mat.NewDense(r, r, nil)
	next := mat.NewDense(r, r, nil)
	tAlpha := mat.NewVecDense(r, nil)

	vs := make([]float64, n)
	sumLogF := 0.0
	sumV2F := 0.0

	for t := 0; t < n; t++ {
		v := y[t] - alpha.AtVec(0)
		f := p.At(0, 0)
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, nil, fmt.Errorf("%w: F=%v at step %d", ErrUnstable, f, t)
		}
		vs[t] = v
		sumLogF += math.Log(f)
		sumV2F += v * v / f

		// Z = e_1, so P Z' is the first column of P and K = (T P) e_1 / F.
		tp.Mul(sys.Trans, p)

		// alpha <- T alpha + K v
		tAlpha.MulVec(sys.Trans, alpha)
		for i := 0; i < r; i++ {
			alpha.SetVec(i, tAlpha.AtVec(i)+tp.At(i, 0)/f*v)
		}

		// L = T - K Z subtracts K from the first column of T.
		l.Copy(sys.Trans)
		for i := 0; i < r; i++ {
			l.Set(i, 0, l.At(i, 0)-tp.At(i, 0)/f)
		}

		// P <- T P L' + R R'
		next.Mul(tp, l.T())
		p.Add(next, rrT)
	}

	sigma2 := sumV2F / float64(n)
	if sigma2 <= 0 || math.IsNaN(sigma2) || math.IsInf(sigma2, 0) {
		return 0, nil, fmt.Errorf("%w: sigma2=%v", ErrUnstable, sigma2)
	}

	ll := -0.5*(sumLogF+float64(n)*math.Log(sigma2)) - float64(n)/2*(math.Log(2*math.Pi)+1)
	return ll, vs, nil
}
