package lbfgs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Objective evaluates the function being minimized, returning one value per
// batch member.
type Objective func(x []float64) ([]float64, error)

// Gradient evaluates the gradient of the batched objective with the same
// layout as x.
type Gradient func(x []float64) ([]float64, error)

// Options bounds the minimization.
type Options struct {
	MaxIterations     int     // iteration budget (default 500)
	GradientTolerance float64 // convergence threshold on the gradient norm (default 1e-6)
}

// DefaultOptions returns the default minimizer options.
func DefaultOptions() *Options {
	return &Options{
		MaxIterations:     500,
		GradientTolerance: 1e-6,
	}
}

// Result reports the outcome of a batched minimization.
type Result struct {
	X          []float64
	Iterations int
	// Status holds one flag per batch member: 0 when that member's
	// gradient block met the tolerance, 1 otherwise. Non-zero flags are
	// recoverable; the corresponding X blocks are still the best found.
	Status []int
}

// Minimizer is the batched quasi-Newton contract consumed by the estimation
// core. Because batch members are independent, implementations may minimize
// the sum of the member objectives over the concatenated vector.
type Minimizer func(f Objective, g Gradient, x0 []float64, batchSize int, opts *Options) (*Result, error)

// Minimize is the default Minimizer, an L-BFGS adapter over
// gonum.org/v1/gonum/optimize. Failure to converge within the budget is not
// an error; it is reported through per-member status flags.
func Minimize(f Objective, g Gradient, x0 []float64, batchSize int, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if batchSize < 1 || len(x0)%batchSize != 0 {
		return nil, fmt.Errorf("lbfgs: vector length %d not divisible by batch size %d", len(x0), batchSize)
	}

	var evalErr error
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			vals, err := f(x)
			if err != nil {
				if evalErr == nil {
					evalErr = err
				}
				return math.Inf(1)
			}
			return floats.Sum(vals)
		},
		Grad: func(grad, x []float64) {
			gr, err := g(x)
			if err != nil {
				if evalErr == nil {
					evalErr = err
				}
				for i := range grad {
					grad[i] = 0
				}
				return
			}
			copy(grad, gr)
		},
	}

	settings := &optimize.Settings{
		MajorIterations:   opts.MaxIterations,
		GradientThreshold: opts.GradientTolerance,
	}

	res, optErr := optimize.Minimize(problem, x0, settings, &optimize.LBFGS{})
	if evalErr != nil {
		return nil, evalErr
	}
	if res == nil {
		return nil, fmt.Errorf("lbfgs: %w", optErr)
	}

	out := &Result{
		X:          append([]float64(nil), res.X...),
		Iterations: res.Stats.MajorIterations,
		Status:     make([]int, batchSize),
	}

	// Per-member convergence from the final gradient block norms. A method
	// error (line search failure, exhausted budget) marks every member that
	// has not individually met the tolerance.
	grad, gerr := g(out.X)
	if gerr != nil {
		for i := range out.Status {
			out.Status[i] = 1
		}
		return out, nil
	}
	npar := len(x0) / batchSize
	for b := 0; b < batchSize; b++ {
		block := grad[b*npar : (b+1)*npar]
		if blockNorm(block) > opts.GradientTolerance*10 {
			out.Status[b] = 1
		}
	}
	return out, nil
}

func blockNorm(block []float64) float64 {
	norm := 0.0
	for _, v := range block {
		if a := math.Abs(v); a > norm {
			norm = a
		}
	}
	return norm
}
