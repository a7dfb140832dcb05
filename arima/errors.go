package arima

import "errors"

var (
	// ErrUnsupportedDifferencing rejects differencing orders outside {0, 1}.
	ErrUnsupportedDifferencing = errors.New("arima: differencing order must be 0 or 1")

	// ErrMixedDifferencing rejects batches whose members disagree on d.
	ErrMixedDifferencing = errors.New("arima: batch members must share one differencing order")

	// ErrNonFiniteParams rejects starting parameters containing NaN or Inf.
	ErrNonFiniteParams = errors.New("arima: non-finite parameter")

	// ErrNumerical reports NaN or Inf produced during likelihood or
	// gradient evaluation.
	ErrNumerical = errors.New("arima: numerical failure during evaluation")
)
