package params

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonFinite is returned when the inverse transform produces NaN or
// infinity, which happens when a coefficient sits on or outside the
// stationarity/invertibility boundary.
var ErrNonFinite = errors.New("params: non-finite coefficient")

// MaxMACoefficient is the largest MA coefficient magnitude the inverse
// transform accepts without overflowing. Callers deriving starting points
// should clamp raw MA estimates to this bound first.
const MaxMACoefficient = 1 - 1e-14

// Transform maps unconstrained optimization-space parameters to admissible
// model coefficients, independently for every batch member. The resulting
// AR polynomial is stationary and the MA polynomial invertible. The mean
// parameter passes through unchanged.
func Transform(p, q, batchSize int, x []float64) ([]float64, error) {
	mu, ar, ma, err := Unpack(p, q, batchSize, x)
	if err != nil {
		return nil, err
	}
	for i := 0; i < batchSize; i++ {
		ar[i] = arTransform(ar[i])
		ma[i] = maTransform(ma[i])
	}
	return Pack(p, q, batchSize, mu, ar, ma)
}

// InverseTransform maps admissible coefficients back to the unconstrained
// space searched by the optimizer. It fails with ErrNonFinite if any output
// is NaN or infinite, which occurs when a coefficient magnitude reaches 1.
func InverseTransform(p, q, batchSize int, x []float64) ([]float64, error) {
	mu, ar, ma, err := Unpack(p, q, batchSize, x)
	if err != nil {
		return nil, err
	}
	for i := 0; i < batchSize; i++ {
		ar[i] = arInverseTransform(ar[i])
		ma[i] = maInverseTransform(ma[i])
		for _, v := range ar[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("member %d AR: %w", i, ErrNonFinite)
			}
		}
		for _, v := range ma[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("member %d MA: %w", i, ErrNonFinite)
			}
		}
	}
	return Pack(p, q, batchSize, mu, ar, ma)
}

// arTransform maps real AR parameters to a stationary coefficient vector
// using the Jones (1980) reparameterization: squash to partial
// autocorrelations with tanh, then run the Levinson-Durbin recursion.
func arTransform(raw []float64) []float64 {
	n := len(raw)
	out := make([]float64, n)
	tmp := make([]float64, n)
	for i, v := range raw {
		out[i] = math.Tanh(v / 2)
		tmp[i] = out[i]
	}
	for j := 1; j < n; j++ {
		a := out[j]
		for k := 0; k < j; k++ {
			tmp[k] -= a * out[j-k-1]
		}
		copy(out[:j], tmp[:j])
	}
	return out
}

// arInverseTransform recovers the unconstrained parameters from stationary
// AR coefficients by reversing the Levinson-Durbin recursion and applying
// atanh. Outputs are non-finite when a partial autocorrelation hits 1.
func arInverseTransform(coeffs []float64) []float64 {
	n := len(coeffs)
	work := append([]float64(nil), coeffs...)
	tmp := append([]float64(nil), coeffs...)
	for j := n - 1; j > 0; j-- {
		a := work[j]
		for k := 0; k < j; k++ {
			tmp[k] = (work[k] + a*work[j-k-1]) / (1 - a*a)
		}
		copy(work[:j], tmp[:j])
	}
	out := make([]float64, n)
	for i, v := range work {
		out[i] = 2 * math.Atanh(v)
	}
	return out
}

// maTransform is the MA analogue of arTransform; the recursion accumulates
// with the opposite sign so the resulting polynomial is invertible.
func maTransform(raw []float64) []float64 {
	n := len(raw)
	out := make([]float64, n)
	tmp := make([]float64, n)
	for i, v := range raw {
		out[i] = math.Tanh(v / 2)
		tmp[i] = out[i]
	}
	for j := 1; j < n; j++ {
		b := out[j]
		for k := 0; k < j; k++ {
			tmp[k] += b * out[j-k-1]
		}
		copy(out[:j], tmp[:j])
	}
	return out
}

// maInverseTransform reverses maTransform.
func maInverseTransform(coeffs []float64) []float64 {
	n := len(coeffs)
	work := append([]float64(nil), coeffs...)
	tmp := append([]float64(nil), coeffs...)
	for j := n - 1; j > 0; j-- {
		b := work[j]
		for k := 0; k < j; k++ {
			tmp[k] = (work[k] - b*work[j-k-1]) / (1 - b*b)
		}
		copy(work[:j], tmp[:j])
	}
	out := make([]float64, n)
	for i, v := range work {
		out[i] = 2 * math.Atanh(v)
	}
	return out
}

// ClampMA limits each MA coefficient strictly inside the unit boundary so a
// subsequent InverseTransform cannot overflow.
func ClampMA(ma []float64) []float64 {
	out := make([]float64, len(ma))
	for i, v := range ma {
		m := math.Min(math.Abs(v), MaxMACoefficient)
		out[i] = math.Copysign(m, v)
	}
	return out
}
