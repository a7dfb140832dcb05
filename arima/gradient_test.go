package arima

import (
	"errors"
	"math"
	"testing"
)

func TestFDGradientQuadratic(t *testing.T) {
	// Member b objective: sum_j (x_bj - c_bj)^2, gradient 2(x - c).
	centers := [][]float64{{1, -2}, {0.5, 3}}
	f := func(x []float64) ([]float64, error) {
		vals := make([]float64, 2)
		for b := 0; b < 2; b++ {
			for j := 0; j < 2; j++ {
				d := x[b*2+j] - centers[b][j]
				vals[b] += d * d
			}
		}
		return vals, nil
	}

	x := []float64{0, 0, 2, 2}
	grad, err := fdGradient(f, x, 2, 2, 1e-6)
	if err != nil {
		t.Fatalf("fdGradient: %v", err)
	}
	for b := 0; b < 2; b++ {
		for j := 0; j < 2; j++ {
			want := 2 * (x[b*2+j] - centers[b][j])
			got := grad[b*2+j]
			if math.Abs(got-want) > 1e-6 {
				t.Errorf("grad[%d,%d] = %v, want %v", b, j, got, want)
			}
		}
	}
}

func TestFDGradientLengthMismatch(t *testing.T) {
	f := func(x []float64) ([]float64, error) { return []float64{0}, nil }
	if _, err := fdGradient(f, []float64{1, 2, 3}, 2, 2, 1e-6); err == nil {
		t.Error("fdGradient should reject a vector that does not match batch*numParams")
	}
}

func TestFDGradientNonFinite(t *testing.T) {
	f := func(x []float64) ([]float64, error) {
		return []float64{math.NaN()}, nil
	}
	if _, err := fdGradient(f, []float64{0}, 1, 1, 1e-6); !errors.Is(err, ErrNumerical) {
		t.Errorf("fdGradient on NaN objective: got %v, want ErrNumerical", err)
	}
}
