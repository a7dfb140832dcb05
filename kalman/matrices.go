package kalman

import (
	"gonum.org/v1/gonum/mat"
)

// System holds the state-space representation of one ARMA(p,q) series in
// the Harvey form. With state dimension r = max(p, q+1):
//
//	observation Z = [1, 0, ..., 0]
//	selection   R = [1, theta_1, ..., theta_q, 0, ...]
//	transition  T has phi_1..phi_p in its first column and a unit
//	            superdiagonal.
type System struct {
	Trans    *mat.Dense    // r x r transition matrix
	Sel      *mat.VecDense // r x 1 selection vector
	StateDim int
}

// NewSystem builds the state-space system for one set of AR/MA coefficients.
func NewSystem(ar, ma []float64) *System {
	p, q := len(ar), len(ma)
	r := p
	if q+1 > r {
		r = q + 1
	}
	if r < 1 {
		r = 1
	}

	sel := mat.NewVecDense(r, nil)
	sel.SetVec(0, 1)
	for i := 0; i < q; i++ {
		sel.SetVec(i+1, ma[i])
	}

	trans := mat.NewDense(r, r, nil)
	for i := 0; i < p; i++ {
		trans.Set(i, 0, ar[i])
	}
	for i := 0; i < r-1; i++ {
		trans.Set(i, i+1, 1)
	}

	return &System{Trans: trans, Sel: sel, StateDim: r}
}

// NewBatchSystems builds one system per batch member.
func NewBatchSystems(ar, ma [][]float64) []*System {
	systems := make([]*System, len(ar))
	for i := range ar {
		systems[i] = NewSystem(ar[i], ma[i])
	}
	return systems
}

// initialCov computes the stationary initial state covariance P0 satisfying
// P0 = T P0 T' + R R'. The analytic path solves the linear system
// (I - T⊗T) vec(P0) = vec(R R') (Durbin & Koopman, p. 138); the iterated
// path runs the recursion to a fixed point instead, and also serves as the
// fallback when the solve fails near the stationarity boundary.
func initialCov(sys *System, iterate bool) *mat.Dense {
	if !iterate {
		if p0, ok := solveLyapunov(sys); ok {
			return p0
		}
	}
	return iterateCov(sys)
}

func solveLyapunov(sys *System) (*mat.Dense, bool) {
	r := sys.StateDim
	rr := r * r

	// A = I - T⊗T under column-stacking vec, so A[i+j*r, k+l*r] = -T[i,k]*T[j,l].
	a := mat.NewDense(rr, rr, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			row := i + j*r
			for k := 0; k < r; k++ {
				for l := 0; l < r; l++ {
					a.Set(row, k+l*r, -sys.Trans.At(i, k)*sys.Trans.At(j, l))
				}
			}
			a.Set(row, row, a.At(row, row)+1)
		}
	}

	b := mat.NewVecDense(rr, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			b.SetVec(i+j*r, sys.Sel.AtVec(i)*sys.Sel.AtVec(j))
		}
	}

	var vecP mat.VecDense
	if err := vecP.SolveVec(a, b); err != nil {
		return nil, false
	}

	p0 := mat.NewDense(r, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			p0.Set(i, j, vecP.AtVec(i+j*r))
		}
	}
	return p0, true
}

const covIterations = 64

func iterateCov(sys *System) *mat.Dense {
	r := sys.StateDim
	rrT := mat.NewDense(r, r, nil)
	rrT.Outer(1, sys.Sel, sys.Sel)

	p := mat.DenseCopyOf(rrT)
	tp := mat.NewDense(r, r, nil)
	tpt := mat.NewDense(r, r, nil)
	for iter := 0; iter < covIterations; iter++ {
		tp.Mul(sys.Trans, p)
		tpt.Mul(tp, sys.Trans.T())
		p.Add(tpt, rrT)
	}
	return p
}
