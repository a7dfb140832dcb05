package kalman

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cjolivier01/batcharima/timeseries"
)

func TestNewSystemLayout(t *testing.T) {
	sys := NewSystem([]float64{0.5, -0.2}, []float64{0.3})
	if sys.StateDim != 2 {
		t.Fatalf("StateDim = %d, want 2", sys.StateDim)
	}
	if sys.Trans.At(0, 0) != 0.5 || sys.Trans.At(1, 0) != -0.2 {
		t.Errorf("AR column wrong: %v", mat.Formatted(sys.Trans))
	}
	if sys.Trans.At(0, 1) != 1 {
		t.Errorf("superdiagonal missing: %v", mat.Formatted(sys.Trans))
	}
	if sys.Sel.AtVec(0) != 1 || sys.Sel.AtVec(1) != 0.3 {
		t.Errorf("selection vector wrong: %v", mat.Formatted(sys.Sel))
	}

	// Pure MA(2) needs r = q+1 = 3.
	sys = NewSystem(nil, []float64{0.4, 0.1})
	if sys.StateDim != 3 {
		t.Errorf("MA(2) StateDim = %d, want 3", sys.StateDim)
	}

	// Degenerate white-noise model still has a one-dimensional state.
	sys = NewSystem(nil, nil)
	if sys.StateDim != 1 {
		t.Errorf("white-noise StateDim = %d, want 1", sys.StateDim)
	}
}

func TestInitialCovAR1(t *testing.T) {
	// For AR(1) the stationary variance is 1/(1-phi^2).
	phi := 0.7
	sys := NewSystem([]float64{phi}, nil)

	p0 := initialCov(sys, false)
	want := 1 / (1 - phi*phi)
	if math.Abs(p0.At(0, 0)-want) > 1e-10 {
		t.Errorf("analytic P0 = %v, want %v", p0.At(0, 0), want)
	}

	pIter := initialCov(sys, true)
	if math.Abs(pIter.At(0, 0)-want) > 1e-6 {
		t.Errorf("iterated P0 = %v, want %v", pIter.At(0, 0), want)
	}
}

func TestSolveAndIterateAgree(t *testing.T) {
	sys := NewSystem([]float64{0.5, -0.3}, []float64{0.4})
	solved, ok := solveLyapunov(sys)
	if !ok {
		t.Fatal("solveLyapunov failed on a stationary system")
	}
	iterated := iterateCov(sys)
	r := sys.StateDim
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			if math.Abs(solved.At(i, j)-iterated.At(i, j)) > 1e-6 {
				t.Errorf("P0[%d,%d]: solve %v vs iterate %v", i, j, solved.At(i, j), iterated.At(i, j))
			}
		}
	}
}

func TestWhiteNoiseLikelihood(t *testing.T) {
	// With no AR or MA terms the filter reduces to F_t=1, v_t=y_t, so the
	// concentrated log-likelihood has a closed form.
	rng := rand.New(rand.NewSource(3))
	n := 100
	data := make([]float64, n)
	sumSq := 0.0
	for i := range data {
		data[i] = rng.NormFloat64()
		sumSq += data[i] * data[i]
	}
	y, err := timeseries.New(n, 1, data)
	if err != nil {
		t.Fatal(err)
	}

	ll, vs, err := Run(y, []*System{NewSystem(nil, nil)}, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	sigma2 := sumSq / float64(n)
	want := -0.5*float64(n)*math.Log(sigma2) - float64(n)/2*(math.Log(2*math.Pi)+1)
	if math.Abs(ll[0]-want) > 1e-10 {
		t.Errorf("white-noise loglike = %v, want %v", ll[0], want)
	}
	for i := 0; i < n; i++ {
		if vs.At(i, 0) != data[i] {
			t.Fatalf("innovation[%d] = %v, want %v", i, vs.At(i, 0), data[i])
		}
	}
}

func ar1Batch(t *testing.T, n, nb int, phi float64, seed int64) *timeseries.Batch {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	cols := make([][]float64, nb)
	for i := range cols {
		cols[i] = make([]float64, n)
		for k := 1; k < n; k++ {
			cols[i][k] = phi*cols[i][k-1] + rng.NormFloat64()
		}
	}
	b, err := timeseries.FromColumns(cols)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestLikelihoodPrefersTrueParameters(t *testing.T) {
	y := ar1Batch(t, 400, 1, 0.6, 5)

	llTrue, _, err := Run(y, []*System{NewSystem([]float64{0.6}, nil)}, Options{})
	if err != nil {
		t.Fatalf("Run(true): %v", err)
	}
	llWrong, _, err := Run(y, []*System{NewSystem([]float64{-0.6}, nil)}, Options{})
	if err != nil {
		t.Fatalf("Run(wrong): %v", err)
	}
	if llTrue[0] <= llWrong[0] {
		t.Errorf("loglike at true phi (%v) should exceed loglike at wrong phi (%v)", llTrue[0], llWrong[0])
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	y := ar1Batch(t, 200, 4, 0.5, 9)
	systems := NewBatchSystems(
		[][]float64{{0.5}, {0.5}, {0.5}, {0.5}},
		[][]float64{nil, nil, nil, nil},
	)

	llSeq, vsSeq, err := Run(y, systems, Options{})
	if err != nil {
		t.Fatalf("sequential: %v", err)
	}
	llPar, vsPar, err := Run(y, systems, Options{Parallel: true})
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	for i := range llSeq {
		if llSeq[i] != llPar[i] {
			t.Errorf("loglike[%d]: sequential %v vs parallel %v", i, llSeq[i], llPar[i])
		}
	}
	for i := 0; i < vsSeq.NumSamples(); i++ {
		for j := 0; j < vsSeq.NumSeries(); j++ {
			if vsSeq.At(i, j) != vsPar.At(i, j) {
				t.Fatalf("innovation (%d,%d) differs between modes", i, j)
			}
		}
	}
}

func TestSystemCountMismatch(t *testing.T) {
	y := ar1Batch(t, 50, 2, 0.5, 1)
	if _, _, err := Run(y, []*System{NewSystem(nil, nil)}, Options{}); err == nil {
		t.Error("Run should reject a system count that does not match the batch")
	}
}
