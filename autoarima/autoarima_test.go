package autoarima

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cjolivier01/batcharima/stats"
	"github.com/cjolivier01/batcharima/timeseries"
)

func mixedBatch(t *testing.T, n int) *timeseries.Batch {
	t.Helper()
	rng := rand.New(rand.NewSource(71))

	// Member 0: AR(1) with phi=0.8. Member 1: MA(1) with theta=0.7.
	ar := make([]float64, n)
	for k := 1; k < n; k++ {
		ar[k] = 0.8*ar[k-1] + rng.NormFloat64()
	}
	ma := make([]float64, n)
	prev := rng.NormFloat64()
	for k := 0; k < n; k++ {
		e := rng.NormFloat64()
		ma[k] = e + 0.7*prev
		prev = e
	}

	b, err := timeseries.FromColumns([][]float64{ar, ma})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestGridSearchSelectsPerMember(t *testing.T) {
	y := mixedBatch(t, 200)

	cfg := DefaultConfig()
	cfg.D = 0
	best, ic, err := GridSearch(y, cfg)
	if err != nil {
		t.Fatalf("GridSearch: %v", err)
	}
	if len(ic) != 2 {
		t.Fatalf("ic length = %d, want 2", len(ic))
	}

	// The AR member needs autoregressive structure, the MA member needs
	// moving-average structure. Grid search may add extra small terms, but
	// the defining component must be present.
	if best.Orders[0].P < 1 {
		t.Errorf("AR member selected order %+v, want P >= 1", best.Orders[0])
	}
	if best.Orders[1].Q < 1 {
		t.Errorf("MA member selected order %+v, want Q >= 1", best.Orders[1])
	}

	for i, score := range ic {
		if math.IsNaN(score) || score >= math.MaxFloat64/2 {
			t.Errorf("member %d: no candidate ever scored (ic=%v)", i, score)
		}
		if len(best.AR[i]) != best.Orders[i].P || len(best.MA[i]) != best.Orders[i].Q {
			t.Errorf("member %d: coefficient lengths disagree with order %+v", i, best.Orders[i])
		}
	}
}

func TestGridSearchUnknownCriterion(t *testing.T) {
	y := mixedBatch(t, 100)
	cfg := DefaultConfig()
	cfg.Criterion = "hqc"
	if _, _, err := GridSearch(y, cfg); !errors.Is(err, stats.ErrUnknownCriterion) {
		t.Errorf("GridSearch with unknown criterion: got %v, want ErrUnknownCriterion", err)
	}
}

func TestGridSearchEmptyGrid(t *testing.T) {
	y := mixedBatch(t, 100)
	cfg := DefaultConfig()
	cfg.MaxP, cfg.MaxQ = 1, 1
	if _, _, err := GridSearch(y, cfg); err == nil {
		t.Error("GridSearch should reject a grid containing only (0,0)")
	}
}

func TestGridSearchBICSelectsSparser(t *testing.T) {
	y := mixedBatch(t, 200)

	aicCfg := DefaultConfig()
	aicCfg.D = 0
	_, aicScores, err := GridSearch(y, aicCfg)
	if err != nil {
		t.Fatalf("GridSearch(aic): %v", err)
	}

	bicCfg := DefaultConfig()
	bicCfg.D = 0
	bicCfg.Criterion = stats.CriterionBIC
	_, bicScores, err := GridSearch(y, bicCfg)
	if err != nil {
		t.Fatalf("GridSearch(bic): %v", err)
	}

	// BIC adds a larger complexity penalty, so winning scores cannot be
	// smaller than the AIC winners on the same data.
	for i := range aicScores {
		if bicScores[i] < aicScores[i] {
			t.Errorf("member %d: BIC winner %v below AIC winner %v", i, bicScores[i], aicScores[i])
		}
	}
}
