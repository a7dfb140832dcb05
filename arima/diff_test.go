package arima

import (
	"math"
	"testing"

	"github.com/cjolivier01/batcharima/timeseries"
)

func TestDiffAndCenter(t *testing.T) {
	y, _ := timeseries.FromColumns([][]float64{{1, 3, 6, 10}, {2, 2, 2, 2}})

	out, err := DiffAndCenter(y, []float64{1, 0})
	if err != nil {
		t.Fatalf("DiffAndCenter: %v", err)
	}
	if out.NumSamples() != 3 {
		t.Fatalf("rows = %d, want 3", out.NumSamples())
	}
	want0 := []float64{1, 2, 3} // diffs 2,3,4 minus mu=1
	for i, w := range want0 {
		if out.At(i, 0) != w {
			t.Errorf("col0[%d] = %v, want %v", i, out.At(i, 0), w)
		}
		if out.At(i, 1) != 0 {
			t.Errorf("col1[%d] = %v, want 0", i, out.At(i, 1))
		}
	}

	if _, err := DiffAndCenter(y, []float64{1}); err == nil {
		t.Error("DiffAndCenter should reject a mu vector of the wrong length")
	}
	short, _ := timeseries.FromColumns([][]float64{{1}})
	if _, err := DiffAndCenter(short, []float64{0}); err == nil {
		t.Error("DiffAndCenter should reject a single-sample batch")
	}
}

func TestUndifferenceInvertsDiff(t *testing.T) {
	levels := []float64{10, 11.5, 11, 13, 12.2}
	diffs := diffSeries(levels)

	back := Undifference(diffs, levels[0])
	if len(back) != len(diffs) {
		t.Fatalf("len = %d, want %d", len(back), len(diffs))
	}
	for i, w := range levels[1:] {
		if math.Abs(back[i]-w) > 1e-12 {
			t.Errorf("level[%d] = %v, want %v", i, back[i], w)
		}
	}
}
