package timeseries

import (
	"math"
	"strings"
	"testing"
)

func TestNewAndAccessors(t *testing.T) {
	b, err := New(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b.NumSamples() != 3 || b.NumSeries() != 2 {
		t.Fatalf("dims = (%d,%d), want (3,2)", b.NumSamples(), b.NumSeries())
	}
	if b.At(1, 1) != 20 {
		t.Errorf("At(1,1) = %v, want 20", b.At(1, 1))
	}
	if b.Last(0) != 3 {
		t.Errorf("Last(0) = %v, want 3", b.Last(0))
	}

	col := b.Col(nil, 1)
	want := []float64{10, 20, 30}
	for i := range want {
		if col[i] != want[i] {
			t.Errorf("Col(1)[%d] = %v, want %v", i, col[i], want[i])
		}
	}

	if _, err := New(3, 2, []float64{1, 2}); err == nil {
		t.Error("New should reject mismatched data length")
	}
}

func TestFromColumns(t *testing.T) {
	b, err := FromColumns([][]float64{{1, 2, 3}, {4, 5, 6}})
	if err != nil {
		t.Fatalf("FromColumns: %v", err)
	}
	if b.At(2, 1) != 6 {
		t.Errorf("At(2,1) = %v, want 6", b.At(2, 1))
	}

	if _, err := FromColumns([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("FromColumns should reject ragged input")
	}
}

func TestDiff(t *testing.T) {
	b, _ := FromColumns([][]float64{{1, 3, 6, 10}, {5, 5, 5, 5}})
	d := b.Diff()
	if d.NumSamples() != 3 {
		t.Fatalf("Diff rows = %d, want 3", d.NumSamples())
	}
	want0 := []float64{2, 3, 4}
	for i, w := range want0 {
		if d.At(i, 0) != w {
			t.Errorf("diff col0[%d] = %v, want %v", i, d.At(i, 0), w)
		}
		if d.At(i, 1) != 0 {
			t.Errorf("diff col1[%d] = %v, want 0", i, d.At(i, 1))
		}
	}
}

func TestColMeansAndSub(t *testing.T) {
	b, _ := FromColumns([][]float64{{1, 2, 3}, {10, 20, 30}})
	means := b.ColMeans()
	if means[0] != 2 || means[1] != 20 {
		t.Errorf("ColMeans = %v, want [2 20]", means)
	}

	diff, err := b.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	for i := 0; i < 3; i++ {
		if diff.At(i, 0) != 0 || diff.At(i, 1) != 0 {
			t.Errorf("Sub row %d not zero", i)
		}
	}

	other, _ := FromColumns([][]float64{{1, 2}})
	if _, err := b.Sub(other); err == nil {
		t.Error("Sub should reject mismatched dimensions")
	}
}

func TestHasNonFinite(t *testing.T) {
	b, _ := FromColumns([][]float64{{1, 2, 3}})
	if b.HasNonFinite() {
		t.Error("finite batch flagged as non-finite")
	}
	b2, _ := FromColumns([][]float64{{1, math.NaN(), 3}})
	if !b2.HasNonFinite() {
		t.Error("NaN not detected")
	}
}

func TestLoadCSVFromReader(t *testing.T) {
	csvData := "ds,a,b\n2020-01-01,1.0,4.0\n2020-01-02,2.0,5.0\n2020-01-03,3.0,6.0\n"
	b, err := LoadCSVFromReader(strings.NewReader(csvData), nil)
	if err != nil {
		t.Fatalf("LoadCSVFromReader: %v", err)
	}
	if b.NumSamples() != 3 || b.NumSeries() != 2 {
		t.Fatalf("dims = (%d,%d), want (3,2)", b.NumSamples(), b.NumSeries())
	}
	if b.At(1, 1) != 5 {
		t.Errorf("At(1,1) = %v, want 5", b.At(1, 1))
	}
	names := b.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names = %v, want [a b]", names)
	}

	headerless := "1.0,4.0\n2.0,5.0\n"
	b2, err := LoadCSVFromReader(strings.NewReader(headerless), &CSVOptions{Delimiter: ','})
	if err != nil {
		t.Fatalf("headerless load: %v", err)
	}
	if b2.NumSamples() != 2 || b2.NumSeries() != 2 {
		t.Errorf("headerless dims = (%d,%d), want (2,2)", b2.NumSamples(), b2.NumSeries())
	}
}
