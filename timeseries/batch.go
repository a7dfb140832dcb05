package timeseries

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Batch holds a dense collection of independent time series sharing a common
// time axis. Rows are time steps, columns are batch members. A Batch is
// immutable once constructed; all transforming methods return new batches.
type Batch struct {
	data  *mat.Dense
	names []string
}

// New creates a batch from row-major data with the given dimensions.
func New(numSamples, numSeries int, data []float64) (*Batch, error) {
	if numSamples < 1 || numSeries < 1 {
		return nil, errors.New("timeseries: batch dimensions must be positive")
	}
	if data != nil && len(data) != numSamples*numSeries {
		return nil, errors.New("timeseries: data length does not match dimensions")
	}
	return &Batch{data: mat.NewDense(numSamples, numSeries, data)}, nil
}

// FromColumns creates a batch from per-series slices of equal length.
func FromColumns(cols [][]float64) (*Batch, error) {
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, errors.New("timeseries: no data")
	}
	n := len(cols[0])
	b, err := New(n, len(cols), nil)
	if err != nil {
		return nil, err
	}
	for i, col := range cols {
		if len(col) != n {
			return nil, errors.New("timeseries: all series must have the same length")
		}
		for t, v := range col {
			b.data.Set(t, i, v)
		}
	}
	return b, nil
}

// NumSamples returns the number of time steps.
func (b *Batch) NumSamples() int {
	r, _ := b.data.Dims()
	return r
}

// NumSeries returns the number of batch members.
func (b *Batch) NumSeries() int {
	_, c := b.data.Dims()
	return c
}

// At returns the value of series i at time t.
func (b *Batch) At(t, i int) float64 {
	return b.data.At(t, i)
}

// Col copies series i into dst, allocating when dst is nil.
func (b *Batch) Col(dst []float64, i int) []float64 {
	return mat.Col(dst, i, b.data)
}

// Last returns the final observation of series i.
func (b *Batch) Last(i int) float64 {
	return b.data.At(b.NumSamples()-1, i)
}

// Names returns per-series names, or nil when the batch is unnamed.
func (b *Batch) Names() []string {
	return b.names
}

// WithNames returns a copy of the batch carrying per-series names.
func (b *Batch) WithNames(names []string) (*Batch, error) {
	if len(names) != b.NumSeries() {
		return nil, errors.New("timeseries: name count does not match series count")
	}
	out := &Batch{data: mat.DenseCopyOf(b.data), names: make([]string, len(names))}
	copy(out.names, names)
	return out, nil
}

// Diff returns the first difference of every series along time. The result
// has one row fewer than the receiver.
func (b *Batch) Diff() *Batch {
	n, k := b.data.Dims()
	out := mat.NewDense(n-1, k, nil)
	for t := 1; t < n; t++ {
		for i := 0; i < k; i++ {
			out.Set(t-1, i, b.data.At(t, i)-b.data.At(t-1, i))
		}
	}
	return &Batch{data: out, names: b.names}
}

// ColMeans returns the mean of each series.
func (b *Batch) ColMeans() []float64 {
	k := b.NumSeries()
	means := make([]float64, k)
	col := make([]float64, b.NumSamples())
	for i := 0; i < k; i++ {
		mat.Col(col, i, b.data)
		means[i] = stat.Mean(col, nil)
	}
	return means
}

// Sub returns the element-wise difference b - other. Both batches must have
// identical dimensions.
func (b *Batch) Sub(other *Batch) (*Batch, error) {
	br, bc := b.data.Dims()
	or, oc := other.data.Dims()
	if br != or || bc != oc {
		return nil, errors.New("timeseries: dimension mismatch")
	}
	out := mat.NewDense(br, bc, nil)
	out.Sub(b.data, other.data)
	return &Batch{data: out, names: b.names}, nil
}

// HasNonFinite reports whether any observation is NaN or infinite.
func (b *Batch) HasNonFinite() bool {
	n, k := b.data.Dims()
	for t := 0; t < n; t++ {
		for i := 0; i < k; i++ {
			v := b.data.At(t, i)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}
