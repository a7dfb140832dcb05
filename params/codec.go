package params

import "fmt"

// NumPerMember returns the number of parameters each batch member
// contributes to the flat vector: mu plus p AR and q MA coefficients.
func NumPerMember(p, q int) int {
	return 1 + p + q
}

// Pack linearizes per-member (mu, ar, ma) triples into a flat vector laid
// out as contiguous per-member blocks [mu, ar_1..ar_p, ma_1..ma_q].
func Pack(p, q, batchSize int, mu []float64, ar, ma [][]float64) ([]float64, error) {
	if len(mu) != batchSize || len(ar) != batchSize || len(ma) != batchSize {
		return nil, fmt.Errorf("params: expected %d members, got mu=%d ar=%d ma=%d",
			batchSize, len(mu), len(ar), len(ma))
	}
	k := NumPerMember(p, q)
	x := make([]float64, k*batchSize)
	for i := 0; i < batchSize; i++ {
		if len(ar[i]) != p || len(ma[i]) != q {
			return nil, fmt.Errorf("params: member %d has ar=%d ma=%d coefficients, want p=%d q=%d",
				i, len(ar[i]), len(ma[i]), p, q)
		}
		block := x[i*k : (i+1)*k]
		block[0] = mu[i]
		copy(block[1:1+p], ar[i])
		copy(block[1+p:], ma[i])
	}
	return x, nil
}

// Unpack is the inverse of Pack: it slices each per-member block of the flat
// vector back into (mu, ar, ma) triples.
func Unpack(p, q, batchSize int, x []float64) (mu []float64, ar, ma [][]float64, err error) {
	k := NumPerMember(p, q)
	if len(x) != k*batchSize {
		return nil, nil, nil, fmt.Errorf("params: vector length %d, want %d*%d=%d",
			len(x), batchSize, k, k*batchSize)
	}
	mu = make([]float64, batchSize)
	ar = make([][]float64, batchSize)
	ma = make([][]float64, batchSize)
	for i := 0; i < batchSize; i++ {
		block := x[i*k : (i+1)*k]
		mu[i] = block[0]
		ar[i] = append([]float64(nil), block[1:1+p]...)
		ma[i] = append([]float64(nil), block[1+p:]...)
	}
	return mu, ar, ma, nil
}
