// Package params handles the flat per-batch parameter layout used by the
// optimizer and the reparameterization that guarantees AR stationarity and
// MA invertibility.
//
// A batch of B members with shared order (p, q) is linearized into a vector
// of length B*(1+p+q) of contiguous blocks [mu, ar_1..ar_p, ma_1..ma_q].
// Transform and InverseTransform move whole vectors between the constrained
// coefficient space and the unconstrained space the optimizer searches.
package params
