// Package lbfgs defines the batched quasi-Newton minimizer contract used by
// the estimation core and provides a default implementation backed by
// gonum's L-BFGS method.
package lbfgs
