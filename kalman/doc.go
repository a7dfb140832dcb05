// Package kalman builds state-space representations of ARMA processes and
// evaluates their Gaussian log-likelihood with a batched Kalman filter.
//
// The filter is consumed by the estimation core through the Filter function
// type, so an alternative kernel (an accelerated implementation, or a stub
// in tests) can be substituted without touching the callers.
package kalman
