// Package stats provides the statistical helpers used by the estimation
// core: autocorrelation and Yule-Walker solutions for starting points,
// information criteria for order selection, stationarity testing for
// automatic differencing, and residual diagnostics.
package stats
