// Package batcharima provides batched ARIMA time series modeling.
//
// Unlike a conventional ARIMA library that fits one series at a time,
// batcharima estimates many independent series jointly: a single
// quasi-Newton optimization drives a shared state-space (Kalman)
// likelihood evaluated for every batch member at once. Each member keeps
// its own parameters; only the optimization loop and the likelihood
// kernel are shared.
//
// # Quick Start
//
// Fit a batch of series and forecast:
//
//	batch, _ := timeseries.FromColumns(cols)
//	model, _ := arima.Fit(batch, arima.Order{P: 1, D: 0, Q: 1}, nil)
//	fc, _ := model.Forecast(10)
//
// Select per-series orders automatically:
//
//	best, ic, _ := autoarima.GridSearch(batch, autoarima.DefaultConfig())
//
// # Packages
//
// The library is organized into the following packages:
//
//   - timeseries: dense batched series container and CSV loading
//   - params: flat parameter packing and the stationarity/invertibility
//     reparameterization
//   - kalman: state-space construction and the batched Kalman filter
//   - lbfgs: the batched quasi-Newton minimizer contract and its
//     gonum-backed default
//   - arima: batched model estimation, in-sample prediction and
//     multi-step forecasting
//   - autoarima: per-series order selection by information-criterion
//     grid search
//   - stats: ACF, Yule-Walker, information criteria and residual
//     diagnostics
//
// # References
//
//   - Durbin, J., & Koopman, S.J. (2012). Time Series Analysis by State Space Methods
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package batcharima
