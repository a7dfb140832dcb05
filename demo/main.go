// Package main demonstrates batched ARIMA estimation: fitting a batch of
// synthetic series jointly, inspecting diagnostics, forecasting, and
// selecting per-series orders by grid search.
package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cjolivier01/batcharima/arima"
	"github.com/cjolivier01/batcharima/autoarima"
	"github.com/cjolivier01/batcharima/timeseries"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rng := rand.New(rand.NewSource(42))
	n := 200

	// Member 0: AR(1) with phi=0.6. Member 1: MA(1) with theta=0.5.
	ar1 := make([]float64, n)
	for t := 1; t < n; t++ {
		ar1[t] = 0.6*ar1[t-1] + rng.NormFloat64()
	}
	ma1 := make([]float64, n)
	prev := rng.NormFloat64()
	for t := 0; t < n; t++ {
		e := rng.NormFloat64()
		ma1[t] = e + 0.5*prev
		prev = e
	}

	batch, err := timeseries.FromColumns([][]float64{ar1, ma1})
	if err != nil {
		log.Fatal().Err(err).Msg("building batch")
	}

	model, err := arima.Fit(batch, arima.Order{P: 1, D: 0, Q: 1}, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("fit failed")
	}
	log.Info().Int("iterations", model.Iterations).Msg("fitted ARMA(1,1) to batch")

	summaries, err := model.Summaries()
	if err != nil {
		log.Fatal().Err(err).Msg("summaries failed")
	}
	for i, s := range summaries {
		log.Info().
			Int("member", i).
			Float64("mu", s.Mu).
			Floats64("ar", s.AR).
			Floats64("ma", s.MA).
			Float64("aic", s.AIC).
			Float64("loglik", s.LogLik).
			Msg("member summary")
	}

	fc, err := model.Forecast(10)
	if err != nil {
		log.Fatal().Err(err).Msg("forecast failed")
	}
	for i := 0; i < fc.NumSeries(); i++ {
		log.Info().Int("member", i).Floats64("forecast", fc.Col(nil, i)).Msg("10-step forecast")
	}

	cfg := autoarima.DefaultConfig()
	cfg.D = 0
	best, ic, err := autoarima.GridSearch(batch, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("grid search failed")
	}
	for i, o := range best.Orders {
		log.Info().
			Int("member", i).
			Int("p", o.P).Int("d", o.D).Int("q", o.Q).
			Float64("aic", ic[i]).
			Msg("selected order")
	}
}
