package stats

import (
	"errors"
	"fmt"
	"math"
)

// Supported information criteria for model comparison.
const (
	CriterionAIC = "aic"
	CriterionBIC = "bic"
)

// ErrUnknownCriterion is returned for criterion names other than "aic" or
// "bic".
var ErrUnknownCriterion = errors.New("stats: unknown information criterion")

// InformationCriteria bundles the complexity-penalized likelihood scores of
// one fitted model.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC computes AIC, AICc and BIC from a log-likelihood, the number
// of observations and the number of estimated parameters.
func CalculateIC(logLik float64, nObs, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	aicc := math.Inf(1)
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		LogLik: logLik,
	}
}

// Penalty returns the complexity penalty term of the named criterion:
// 2k for AIC and k*log(n) for BIC. It grows strictly with the parameter
// count for any fixed n > 1.
func Penalty(criterion string, nObs, nParams int) (float64, error) {
	k := float64(nParams)
	switch criterion {
	case CriterionAIC:
		return 2 * k, nil
	case CriterionBIC:
		return k * math.Log(float64(nObs)), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCriterion, criterion)
	}
}

// Score returns -2*logLik plus the named criterion's penalty.
func Score(criterion string, logLik float64, nObs, nParams int) (float64, error) {
	pen, err := Penalty(criterion, nObs, nParams)
	if err != nil {
		return 0, err
	}
	return -2*logLik + pen, nil
}
