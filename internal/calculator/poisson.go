package calculator

import "math"

// poissonMarginal returns P(X = k) for k in [0, maxGoals], X ~ Poisson(lambda),
// scaled by an arbitrary positive constant.
//
// The terms come from the log-space recurrence
// log p(k) = log p(k-1) + log(lambda) - log(k) starting from log p(0) = 0,
// shifted by the largest term
// before exponentiating, so no factorial is formed and the mode is always 1.
// Callers renormalize, which cancels the scale.
func poissonMarginal(lambda float64, maxGoals int) []float64 {
	logs := make([]float64, maxGoals+1)
	logLambda := math.Log(lambda)

	// The e^-lambda factor is common to every term and cancels in the shift.
	logs[0] = 0
	peak := logs[0]
	for k := 1; k <= maxGoals; k++ {
		logs[k] = logs[k-1] + logLambda - math.Log(float64(k))
		if logs[k] > peak {
			peak = logs[k]
		}
	}

	pmf := make([]float64, maxGoals+1)
	for k, l := range logs {
		pmf[k] = math.Exp(l - peak)
	}
	return pmf
}

// validRate reports whether lambda can parameterize a Poisson distribution.
func validRate(lambda float64) bool {
	return lambda > 0 && !math.IsInf(lambda, 0) && !math.IsNaN(lambda)
}
