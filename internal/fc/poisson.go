package fc

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// logPoissonPMF is log P(N = n | lambda). distuv.Poisson requires
// lambda > 0, so the degenerate rate is handled here: all mass sits on n = 0.
func logPoissonPMF(n int, lambda float64) float64 {
	if n < 0 {
		return math.Inf(-1)
	}
	if lambda == 0 {
		if n == 0 {
			return 0
		}
		return math.Inf(-1)
	}
	return distuv.Poisson{Lambda: lambda}.LogProb(float64(n))
}

// poissonPMF is P(N = n | lambda).
func poissonPMF(n int, lambda float64) float64 {
	return math.Exp(logPoissonPMF(n, lambda))
}

// bestFitMean is the non-negative signal mean that maximizes P(n | mu+b).
func bestFitMean(n int, b float64) float64 {
	return math.Max(0, float64(n)-b)
}
