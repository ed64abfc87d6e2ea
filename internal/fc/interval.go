package fc

import (
	"math"
	"sort"

	"fclimits/domain/core"

	"gonum.org/v1/gonum/floats"
)

type rankedCount struct {
	count    int
	prob     float64
	logRatio float64
}

// ConstructInterval returns the smallest and largest count of the
// Feldman-Cousins acceptance set for signal mean mu. Counts are ranked by
// the log likelihood ratio log P(n | mu+b) - log table[n], descending, ties
// going to the lower count, and accepted in that order until the
// accumulated probability first exceeds alpha. If the support runs out first, the error wraps
// core.ErrBoundaryExhausted: the tail beyond the support matters at this mu.
func ConstructInterval(mu float64, table *Table, alpha float64) (lower, upper int, err error) {
	if err := validateMean(mu); err != nil {
		return 0, 0, err
	}
	if err := validateAlpha(alpha); err != nil {
		return 0, 0, err
	}

	lambda := mu + table.background
	ranked := make([]rankedCount, table.support.Len())
	for n := range ranked {
		lp := logPoissonPMF(n, lambda)
		ranked[n] = rankedCount{count: n, prob: math.Exp(lp), logRatio: lp - table.logBest[n]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].logRatio > ranked[j].logRatio
	})

	mass := make([]float64, len(ranked))
	for i, r := range ranked {
		mass[i] = r.prob
	}
	cumulative := floats.CumSum(make([]float64, len(mass)), mass)

	stop := -1
	for i, c := range cumulative {
		if c > alpha {
			stop = i
			break
		}
	}
	if stop < 0 {
		return 0, 0, core.NewBoundaryError(mu, table.background, table.support.Max())
	}

	lower, upper = ranked[0].count, ranked[0].count
	for _, r := range ranked[1 : stop+1] {
		if r.count < lower {
			lower = r.count
		}
		if r.count > upper {
			upper = r.count
		}
	}
	return lower, upper, nil
}

func validateMean(mu float64) error {
	if math.IsNaN(mu) || math.IsInf(mu, 0) || mu < 0 {
		return core.NewParameterError(core.ErrInvalidMean, mu, "must be finite and >= 0")
	}
	return nil
}

func validateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return core.NewParameterError(core.ErrInvalidAlpha, alpha, "must be in (0,1)")
	}
	return nil
}
