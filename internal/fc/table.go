package fc

import (
	"fmt"
	"math"

	"fclimits/domain/core"
)

// Support is the contiguous range of observable counts 0..Max.
type Support struct {
	max int
}

// NewSupport returns the support 0..max.
func NewSupport(max int) (Support, error) {
	if max < 0 {
		return Support{}, core.NewParameterError(core.ErrInvalidSupport, max, "maximum count must be >= 0")
	}
	return Support{max: max}, nil
}

// Max is the largest count in the support.
func (s Support) Max() int { return s.max }

// Len is the number of counts in the support.
func (s Support) Len() int { return s.max + 1 }

// Counts lists the support in ascending order.
func (s Support) Counts() []int {
	out := make([]int, s.Len())
	for i := range out {
		out[i] = i
	}
	return out
}

// Extend returns a new support one count longer; s is left untouched.
func (s Support) Extend() Support {
	return Support{max: s.max + 1}
}

// Table is the likelihood normalization for one (support, background)
// pair: for each count n, the largest Poisson probability of n over all
// non-negative signal means. Values are held as logarithms so large
// backgrounds do not underflow. Tables are immutable; a longer support
// needs a new table.
type Table struct {
	support    Support
	background float64
	logBest    []float64
}

// BuildTable computes the normalization table. The maximum of P(n | mu+b)
// over mu >= 0 is reached at mu = max(0, n-b), so each entry is evaluated
// there exactly instead of scanning a grid of means.
func BuildTable(support Support, b float64) (*Table, error) {
	if err := validateBackground(b); err != nil {
		return nil, err
	}
	logBest := make([]float64, support.Len())
	for n := range logBest {
		logBest[n] = logPoissonPMF(n, bestFitMean(n, b)+b)
		if math.IsInf(logBest[n], 0) || math.IsNaN(logBest[n]) {
			return nil, core.NewParameterError(core.ErrInvalidBackground, b,
				fmt.Sprintf("normalization for n=%d is not representable", n))
		}
	}
	return &Table{support: support, background: b, logBest: logBest}, nil
}

// Support returns the support the table was built for.
func (t *Table) Support() Support { return t.support }

// Background returns the background rate the table was built for.
func (t *Table) Background() float64 { return t.background }

// Value returns the normalization for count n, or 0 outside the support.
// It may round to 0 for very large backgrounds; LogValue does not.
func (t *Table) Value(n int) float64 {
	return math.Exp(t.LogValue(n))
}

// LogValue returns the log normalization for count n, or -Inf outside the
// support.
func (t *Table) LogValue(n int) float64 {
	if n < 0 || n >= len(t.logBest) {
		return math.Inf(-1)
	}
	return t.logBest[n]
}

// Values returns the table indexed by count. The slice is a fresh copy.
func (t *Table) Values() []float64 {
	out := make([]float64, len(t.logBest))
	for n, lv := range t.logBest {
		out[n] = math.Exp(lv)
	}
	return out
}

func validateBackground(b float64) error {
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return core.NewParameterError(core.ErrInvalidBackground, b, "must be finite")
	}
	if b < 0 {
		return core.NewParameterError(core.ErrInvalidBackground, b, "must be >= 0")
	}
	return nil
}
