package belt

import "math"

// Interval is the accepted count range for one candidate signal mean.
// INVARIANTS:
// - 0 <= Lower <= Upper
// - the accepted set holds more than Alpha of the Poisson mass at Mu+b
type Interval struct {
	Mu    float64 `json:"mu"`    // Candidate signal mean
	Lower int     `json:"lower"` // Smallest accepted count
	Upper int     `json:"upper"` // Largest accepted count
}

// Contains reports whether n lies inside the accepted range.
func (iv Interval) Contains(n int) bool {
	return n >= iv.Lower && n <= iv.Upper
}

// Width is the number of counts in the accepted range.
func (iv Interval) Width() int {
	return iv.Upper - iv.Lower + 1
}

// Belt is a confidence belt swept over a grid of signal means.
// Points are ordered by ascending Mu; means whose acceptance
// accumulation ran off the support are dropped and counted in Skipped.
type Belt struct {
	Background float64    `json:"background"`
	Alpha      float64    `json:"alpha"`
	SupportMax int        `json:"support_max"` // Largest count considered
	Points     []Interval `json:"points"`
	Skipped    int        `json:"skipped"`
}

// Lowers returns the lower edge of every point, parallel to Mus.
func (b *Belt) Lowers() []int {
	out := make([]int, len(b.Points))
	for i, p := range b.Points {
		out[i] = p.Lower
	}
	return out
}

// Uppers returns the upper edge of every point, parallel to Mus.
func (b *Belt) Uppers() []int {
	out := make([]int, len(b.Points))
	for i, p := range b.Points {
		out[i] = p.Upper
	}
	return out
}

// Mus returns the signal mean of every point.
func (b *Belt) Mus() []float64 {
	out := make([]float64, len(b.Points))
	for i, p := range b.Points {
		out[i] = p.Mu
	}
	return out
}

// IntervalFor reads the confidence interval for an observed count off the
// belt: the smallest and largest swept mean whose accepted range holds
// nObs. ok is false when no swept mean accepts nObs.
func (b *Belt) IntervalFor(nObs int) (lower, upper float64, ok bool) {
	lower, upper = math.Inf(1), math.Inf(-1)
	for _, p := range b.Points {
		if !p.Contains(nObs) {
			continue
		}
		ok = true
		lower = math.Min(lower, p.Mu)
		upper = math.Max(upper, p.Mu)
	}
	if !ok {
		return 0, 0, false
	}
	return lower, upper, true
}

// Limits is the Feldman-Cousins interval on the signal mean for one
// observed count.
type Limits struct {
	Background float64 `json:"background"`
	Observed   int     `json:"observed"`
	Alpha      float64 `json:"alpha"`
	Lower      float64 `json:"lower"`       // Lower limit (0 when the interval starts at zero)
	Upper      float64 `json:"upper"`       // Upper limit
	Threshold  float64 `json:"threshold"`   // Step size at which the search stopped
	Iterations int     `json:"iterations"`  // Constructor calls spent by the search
	SupportMax int     `json:"support_max"` // Largest count in the final support
}

// IsUpperLimitOnly reports whether the interval is one-sided.
func (l *Limits) IsUpperLimitOnly() bool {
	return l.Lower == 0
}
