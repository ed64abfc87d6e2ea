package fc

import (
	"context"
	"fmt"
	"math"

	"fclimits/domain/belt"
	"fclimits/domain/core"
)

type edge int

const (
	lowerEdge edge = iota
	upperEdge
)

func (e edge) String() string {
	if e == upperEdge {
		return "upper"
	}
	return "lower"
}

// searcher holds the state of one step-halving scan. The (support, table)
// pair is replaced as a whole whenever the support grows.
type searcher struct {
	opts       Options
	background float64
	table      *Table
	mu         float64
	step       float64
	iterations int
}

func newSearcher(b float64, opts Options) (*searcher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	support, err := NewSupport(opts.InitialSupport)
	if err != nil {
		return nil, err
	}
	table, err := BuildTable(support, b)
	if err != nil {
		return nil, err
	}
	return &searcher{opts: opts, background: b, table: table}, nil
}

// interval evaluates the constructor at the current mean. An interval that
// reaches the last two counts of the support, or runs off it, may be biased
// by truncation: the support is extended and the same mean retried.
func (s *searcher) interval(ctx context.Context) (lower, upper int, err error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, 0, fmt.Errorf("limit search interrupted at mu=%g: %w", s.mu, err)
		}
		if s.iterations >= s.opts.MaxIterations {
			return 0, 0, core.NewConvergenceError(s.iterations, s.mu, s.step)
		}
		s.iterations++

		lower, upper, err = ConstructInterval(s.mu, s.table, s.opts.Alpha)
		if err != nil && !core.IsBoundaryExhausted(err) {
			return 0, 0, err
		}
		if err == nil && upper < s.table.Support().Max()-1 {
			return lower, upper, nil
		}

		if err := s.extend(); err != nil {
			return 0, 0, err
		}
	}
}

func (s *searcher) extend() error {
	next := s.table.Support().Extend()
	if next.Max() > s.opts.MaxSupport {
		return fmt.Errorf("%w: support would exceed 0..%d at mu=%g",
			core.ErrNonConvergence, s.opts.MaxSupport, s.mu)
	}
	table, err := BuildTable(next, s.background)
	if err != nil {
		return err
	}
	s.table = table
	s.opts.Logger.Debug("fc: support extended to 0..%d at mu=%g (b=%g)", next.Max(), s.mu, s.background)
	return nil
}

// converge scans mu upward from zero until the chosen interval edge sits at
// target, halving the step and stepping back each time the edge reaches or
// passes it. It stops on the edge hitting target with step <= threshold,
// or on the edge jumping past target at that resolution.
func (s *searcher) converge(ctx context.Context, e edge, target int) (float64, error) {
	s.mu = 0
	s.step = math.Max(s.background/2, s.opts.MinInitialStep)

	for {
		lower, upper, err := s.interval(ctx)
		if err != nil {
			return 0, err
		}
		got := lower
		if e == upperEdge {
			got = upper
		}
		s.opts.Logger.Trace("fc: %s edge=%d target=%d mu=%g step=%g", e, got, target, s.mu, s.step)

		switch {
		case got > target:
			if s.step <= s.opts.Threshold {
				return s.mu, nil
			}
			s.step /= 2
			s.mu -= s.step
		case got < target:
			s.mu += s.step
		default:
			if s.step <= s.opts.Threshold {
				return s.mu, nil
			}
			s.step /= 2
			s.mu -= s.step
		}
		if s.mu < 0 {
			s.mu = 0
		}
	}
}

// UpperLimit returns the Feldman-Cousins upper limit on the signal mean
// for nObs observed counts over background b: the mean at which the lower
// edge of the acceptance interval first reaches nObs+1.
func UpperLimit(ctx context.Context, b float64, nObs int, opts ...Option) (*belt.Limits, error) {
	o := buildOptions(opts)
	if err := validateObserved(nObs); err != nil {
		return nil, err
	}
	s, err := newSearcher(b, o)
	if err != nil {
		return nil, err
	}

	mu, err := s.converge(ctx, lowerEdge, nObs+1)
	if err != nil {
		return nil, err
	}
	o.Logger.Debug("fc: upper limit %g for n=%d b=%g after %d iterations", mu, nObs, b, s.iterations)

	return &belt.Limits{
		Background: b,
		Observed:   nObs,
		Alpha:      o.Alpha,
		Upper:      mu,
		Threshold:  o.Threshold,
		Iterations: s.iterations,
		SupportMax: s.table.Support().Max(),
	}, nil
}

// LowerLimit returns the Feldman-Cousins lower limit for nObs: zero when
// the acceptance interval at mu=0 already reaches nObs, otherwise the mean
// at which the upper edge first reaches nObs.
func LowerLimit(ctx context.Context, b float64, nObs int, opts ...Option) (*belt.Limits, error) {
	o := buildOptions(opts)
	if err := validateObserved(nObs); err != nil {
		return nil, err
	}
	s, err := newSearcher(b, o)
	if err != nil {
		return nil, err
	}

	limits := &belt.Limits{
		Background: b,
		Observed:   nObs,
		Alpha:      o.Alpha,
		Threshold:  o.Threshold,
	}

	_, upper, err := s.interval(ctx)
	if err != nil {
		return nil, err
	}
	if upper < nObs {
		if limits.Lower, err = s.converge(ctx, upperEdge, nObs); err != nil {
			return nil, err
		}
	}
	o.Logger.Debug("fc: lower limit %g for n=%d b=%g after %d iterations", limits.Lower, nObs, b, s.iterations)

	limits.Iterations = s.iterations
	limits.SupportMax = s.table.Support().Max()
	return limits, nil
}

// Limits returns the two-sided Feldman-Cousins interval for nObs.
func Limits(ctx context.Context, b float64, nObs int, opts ...Option) (*belt.Limits, error) {
	lower, err := LowerLimit(ctx, b, nObs, opts...)
	if err != nil {
		return nil, fmt.Errorf("lower limit: %w", err)
	}
	upper, err := UpperLimit(ctx, b, nObs, opts...)
	if err != nil {
		return nil, fmt.Errorf("upper limit: %w", err)
	}

	upper.Lower = lower.Lower
	upper.Iterations += lower.Iterations
	if lower.SupportMax > upper.SupportMax {
		upper.SupportMax = lower.SupportMax
	}
	return upper, nil
}

func validateObserved(nObs int) error {
	if nObs < 0 {
		return core.NewParameterError(core.ErrInvalidObserved, nObs, "must be >= 0")
	}
	return nil
}

func invalidOption(name string, value interface{}) error {
	return core.NewParameterError(core.ErrInvalidParameter, value, name+" out of range")
}
