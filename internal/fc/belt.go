package fc

import (
	"context"
	"fmt"
	"math"

	"fclimits/domain/belt"
	"fclimits/domain/core"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// sweepChunk is the number of grid points one worker evaluates per task.
const sweepChunk = 256

// MaxGridPoints bounds the number of means a single sweep may evaluate.
const MaxGridPoints = 1_000_000

// Grid is an evenly spaced set of signal means 0, Step, 2*Step, ... <= Max.
type Grid struct {
	Max  float64
	Step float64
}

// DefaultGrid matches the classic 0..50 scan in steps of 0.005.
var DefaultGrid = Grid{Max: 50, Step: 0.005}

// Means lists the grid points.
func (g Grid) Means() []float64 {
	n := int(math.Floor(g.Max/g.Step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) * g.Step
	}
	return out
}

func (g Grid) validate() error {
	if !(g.Step > 0) || math.IsInf(g.Step, 0) {
		return core.NewParameterError(core.ErrInvalidParameter, g.Step, "grid step must be positive")
	}
	if !(g.Max >= 0) || math.IsInf(g.Max, 0) {
		return core.NewParameterError(core.ErrInvalidParameter, g.Max, "grid maximum must be finite and >= 0")
	}
	if points := g.Max/g.Step + 1; points > MaxGridPoints {
		return core.NewParameterError(core.ErrInvalidParameter, points,
			fmt.Sprintf("grid has more than %d points", MaxGridPoints))
	}
	return nil
}

// BeltSupport returns a support wide enough that the Poisson tail beyond it
// is negligible for rates up to lambdaMax.
func BeltSupport(lambdaMax float64, minMax int) Support {
	k := int(math.Ceil(lambdaMax + 6*math.Sqrt(lambdaMax) + 10))
	if k < minMax {
		k = minMax
	}
	return Support{max: k}
}

type sweepPoint struct {
	interval belt.Interval
	ok       bool
}

// SweepBelt evaluates the acceptance interval at every mean of grid. One
// table serves the whole sweep. Means whose accumulation exhausts the
// support are left out of the belt and counted in Skipped.
func SweepBelt(ctx context.Context, b float64, grid Grid, opts ...Option) (*belt.Belt, error) {
	o := buildOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if err := grid.validate(); err != nil {
		return nil, err
	}
	if err := validateBackground(b); err != nil {
		return nil, err
	}

	support := BeltSupport(grid.Max+b, o.InitialSupport)
	if support.Max() > o.MaxSupport {
		support = Support{max: o.MaxSupport}
	}
	table, err := BuildTable(support, b)
	if err != nil {
		return nil, err
	}

	return sweep(ctx, table, grid, o)
}

// SweepBeltOn is SweepBelt over a caller-built table; the support is used
// as given, so truncated sweeps can be reproduced.
func SweepBeltOn(ctx context.Context, table *Table, grid Grid, opts ...Option) (*belt.Belt, error) {
	o := buildOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	if err := grid.validate(); err != nil {
		return nil, err
	}
	return sweep(ctx, table, grid, o)
}

func sweep(ctx context.Context, table *Table, grid Grid, o Options) (*belt.Belt, error) {
	means := grid.Means()
	points := make([]sweepPoint, len(means))
	sem := semaphore.NewWeighted(int64(o.Workers))
	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(means); start += sweepChunk {
		start := start
		end := min(start+sweepChunk, len(means))
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				lower, upper, err := ConstructInterval(means[i], table, o.Alpha)
				if core.IsBoundaryExhausted(err) {
					continue
				}
				if err != nil {
					return err
				}
				points[i] = sweepPoint{interval: belt.Interval{Mu: means[i], Lower: lower, Upper: upper}, ok: true}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &belt.Belt{
		Background: table.Background(),
		Alpha:      o.Alpha,
		SupportMax: table.Support().Max(),
		Points:     make([]belt.Interval, 0, len(means)),
	}
	for _, p := range points {
		if !p.ok {
			out.Skipped++
			continue
		}
		out.Points = append(out.Points, p.interval)
	}
	if out.Skipped > 0 {
		o.Logger.Warn("fc: belt sweep skipped %d of %d means (support 0..%d)", out.Skipped, len(means), table.Support().Max())
	}
	return out, nil
}
