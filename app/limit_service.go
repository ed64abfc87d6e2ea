package app

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fclimits/domain/belt"
	"fclimits/domain/core"
	"fclimits/internal"
	"fclimits/internal/config"
	"fclimits/internal/errors"
	"fclimits/internal/fc"
	"fclimits/ports"
)

// LimitService runs Feldman-Cousins computations with the configured
// defaults and hands belts to renderers.
type LimitService struct {
	fcConfig   config.FCConfig
	beltConfig config.BeltConfig
	logger     *internal.Logger
}

// LimitRequest defines the inputs for a limit computation. Zero Alpha or
// Threshold fall back to the configured defaults.
type LimitRequest struct {
	Background float64 `json:"background"`
	Observed   int     `json:"observed"`
	Alpha      float64 `json:"alpha,omitempty"`
	Threshold  float64 `json:"threshold,omitempty"`
}

// LimitResult contains the limits and run bookkeeping
type LimitResult struct {
	RunID     core.RunID   `json:"run_id"`
	Limits    *belt.Limits `json:"limits"`
	RuntimeMs int64        `json:"runtime_ms"`
}

// BeltRequest defines the inputs for a belt sweep. Zero fields fall back
// to the configured defaults.
type BeltRequest struct {
	Background float64 `json:"background"`
	Alpha      float64 `json:"alpha,omitempty"`
	MuMax      float64 `json:"mu_max,omitempty"`
	MuStep     float64 `json:"mu_step,omitempty"`
}

// BeltResult contains a swept belt with its summary
type BeltResult struct {
	RunID     core.RunID  `json:"run_id"`
	Belt      *belt.Belt  `json:"belt"`
	Summary   BeltSummary `json:"summary"`
	RuntimeMs int64       `json:"runtime_ms"`
}

// RenderedArtifact records one renderer output
type RenderedArtifact struct {
	Renderer string `json:"renderer"`
	Path     string `json:"path"`
}

// NewLimitService creates a limit service
func NewLimitService(cfg *config.Config, logger *internal.Logger) *LimitService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &LimitService{
		fcConfig:   cfg.FC,
		beltConfig: cfg.Belt,
		logger:     logger,
	}
}

// ComputeLimits returns the two-sided interval for the observed count.
func (s *LimitService) ComputeLimits(ctx context.Context, req LimitRequest) (*LimitResult, error) {
	return s.runLimits(ctx, req, "limits", fc.Limits)
}

// ComputeUpperLimit returns only the upper limit for the observed count.
func (s *LimitService) ComputeUpperLimit(ctx context.Context, req LimitRequest) (*LimitResult, error) {
	return s.runLimits(ctx, req, "upper limit", fc.UpperLimit)
}

type limitFunc func(ctx context.Context, b float64, nObs int, opts ...fc.Option) (*belt.Limits, error)

func (s *LimitService) runLimits(ctx context.Context, req LimitRequest, what string, compute limitFunc) (*LimitResult, error) {
	startTime := time.Now()
	runID := core.NewRunID()

	ctx, cancel := context.WithTimeout(ctx, s.fcConfig.Timeout)
	defer cancel()

	limits, err := compute(ctx, req.Background, req.Observed, s.limitOptions(req)...)
	if err != nil {
		s.logger.Warn("[LimitService] %s run %s failed (b=%g n=%d): %v", what, runID, req.Background, req.Observed, err)
		return nil, errors.Wrapf(err, "%s computation failed", what)
	}

	result := &LimitResult{
		RunID:     runID,
		Limits:    limits,
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}
	s.logger.Info("[LimitService] %s run %s: b=%g n=%d CL=%g -> [%.4f, %.4f] in %d iterations",
		what, runID, limits.Background, limits.Observed, limits.Alpha, limits.Lower, limits.Upper, limits.Iterations)
	return result, nil
}

// ComputeBelt sweeps the acceptance belt over the requested mean grid.
func (s *LimitService) ComputeBelt(ctx context.Context, req BeltRequest) (*BeltResult, error) {
	startTime := time.Now()
	runID := core.NewRunID()

	grid := fc.Grid{
		Max:  orDefault(req.MuMax, s.beltConfig.MuMax),
		Step: orDefault(req.MuStep, s.beltConfig.MuStep),
	}

	ctx, cancel := context.WithTimeout(ctx, s.fcConfig.Timeout)
	defer cancel()

	b, err := fc.SweepBelt(ctx, req.Background, grid,
		fc.WithAlpha(orDefault(req.Alpha, s.fcConfig.Alpha)),
		fc.WithInitialSupport(s.fcConfig.InitialSupport),
		fc.WithMaxSupport(s.fcConfig.MaxSupport),
		fc.WithWorkers(s.beltConfig.Workers),
		fc.WithLogger(s.logger),
	)
	if err != nil {
		return nil, errors.Wrap(err, "belt sweep failed")
	}

	result := &BeltResult{
		RunID:     runID,
		Belt:      b,
		Summary:   SummarizeBelt(b),
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}
	s.logger.Info("[LimitService] belt run %s: b=%g CL=%g, %d points, %d skipped",
		runID, b.Background, b.Alpha, len(b.Points), b.Skipped)
	return result, nil
}

// RenderBelt hands the belt to every renderer, writing one file per
// renderer into dir.
func (s *LimitService) RenderBelt(ctx context.Context, result *BeltResult, dir string, renderers ...ports.BeltRenderer) ([]RenderedArtifact, error) {
	artifacts := make([]RenderedArtifact, 0, len(renderers))
	for _, r := range renderers {
		path := filepath.Join(dir, fmt.Sprintf("fc_belt_%s.%s", result.RunID, r.Extension()))
		if err := r.Render(ctx, result.Belt, path); err != nil {
			s.logger.Error("[LimitService] %s renderer failed for run %s: %v", r.Name(), result.RunID, err)
			return artifacts, errors.RenderFailed(r.Name(), err)
		}
		s.logger.Debug("[LimitService] %s renderer wrote %s", r.Name(), path)
		artifacts = append(artifacts, RenderedArtifact{Renderer: r.Name(), Path: path})
	}
	return artifacts, nil
}

func (s *LimitService) limitOptions(req LimitRequest) []fc.Option {
	return []fc.Option{
		fc.WithAlpha(orDefault(req.Alpha, s.fcConfig.Alpha)),
		fc.WithThreshold(orDefault(req.Threshold, s.fcConfig.Threshold)),
		fc.WithMaxIterations(s.fcConfig.MaxIterations),
		fc.WithInitialSupport(s.fcConfig.InitialSupport),
		fc.WithMaxSupport(s.fcConfig.MaxSupport),
		fc.WithLogger(s.logger),
	}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
