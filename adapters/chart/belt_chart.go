package chart

import (
	"context"
	"fmt"
	"math"

	"fclimits/domain/belt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ChartConfig controls the belt chart layout.
type ChartConfig struct {
	Width     vg.Length
	Height    vg.Length
	Extension string  // png, svg, pdf...; picks the encoder
	MaxCount  int     // x-axis upper bound; 0 fits the data
	MaxMu     float64 // y-axis upper bound; 0 fits the data
}

// DefaultChartConfig frames the classic 0..15 by 0..15 belt view.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:     6 * vg.Inch,
		Height:    6 * vg.Inch,
		Extension: "png",
		MaxCount:  15,
		MaxMu:     15,
	}
}

// BeltChart draws the lower and upper acceptance edges of a belt with the
// observed count on x and the signal mean on y.
type BeltChart struct {
	config ChartConfig
}

// NewBeltChart creates a chart renderer
func NewBeltChart(config ChartConfig) *BeltChart {
	if config.Extension == "" {
		config.Extension = "png"
	}
	return &BeltChart{config: config}
}

func (c *BeltChart) Name() string { return "chart" }

func (c *BeltChart) Extension() string { return c.config.Extension }

// Render saves the chart to path; the file extension selects the format.
func (c *BeltChart) Render(ctx context.Context, b *belt.Belt, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(b.Points) == 0 {
		return fmt.Errorf("belt has no points to draw")
	}

	p, err := c.build(b)
	if err != nil {
		return err
	}
	if err := p.Save(c.config.Width, c.config.Height, path); err != nil {
		return fmt.Errorf("failed to save belt chart %s: %w", path, err)
	}
	return nil
}

func (c *BeltChart) build(b *belt.Belt) (*plot.Plot, error) {
	lower := make(plotter.XYs, len(b.Points))
	upper := make(plotter.XYs, len(b.Points))
	maxCount, maxMu := 0, 0.0
	for i, pt := range b.Points {
		lower[i] = plotter.XY{X: float64(pt.Lower), Y: pt.Mu}
		upper[i] = plotter.XY{X: float64(pt.Upper), Y: pt.Mu}
		maxCount = max(maxCount, pt.Upper)
		maxMu = math.Max(maxMu, pt.Mu)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Feldman-Cousins belt  b=%g  CL=%g%%", b.Background, b.Alpha*100)
	p.X.Label.Text = "observed count n"
	p.Y.Label.Text = "signal mean μ"
	p.Add(plotter.NewGrid())

	if err := plotutil.AddLines(p, "lower edge", lower, "upper edge", upper); err != nil {
		return nil, fmt.Errorf("failed to add belt edges: %w", err)
	}

	p.X.Min, p.Y.Min = 0, 0
	p.X.Max = float64(maxCount)
	if c.config.MaxCount > 0 {
		p.X.Max = float64(c.config.MaxCount)
	}
	p.Y.Max = maxMu
	if c.config.MaxMu > 0 {
		p.Y.Max = c.config.MaxMu
	}
	p.X.Tick.Marker = integerTicks{}
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

// integerTicks labels every count on the x axis.
type integerTicks struct{}

func (integerTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for v := math.Ceil(min); v <= max; v++ {
		ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return ticks
}
