package app

import (
	"github.com/montanaflynn/stats"

	"fclimits/domain/belt"
)

// BeltSummary condenses a belt into acceptance-width statistics.
type BeltSummary struct {
	Points      int     `json:"points"`
	Skipped     int     `json:"skipped"`
	MeanWidth   float64 `json:"mean_width"`
	MedianWidth float64 `json:"median_width"`
	MaxWidth    float64 `json:"max_width"`
	StdDevWidth float64 `json:"stddev_width"`
}

// SummarizeBelt computes width statistics over the belt's points. An empty
// belt yields zero widths.
func SummarizeBelt(b *belt.Belt) BeltSummary {
	summary := BeltSummary{Points: len(b.Points), Skipped: b.Skipped}
	if len(b.Points) == 0 {
		return summary
	}

	widths := make(stats.Float64Data, len(b.Points))
	for i, p := range b.Points {
		widths[i] = float64(p.Width())
	}

	summary.MeanWidth, _ = stats.Mean(widths)
	summary.MedianWidth, _ = stats.Median(widths)
	summary.MaxWidth, _ = stats.Max(widths)
	summary.StdDevWidth, _ = stats.StandardDeviation(widths)
	return summary
}
