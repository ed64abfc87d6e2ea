package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fclimits/adapters/chart"
	"fclimits/adapters/excel"
	"fclimits/app"
	"fclimits/internal"
	"fclimits/internal/api"
	"fclimits/internal/config"
	"fclimits/internal/fc"
	"fclimits/ports"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fc",
		Short:         "Feldman-Cousins confidence limits for Poisson counts with known background",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newLimitCmd(),
		newIntervalCmd(),
		newBeltCmd(),
		newLookupCmd(),
		newServeCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadService() (*config.Config, *app.LimitService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, app.NewLimitService(cfg, internal.DefaultLogger), nil
}

func newLimitCmd() *cobra.Command {
	var req app.LimitRequest
	var upperOnly, asJSON bool

	cmd := &cobra.Command{
		Use:   "limit",
		Short: "Compute the confidence interval for an observed count",
		Long: `Compute the Feldman-Cousins interval for an observed count given a known background.

Example: fc limit --b 3 --n 10 --alpha 0.9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, svc, err := loadService()
			if err != nil {
				return err
			}

			compute := svc.ComputeLimits
			if upperOnly {
				compute = svc.ComputeUpperLimit
			}
			result, err := compute(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(result)
			}
			l := result.Limits
			fmt.Printf("Run:        %s\n", result.RunID)
			fmt.Printf("Background: %g\n", l.Background)
			fmt.Printf("Observed:   %d\n", l.Observed)
			fmt.Printf("CL:         %g\n", l.Alpha)
			if upperOnly {
				fmt.Printf("Upper:      %.4f\n", l.Upper)
			} else {
				fmt.Printf("Interval:   [%.4f, %.4f]\n", l.Lower, l.Upper)
			}
			fmt.Printf("Iterations: %d (support 0..%d)\n", l.Iterations, l.SupportMax)
			return nil
		},
	}

	cmd.Flags().Float64Var(&req.Background, "b", 0, "Known background mean")
	cmd.Flags().IntVar(&req.Observed, "n", 0, "Observed count")
	cmd.Flags().Float64Var(&req.Alpha, "alpha", 0, "Confidence level (defaults to FC_ALPHA)")
	cmd.Flags().Float64Var(&req.Threshold, "threshold", 0, "Search step threshold (defaults to FC_THRESHOLD)")
	cmd.Flags().BoolVar(&upperOnly, "upper-only", false, "Only search for the upper limit")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func newIntervalCmd() *cobra.Command {
	var b, mu, alpha float64
	var supportMax int

	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Construct the acceptance interval for one signal mean",
		Long: `Construct the acceptance interval of counts for a single signal mean.

Example: fc interval --b 3 --mu 2.5 --support 40`,
		RunE: func(cmd *cobra.Command, args []string) error {
			support, err := fc.NewSupport(supportMax)
			if err != nil {
				return err
			}
			table, err := fc.BuildTable(support, b)
			if err != nil {
				return err
			}
			lower, upper, err := fc.ConstructInterval(mu, table, alpha)
			if err != nil {
				return err
			}
			fmt.Printf("mu=%g b=%g CL=%g -> counts [%d, %d] on support 0..%d\n", mu, b, alpha, lower, upper, supportMax)
			return nil
		},
	}

	cmd.Flags().Float64Var(&b, "b", 0, "Known background mean")
	cmd.Flags().Float64Var(&mu, "mu", 0, "Signal mean")
	cmd.Flags().Float64Var(&alpha, "alpha", fc.DefaultAlpha, "Confidence level")
	cmd.Flags().IntVar(&supportMax, "support", 40, "Largest count in the support")

	return cmd
}

func newBeltCmd() *cobra.Command {
	var req app.BeltRequest
	var png, svg, xlsx bool
	var outDir string

	cmd := &cobra.Command{
		Use:   "belt",
		Short: "Sweep the confidence belt and optionally render it",
		Long: `Sweep acceptance intervals over a grid of signal means.

Example: fc belt --b 3 --mu-max 15 --mu-step 0.01 --png --xlsx --out ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := loadService()
			if err != nil {
				return err
			}

			result, err := svc.ComputeBelt(cmd.Context(), req)
			if err != nil {
				return err
			}

			s := result.Summary
			fmt.Printf("Run:     %s\n", result.RunID)
			fmt.Printf("Points:  %d (%d skipped)\n", s.Points, s.Skipped)
			fmt.Printf("Width:   mean %.2f, median %.2f, max %.0f, stddev %.2f\n", s.MeanWidth, s.MedianWidth, s.MaxWidth, s.StdDevWidth)
			for _, n := range []int{0, 1, 2, 5, 10} {
				if lo, hi, ok := result.Belt.IntervalFor(n); ok {
					fmt.Printf("n=%-3d    [%.3f, %.3f]\n", n, lo, hi)
				}
			}

			var renderers []ports.BeltRenderer
			if png {
				renderers = append(renderers, chart.NewBeltChart(chart.DefaultChartConfig()))
			}
			if svg {
				chartCfg := chart.DefaultChartConfig()
				chartCfg.Extension = "svg"
				renderers = append(renderers, chart.NewBeltChart(chartCfg))
			}
			if xlsx {
				renderers = append(renderers, excel.NewBeltWriter())
			}
			if len(renderers) == 0 {
				return nil
			}

			if outDir == "" {
				outDir = cfg.Output.Dir
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			artifacts, err := svc.RenderBelt(cmd.Context(), result, outDir, renderers...)
			for _, a := range artifacts {
				fmt.Printf("Wrote %s (%s)\n", a.Path, a.Renderer)
			}
			return err
		},
	}

	cmd.Flags().Float64Var(&req.Background, "b", 0, "Known background mean")
	cmd.Flags().Float64Var(&req.Alpha, "alpha", 0, "Confidence level (defaults to FC_ALPHA)")
	cmd.Flags().Float64Var(&req.MuMax, "mu-max", 0, "Largest signal mean on the grid (defaults to FC_BELT_MU_MAX)")
	cmd.Flags().Float64Var(&req.MuStep, "mu-step", 0, "Grid spacing (defaults to FC_BELT_MU_STEP)")
	cmd.Flags().BoolVar(&png, "png", false, "Render the belt chart as PNG")
	cmd.Flags().BoolVar(&svg, "svg", false, "Render the belt chart as SVG")
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "Write the belt table as an Excel workbook")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory (defaults to FC_OUTPUT_DIR)")

	return cmd
}

func newLookupCmd() *cobra.Command {
	var nObs int

	cmd := &cobra.Command{
		Use:   "lookup [belt.xlsx]",
		Short: "Read a confidence interval off a saved belt workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := excel.ReadBelt(args[0])
			if err != nil {
				return err
			}
			lower, upper, ok := b.IntervalFor(nObs)
			if !ok {
				return fmt.Errorf("no grid mean accepts n=%d in %s", nObs, args[0])
			}
			fmt.Printf("b=%g CL=%g n=%d -> [%.3f, %.3f] (grid resolution)\n", b.Background, b.Alpha, nObs, lower, upper)
			return nil
		},
	}

	cmd.Flags().IntVar(&nObs, "n", 0, "Observed count")

	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve limits and belts over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, err := loadService()
			if err != nil {
				return err
			}
			if port == "" {
				port = cfg.Server.Port
			}
			server := api.NewServer(svc, cfg.Server.GinMode, internal.DefaultLogger)
			return server.Start(cmd.Context(), ":"+port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (defaults to PORT)")

	return cmd
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
