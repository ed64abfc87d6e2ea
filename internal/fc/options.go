package fc

import (
	"runtime"

	"fclimits/internal"
)

// Defaults used when no option overrides them.
const (
	DefaultAlpha          = 0.9
	DefaultThreshold      = 0.001
	DefaultMaxIterations  = 10000
	DefaultInitialSupport = 14
	DefaultMaxSupport     = 5000
	DefaultMinInitialStep = 0.5
)

// Options configures interval and limit computations.
type Options struct {
	Alpha          float64
	Threshold      float64 // Search stops once the step is at or below this
	MaxIterations  int     // Constructor calls allowed per search
	InitialSupport int     // Largest count of the starting support
	MaxSupport     int     // Largest count the support may grow to
	MinInitialStep float64 // Floor for the initial step b/2
	Workers        int     // Belt sweep parallelism
	Logger         *internal.Logger
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Alpha:          DefaultAlpha,
		Threshold:      DefaultThreshold,
		MaxIterations:  DefaultMaxIterations,
		InitialSupport: DefaultInitialSupport,
		MaxSupport:     DefaultMaxSupport,
		MinInitialStep: DefaultMinInitialStep,
		Workers:        runtime.GOMAXPROCS(0),
		Logger:         internal.DefaultLogger,
	}
}

func buildOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = internal.NopLogger()
	}
	return o
}

// WithAlpha sets the confidence level.
func WithAlpha(alpha float64) Option {
	return func(o *Options) { o.Alpha = alpha }
}

// WithThreshold sets the step size at which the search stops.
func WithThreshold(threshold float64) Option {
	return func(o *Options) { o.Threshold = threshold }
}

// WithMaxIterations caps constructor calls per search.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithInitialSupport sets the starting support 0..max.
func WithInitialSupport(max int) Option {
	return func(o *Options) { o.InitialSupport = max }
}

// WithMaxSupport caps support growth.
func WithMaxSupport(max int) Option {
	return func(o *Options) { o.MaxSupport = max }
}

// WithMinInitialStep sets the floor for the first search step.
func WithMinInitialStep(step float64) Option {
	return func(o *Options) { o.MinInitialStep = step }
}

// WithWorkers sets belt sweep parallelism.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger routes search diagnostics to l.
func WithLogger(l *internal.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func (o Options) validate() error {
	if err := validateAlpha(o.Alpha); err != nil {
		return err
	}
	if !(o.Threshold > 0) {
		return invalidOption("threshold", o.Threshold)
	}
	if o.MaxIterations < 1 {
		return invalidOption("max iterations", o.MaxIterations)
	}
	if o.InitialSupport < 1 || o.MaxSupport < o.InitialSupport {
		return invalidOption("support bounds", [2]int{o.InitialSupport, o.MaxSupport})
	}
	if !(o.MinInitialStep > 0) {
		return invalidOption("initial step", o.MinInitialStep)
	}
	if o.Workers < 1 {
		return invalidOption("workers", o.Workers)
	}
	return nil
}
