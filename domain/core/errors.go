package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Computation errors
	ErrBoundaryExhausted = errors.New("support exhausted before reaching confidence level")
	ErrNonConvergence    = errors.New("limit search did not converge")

	// Validation errors
	ErrInvalidParameter  = errors.New("invalid parameter")
	ErrInvalidBackground = fmt.Errorf("%w: background", ErrInvalidParameter)
	ErrInvalidAlpha      = fmt.Errorf("%w: confidence level", ErrInvalidParameter)
	ErrInvalidMean       = fmt.Errorf("%w: signal mean", ErrInvalidParameter)
	ErrInvalidObserved   = fmt.Errorf("%w: observed count", ErrInvalidParameter)
	ErrInvalidSupport    = fmt.Errorf("%w: support", ErrInvalidParameter)
)

// Error constructors with context
func NewBoundaryError(mu, background float64, supportMax int) error {
	return fmt.Errorf("%w: mu=%g b=%g support=0..%d", ErrBoundaryExhausted, mu, background, supportMax)
}

func NewConvergenceError(iterations int, mu, step float64) error {
	return fmt.Errorf("%w after %d iterations (mu=%g step=%g)", ErrNonConvergence, iterations, mu, step)
}

func NewParameterError(kind error, value interface{}, reason string) error {
	return fmt.Errorf("%w %v: %s", kind, value, reason)
}

// Error checking helpers
func IsBoundaryExhausted(err error) bool {
	return errors.Is(err, ErrBoundaryExhausted)
}

func IsNonConvergence(err error) bool {
	return errors.Is(err, ErrNonConvergence)
}

func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}
