package NavierStokes2D

import (
	"fmt"
)

// ConfigurationError reports an invalid combination of model, base flow, grid or solver settings
type ConfigurationError struct {
	Msg string
	Err error
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Msg, e.Err)
	}
	return "configuration error: " + e.Msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ConvergenceError is returned by a projection solve that did not reach its tolerance
type ConvergenceError struct {
	Solver     string
	Iterations int
	Residual   float64
	Tolerance  float64
	Err        error
}

func (e *ConvergenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s solver failed: %v", e.Solver, e.Err)
	}
	return fmt.Sprintf("%s solver did not converge after %d iterations, residual %8.3e > tolerance %8.3e",
		e.Solver, e.Iterations, e.Residual, e.Tolerance)
}

func (e *ConvergenceError) Unwrap() error { return e.Err }
