// Package errors provides structured error types and exit codes for trydeps.
package errors

import (
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // All scenarios succeeded (or failed with allowance)
	ExitRuntimeError     = 1 // Runtime error (scenario failed, command failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config, unknown scenario, etc.)
	ExitEnvironmentError = 3 // Environment error (missing manifest, install binary not found, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
)

// TrydepsError is the base error type for trydeps.
type TrydepsError struct {
	Kind     ErrorKind
	Message  string
	Scenario string // Scenario name if applicable
	Phase    string // Lifecycle phase if applicable (setup, execute, cleanup)
	Cause    error  // Underlying error
}

func (e *TrydepsError) Error() string {
	if e.Scenario != "" && e.Phase != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Scenario, e.Phase, e.Message)
	}
	if e.Scenario != "" {
		return fmt.Sprintf("[%s] %s", e.Scenario, e.Message)
	}
	return e.Message
}

func (e *TrydepsError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *TrydepsError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation, KindNotFound:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// Config creates a new configuration error.
func Config(message string) *TrydepsError {
	return &TrydepsError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *TrydepsError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *TrydepsError {
	return &TrydepsError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *TrydepsError {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *TrydepsError {
	return &TrydepsError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// ScenarioError creates an error for a specific scenario lifecycle phase.
func ScenarioError(scenario, phase, message string) *TrydepsError {
	return &TrydepsError{
		Kind:     KindRuntime,
		Scenario: scenario,
		Phase:    phase,
		Message:  message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *TrydepsError {
	return &TrydepsError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if te, ok := err.(*TrydepsError); ok {
		return te.ExitCode()
	}
	return ExitRuntimeError
}
