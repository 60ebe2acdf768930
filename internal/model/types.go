package model

import (
	"errors"
	"fmt"
)

// ExitCode defines the process exit codes produced by dog itself.
// The exit code of the command run inside the container is never mapped
// to one of these; it is propagated verbatim through ExitStatus.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unexpected failure (I/O errors and
	// similar conditions that are not configuration mistakes).
	ExitGeneralError ExitCode = 1

	// ExitUsage indicates the command line could not be parsed.
	ExitUsage ExitCode = 2

	// ExitConfigError indicates an invalid or inconsistent configuration:
	// missing [dog] section, unknown file version, missing image,
	// unknown substitution reference, include cycles and so on.
	ExitConfigError ExitCode = 3

	// ExitEnvironmentError indicates the host environment does not satisfy
	// the configuration, e.g. a variable named in user-env-vars is unset.
	ExitEnvironmentError ExitCode = 4

	// ExitToolError indicates an external tool (docker, podman,
	// docker-compose) could not be queried or is too old.
	ExitToolError ExitCode = 5

	// ExitInterrupted is returned when the user interrupts a blocking
	// external call with Ctrl+C. It is -1 truncated to an exit status byte.
	ExitInterrupted ExitCode = 255
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// NewCLIErrorf creates a new CLIError with a formatted message.
func NewCLIErrorf(code ExitCode, format string, args ...any) *CLIError {
	return &CLIError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// ExitStatus reports the exit status of a child process that dog waited
// for. It is not a failure of dog: cli.Execute exits with Code without
// printing anything.
type ExitStatus struct {
	Code int
}

func (e *ExitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCodeOf maps any error returned by the command tree to the process
// exit code dog should terminate with.
func ExitCodeOf(err error) int {
	if err == nil {
		return int(ExitSuccess)
	}
	var status *ExitStatus
	if errors.As(err, &status) {
		return status.Code
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return int(cliErr.Code)
	}
	return int(ExitGeneralError)
}
