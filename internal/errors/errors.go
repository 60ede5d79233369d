package errors

import (
	"errors"
	"fmt"
	"strings"
)

// BridgeError is the base interface for all errors this module produces.
type BridgeError interface {
	error
	IsBridgeError() bool
}

// Compile-time verification that all error types implement BridgeError.
var (
	_ BridgeError = (*ToolNotFoundError)(nil)
	_ BridgeError = (*LaunchError)(nil)
	_ BridgeError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNilBuffer indicates a request was submitted without a target buffer.
	ErrNilBuffer = errors.New("request buffer is nil")

	// ErrNilFrontend indicates a pipeline was built without a frontend.
	ErrNilFrontend = errors.New("frontend is nil")
)

// ToolNotFoundError indicates the external chat CLI binary was not found.
type ToolNotFoundError struct {
	SearchedPaths []string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("chat CLI not found in: %v", e.SearchedPaths)
}

// IsBridgeError implements BridgeError.
func (e *ToolNotFoundError) IsBridgeError() bool { return true }

// LaunchError indicates the external process could not be started.
type LaunchError struct {
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch chat CLI: %v", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *LaunchError) IsBridgeError() bool { return true }

// ProcessError indicates the external process terminated with a status
// other than the finished signal.
type ProcessError struct {
	// Status is the raw terminal status string, e.g. "killed\n".
	Status string

	// Stderr holds the captured standard error output, when any.
	Stderr string
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("chat process failed (%s): %s", strings.TrimSpace(e.Status), e.Stderr)
	}

	return fmt.Sprintf("chat process failed: %s", strings.TrimSpace(e.Status))
}

// IsBridgeError implements BridgeError.
func (e *ProcessError) IsBridgeError() bool { return true }
