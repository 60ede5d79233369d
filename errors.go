package chatpipe

import (
	"github.com/chatpipe/chatpipe-go/internal/errors"
)

// Error types re-exported from the internal errors package.
type (
	// ToolNotFoundError indicates the external chat CLI binary was not found.
	ToolNotFoundError = errors.ToolNotFoundError

	// LaunchError indicates the external process could not be started.
	LaunchError = errors.LaunchError

	// ProcessError indicates the external process terminated with a status
	// other than the finished signal.
	ProcessError = errors.ProcessError
)

// Sentinel errors re-exported from the internal errors package.
var (
	// ErrNilBuffer indicates a request was submitted without a target buffer.
	ErrNilBuffer = errors.ErrNilBuffer

	// ErrNilFrontend indicates a pipeline was built without a frontend.
	ErrNilFrontend = errors.ErrNilFrontend
)
