package chatpipe

import (
	"github.com/chatpipe/chatpipe-go/internal/subprocess"
)

// State tracks a request through its lifecycle. Terminal states destroy
// the exchange record.
type State int

// Request lifecycle states.
const (
	StateLaunched State = iota
	StateStreaming
	StateCompleted
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateLaunched:
		return "launched"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Exchange is the per-request record the pipeline keeps for each live
// external process. Exactly one exchange exists per process; it is created
// at launch, mutated by the output handlers, and destroyed atomically when
// the process terminates.
//
// Exchange fields are only coherent inside pipeline callbacks; a handler
// may read the accessors of the exchange it was handed, nothing more.
type Exchange struct {
	token      string
	state      State
	buffer     Buffer
	position   int
	inPlace    bool
	marker     Marker // nil until the first chunk arrives
	bodyStart  int    // position just after the opening delimiter
	transform  TransformFunc
	handler    ChunkHandler
	onDone     func(res Result)
	redirected bool
	proc       *subprocess.Process
}

// Token returns the unique request id.
func (e *Exchange) Token() string { return e.token }

// State returns the current lifecycle state.
func (e *Exchange) State() State { return e.state }

// Buffer returns the buffer the response currently renders into. After a
// read-only redirect this is the shared fallback buffer.
func (e *Exchange) Buffer() Buffer { return e.buffer }

// Redirected reports whether rendering moved to the fallback buffer.
func (e *Exchange) Redirected() bool { return e.redirected }
