package chatpipe

import (
	"github.com/chatpipe/chatpipe-go/internal/serialize"
)

// Message is one role-tagged turn of a conversation, in chronological order.
type Message = serialize.Message

// Role tags a conversation message with its author.
type Role = serialize.Role

// Conversation roles.
const (
	RoleSystem    = serialize.RoleSystem
	RoleUser      = serialize.RoleUser
	RoleAssistant = serialize.RoleAssistant
)

// Status is the state of a buffer's status indicator.
type Status int

// Status indicator states.
const (
	StatusReady Status = iota
	StatusWorking
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusWorking:
		return "working"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// TransformFunc rewrites sanitized text before insertion, e.g. converting
// one markup dialect to another. It is applied per chunk and must tolerate
// arbitrary split points.
type TransformFunc func(text string) string

// ChunkHandler receives sanitized process output together with the exchange
// it belongs to. Handlers run serialized on the pipeline's delivery path;
// they must be kept short and must not block.
type ChunkHandler func(text string, ex *Exchange)

// Request describes one submission to the external tool.
type Request struct {
	// Prompt is the ordered conversation history ending in the user turn
	// to answer.
	Prompt []Message

	// Buffer is the document the response renders into.
	Buffer Buffer

	// Position is the insertion position within Buffer.
	Position int

	// InPlace suppresses the leading paragraph break, for in-place edits.
	InPlace bool

	// OnChunk overrides the default response renderer. When nil, sanitized
	// output is inserted into Buffer at a tracking marker.
	OnChunk ChunkHandler

	// OnDone, when set, receives the terminal outcome of the request.
	OnDone func(res Result)
}

// Result reports the terminal outcome of a request.
type Result struct {
	// Token is the request id returned by Submit.
	Token string

	// Success is true iff the process terminated with the finished signal.
	Success bool

	// Status is the raw terminal status string, e.g. "finished\n".
	Status string

	// Err carries the failure as a *ProcessError; nil on success.
	Err error
}
